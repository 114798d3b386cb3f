// Package spoke is a client for the Spoke print-on-demand order API.
//
// Parameters of every record and operation are checked against a schema
// before anything is sent:
//
//	c, err := spoke.NewClient(ctx, map[string]any{
//		"production": false,
//		"Customer":   "abc123",
//		"Key":        "secret",
//	})
//	res, err := c.New(ctx, map[string]any{
//		"OrderId":        1,
//		"ShippingMethod": spoke.Overnight,
//		"OrderInfo":      info,
//		"Cases":          []*spoke.Case{cs},
//	})
//
// Invalid parameters yield a ValidationError. Rejected requests yield an
// *APIError, matched with errors.Is against ErrAPI or ErrDuplicateOrder.
package spoke
