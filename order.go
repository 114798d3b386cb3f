package spoke

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/reoring/spoke/validate"
	"github.com/reoring/spoke/xmltree"
)

// RequestType is the operation discriminator sent in every request.
type RequestType string

const (
	RequestNew    RequestType = "New"
	RequestUpdate RequestType = "Update"
	RequestCancel RequestType = "Cancel"
)

type newOrder struct {
	OrderID          string
	ShippingMethod   ShippingMethod
	ShippingAccount  string
	ShippingMethodID string
	PackSlip         *Image
	Comments         []*Comment
	OrderInfo        *OrderInfo
	Cases            []*Case

	blank keySet
}

// A new order names its shipping either by ShippingMethod or by the
// ShippingAccount and ShippingMethodId pair.
var newOrderRecord = validate.NewRecord(
	validate.Object("New").
		Field("OrderId", validate.Text()).Required().
		Field("ShippingMethod", validate.Enum(shippingMethodNames()...)).RequiredOnlyIfNot("ShippingAccount", "ShippingMethodId").
		Field("ShippingAccount", validate.Text()).RequiredOnlyIfNot("ShippingMethod").
		Field("ShippingMethodId", validate.Text()).RequiredOnlyIfNot("ShippingMethod").
		Field("PackSlip", imageRecord).Optional().
		Field("Comments", validate.Array(commentRecord)).ElementTag("Comment").Optional().
		Field("OrderInfo", orderInfoRecord).Required().
		Field("Cases", validate.Array(caseRecord)).ElementTag("CaseInfo").Required().
		MustBuild(),
	func(v validate.Values) *newOrder {
		return &newOrder{
			OrderID:          v.Text("OrderId"),
			ShippingMethod:   ShippingMethod(v.Text("ShippingMethod")),
			ShippingAccount:  v.Text("ShippingAccount"),
			ShippingMethodID: v.Text("ShippingMethodId"),
			PackSlip:         validate.Get[*Image](v, "PackSlip"),
			Comments:         validate.List[*Comment](v, "Comments"),
			OrderInfo:        validate.Get[*OrderInfo](v, "OrderInfo"),
			Cases:            validate.List[*Case](v, "Cases"),
			blank:            blankKeys(v),
		}
	},
)

func (o *newOrder) TreeFields() []xmltree.Field {
	f := fieldsOf(newOrderRecord.Schema(), o.blank).add("OrderId", o.OrderID)
	if o.ShippingMethod != "" {
		f.add("ShippingMethod", o.ShippingMethod.Code())
	}
	return f.
		opt("ShippingAccount", o.ShippingAccount).
		opt("ShippingMethodId", o.ShippingMethodID).
		opt("PackSlip", o.PackSlip).
		opt("Comments", o.Comments).
		add("OrderInfo", o.OrderInfo).
		add("Cases", o.Cases).
		list()
}

type updateOrder struct {
	OrderID   string
	OrderInfo *OrderInfo
}

var updateOrderRecord = validate.NewRecord(
	validate.Object("Update").
		Field("OrderId", validate.Text()).Required().
		Field("OrderInfo", orderInfoRecord).Required().
		MustBuild(),
	func(v validate.Values) *updateOrder {
		return &updateOrder{OrderID: v.Text("OrderId"), OrderInfo: validate.Get[*OrderInfo](v, "OrderInfo")}
	},
)

func (o *updateOrder) TreeFields() []xmltree.Field {
	return fieldsOf(updateOrderRecord.Schema(), nil).
		add("OrderId", o.OrderID).
		add("OrderInfo", o.OrderInfo).
		list()
}

// OrderSchema returns the parameter schema of an operation.
func OrderSchema(rt RequestType) (*validate.Schema, bool) {
	switch rt {
	case RequestNew:
		return newOrderRecord.Schema(), true
	case RequestUpdate:
		return updateOrderRecord.Schema(), true
	case RequestCancel:
		return cancelOrderSchema, true
	}
	return nil, false
}

// RecordSchemas maps record names to their schemas.
func RecordSchemas() map[string]*validate.Schema {
	return map[string]*validate.Schema{
		"Image":              imageRecord.Schema(),
		"Comment":            commentRecord.Schema(),
		"PackSlipCustomInfo": packSlipCustomInfoRecord.Schema(),
		"Prices":             pricesRecord.Schema(),
		"OrderInfo":          orderInfoRecord.Schema(),
		"Case":               caseRecord.Schema(),
	}
}

// NewRequest validates params and returns the serialized New request without
// sending it.
//
// Parameters: OrderId, ShippingMethod (or ShippingAccount and
// ShippingMethodId), OrderInfo, Cases (non-empty) and optionally PackSlip and
// Comments. Nested records may be given as values or as mappings.
func (c *Client) NewRequest(ctx context.Context, params map[string]any) ([]byte, error) {
	o, err := newOrderRecord.New(ctx, params)
	if err != nil {
		return nil, err
	}
	return c.render(RequestNew, o)
}

// New submits a new order.
func (c *Client) New(ctx context.Context, params map[string]any) (Result, error) {
	o, err := newOrderRecord.New(ctx, params)
	if err != nil {
		return Result{}, err
	}
	body, err := c.render(RequestNew, o)
	if err != nil {
		return Result{}, err
	}
	return c.send(ctx, RequestNew, o.OrderID, body)
}

// UpdateRequest validates params (OrderId, OrderInfo) and returns the
// serialized Update request without sending it.
func (c *Client) UpdateRequest(ctx context.Context, params map[string]any) ([]byte, error) {
	o, err := updateOrderRecord.New(ctx, params)
	if err != nil {
		return nil, err
	}
	return c.render(RequestUpdate, o)
}

// Update replaces the OrderInfo of an existing order.
func (c *Client) Update(ctx context.Context, params map[string]any) (Result, error) {
	o, err := updateOrderRecord.New(ctx, params)
	if err != nil {
		return Result{}, err
	}
	body, err := c.render(RequestUpdate, o)
	if err != nil {
		return Result{}, err
	}
	return c.send(ctx, RequestUpdate, o.OrderID, body)
}

var cancelOrderSchema = validate.Object("Cancel").
	Field("OrderId", validate.Text()).Required().
	MustBuild()

// CancelRequest returns the serialized Cancel request for orderID. An empty
// orderID is a ValidationError.
func (c *Client) CancelRequest(ctx context.Context, orderID string) ([]byte, error) {
	params := map[string]any{}
	if orderID != "" {
		params["OrderId"] = orderID
	}
	v, err := cancelOrderSchema.Apply(ctx, params)
	if err != nil {
		return nil, err
	}
	return c.render(RequestCancel, xmltree.Map{{Name: "OrderId", Value: v.Text("OrderId")}})
}

// Cancel cancels an order. An empty orderID is rejected with a
// ValidationError before anything is sent.
func (c *Client) Cancel(ctx context.Context, orderID string) (Result, error) {
	body, err := c.CancelRequest(ctx, orderID)
	if err != nil {
		return Result{}, err
	}
	return c.send(ctx, RequestCancel, orderID, body)
}

func (c *Client) render(rt RequestType, order xmltree.Node) ([]byte, error) {
	body, err := xmltree.Marshal("Request", xmltree.Map{
		{Name: "Customer", Value: c.customer},
		{Name: "RequestType", Value: string(rt)},
		{Name: "Key", Value: c.key},
		{Name: "Order", Value: order},
	})
	if err != nil {
		return nil, fmt.Errorf("spoke: serialize %s request: %w", rt, err)
	}
	return body, nil
}

func (c *Client) send(ctx context.Context, rt RequestType, orderID string, body []byte) (Result, error) {
	log := c.logger.With(zap.String("request_type", string(rt)), zap.String("order_id", orderID))
	log.Debug("sending request", zap.Int("bytes", len(body)))

	reply, err := c.transport.Send(ctx, body)
	if err != nil {
		log.Warn("send failed", zap.Error(err))
		return Result{}, fmt.Errorf("spoke: send %s request: %w", rt, err)
	}
	res, err := ParseReply(reply)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			log.Warn("request rejected", zap.Stringer("kind", apiErr.Kind), zap.String("message", apiErr.Message))
		} else {
			log.Warn("unreadable reply", zap.Error(err))
		}
		return Result{}, err
	}
	log.Info("request accepted", zap.Int("immc_id", res.ImmcID))
	return res, nil
}
