package spoke_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reoring/spoke"
)

const (
	customerName = "abc123"
	customerKey  = "abc123"
)

const successReply = `<?xml version="1.0" encoding="utf-8" ?>
<ResponseSuccess>
  <result>Success</result>
  <time>11/10/2011 03:50:28 -05:00</time>
  <immc_id>12345</immc_id>
</ResponseSuccess>`

func failureReply(msg string) string {
	return `<?xml version="1.0" encoding="utf-8" ?><ResponseFailure><result>Failure</result><message>` + msg + `</message></ResponseFailure>`
}

// fauxTransport answers every request with a canned reply and keeps what it
// was sent.
type fauxTransport struct {
	reply string

	mu   sync.Mutex
	sent [][]byte
}

func (f *fauxTransport) Send(_ context.Context, request []byte) ([]byte, error) {
	f.mu.Lock()
	f.sent = append(f.sent, request)
	f.mu.Unlock()
	return []byte(f.reply), nil
}

func (f *fauxTransport) last() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func newTestClient(t *testing.T, tr spoke.Transport) *spoke.Client {
	t.Helper()
	c, err := spoke.NewClient(context.Background(), map[string]any{
		"Customer":   customerName,
		"Key":        customerKey,
		"production": false,
		"transport":  tr,
	})
	require.NoError(t, err)
	return c
}

var orderDate = time.Date(2012, time.March, 4, 15, 0, 0, 0, time.UTC)

func orderInfoParams() map[string]any {
	return map[string]any{
		"Address1":    "123 Fake St",
		"City":        "Funkytown",
		"CountryCode": "US",
		"FirstName":   "Xavier",
		"LastName":    "Ample",
		"OrderDate":   orderDate,
		"PhoneNumber": "555 555 5555",
		"PostalCode":  "12345",
		"State":       "IL",
	}
}

func caseParams() map[string]any {
	return map[string]any{
		"CaseId":   1234,
		"CaseType": "iph4tough",
		"PrintImage": map[string]any{
			"ImageType": "jpg",
			"Url":       "http://threadless.com/nothing.jpg",
		},
		"Quantity": 1,
	}
}

func newOrderParams() map[string]any {
	return map[string]any{
		"Cases":          []any{caseParams()},
		"OrderId":        2,
		"OrderInfo":      orderInfoParams(),
		"ShippingMethod": "FirstClass",
	}
}

func without(params map[string]any, key string) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if k != key {
			out[k] = v
		}
	}
	return out
}

func with(params map[string]any, key string, v any) map[string]any {
	out := without(params, key)
	out[key] = v
	return out
}
