package fakeapi_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/spoke/internal/fakeapi"
)

func request(customer, key, typ, orderID string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<Request>
  <Customer>` + customer + `</Customer>
  <RequestType>` + typ + `</RequestType>
  <Key>` + key + `</Key>
  <Order>
    <OrderId>` + orderID + `</OrderId>
  </Order>
</Request>`
}

func post(t *testing.T, srv *httptest.Server, body string) *etree.Element {
	t.Helper()
	resp, err := http.Post(srv.URL+fakeapi.SubmitPath, "application/xml", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))
	return doc.Root()
}

func text(e *etree.Element, path string) string {
	if c := e.FindElement(path); c != nil {
		return c.Text()
	}
	return ""
}

func TestServer_Lifecycle(t *testing.T) {
	at := time.Date(2011, 11, 10, 3, 50, 28, 0, time.FixedZone("", -5*3600))
	api := fakeapi.New("abc123", "secret", fakeapi.WithFirstID(100), fakeapi.WithClock(func() time.Time { return at }))
	srv := httptest.NewServer(api)
	defer srv.Close()

	root := post(t, srv, request("abc123", "secret", "New", "A-1"))
	assert.Equal(t, "ResponseSuccess", root.Tag)
	assert.Equal(t, "Success", text(root, "result"))
	assert.Equal(t, "100", text(root, "immc_id"))
	assert.Equal(t, "11/10/2011 03:50:28 -05:00", text(root, "time"))

	root = post(t, srv, request("abc123", "secret", "New", "A-2"))
	assert.Equal(t, "101", text(root, "immc_id"))

	root = post(t, srv, request("abc123", "secret", "New", "A-1"))
	assert.Equal(t, "Failure", text(root, "result"))
	assert.Equal(t, fakeapi.MsgDuplicate, text(root, "message"))

	root = post(t, srv, request("abc123", "secret", "Update", "A-1"))
	assert.Equal(t, "100", text(root, "immc_id"))

	root = post(t, srv, request("abc123", "secret", "Cancel", "A-1"))
	assert.Equal(t, "100", text(root, "immc_id"))

	root = post(t, srv, request("abc123", "secret", "Update", "A-1"))
	assert.Equal(t, fakeapi.MsgCanceled, text(root, "message"))

	root = post(t, srv, request("abc123", "secret", "Cancel", "missing"))
	assert.Equal(t, fakeapi.MsgNotFound, text(root, "message"))

	id, ok := api.ImmcID("A-2")
	assert.True(t, ok)
	assert.Equal(t, 101, id)

	reqs := api.Requests()
	require.Len(t, reqs, 7)
	assert.Equal(t, "Cancel", reqs[4].Type)
	assert.Equal(t, "A-1", reqs[4].OrderID)
}

func TestServer_Rejections(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New("abc123", "secret"))
	defer srv.Close()

	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"bad key", request("abc123", "wrong", "New", "1"), fakeapi.MsgBadCredentials},
		{"bad customer", request("nobody", "secret", "New", "1"), fakeapi.MsgBadCredentials},
		{"no order id", request("abc123", "secret", "New", ""), fakeapi.MsgBadRequest},
		{"unknown type", request("abc123", "secret", "Refund", "1"), fakeapi.MsgBadType},
		{"not xml", "{}", fakeapi.MsgBadRequest},
		{"wrong root", "<Order/>", fakeapi.MsgBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := post(t, srv, tc.body)
			assert.Equal(t, "Failure", text(root, "result"))
			assert.Equal(t, tc.msg, text(root, "message"))
		})
	}
}

func TestServer_OnlyPost(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New("c", "k"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + fakeapi.SubmitPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/elsewhere", "application/xml", strings.NewReader("<Request/>"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
