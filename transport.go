package spoke

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ProductionURL = "https://api.spokecustom.com/order/submit"
	StagingURL    = "https://api-staging.spokecustom.com/order/submit"
)

// Transport delivers a serialized request and returns the raw reply.
type Transport interface {
	Send(ctx context.Context, request []byte) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, request []byte) ([]byte, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, request []byte) ([]byte, error) {
	return f(ctx, request)
}

// HTTPTransport POSTs requests to a single endpoint. Timeouts belong to the
// http.Client and the caller's context.
type HTTPTransport struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPTransport returns a transport for url. A nil client means
// http.DefaultClient and a nil logger disables logging.
func NewHTTPTransport(url string, client *http.Client, logger *zap.Logger) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{url: url, client: client, logger: logger}
}

// URL returns the endpoint requests are sent to.
func (t *HTTPTransport) URL() string { return t.url }

// Send POSTs request to the endpoint and returns the reply body. A non-2xx
// status is a *TransportError.
func (t *HTTPTransport) Send(ctx context.Context, request []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(request))
	if err != nil {
		return nil, fmt.Errorf("spoke: build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	req.Header.Set("X-Request-Id", reqID)

	log := t.logger.With(zap.String("request_id", reqID), zap.String("url", t.url))
	resp, err := t.client.Do(req)
	if err != nil {
		log.Warn("post failed", zap.Error(err))
		return nil, fmt.Errorf("spoke: POST %s: %w", t.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("spoke: read reply: %w", err)
	}
	log.Debug("reply received", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(body)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: t.url, StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
	}
	return body, nil
}
