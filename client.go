package spoke

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/reoring/spoke/i18n"
	"github.com/reoring/spoke/validate"
)

// Client submits order requests for one customer account. Its configuration
// is fixed at construction and it holds no other state, so a Client may be
// shared between goroutines.
type Client struct {
	customer   string
	key        string
	production bool
	logo       *Image
	transport  Transport
	logger     *zap.Logger
}

type options struct {
	logger     *zap.Logger
	httpClient *http.Client
	url        string
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the logger used for requests and replies.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHTTPClient sets the http.Client of the default transport.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithURL sends requests to url instead of the production or staging
// endpoint. It has no effect when a transport is given.
func WithURL(url string) Option { return func(o *options) { o.url = url } }

var transportRule = validate.RuleFunc(func(_ context.Context, v any) (any, error) {
	if t, ok := v.(Transport); ok && t != nil {
		return t, nil
	}
	iss := validate.Root().Issue(validate.CodeInvalidType, i18n.T(validate.CodeInvalidType, nil))
	iss.Hint = "expected a spoke.Transport"
	return nil, validate.Issues{iss}
})

var clientSchema = validate.Object("Spoke").
	Field("production", validate.Bool()).Required().
	Field("transport", transportRule).Optional().
	Field("Customer", validate.Text()).Required().
	Field("Key", validate.Text()).Required().
	Field("Logo", imageRecord).Optional().
	MustBuild()

// ClientSchema describes the parameters accepted by NewClient.
func ClientSchema() *validate.Schema { return clientSchema }

// NewClient validates params and returns a Client.
//
// Parameters: production (bool, required) selects ProductionURL or
// StagingURL; Customer and Key (required) identify the account; transport
// (Transport, optional) replaces the HTTP transport; Logo (Image or mapping,
// optional).
func NewClient(ctx context.Context, params map[string]any, opts ...Option) (*Client, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	v, err := clientSchema.Apply(ctx, params)
	if err != nil {
		return nil, err
	}
	c := &Client{
		customer:   v.Text("Customer"),
		key:        v.Text("Key"),
		production: v.Bool("production"),
		logo:       validate.Get[*Image](v, "Logo"),
		transport:  validate.Get[Transport](v, "transport"),
		logger:     o.logger,
	}
	if c.transport == nil {
		url := o.url
		if url == "" {
			url = StagingURL
			if c.production {
				url = ProductionURL
			}
		}
		c.transport = NewHTTPTransport(url, o.httpClient, o.logger)
	}
	return c, nil
}

// Customer returns the customer id sent with every request.
func (c *Client) Customer() string { return c.customer }

// Production reports whether the client was created for the production
// endpoint.
func (c *Client) Production() bool { return c.production }

// Transport returns the transport requests are sent through.
func (c *Client) Transport() Transport { return c.transport }

// Logo returns the configured logo, or nil. It is not sent with requests.
func (c *Client) Logo() *Image { return c.logo }
