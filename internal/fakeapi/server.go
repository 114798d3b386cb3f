// Package fakeapi is an in-memory stand-in for the Spoke order endpoint. It
// understands New, Update and Cancel requests, checks credentials and rejects
// reused order ids the way the real service does.
package fakeapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SubmitPath is the route requests are posted to.
const SubmitPath = "/order/submit"

// Failure messages.
const (
	MsgBadCredentials = "Invalid Customer or Key"
	MsgDuplicate      = "Duplicate OrderId found"
	MsgNotFound       = "OrderId not found"
	MsgCanceled       = "Order has been canceled"
	MsgBadRequest     = "Malformed request"
	MsgBadType        = "Unknown RequestType"
)

// Request is a request the server has accepted or rejected.
type Request struct {
	Type    string
	OrderID string
	Body    []byte
}

type order struct {
	immcID   int
	canceled bool
}

// Server implements http.Handler.
type Server struct {
	customer string
	key      string
	logger   *zap.Logger
	now      func() time.Time
	router   *mux.Router

	mu       sync.Mutex
	nextID   int
	orders   map[string]*order
	requests []Request
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for accepted and rejected requests.
func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.logger = l } }

// WithFirstID sets the immc_id given to the first new order.
func WithFirstID(id int) Option { return func(s *Server) { s.nextID = id } }

// WithClock sets the time source of the reply timestamp.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// New returns a server accepting the given credentials.
func New(customer, key string, opts ...Option) *Server {
	s := &Server{
		customer: customer,
		key:      key,
		logger:   zap.NewNop(),
		now:      time.Now,
		nextID:   12345,
		orders:   map[string]*order{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = mux.NewRouter()
	s.router.HandleFunc(SubmitPath, s.submit).Methods(http.MethodPost)
	return s
}

// ServeHTTP routes r to the order endpoint.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// ImmcID returns the id assigned to orderID.
func (s *Server) ImmcID(orderID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return 0, false
	}
	return o.immcID, true
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(zap.String("request_id", r.Header.Get("X-Request-Id")))
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil || doc.Root() == nil || doc.Root().Tag != "Request" {
		log.Info("malformed request")
		s.reply(w, failure(MsgBadRequest))
		return
	}
	root := doc.Root()
	req := Request{
		Type:    childText(root, "RequestType"),
		OrderID: childText(root, "Order/OrderId"),
		Body:    body,
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	id, msg := s.apply(root, req)
	s.mu.Unlock()

	log = log.With(zap.String("request_type", req.Type), zap.String("order_id", req.OrderID))
	if msg != "" {
		log.Info("request rejected", zap.String("message", msg))
		s.reply(w, failure(msg))
		return
	}
	log.Info("request accepted", zap.Int("immc_id", id))
	s.reply(w, s.success(id))
}

// apply runs with s.mu held.
func (s *Server) apply(root *etree.Element, req Request) (int, string) {
	if childText(root, "Customer") != s.customer || childText(root, "Key") != s.key {
		return 0, MsgBadCredentials
	}
	if req.OrderID == "" {
		return 0, MsgBadRequest
	}
	existing := s.orders[req.OrderID]
	switch req.Type {
	case "New":
		if existing != nil {
			return 0, MsgDuplicate
		}
		id := s.nextID
		s.nextID++
		s.orders[req.OrderID] = &order{immcID: id}
		return id, ""
	case "Update", "Cancel":
		if existing == nil {
			return 0, MsgNotFound
		}
		if existing.canceled {
			return 0, MsgCanceled
		}
		existing.canceled = req.Type == "Cancel"
		return existing.immcID, ""
	}
	return 0, MsgBadType
}

func (s *Server) success(id int) *etree.Document {
	doc := newReply()
	root := doc.CreateElement("ResponseSuccess")
	root.CreateElement("result").SetText("Success")
	root.CreateElement("time").SetText(s.now().Format("01/02/2006 15:04:05 -07:00"))
	root.CreateElement("immc_id").SetText(strconv.Itoa(id))
	return doc
}

func failure(msg string) *etree.Document {
	doc := newReply()
	root := doc.CreateElement("ResponseFailure")
	root.CreateElement("result").SetText("Failure")
	root.CreateElement("message").SetText(msg)
	return doc
}

func newReply() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	return doc
}

func (s *Server) reply(w http.ResponseWriter, doc *etree.Document) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := doc.WriteTo(w); err != nil {
		s.logger.Warn("write reply", zap.Error(err))
	}
}

func childText(e *etree.Element, path string) string {
	c := e.FindElement(path)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
