package spoke

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/reoring/spoke/validate"
)

// ValidationError is returned, before any network call, when parameters do
// not satisfy a record or operation schema. Inspect individual entries by Code
// (validate.CodeRequired, validate.CodeUnknownKey, ...) and Path.
type ValidationError = validate.Issues

// IsValidationError reports whether err carries validation issues.
func IsValidationError(err error) bool {
	_, ok := validate.AsIssues(err)
	return ok
}

var (
	// ErrAPI matches every *APIError.
	ErrAPI = errors.New("spoke: api error")
	// ErrDuplicateOrder matches an *APIError rejecting an already used OrderId.
	ErrDuplicateOrder = errors.New("spoke: duplicate order id")
	// ErrMalformedReply is wrapped when a reply cannot be understood.
	ErrMalformedReply = errors.New("spoke: malformed reply")
)

// ErrorKind classifies a rejection returned by the API.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindDuplicateOrder
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateOrder:
		return "duplicate order"
	default:
		return "api error"
	}
}

// APIError is returned when the API answers with a result other than Success.
type APIError struct {
	Kind    ErrorKind
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("spoke: %s: %s", e.Kind, e.Message) }

// Is lets errors.Is match ErrAPI for every APIError and the sentinel of the
// specific kind.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrDuplicateOrder:
		return e.Kind == KindDuplicateOrder
	}
	return false
}

type classification struct {
	pattern *regexp.Regexp
	kind    ErrorKind
}

// classifications are tried in order; the first match wins.
var classifications = []classification{
	{pattern: regexp.MustCompile(`(?i)duplicate\s*order\s*id`), kind: KindDuplicateOrder},
}

func classify(message string) ErrorKind {
	for _, c := range classifications {
		if c.pattern.MatchString(message) {
			return c.kind
		}
	}
	return KindGeneric
}

func newAPIError(message string) *APIError {
	return &APIError{Kind: classify(message), Message: message}
}

// TransportError is returned by HTTPTransport for a non-2xx response.
type TransportError struct {
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("spoke: POST %s: %s", e.URL, e.Status)
}
