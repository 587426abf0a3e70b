// Package probe issues existence/access probes against a REST-style data
// API and classifies the outcome of each one.
package probe

import "context"

// StatusClass is the backend-agnostic view of a probe response. Mapping raw
// HTTP status codes to a class is the transport's job; the classifier never
// sees a status-code convention directly.
type StatusClass int

const (
	StatusSuccess StatusClass = iota
	StatusAuthRequired
	StatusForbidden
	StatusNotFound
	StatusOther
)

func (s StatusClass) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusAuthRequired:
		return "auth-required"
	case StatusForbidden:
		return "forbidden"
	case StatusNotFound:
		return "not-found"
	default:
		return "other"
	}
}

// Response is the parsed result of one read-style request.
type Response struct {
	Class      StatusClass
	StatusCode int
	// Rows holds the parsed record collection for successful responses.
	// A non-nil empty slice means the resource exists and is empty; nil
	// means the body was not a parseable record collection.
	Rows   []Record
	Detail string // human-readable detail for non-success or parse failures
}

// Record is one weakly-typed row sampled from a resource.
type Record map[string]any

// Transport performs one read-style request per resource name, optionally
// capped to limit rows. Implementations must enforce a timeout and must
// never return an error for ordinary non-2xx responses; those are data.
// Errors are reserved for transport-level failures (timeout, DNS, reset).
type Transport interface {
	Probe(ctx context.Context, resource string, limit int) (*Response, error)
}
