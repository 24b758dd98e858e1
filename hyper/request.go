package hyper

import "context"

// Request carries what an affordance handler needs to service one incoming
// exchange: the matched affordance identifier, the request line that matched
// it, and the decoded form parameters.
type Request struct {
	// AffordanceID identifies the affordance servicing this exchange.
	AffordanceID string

	// Method and URI are the request line as received.
	Method string
	URI    string

	// Params holds the decoded form parameters, keyed by Input identifier.
	Params map[string]any

	// Body is the raw request payload, nil when there was none.
	Body []byte
}

// Response is a handler's verdict on an exchange: the response code keys the
// affordance's message table, the body is returned to the client ahead of
// the assembled document.
type Response struct {
	Code string
	Body string
}

// HandlerFunc services an incoming request bound to an affordance. Handlers
// must not retain the request past the call.
type HandlerFunc func(ctx context.Context, req *Request) *Response

// defaultHandler is the identity no-op: success, empty body.
func defaultHandler(ctx context.Context, req *Request) *Response {
	return &Response{Code: "200"}
}
