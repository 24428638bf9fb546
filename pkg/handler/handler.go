package handler

import (
	"maps"
	"net/http"
	"slices"

	"github.com/getmockd/queuestub/internal/matching"
)

// Handler evaluates one inbound request and returns the response to send.
type Handler interface {
	Evaluate(r *http.Request) Response
}

// Response is a fully materialized HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// InternalError returns the generic failure response: status 500, no headers, no body.
func InternalError() Response {
	return Response{StatusCode: http.StatusInternalServerError}
}

// WritableStatus reports whether code can be sent as a final response status.
// 1xx codes are informational and would be followed by an implicit 200.
func WritableStatus(code int) bool {
	return code >= 200 && code <= 999
}

// Default is the handler used when nothing is queued. It always returns InternalError.
var Default Handler = defaultHandler{}

type defaultHandler struct{}

func (defaultHandler) Evaluate(*http.Request) Response {
	return InternalError()
}

// Spec is an immutable handler built by Builder.
type Spec struct {
	criteria matching.Criteria
	response Response
}

// Evaluate returns the configured response if r satisfies every criterion,
// InternalError otherwise.
func (s *Spec) Evaluate(r *http.Request) Response {
	if !s.Matches(r) {
		return InternalError()
	}
	return Response{
		StatusCode: s.response.StatusCode,
		Header:     s.response.Header.Clone(),
		Body:       slices.Clone(s.response.Body),
	}
}

// Matches reports whether r satisfies the path, method and header criteria.
func (s *Spec) Matches(r *http.Request) bool {
	return matching.Match(s.criteria, r)
}

// Path returns the expected request path.
func (s *Spec) Path() string { return s.criteria.Path }

// Method returns the expected request method.
func (s *Spec) Method() string { return s.criteria.Method }

// RequestHeaders returns a copy of the required request headers.
func (s *Spec) RequestHeaders() map[string]string { return maps.Clone(s.criteria.Headers) }

// StatusCode returns the status sent on a match.
func (s *Spec) StatusCode() int { return s.response.StatusCode }

// String identifies the spec in logs.
func (s *Spec) String() string {
	return s.criteria.Method + " " + s.criteria.Path
}

// Func adapts an ordinary function to the Handler interface.
type Func func(r *http.Request) Response

// Evaluate calls f(r).
func (f Func) Evaluate(r *http.Request) Response {
	return f(r)
}
