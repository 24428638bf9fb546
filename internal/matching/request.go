package matching

import "net/http"

// MatchPath reports whether the request path equals the expected path.
func MatchPath(expected, actual string) bool {
	return expected == actual
}

// MatchMethod reports whether the request method equals the expected one.
// Methods are case-sensitive tokens, so "get" does not match "GET".
func MatchMethod(expected, actual string) bool {
	return expected == actual
}

// Criteria is the set of checks a request has to pass.
type Criteria struct {
	Path    string
	Method  string
	Headers map[string]string
}

// Match runs every check in Criteria against r.
// The path is compared in its escaped form, as sent on the wire.
func Match(c Criteria, r *http.Request) bool {
	return MatchPath(c.Path, r.URL.EscapedPath()) &&
		MatchMethod(c.Method, r.Method) &&
		MatchHeaders(c.Headers, r.Header)
}
