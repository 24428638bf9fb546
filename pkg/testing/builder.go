package testing

import (
	"github.com/getmockd/queuestub/pkg/handler"
)

// MockBuilder configures one expectation using a fluent API.
type MockBuilder struct {
	server  *MockServer
	builder *handler.Builder
}

// WithStatus sets the HTTP response status code.
// Default is 200 (OK).
func (b *MockBuilder) WithStatus(status int) *MockBuilder {
	b.builder.WithStatus(status)
	return b
}

// WithBody sets the response body.
// For structs/maps, use WithJSON instead for automatic JSON encoding.
func (b *MockBuilder) WithBody(body string) *MockBuilder {
	b.builder.WithBodyString(body)
	return b
}

// WithBodyBytes sets the response body from raw bytes.
func (b *MockBuilder) WithBodyBytes(body []byte) *MockBuilder {
	b.builder.WithBody(body)
	return b
}

// WithJSON sets the response body as JSON.
// Automatically sets Content-Type to application/json.
func (b *MockBuilder) WithJSON(body any) *MockBuilder {
	b.builder.WithJSON(body)
	return b
}

// WithHeader adds a response header.
func (b *MockBuilder) WithHeader(key, value string) *MockBuilder {
	b.builder.WithHeader(key, value)
	return b
}

// WithHeaders adds multiple response headers at once.
func (b *MockBuilder) WithHeaders(headers map[string]string) *MockBuilder {
	b.builder.WithHeaders(headers)
	return b
}

// WithRequestHeader matches requests with a specific header.
func (b *MockBuilder) WithRequestHeader(key, value string) *MockBuilder {
	b.builder.WithRequestHeader(key, value)
	return b
}

// WithRequestHeaders matches requests with multiple headers.
func (b *MockBuilder) WithRequestHeaders(headers map[string]string) *MockBuilder {
	b.builder.WithRequestHeaders(headers)
	return b
}

// Reply finalizes the expectation and queues it behind any earlier ones.
// A builder error fails the test.
func (b *MockBuilder) Reply() *MockServer {
	b.server.t.Helper()

	spec, err := b.builder.Build()
	if err != nil {
		b.server.t.Fatalf("invalid mock: %v", err)
		return b.server
	}
	b.server.Add(spec)
	return b.server
}

// Times queues n identical copies of the expectation.
func (b *MockBuilder) Times(n int) *MockServer {
	b.server.t.Helper()

	for i := 0; i < n; i++ {
		b.Reply()
	}
	return b.server
}
