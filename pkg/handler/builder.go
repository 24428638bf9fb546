package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/getmockd/queuestub/internal/matching"
)

// Builder errors.
var (
	// ErrEmptyPath is returned when the expected path is empty.
	ErrEmptyPath = errors.New("handler: path is required")

	// ErrInvalidStatus is returned for a status code outside 200-999.
	ErrInvalidStatus = errors.New("handler: invalid status code")
)

// Builder builds a Spec using a fluent API.
type Builder struct {
	path           string
	method         string
	requestHeaders map[string]string
	status         int
	header         http.Header
	body           []byte
	err            error // First error encountered during building
}

// New starts a builder for requests to path.
func New(path string) *Builder {
	return &Builder{
		path:   path,
		method: http.MethodGet,
		status: http.StatusInternalServerError,
	}
}

// setError records the first error encountered during building.
func (b *Builder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *Builder) Err() error {
	return b.err
}

// WithMethod sets the expected request method. Default is GET.
func (b *Builder) WithMethod(method string) *Builder {
	b.method = method
	return b
}

// WithRequestHeader requires the request to carry name with exactly value.
func (b *Builder) WithRequestHeader(name, value string) *Builder {
	if b.requestHeaders == nil {
		b.requestHeaders = make(map[string]string)
	}
	b.requestHeaders[http.CanonicalHeaderKey(name)] = value
	return b
}

// WithRequestHeaders requires every pair in headers.
func (b *Builder) WithRequestHeaders(headers map[string]string) *Builder {
	for k, v := range headers {
		b.WithRequestHeader(k, v)
	}
	return b
}

// WithStatus sets the response status code. Default is 500.
func (b *Builder) WithStatus(status int) *Builder {
	if !WritableStatus(status) {
		b.setError(fmt.Errorf("%w: %d", ErrInvalidStatus, status))
	}
	b.status = status
	return b
}

// WithHeader adds a response header.
func (b *Builder) WithHeader(key, value string) *Builder {
	if b.header == nil {
		b.header = make(http.Header)
	}
	b.header.Add(key, value)
	return b
}

// WithHeaders adds multiple response headers at once.
func (b *Builder) WithHeaders(headers map[string]string) *Builder {
	for k, v := range headers {
		b.WithHeader(k, v)
	}
	return b
}

// WithBody sets the response body.
func (b *Builder) WithBody(body []byte) *Builder {
	b.body = slices.Clone(body)
	return b
}

// WithBodyString sets the response body from a string.
func (b *Builder) WithBodyString(body string) *Builder {
	b.body = []byte(body)
	return b
}

// WithJSON sets the response body as JSON.
// Sets Content-Type to application/json unless already present.
func (b *Builder) WithJSON(v any) *Builder {
	data, err := json.Marshal(v)
	if err != nil {
		b.setError(fmt.Errorf("WithJSON: failed to marshal body: %w", err))
		return b
	}
	b.body = data
	if b.header.Get("Content-Type") == "" {
		b.WithHeader("Content-Type", "application/json")
	}
	return b
}

// Build returns the immutable Spec. Later changes to the builder do not affect it.
func (b *Builder) Build() (*Spec, error) {
	if b.err != nil {
		return nil, b.err
	}
	if strings.TrimSpace(b.path) == "" {
		return nil, ErrEmptyPath
	}

	return &Spec{
		criteria: matching.Criteria{
			Path:    b.path,
			Method:  b.method,
			Headers: maps.Clone(b.requestHeaders),
		},
		response: Response{
			StatusCode: b.status,
			Header:     b.header.Clone(),
			Body:       slices.Clone(b.body),
		},
	}, nil
}

// MustBuild is like Build but panics on error. Intended for test setup.
func (b *Builder) MustBuild() *Spec {
	spec, err := b.Build()
	if err != nil {
		panic(err)
	}
	return spec
}
