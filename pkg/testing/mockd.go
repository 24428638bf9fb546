package testing

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/getmockd/queuestub/pkg/handler"
	"github.com/getmockd/queuestub/pkg/server"
)

// MockServer is a test helper wrapping one server.Instance.
type MockServer struct {
	t      testing.TB
	inst   *server.Instance
	client *http.Client
}

// New starts a stub server for t. The server is torn down by t.Cleanup.
// Setup failures (no free port, bind error, bad QUEUESTUB_HTTP_PORT) fail
// the test immediately.
func New(t testing.TB, opts ...server.Option) *MockServer {
	t.Helper()

	inst, err := server.Setup(context.Background(), opts...)
	if err != nil {
		t.Fatalf("failed to start stub server: %v", err)
	}

	m := &MockServer{
		t:      t,
		inst:   inst,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	t.Cleanup(m.Stop)
	return m
}

// Stop tears the server down. It is safe to call more than once.
func (m *MockServer) Stop() {
	if err := m.inst.Teardown(); err != nil && !errors.Is(err, server.ErrAlreadyTornDown) {
		m.t.Errorf("stub server teardown: %v", err)
	}
}

// URL returns the absolute URL of path on the server.
// An empty path yields the base URL with a trailing slash.
func (m *MockServer) URL(path string) string {
	return m.inst.URI(path)
}

// Port returns the bound port.
func (m *MockServer) Port() int {
	return m.inst.Port()
}

// Mock starts an expectation for method and path. Call Reply to queue it.
//
// Example:
//
//	mock.Mock("GET", "/users/123").
//	    WithStatus(200).
//	    WithBody(`{"id": "123"}`).
//	    Reply()
func (m *MockServer) Mock(method, path string) *MockBuilder {
	return &MockBuilder{
		server:  m,
		builder: handler.New(path).WithMethod(method).WithStatus(http.StatusOK),
	}
}

// Add queues a prebuilt handler.
func (m *MockServer) Add(h handler.Handler) {
	m.t.Helper()

	if err := m.inst.Add(h); err != nil {
		m.t.Fatalf("failed to add handler: %v", err)
	}
}

// Pending returns the number of expectations not yet consumed.
func (m *MockServer) Pending() int {
	return m.inst.Pending()
}

// AssertAllConsumed fails t if any registered expectation was never hit.
func (m *MockServer) AssertAllConsumed(t testing.TB) {
	t.Helper()

	if n := m.inst.Pending(); n > 0 {
		t.Errorf("expected every mock to be consumed, %d still pending", n)
	}
}

// AssertNoUnexpectedRequests fails t if any request arrived with an empty queue.
func (m *MockServer) AssertNoUnexpectedRequests(t testing.TB) {
	t.Helper()

	if n := m.inst.Stats().Underruns; n > 0 {
		t.Errorf("expected no requests beyond the registered mocks, got %d", n)
	}
}

// Client returns an http.Client suitable for talking to the server.
func (m *MockServer) Client() *http.Client {
	return m.client
}

// Instance returns the underlying server for advanced use cases.
func (m *MockServer) Instance() *server.Instance {
	return m.inst
}
