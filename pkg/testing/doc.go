// Package testing provides a Go test SDK around the queuestub server.
//
// A MockServer is started by New and torn down automatically when the test
// ends. Expectations are consumed strictly in the order they are registered,
// one per request:
//
//	func TestClient(t *testing.T) {
//	    mock := testing.New(t)
//
//	    mock.Mock("GET", "/users/123").
//	        WithStatus(200).
//	        WithJSON(map[string]string{"id": "123"}).
//	        Reply()
//	    mock.Mock("DELETE", "/users/123").
//	        WithRequestHeader("Authorization", "Bearer token").
//	        WithStatus(204).
//	        Reply()
//
//	    runClient(t, mock.URL(""))
//
//	    mock.AssertAllConsumed(t)
//	}
//
// A request that does not match the expectation at the head of the queue
// still consumes it and gets an empty 500, as does any request made after the
// queue is empty.
//
// Mock defaults the status to 200. The lower-level handler.Builder defaults
// to 500.
package testing
