// Package dispatch turns a FIFO of single-use handlers into an http.Handler.
//
// Queue is a monitor: Register appends and NextOrDefault removes the head
// under the same lock, so concurrent requests never share or reorder a
// handler. Dispatcher takes one handler per request, evaluates it and writes
// the result. An empty queue, a non-matching request or a panicking handler
// all produce a 500 with an empty body; nothing is ever surfaced to the
// transport as an error.
package dispatch
