package dispatch

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/getmockd/queuestub/pkg/handler"
	"github.com/getmockd/queuestub/pkg/httputil"
	"github.com/getmockd/queuestub/pkg/logging"
	"github.com/getmockd/queuestub/pkg/util"
)

// Stats counts what the dispatcher has done so far.
type Stats struct {
	// Dispatched is the number of requests that consumed a queued handler.
	Dispatched uint64
	// Underruns is the number of requests that arrived with an empty queue.
	Underruns uint64
	// Recovered is the number of handler panics and unwritable responses
	// turned into a 500.
	Recovered uint64
}

// Dispatcher serves each request with the next handler from a Queue.
type Dispatcher struct {
	queue *Queue
	log   *slog.Logger

	dispatched atomic.Uint64
	underruns  atomic.Uint64
	recovered  atomic.Uint64
}

// NewDispatcher creates a dispatcher reading from queue.
// A nil logger is replaced with logging.Nop().
func NewDispatcher(queue *Queue, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{queue: queue, log: log}
}

// ServeHTTP consumes the head handler and writes the response it computes.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, ok := d.queue.NextOrDefault()
	if ok {
		d.dispatched.Add(1)
	} else {
		d.underruns.Add(1)
		d.log.Warn("no handler queued", "method", r.Method, "path", r.URL.Path)
	}

	resp := d.evaluate(h, r)
	if d.log.Enabled(r.Context(), slog.LevelDebug) {
		d.log.Debug("request dispatched",
			"method", r.Method,
			"path", r.URL.Path,
			"handler", describe(h, ok),
			"status", resp.StatusCode,
			"body", util.TruncateBody(resp.Body, 0),
		)
	}
	httputil.WriteResponse(w, resp)
}

// evaluate runs h, converting a panic or an unwritable status into the
// generic failure response.
func (d *Dispatcher) evaluate(h handler.Handler, r *http.Request) (resp handler.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			d.recovered.Add(1)
			d.log.Error("handler panicked", "method", r.Method, "path", r.URL.Path, "panic", rec)
			resp = handler.InternalError()
		}
	}()

	resp = h.Evaluate(r)
	if !handler.WritableStatus(resp.StatusCode) {
		d.recovered.Add(1)
		d.log.Error("handler returned unwritable status", "method", r.Method, "path", r.URL.Path, "status", resp.StatusCode)
		return handler.InternalError()
	}
	return resp
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Dispatched: d.dispatched.Load(),
		Underruns:  d.underruns.Load(),
		Recovered:  d.recovered.Load(),
	}
}

func describe(h handler.Handler, queued bool) string {
	if !queued {
		return "default"
	}
	if s, ok := h.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", h)
}
