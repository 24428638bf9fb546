package dispatch

import (
	"errors"
	"sync"

	"github.com/getmockd/queuestub/pkg/handler"
)

// ErrNilHandler is returned when registering a nil handler.
var ErrNilHandler = errors.New("dispatch: nil handler")

// Queue is an ordered, thread-safe list of handlers waiting to be consumed.
type Queue struct {
	mu    sync.Mutex
	items []handler.Handler
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Register appends h to the tail of the queue.
func (q *Queue) Register(h handler.Handler) error {
	if h == nil {
		return ErrNilHandler
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, h)
	return nil
}

// NextOrDefault removes and returns the head of the queue.
// If the queue is empty it returns handler.Default and false; nothing is consumed.
func (q *Queue) NextOrDefault() (handler.Handler, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return handler.Default, false
	}

	h := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return h, true
}

// Len returns the number of handlers still waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain removes every remaining handler and returns them in queue order.
func (q *Queue) Drain() []handler.Handler {
	q.mu.Lock()
	defer q.mu.Unlock()

	rest := q.items
	q.items = nil
	return rest
}
