package portpool

import (
	"errors"
	"fmt"
	"sync"
)

// Default range of the process-wide pool.
const (
	DefaultRangeStart = 12300
	DefaultRangeEnd   = 12399
)

// Pool errors.
var (
	// ErrPoolExhausted is returned by Acquire when every port is checked out.
	ErrPoolExhausted = errors.New("portpool: no free port available")

	// ErrPortNotCheckedOut is returned by Release for a port that is already in the pool.
	ErrPortNotCheckedOut = errors.New("portpool: port is not checked out")

	// ErrPortOutOfRange is returned by Release for a port the pool never owned.
	ErrPortOutOfRange = errors.New("portpool: port outside pool range")

	// ErrInvalidRange is returned by New for an empty or out-of-bounds range.
	ErrInvalidRange = errors.New("portpool: invalid port range")
)

// Pool is a mutex-guarded set of ports in [start, end].
type Pool struct {
	mu        sync.Mutex
	start     int
	end       int
	available map[int]struct{}
}

// New creates a pool owning every port from start to end inclusive.
func New(start, end int) (*Pool, error) {
	if start < 1 || end > 65535 || start > end {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}

	p := &Pool{
		start:     start,
		end:       end,
		available: make(map[int]struct{}, end-start+1),
	}
	for port := start; port <= end; port++ {
		p.available[port] = struct{}{}
	}
	return p, nil
}

var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Default returns the process-wide pool for DefaultRangeStart-DefaultRangeEnd.
func Default() *Pool {
	defaultPoolOnce.Do(func() {
		// The default range is valid by construction.
		defaultPool, _ = New(DefaultRangeStart, DefaultRangeEnd)
	})
	return defaultPool
}

// Acquire removes a port from the pool and returns it.
// The highest free port is handed out first.
func (p *Pool) Acquire() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.available) == 0 {
		return 0, ErrPoolExhausted
	}

	picked := 0
	for port := range p.available {
		if port > picked {
			picked = port
		}
	}
	delete(p.available, picked)
	return picked, nil
}

// Release returns a previously acquired port to the pool.
// Releasing a port twice, or one from outside the range, leaves the pool
// untouched and returns an error.
func (p *Pool) Release(port int) error {
	if !p.Owns(port) {
		return fmt.Errorf("%w: %d not in %d-%d", ErrPortOutOfRange, port, p.start, p.end)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.available[port]; ok {
		return fmt.Errorf("%w: %d", ErrPortNotCheckedOut, port)
	}
	p.available[port] = struct{}{}
	return nil
}

// Len returns the number of ports currently available.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available)
}

// Cap returns the total number of ports the pool owns.
func (p *Pool) Cap() int {
	return p.end - p.start + 1
}

// Range returns the first and last port of the pool.
func (p *Pool) Range() (start, end int) {
	return p.start, p.end
}

// Owns reports whether port belongs to the pool's range, checked out or not.
func (p *Pool) Owns(port int) bool {
	return port >= p.start && port <= p.end
}

// Available returns a snapshot of the free ports in ascending order.
func (p *Pool) Available() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	ports := make([]int, 0, len(p.available))
	for port := p.start; port <= p.end; port++ {
		if _, ok := p.available[port]; ok {
			ports = append(ports, port)
		}
	}
	return ports
}
