// Package ports provides local port availability checking.
package ports

import (
	"net"
	"strconv"
)

// loopback is the interface stub servers bind.
const loopback = "127.0.0.1"

// IsAvailable checks if a port can currently be bound on the loopback interface.
func IsAvailable(port int) bool {
	return Check(port) == nil
}

// Check binds and immediately releases port, returning the bind error if any.
func Check(port int) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(loopback, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	_ = ln.Close()
	return nil
}

// Scan returns the subset of candidates that can be bound right now, in input order.
func Scan(candidates []int) []int {
	free := make([]int, 0, len(candidates))
	for _, port := range candidates {
		if IsAvailable(port) {
			free = append(free, port)
		}
	}
	return free
}
