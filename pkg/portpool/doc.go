// Package portpool hands out TCP ports from a fixed range so that many test
// servers can run side by side in one process without colliding.
//
// A Pool owns every port in its range. Acquire checks a port out, Release
// puts it back. Both run under a single mutex, so concurrent callers always
// see a consistent pool: a port is either available or checked out, never both.
//
//	pool := portpool.Default()
//	port, err := pool.Acquire()
//	if err != nil {
//	    return err // ErrPoolExhausted
//	}
//	defer pool.Release(port)
//
// Default returns the process-wide pool covering 12300-12399. It is created on
// first use and lives for the rest of the process. Tests of the pool itself
// should use New with a private range.
package portpool
