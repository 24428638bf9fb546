package server

import (
	"log/slog"

	"github.com/getmockd/queuestub/pkg/portpool"
)

// Option configures Setup.
type Option func(*options)

type options struct {
	pool *portpool.Pool
	port int
	host string
	log  *slog.Logger
}

// WithPool draws ports from pool instead of portpool.Default().
func WithPool(pool *portpool.Pool) Option {
	return func(o *options) {
		if pool != nil {
			o.pool = pool
		}
	}
}

// WithPort binds exactly port, bypassing both the pool and the environment.
func WithPort(port int) Option {
	return func(o *options) {
		o.port = port
	}
}

// WithHost sets the address used by URI. The listener always binds 127.0.0.1.
func WithHost(host string) Option {
	return func(o *options) {
		if host != "" {
			o.host = host
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
