package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/queuestub/pkg/config"
	"github.com/getmockd/queuestub/pkg/dispatch"
	"github.com/getmockd/queuestub/pkg/handler"
	"github.com/getmockd/queuestub/pkg/logging"
	"github.com/getmockd/queuestub/pkg/portpool"
)

// bindHost is the only interface a stub server listens on.
const bindHost = "127.0.0.1"

// Instance is one running stub server. It is created by Setup and is dead
// after Teardown.
type Instance struct {
	id     string
	port   int
	host   string
	pooled bool
	pool   *portpool.Pool
	log    *slog.Logger

	queue      *dispatch.Queue
	dispatcher *dispatch.Dispatcher
	httpServer *http.Server

	stop     context.CancelFunc
	done     chan struct{}
	serveErr error // written before done is closed

	tornDown atomic.Bool
}

// Setup binds a listener and starts serving in the background.
// ctx bounds the bind only; the server runs until Teardown.
func Setup(ctx context.Context, opts ...Option) (*Instance, error) {
	o := options{
		pool: portpool.Default(),
		host: bindHost,
		log:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	port, pooled, err := resolvePort(&o)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(bindHost, strconv.Itoa(port))
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		if pooled {
			returnPort(o.pool, port, logging.Component(o.log, "server"))
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrBind, addr, err)
	}

	id := uuid.NewString()
	log := logging.Component(o.log, "server").With("id", id, "port", port)
	queue := dispatch.NewQueue()
	dispatcher := dispatch.NewDispatcher(queue, log)

	inst := &Instance{
		id:         id,
		port:       port,
		host:       o.host,
		pooled:     pooled,
		pool:       o.pool,
		log:        log,
		queue:      queue,
		dispatcher: dispatcher,
		httpServer: &http.Server{
			Handler:           dispatcher,
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelDebug),
		},
		done: make(chan struct{}),
	}

	runCtx, stop := context.WithCancel(context.Background())
	inst.stop = stop
	inst.run(runCtx, ln)

	log.Info("stub server started", "pooled", pooled)
	return inst, nil
}

// resolvePort picks the bind port. pooled reports whether it came from the pool.
func resolvePort(o *options) (port int, pooled bool, err error) {
	if o.port != 0 {
		if o.port < 1 || o.port > 65535 {
			return 0, false, fmt.Errorf("%w: %d", ErrInvalidPortOverride, o.port)
		}
		return o.port, false, nil
	}

	port, ok, err := config.FixedPortFromEnv()
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s: %w", ErrInvalidPortOverride, config.EnvHTTPPort, err)
	}
	if ok {
		return port, false, nil
	}

	port, err = o.pool.Acquire()
	if err != nil {
		return 0, false, err
	}
	return port, true, nil
}

// returnPort gives a port back to the pool after a failed bind.
func returnPort(pool *portpool.Pool, port int, log *slog.Logger) {
	if err := pool.Release(port); err != nil {
		log.Warn("failed to return port after bind error", "port", port, "error", err)
	}
}

// run starts the serve loop and its shutdown watcher.
// Serving stops when ctx is cancelled or Serve fails; done is closed once
// the listener is closed and every in-flight request has finished.
func (i *Instance) run(ctx context.Context, ln net.Listener) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := i.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		// No deadline: in-flight requests always get to finish.
		return i.httpServer.Shutdown(context.Background())
	})

	go func() {
		i.serveErr = g.Wait()
		close(i.done)
	}()
}

// ID returns the unique id of this instance, used in logs.
func (i *Instance) ID() string { return i.id }

// Port returns the bound port.
func (i *Instance) Port() int { return i.port }

// Pooled reports whether the port was drawn from the port pool.
func (i *Instance) Pooled() bool { return i.pooled }

// URI returns the absolute URL of path on this instance.
func (i *Instance) URI(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + net.JoinHostPort(i.host, strconv.Itoa(i.port)) + path
}

// Add queues h behind every handler already registered.
func (i *Instance) Add(h handler.Handler) error {
	if i.tornDown.Load() {
		return ErrAlreadyTornDown
	}
	return i.queue.Register(h)
}

// Pending returns the number of handlers not yet consumed.
func (i *Instance) Pending() int {
	return i.queue.Len()
}

// Stats returns the dispatch counters.
func (i *Instance) Stats() dispatch.Stats {
	return i.dispatcher.Stats()
}

// Done is closed once the serve loop has fully stopped.
func (i *Instance) Done() <-chan struct{} {
	return i.done
}

// Teardown stops the server and waits for it to exit before returning the
// port to the pool. Only the first call does anything; later calls return
// ErrAlreadyTornDown.
func (i *Instance) Teardown() error {
	if !i.tornDown.CompareAndSwap(false, true) {
		return ErrAlreadyTornDown
	}

	i.stop()
	<-i.done

	if rest := i.queue.Drain(); len(rest) > 0 {
		i.log.Warn("handlers never consumed", "count", len(rest))
	}

	var errs []error
	if i.serveErr != nil {
		errs = append(errs, i.serveErr)
	}
	if i.pooled {
		if err := i.pool.Release(i.port); err != nil {
			errs = append(errs, err)
		}
	}

	stats := i.dispatcher.Stats()
	i.log.Info("stub server stopped",
		"dispatched", stats.Dispatched,
		"underruns", stats.Underruns,
		"recovered", stats.Recovered,
	)
	return errors.Join(errs...)
}
