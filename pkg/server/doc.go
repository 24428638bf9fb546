// Package server runs one stub HTTP server per test.
//
// Setup picks a port, binds 127.0.0.1:<port> and starts serving in the
// background. Every request consumes the next handler registered with Add;
// when none is left the request gets an empty 500.
//
//	inst, err := server.Setup(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer inst.Teardown()
//
//	inst.Add(handler.New("/ok").WithStatus(http.StatusOK).MustBuild())
//	resp, _ := http.Get(inst.URI("/ok")) // 200
//	resp, _ = http.Get(inst.URI("/ok"))  // 500, queue is empty
//
// # Ports
//
// The port comes from, in order: WithPort, the QUEUESTUB_HTTP_PORT
// environment variable, or the port pool (portpool.Default unless WithPool is
// given). Fixed ports never touch the pool. Pool ports go back to the pool
// when Teardown returns.
//
// # Shutdown
//
// Teardown signals the serve loop once, waits until the listener is closed
// and in-flight requests have completed, and only then releases the port, so
// the next Setup can bind the same port immediately. There is no timeout:
// shutdown is always graceful. An instance cannot be restarted.
package server
