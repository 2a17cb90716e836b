// Package httpserver provides the netlog REST gateway: SSE tailing of the
// event ring, JSON endpoints for lines, stats, whitelist and probe control,
// and the Prometheus exposition endpoint.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{Config: config.Default()})
//	s := httpserver.New(rt, nil)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8081")
package httpserver
