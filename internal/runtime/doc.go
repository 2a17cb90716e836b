// Package runtime wires the ring, whitelist, probes and facades into a
// single-node netlog instance. It exposes Open/Start/Close, basic health
// checks, and accessors used by the servers.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
//	// Health
//	_ = rt.CheckHealth(context.Background())
//	// Begin collecting and read back one line
//	_ = rt.Start(context.Background())
//	sess := rt.Ring().OpenSession(ringlog.SessionOptions{})
//	defer sess.Close()
package runtime
