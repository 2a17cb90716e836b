// Package log is netlog's structured logging facade.
//
// It defines a small leveled Logger interface plus a Field type for typed
// key/value context, rendered by pluggable formatters (text for terminals,
// JSON for collectors) into one or more outputs. Under the facade every
// entry travels through a log/slog handler, so code written against slog
// and code written against this interface end up in the same pipeline with
// the same formatting.
//
//	l := log.NewLogger(
//	    log.WithLevel(log.DebugLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.WithComponent("ringlog")
//	l.Info("append", log.Uint64("seq", seq), log.Int("bytes", n))
//
// ApplyConfig builds a logger from the declarative Config that ships inside
// the netlog configuration file, and RedirectStdLog/ToStdLogger bridge
// libraries that still expect the standard library *log.Logger.
package log
