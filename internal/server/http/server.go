package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/Feandil/netlog/internal/runtime"
	"github.com/Feandil/netlog/internal/server/http/controllers"
	logpkg "github.com/Feandil/netlog/pkg/log"
)

// shutdownGrace bounds how long a cancelled server waits for in-flight
// requests.
const shutdownGrace = 5 * time.Second

// Server is the REST gateway over a running netlog instance.
type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

// New builds a Server with all controller routes registered. A nil logger
// falls back to the runtime logger.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = rt.Logger()
	}
	logger = logger.WithComponent("http")
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, logger).RegisterAllRoutes(mux)
	var handler http.Handler = mux
	if rt.Config().HTTP.CORS {
		handler = cors(mux)
	}
	return &Server{rt: rt, logger: logger, srv: &http.Server{Handler: handler}}
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to shutdownGrace.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("listening", logpkg.Str("addr", l.Addr().String()))

	done := make(chan error, 1)
	go func() { done <- s.srv.Serve(l) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		s.logger.Warn("shutdown incomplete", logpkg.Err(err))
	}
	<-done
	return nil
}

// Close force-closes the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

// cors allows browser clients on any origin to hit the API. Preflight
// requests are answered here and never reach the mux.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
