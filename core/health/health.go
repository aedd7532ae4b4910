// Package health serves the liveness endpoint polled by the hosting platform
// and runs small auxiliary HTTP listeners.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/clanintake/core/logger"
)

// Body is the fixed liveness response.
const Body = "Bot is running 🚀"

// Handler answers GET and HEAD on "/" with 200 and Body.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(Body))
		}
	})
	return mux
}

// Server is an HTTP listener with explicit start and graceful shutdown.
type Server struct {
	name string
	srv  *http.Server
	ln   net.Listener
	done chan error
}

// NewServer prepares a listener on addr; nothing is bound until Start.
func NewServer(name, addr string, h http.Handler) *Server {
	return &Server{
		name: name,
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start binds the address and serves in the background. Bind errors are returned.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("%s listener: %w", s.name, err)
	}
	s.ln = ln
	s.done = make(chan error, 1)
	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			logger.HTTP.Error("listener stopped",
				slog.String("event", "http.serve"),
				slog.String("listener", s.name),
				logger.Err(err),
			)
		}
		s.done <- err
	}()
	logger.HTTP.Info("listener started",
		slog.String("event", "http.start"),
		slog.String("listener", s.name),
		slog.String("addr", ln.Addr().String()),
	)
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.srv.Addr
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.done == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s shutdown: %w", s.name, err)
	}
	return <-s.done
}
