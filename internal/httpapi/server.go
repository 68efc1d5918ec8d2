package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/abhisek/studyplan/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	log    *logger.Logger
	server *http.Server
}

func NewServer(addr string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		log: log,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()
	s.log.Info("http server listening", "addr", s.server.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("http server shutting down")
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
