package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/handler"
	"github.com/svthalia/concrexit-sub001/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server
	logger *logger.Logger
}

// NewServer returns the HTTP server serving handlers on cfg.HTTPAddress.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil {
		return nil, errNoHTTPHandler
	}
	if cfg.HTTPAddress == "" {
		return nil, errNoHTTPAddress
	}

	return newHTTPServer(handlers.HTTP.Init(), cfg, logger), nil
}

func newHTTPServer(h http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	if cfg.RequestTimeout > 0 {
		h = http.TimeoutHandler(h, cfg.RequestTimeout, "request timed out")
	}

	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *httpServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, listener)
}

func (s *httpServer) serve(ctx context.Context, listener net.Listener) error {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", listener.Addr().String()).Msg("Launching HTTP server")
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Err(err).Msg("HTTP server Shutdown")
		return err
	}
	<-errCh

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}
