package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskmanager-api/internal/config"
	"taskmanager-api/internal/logging"
)

// Server owns the HTTP listeners of the API
type Server struct {
	cfg      config.ServerConfig
	api      *http.Server
	redirect *http.Server
}

// New builds a server for handler. TLS material is loaded here so a bad
// certificate fails before anything listens.
func New(cfg config.ServerConfig, handler http.Handler) (*Server, error) {
	s := &Server{
		cfg: cfg,
		api: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}

	if !cfg.TLS.Enabled {
		return s, nil
	}

	tlsConfig, err := newTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}
	s.api.TLSConfig = tlsConfig

	if cfg.TLS.RedirectHTTP {
		s.redirect = &http.Server{
			Addr:              ":" + cfg.TLS.RedirectPort,
			Handler:           httpsRedirectHandler(cfg.Port),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	return s, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		var err error
		if s.api.TLSConfig != nil {
			logging.Logger.Infof("Starting HTTPS server on port %s...", s.cfg.Port)
			// certificates already live in TLSConfig
			err = s.api.ListenAndServeTLS("", "")
		} else {
			logging.Logger.Infof("Starting server on port %s...", s.cfg.Port)
			err = s.api.ListenAndServe()
		}
		errCh <- err
	}()

	if s.redirect != nil {
		go func() {
			logging.Logger.Infof("Redirecting HTTP on port %s to HTTPS", s.cfg.TLS.RedirectPort)
			errCh <- s.redirect.ListenAndServe()
		}()
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			s.shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Logger.Info("Shutting down server...")
		return s.shutdown()
	}
}

func (s *Server) shutdown() error {
	timeout := time.Duration(s.cfg.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.redirect != nil {
		if err := s.redirect.Shutdown(ctx); err != nil {
			logging.Logger.Warnf("Redirect server shutdown: %v", err)
		}
	}
	if err := s.api.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logging.Logger.Info("Server stopped")
	return nil
}
