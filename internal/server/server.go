package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/figurevault/figurevault/internal/utils"
	"github.com/figurevault/figurevault/internal/version"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	config *Config
	server *http.Server
	svc    *Services
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	services, err := NewServices(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}
	return newServer(config, services)
}

func newServer(config *Config, services *Services) (*Server, error) {
	handler, err := SetupRoutes(config, services)
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	return &Server{
		config: config,
		svc:    services,
		server: &http.Server{
			Addr:              config.HTTP.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("figurevault server start",
		"version", version.Version,
		"revision", version.Revision,
		"provider", s.svc.Blob.Backend().Provider(),
		"endpoint", s.config.Blob.Endpoint,
		"accessKey", utils.MaskSecret(s.config.Blob.AccessKey),
	)
	defer slog.Info("figurevault server stop")

	if err := s.svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start services: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.runHttpServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("figurevault shutdown signal")
	case err := <-errCh:
		if err != nil {
			slog.Error("http server error", "error", err)
			return err
		}
	}

	// ctx is already done, shutdown gets a fresh deadline
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return s.Stop(shutdownCtx)
}

func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	if err := s.svc.Shutdown(ctx); err != nil {
		return fmt.Errorf("services shutdown: %w", err)
	}
	return nil
}

func (s *Server) runHttpServer() error {
	if s.config.HTTP.TLSEnabled() {
		slog.Info("server start https", "addr", s.config.HTTP.Addr, "cert", s.config.HTTP.CertFile, "key", s.config.HTTP.KeyFile)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("server start http", "addr", s.config.HTTP.Addr)
	return s.server.ListenAndServe()
}
