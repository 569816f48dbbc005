// Package app wires the ledger runtime: storage, service, HTTP transport,
// and their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/louisbranch/crowdfund/internal/platform/identity"
	"github.com/louisbranch/crowdfund/internal/platform/telemetry"
	"github.com/louisbranch/crowdfund/internal/platform/telemetry/metrics"
	"github.com/louisbranch/crowdfund/internal/platform/timeouts"
	"github.com/louisbranch/crowdfund/internal/services/ledger/api/httpapi"
	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
)

// Config holds the ledger server configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// StorageDriver selects the campaign store backend: sqlite, bbolt, or
	// memory.
	StorageDriver string
	// DBPath locates the database file for the durable drivers.
	DBPath string
	// RateLimit caps requests per second across all routes; zero disables
	// limiting.
	RateLimit float64
	// RateBurst sets the limiter burst size when RateLimit is set.
	RateBurst int
	// MetricsNamespace prefixes the Prometheus collectors. Empty disables
	// metric collection.
	MetricsNamespace string
}

// Server hosts the ledger HTTP API and the storage lifecycle.
type Server struct {
	listener net.Listener
	http     *http.Server
	store    storage.Store
	logger   *zap.Logger
}

// New creates a configured ledger server listening on cfg.Addr. The context
// bounds storage startup, including the SQLite migration run.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := OpenStore(ctx, cfg.StorageDriver, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	identityConfig, err := identity.LoadConfigFromEnv(nil)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	svc := service.NewCampaignService(store,
		service.WithTelemetry(telemetry.NewEmitter(store, nil)),
	)

	options := []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithIdentity(identityConfig),
		httpapi.WithStatistics(store),
	}
	if cfg.MetricsNamespace != "" {
		options = append(options, httpapi.WithMetrics(metrics.New(cfg.MetricsNamespace, nil)))
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		options = append(options, httpapi.WithRateLimit(rate.Limit(cfg.RateLimit), burst))
	}

	return &Server{
		listener: listener,
		http: &http.Server{
			Handler:           httpapi.New(svc, options...),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		logger: logger,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve blocks until the context is cancelled or the server fails, then
// drains in-flight requests and closes the store.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	s.logger.Info("ledger server listening", zap.String("addr", s.Addr()))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the listener and the store.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.http != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := s.http.Shutdown(closeCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		cancel()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, err)
		}
		s.store = nil
	}
	return errors.Join(errs...)
}

// Run creates and serves a ledger server until context cancellation.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	server, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
