// Package ledger parses ledger command flags and runs the campaign HTTP API.
package ledger

import (
	"context"
	"flag"

	platformcmd "github.com/louisbranch/crowdfund/internal/platform/cmd"
	"github.com/louisbranch/crowdfund/internal/platform/logging"
	"github.com/louisbranch/crowdfund/internal/services/ledger/app"
)

// Config holds ledger command configuration.
type Config struct {
	Addr             string  `env:"CROWDFUND_LEDGER_ADDR"       envDefault:"localhost:8080"`
	StorageDriver    string  `env:"CROWDFUND_STORAGE_DRIVER"    envDefault:"sqlite"`
	DBPath           string  `env:"CROWDFUND_DB_PATH"           envDefault:"crowdfund.db"`
	RateLimit        float64 `env:"CROWDFUND_RATE_LIMIT"        envDefault:"0"`
	RateBurst        int     `env:"CROWDFUND_RATE_BURST"        envDefault:"0"`
	MetricsNamespace string  `env:"CROWDFUND_METRICS_NAMESPACE" envDefault:"crowdfund"`
	LogLevel         string  `env:"CROWDFUND_LOG_LEVEL"`
	Environment      string  `env:"CROWDFUND_ENV"               envDefault:"production"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: sqlite, bbolt, or memory")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "database file path for durable drivers")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "requests per second across all routes (0 disables)")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "rate limiter burst size")
	fs.StringVar(&cfg.MetricsNamespace, "metrics-namespace", cfg.MetricsNamespace, "Prometheus namespace (empty disables metrics)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, or error")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the ledger server and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceLedger, func(ctx context.Context) error {
		return app.Run(ctx, app.Config{
			Addr:             cfg.Addr,
			StorageDriver:    cfg.StorageDriver,
			DBPath:           cfg.DBPath,
			RateLimit:        cfg.RateLimit,
			RateBurst:        cfg.RateBurst,
			MetricsNamespace: cfg.MetricsNamespace,
		}, logger)
	})
}
