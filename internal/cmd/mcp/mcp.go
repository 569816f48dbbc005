// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"

	platformcmd "github.com/louisbranch/crowdfund/internal/platform/cmd"
	"github.com/louisbranch/crowdfund/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Transport     string `env:"CROWDFUND_MCP_TRANSPORT"  envDefault:"stdio"`
	HTTPAddr      string `env:"CROWDFUND_MCP_HTTP_ADDR"  envDefault:"localhost:8081"`
	StorageDriver string `env:"CROWDFUND_STORAGE_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"CROWDFUND_DB_PATH"        envDefault:"crowdfund.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address (for HTTP transport)")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: sqlite, bbolt, or memory")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "database file path for durable drivers")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server on the configured transport.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		return service.Run(ctx, service.Config{
			Transport:     cfg.Transport,
			HTTPAddr:      cfg.HTTPAddr,
			StorageDriver: cfg.StorageDriver,
			DBPath:        cfg.DBPath,
		})
	})
}
