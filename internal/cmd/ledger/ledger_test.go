package ledger

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "localhost:8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.StorageDriver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %q", cfg.StorageDriver)
	}
	if cfg.DBPath != "crowdfund.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.MetricsNamespace != "crowdfund" {
		t.Fatalf("expected default metrics namespace, got %q", cfg.MetricsNamespace)
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("expected rate limiting disabled, got %v", cfg.RateLimit)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("CROWDFUND_LEDGER_ADDR", "env-addr:1")
	t.Setenv("CROWDFUND_STORAGE_DRIVER", "bbolt")
	t.Setenv("CROWDFUND_LOG_LEVEL", "debug")

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	args := []string{"-addr", "flag-addr:2", "-rate-limit", "5", "-rate-burst", "10"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "flag-addr:2" {
		t.Fatalf("expected flag addr to win, got %q", cfg.Addr)
	}
	if cfg.StorageDriver != "bbolt" {
		t.Fatalf("expected env driver bbolt, got %q", cfg.StorageDriver)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected env log level debug, got %q", cfg.LogLevel)
	}
	if cfg.RateLimit != 5 {
		t.Fatalf("expected rate limit 5, got %v", cfg.RateLimit)
	}
	if cfg.RateBurst != 10 {
		t.Fatalf("expected rate burst 10, got %d", cfg.RateBurst)
	}
}
