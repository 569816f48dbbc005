package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage/bbolt"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage/memory"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage/sqlite"
)

// Storage driver names accepted by OpenStore.
const (
	DriverSQLite = "sqlite"
	DriverBBolt  = "bbolt"
	DriverMemory = "memory"
)

// OpenStore opens the campaign store for the configured driver. An empty
// driver defaults to sqlite. The context bounds startup work such as the
// SQLite migration run.
func OpenStore(ctx context.Context, driver, path string) (storage.Store, error) {
	switch strings.TrimSpace(strings.ToLower(driver)) {
	case "", DriverSQLite:
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case DriverBBolt:
		store, err := bbolt.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open bbolt store: %w", err)
		}
		return store, nil
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("storage driver %q is not supported (want sqlite, bbolt, or memory)", driver)
	}
}
