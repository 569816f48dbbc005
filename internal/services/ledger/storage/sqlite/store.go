package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/crowdfund/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const (
	putCampaignSQL = `
INSERT INTO campaigns (id, record) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET record = excluded.record`

	getCampaignSQL = `SELECT record FROM campaigns WHERE id = ?`

	deleteCampaignSQL = `DELETE FROM campaigns WHERE id = ?`

	listCampaignsSQL = `SELECT record FROM campaigns ORDER BY id ASC`

	appendTelemetryEventSQL = `
INSERT INTO telemetry_events (timestamp, event_name, campaign_id, attributes_json)
VALUES (?, ?, ?, ?)`

	listTelemetryEventsSQL = `
SELECT timestamp, event_name, campaign_id, attributes_json
FROM telemetry_events
ORDER BY id ASC`

	// Records are JSON text stored in a BLOB column; the CAST keeps the json
	// functions on the text parsing path for every SQLite version.
	ledgerStatisticsSQL = `
SELECT
    COUNT(*),
    COALESCE(SUM(json_array_length(CAST(record AS TEXT), '$.donors')), 0),
    COALESCE(SUM(json_extract(CAST(record AS TEXT), '$.total_donations')), 0)
FROM campaigns`
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis reverses toMillis for persisted millisecond timestamps.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides a SQLite-backed store implementing the ledger storage
// interfaces.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path. The context bounds the
// startup migration run.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}

	if err := store.runMigrations(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// runMigrations runs embedded SQL migrations.
func (s *Store) runMigrations(ctx context.Context) error {
	return sqlitemigrate.ApplyMigrations(ctx, s.sqlDB, migrations.LedgerFS, "ledger")
}

// Put persists a campaign record keyed by its identifier, subject to the
// shared storage bounds.
func (s *Store) Put(ctx context.Context, c campaign.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	record, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal campaign: %w", err)
	}
	if err := storage.CheckBounds(c.ID, record, len(c.Donors)); err != nil {
		return err
	}

	if _, err := s.sqlDB.ExecContext(ctx, putCampaignSQL, c.ID, record); err != nil {
		return fmt.Errorf("put campaign: %w", err)
	}
	return nil
}

// Get returns the stored campaign or storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return campaign.Campaign{}, err
	}
	if s == nil || s.sqlDB == nil {
		return campaign.Campaign{}, fmt.Errorf("storage is not configured")
	}

	var record []byte
	err := s.sqlDB.QueryRowContext(ctx, getCampaignSQL, id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return campaign.Campaign{}, storage.ErrNotFound
	}
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}

	return decodeCampaign(record)
}

// Delete removes the stored campaign and returns the removed record, or
// storage.ErrNotFound when no campaign exists under the id.
func (s *Store) Delete(ctx context.Context, id string) (campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return campaign.Campaign{}, err
	}
	if s == nil || s.sqlDB == nil {
		return campaign.Campaign{}, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var record []byte
	err = tx.QueryRowContext(ctx, getCampaignSQL, id).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return campaign.Campaign{}, storage.ErrNotFound
	}
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("load campaign: %w", err)
	}

	removed, err := decodeCampaign(record)
	if err != nil {
		return campaign.Campaign{}, err
	}

	if _, err := tx.ExecContext(ctx, deleteCampaignSQL, id); err != nil {
		return campaign.Campaign{}, fmt.Errorf("delete campaign: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return campaign.Campaign{}, fmt.Errorf("commit delete: %w", err)
	}
	return removed, nil
}

// List returns every stored campaign in ascending id order.
func (s *Store) List(ctx context.Context) ([]campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, listCampaignsSQL)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []campaign.Campaign
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan campaign record: %w", err)
		}
		c, err := decodeCampaign(record)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read campaign records: %w", err)
	}
	return campaigns, nil
}

// AppendTelemetryEvent records an operational telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	var attributes []byte
	if len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal telemetry attributes: %w", err)
		}
		attributes = payload
	}

	if _, err := s.sqlDB.ExecContext(ctx, appendTelemetryEventSQL,
		toMillis(evt.Timestamp),
		evt.EventName,
		evt.CampaignID,
		attributes,
	); err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

// ListTelemetryEvents returns up to limit telemetry events in append order.
// A non-positive limit returns all events.
func (s *Store) ListTelemetryEvents(ctx context.Context, limit int) ([]storage.TelemetryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := listTelemetryEventsSQL
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list telemetry events: %w", err)
	}
	defer rows.Close()

	var events []storage.TelemetryEvent
	for rows.Next() {
		var evt storage.TelemetryEvent
		var millis int64
		var attributes []byte
		if err := rows.Scan(&millis, &evt.EventName, &evt.CampaignID, &attributes); err != nil {
			return nil, fmt.Errorf("scan telemetry event: %w", err)
		}
		evt.Timestamp = fromMillis(millis)
		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &evt.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshal telemetry attributes: %w", err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read telemetry events: %w", err)
	}
	return events, nil
}

// GetLedgerStatistics returns aggregate counts across the campaign data set.
func (s *Store) GetLedgerStatistics(ctx context.Context) (storage.LedgerStatistics, error) {
	if err := ctx.Err(); err != nil {
		return storage.LedgerStatistics{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.LedgerStatistics{}, fmt.Errorf("storage is not configured")
	}

	var stats storage.LedgerStatistics
	row := s.sqlDB.QueryRowContext(ctx, ledgerStatisticsSQL)
	if err := row.Scan(&stats.CampaignCount, &stats.DonorCount, &stats.DonatedTotal); err != nil {
		return storage.LedgerStatistics{}, fmt.Errorf("get ledger statistics: %w", err)
	}
	return stats, nil
}

// decodeCampaign restores a campaign from its serialized record. The donor
// list is normalized so callers never observe a nil slice.
func decodeCampaign(record []byte) (campaign.Campaign, error) {
	var c campaign.Campaign
	if err := json.Unmarshal(record, &c); err != nil {
		return campaign.Campaign{}, fmt.Errorf("unmarshal campaign: %w", err)
	}
	if c.Donors == nil {
		c.Donors = []campaign.Donor{}
	}
	return c, nil
}

var _ storage.Store = (*Store)(nil)
