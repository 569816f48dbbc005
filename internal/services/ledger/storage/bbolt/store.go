// Package bbolt implements the ledger persistence contracts on a BoltDB
// key-value file. It suits embedded deployments that want durable storage
// without a SQL dependency.
package bbolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
	"go.etcd.io/bbolt"
)

const (
	campaignBucket  = "campaign"
	telemetryBucket = "telemetry"
)

// Store provides a BoltDB-backed ledger store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put persists a campaign record, subject to the shared storage bounds.
func (s *Store) Put(ctx context.Context, c campaign.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal campaign: %w", err)
	}
	if err := storage.CheckBounds(c.ID, payload, len(c.Donors)); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(campaignBucket))
		if bucket == nil {
			return fmt.Errorf("campaign bucket is missing")
		}
		return bucket.Put(campaignKey(c.ID), payload)
	})
}

// Get fetches a campaign record by id, or storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return campaign.Campaign{}, err
	}
	if s == nil || s.db == nil {
		return campaign.Campaign{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return campaign.Campaign{}, fmt.Errorf("campaign id is required")
	}

	var c campaign.Campaign
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(campaignBucket))
		if bucket == nil {
			return fmt.Errorf("campaign bucket is missing")
		}
		payload := bucket.Get(campaignKey(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		decoded, err := decodeCampaign(payload)
		if err != nil {
			return err
		}
		c = decoded
		return nil
	})
	if err != nil {
		return campaign.Campaign{}, err
	}
	return c, nil
}

// Delete removes the stored campaign and returns the removed record, or
// storage.ErrNotFound when no campaign exists under the id.
func (s *Store) Delete(ctx context.Context, id string) (campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return campaign.Campaign{}, err
	}
	if s == nil || s.db == nil {
		return campaign.Campaign{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return campaign.Campaign{}, fmt.Errorf("campaign id is required")
	}

	var removed campaign.Campaign
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(campaignBucket))
		if bucket == nil {
			return fmt.Errorf("campaign bucket is missing")
		}
		key := campaignKey(id)
		payload := bucket.Get(key)
		if payload == nil {
			return storage.ErrNotFound
		}
		decoded, err := decodeCampaign(payload)
		if err != nil {
			return err
		}
		removed = decoded
		return bucket.Delete(key)
	})
	if err != nil {
		return campaign.Campaign{}, err
	}
	return removed, nil
}

// List returns every stored campaign in ascending id order. BoltDB cursors
// iterate keys in byte order, which matches the contract for string ids.
func (s *Store) List(ctx context.Context) ([]campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var campaigns []campaign.Campaign
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(campaignBucket))
		if bucket == nil {
			return fmt.Errorf("campaign bucket is missing")
		}
		cursor := bucket.Cursor()
		for key, payload := cursor.First(); key != nil; key, payload = cursor.Next() {
			decoded, err := decodeCampaign(payload)
			if err != nil {
				return err
			}
			campaigns = append(campaigns, decoded)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// AppendTelemetryEvent records an operational telemetry event under the next
// bucket sequence so append order is preserved.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal telemetry event: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(telemetryBucket))
		if bucket == nil {
			return fmt.Errorf("telemetry bucket is missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("next telemetry sequence: %w", err)
		}
		return bucket.Put(telemetryKey(seq), payload)
	})
}

// ListTelemetryEvents returns up to limit telemetry events in append order.
// A non-positive limit returns all events.
func (s *Store) ListTelemetryEvents(ctx context.Context, limit int) ([]storage.TelemetryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var events []storage.TelemetryEvent
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(telemetryBucket))
		if bucket == nil {
			return fmt.Errorf("telemetry bucket is missing")
		}
		cursor := bucket.Cursor()
		for key, payload := cursor.First(); key != nil; key, payload = cursor.Next() {
			if limit > 0 && len(events) >= limit {
				break
			}
			var evt storage.TelemetryEvent
			if err := json.Unmarshal(payload, &evt); err != nil {
				return fmt.Errorf("unmarshal telemetry event: %w", err)
			}
			events = append(events, evt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetLedgerStatistics returns aggregate counts across the campaign data set.
func (s *Store) GetLedgerStatistics(ctx context.Context) (storage.LedgerStatistics, error) {
	if err := ctx.Err(); err != nil {
		return storage.LedgerStatistics{}, err
	}
	if s == nil || s.db == nil {
		return storage.LedgerStatistics{}, fmt.Errorf("storage is not configured")
	}

	var stats storage.LedgerStatistics
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(campaignBucket))
		if bucket == nil {
			return fmt.Errorf("campaign bucket is missing")
		}
		cursor := bucket.Cursor()
		for key, payload := cursor.First(); key != nil; key, payload = cursor.Next() {
			decoded, err := decodeCampaign(payload)
			if err != nil {
				return err
			}
			stats.CampaignCount++
			stats.DonorCount += int64(len(decoded.Donors))
			stats.DonatedTotal += decoded.TotalDonations
		}
		return nil
	})
	if err != nil {
		return storage.LedgerStatistics{}, err
	}
	return stats, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{campaignBucket, telemetryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func campaignKey(id string) []byte {
	return []byte(id)
}

// telemetryKey encodes the bucket sequence big endian so byte order matches
// append order.
func telemetryKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// decodeCampaign restores a campaign from its serialized record. The donor
// list is normalized so callers never observe a nil slice.
func decodeCampaign(payload []byte) (campaign.Campaign, error) {
	var c campaign.Campaign
	if err := json.Unmarshal(payload, &c); err != nil {
		return campaign.Campaign{}, fmt.Errorf("unmarshal campaign: %w", err)
	}
	if c.Donors == nil {
		c.Donors = []campaign.Donor{}
	}
	return c, nil
}

var _ storage.Store = (*Store)(nil)
