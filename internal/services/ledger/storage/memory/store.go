// Package memory provides an in-memory Store for tests and local tooling.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
)

// Store keeps campaign records and telemetry events in process memory.
// Records are cloned on the way in and out so callers never share backing
// memory with the store.
type Store struct {
	mu        sync.Mutex
	campaigns map[string]campaign.Campaign
	events    []storage.TelemetryEvent
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		campaigns: make(map[string]campaign.Campaign),
	}
}

// Put upserts the campaign under its id, subject to the storage bounds.
func (s *Store) Put(ctx context.Context, c campaign.Campaign) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	serialized, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal campaign: %w", err)
	}
	if err := storage.CheckBounds(c.ID, serialized, len(c.Donors)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.campaigns[c.ID] = c.Clone()
	return nil
}

// Get returns the stored campaign or storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return campaign.Campaign{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.campaigns[id]
	if !ok {
		return campaign.Campaign{}, storage.ErrNotFound
	}
	return stored.Clone(), nil
}

// Delete removes and returns the stored campaign, or storage.ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) (campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return campaign.Campaign{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.campaigns[id]
	if !ok {
		return campaign.Campaign{}, storage.ErrNotFound
	}
	delete(s.campaigns, id)
	return stored, nil
}

// List returns all campaigns in ascending id order.
func (s *Store) List(ctx context.Context) ([]campaign.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.campaigns))
	for id := range s.campaigns {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]campaign.Campaign, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.campaigns[id].Clone())
	}
	return out, nil
}

// AppendTelemetryEvent records one telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, evt)
	return nil
}

// ListTelemetryEvents returns up to limit events in append order.
func (s *Store) ListTelemetryEvents(ctx context.Context, limit int) ([]storage.TelemetryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.events)
	if limit > 0 && limit < count {
		count = limit
	}
	out := make([]storage.TelemetryEvent, count)
	copy(out, s.events[:count])
	return out, nil
}

// GetLedgerStatistics returns aggregate counts over the stored campaigns.
func (s *Store) GetLedgerStatistics(ctx context.Context) (storage.LedgerStatistics, error) {
	if err := ctx.Err(); err != nil {
		return storage.LedgerStatistics{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := storage.LedgerStatistics{}
	for _, c := range s.campaigns {
		stats.CampaignCount++
		stats.DonorCount += int64(len(c.Donors))
		stats.DonatedTotal += c.TotalDonations
	}
	return stats, nil
}

// Close releases nothing; it exists to satisfy the composite Store contract.
func (s *Store) Close() error {
	return nil
}
