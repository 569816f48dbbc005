// Package service implements the campaign ledger operations: campaign
// lifecycle, donation acceptance with goal and deadline gating, and the
// derived queries over stored campaigns.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/id"
	"github.com/louisbranch/crowdfund/internal/platform/telemetry"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
)

// maxIDAttempts bounds how often creation retries a colliding identifier
// before reporting a storage failure.
const maxIDAttempts = 3

const (
	eventCampaignCreated  = "campaign.created"
	eventCampaignDeleted  = "campaign.deleted"
	eventDonationAccepted = "donation.accepted"
	eventDonationRejected = "donation.rejected"
	eventDonorAdded       = "campaign.donor_added"
)

// CampaignService is the decision-making layer over the campaign store. It
// validates inputs, enforces the ledger invariants, and commits a transition
// only after it is known to be valid. Operations run to completion one at a
// time; the service holds no state beyond its injected dependencies.
type CampaignService struct {
	store       storage.CampaignStore
	clock       func() time.Time
	idGenerator func() (string, error)
	telemetry   *telemetry.Emitter
}

// Option configures optional CampaignService dependencies.
type Option func(*CampaignService)

// WithClock overrides the time source. Tests use it to pin the clock.
func WithClock(clock func() time.Time) Option {
	return func(s *CampaignService) {
		s.clock = clock
	}
}

// WithIDGenerator overrides the campaign id generator.
func WithIDGenerator(generator func() (string, error)) Option {
	return func(s *CampaignService) {
		s.idGenerator = generator
	}
}

// WithTelemetry attaches an event emitter. A nil emitter disables emission.
func WithTelemetry(emitter *telemetry.Emitter) Option {
	return func(s *CampaignService) {
		s.telemetry = emitter
	}
}

// NewCampaignService creates a CampaignService with default dependencies.
func NewCampaignService(store storage.CampaignStore, opts ...Option) *CampaignService {
	s := &CampaignService{
		store:       store,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *CampaignService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// load fetches the current durable record for an id-keyed operation. A blank
// id reports not found directly so every backend behaves identically.
func (s *CampaignService) load(ctx context.Context, campaignID string) (campaign.Campaign, error) {
	key := strings.TrimSpace(campaignID)
	if key == "" {
		return campaign.Campaign{}, storage.ErrNotFound
	}

	current, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return campaign.Campaign{}, err
		}
		return campaign.Campaign{}, apperrors.Wrap(apperrors.CodeStorageFailure, "load campaign", err)
	}
	return current, nil
}

// commit persists the staged campaign. Every persistence failure, including a
// storage bounds violation, is wrapped as a storage failure so callers can
// tell "your input was wrong" from "the system could not service the request".
func (s *CampaignService) commit(ctx context.Context, message string, staged campaign.Campaign) error {
	if err := s.store.Put(ctx, staged); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailure, message, err)
	}
	return nil
}

// emit journals an operational event. Telemetry is best effort; operation
// outcomes never depend on it.
func (s *CampaignService) emit(ctx context.Context, name, campaignID string, attributes map[string]string) {
	_ = s.telemetry.Emit(ctx, storage.TelemetryEvent{
		EventName:  name,
		CampaignID: campaignID,
		Attributes: attributes,
	})
}
