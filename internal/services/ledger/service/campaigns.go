package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
)

// CreateCampaign validates the input, assigns a fresh collision-checked id,
// and persists the new campaign. The store is consulted before insertion so
// an id collision retries with a new id instead of silently overwriting an
// existing record; exhausting the retry budget is a storage failure.
func (s *CampaignService) CreateCampaign(ctx context.Context, input campaign.CreateInput) (campaign.Campaign, error) {
	if s.store == nil {
		return campaign.Campaign{}, apperrors.New(apperrors.CodeStorageFailure, "campaign store is not configured")
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		created, err := campaign.Create(input, s.clock, s.idGenerator)
		if err != nil {
			if apperrors.CodeOf(err) != apperrors.CodeUnknown {
				return campaign.Campaign{}, err
			}
			return campaign.Campaign{}, apperrors.Wrap(apperrors.CodeStorageFailure, "create campaign", err)
		}

		_, err = s.store.Get(ctx, created.ID)
		if errors.Is(err, storage.ErrNotFound) {
			if err := s.commit(ctx, "persist campaign", created); err != nil {
				return campaign.Campaign{}, err
			}
			s.emit(ctx, eventCampaignCreated, created.ID, map[string]string{
				"proposer": created.Proposer,
				"goal":     strconv.FormatInt(created.Goal, 10),
			})
			return created, nil
		}
		if err != nil {
			return campaign.Campaign{}, apperrors.Wrap(apperrors.CodeStorageFailure, "check campaign id", err)
		}
	}

	return campaign.Campaign{}, apperrors.New(
		apperrors.CodeStorageFailure,
		fmt.Sprintf("campaign id collided %d times", maxIDAttempts),
	)
}

// UpdateTitleAndDescription amends the campaign text fields. The amend path
// performs no validation beyond existence; blank values overwrite.
func (s *CampaignService) UpdateTitleAndDescription(ctx context.Context, campaignID, title, description string) (campaign.Campaign, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}

	updated := campaign.UpdateDetails(current, title, description)
	if err := s.commit(ctx, "persist campaign amendment", updated); err != nil {
		return campaign.Campaign{}, err
	}
	return updated, nil
}

// UpdateDeadline recomputes the deadline as now plus the provided number of
// days, read from the clock at call time.
func (s *CampaignService) UpdateDeadline(ctx context.Context, campaignID string, days int) (campaign.Campaign, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}

	updated := campaign.UpdateDeadline(current, days, s.now())
	if err := s.commit(ctx, "persist deadline update", updated); err != nil {
		return campaign.Campaign{}, err
	}
	return updated, nil
}

// DeleteCampaign removes the campaign and returns the removed record.
func (s *CampaignService) DeleteCampaign(ctx context.Context, campaignID string) (campaign.Campaign, error) {
	key := strings.TrimSpace(campaignID)
	if key == "" {
		return campaign.Campaign{}, storage.ErrNotFound
	}

	removed, err := s.store.Delete(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return campaign.Campaign{}, err
		}
		return campaign.Campaign{}, apperrors.Wrap(apperrors.CodeStorageFailure, "delete campaign", err)
	}

	s.emit(ctx, eventCampaignDeleted, removed.ID, nil)
	return removed, nil
}

// GetCampaign returns the stored campaign.
func (s *CampaignService) GetCampaign(ctx context.Context, campaignID string) (campaign.Campaign, error) {
	return s.load(ctx, campaignID)
}

// GetDeadline returns the campaign deadline in nanoseconds since the epoch.
func (s *CampaignService) GetDeadline(ctx context.Context, campaignID string) (int64, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	return current.Deadline, nil
}

// ListCampaigns returns every stored campaign in store order.
func (s *CampaignService) ListCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailure, "list campaigns", err)
	}
	return all, nil
}
