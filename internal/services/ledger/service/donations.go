package service

import (
	"context"
	"strconv"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
)

// Donate records a donation against the campaign. The clock is read once; a
// campaign past its deadline rejects before the goal is considered, and a
// donation that would push the total past the goal rejects with zero
// mutation. Only a fully valid transition is committed.
func (s *CampaignService) Donate(ctx context.Context, campaignID, donorID string, amount int64) (campaign.Campaign, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}

	updated, err := campaign.Donate(current, donorID, amount, s.now())
	if err != nil {
		s.emit(ctx, eventDonationRejected, current.ID, map[string]string{
			"donor":  donorID,
			"amount": strconv.FormatInt(amount, 10),
			"reason": string(apperrors.CodeOf(err)),
		})
		return campaign.Campaign{}, err
	}

	if err := s.commit(ctx, "persist donation", updated); err != nil {
		return campaign.Campaign{}, err
	}

	s.emit(ctx, eventDonationAccepted, updated.ID, map[string]string{
		"donor":  donorID,
		"amount": strconv.FormatInt(amount, 10),
		"total":  strconv.FormatInt(updated.TotalDonations, 10),
	})
	return updated, nil
}

// AddDonor appends a donor record without the donation gates and without
// updating the running total. This is the administrative override path; it
// can leave the total out of sync with the donor list and callers own that
// consequence. Storage bounds still apply.
func (s *CampaignService) AddDonor(ctx context.Context, campaignID string, donor campaign.Donor) (campaign.Campaign, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}

	updated := campaign.AddDonor(current, donor)
	if err := s.commit(ctx, "persist donor append", updated); err != nil {
		return campaign.Campaign{}, err
	}

	s.emit(ctx, eventDonorAdded, updated.ID, map[string]string{
		"donor":  donor.ID,
		"amount": strconv.FormatInt(donor.Amount, 10),
	})
	return updated, nil
}

// HasReachedGoal reports whether the campaign total has met or passed the
// goal.
func (s *CampaignService) HasReachedGoal(ctx context.Context, campaignID string) (bool, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return false, err
	}
	return current.HasReachedGoal(), nil
}

// HasEnded reports whether the clock has passed the campaign deadline.
func (s *CampaignService) HasEnded(ctx context.Context, campaignID string) (bool, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return false, err
	}
	return current.HasEnded(s.now()), nil
}

// GetDonors returns the campaign donor list in donation order.
func (s *CampaignService) GetDonors(ctx context.Context, campaignID string) ([]campaign.Donor, error) {
	current, err := s.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return current.Donors, nil
}
