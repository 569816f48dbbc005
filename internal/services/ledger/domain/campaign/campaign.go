package campaign

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/id"
)

var (
	// ErrProposerMissing indicates a missing campaign proposer.
	ErrProposerMissing = apperrors.New(apperrors.CodeCampaignProposerMissing, "campaign proposer is required")
	// ErrTitleEmpty indicates a missing campaign title.
	ErrTitleEmpty = apperrors.New(apperrors.CodeCampaignTitleEmpty, "campaign title is required")
	// ErrDescriptionEmpty indicates a missing campaign description.
	ErrDescriptionEmpty = apperrors.New(apperrors.CodeCampaignDescriptionEmpty, "campaign description is required")
	// ErrGoalNotPositive indicates a zero or negative funding goal.
	ErrGoalNotPositive = apperrors.New(apperrors.CodeCampaignGoalNotPositive, "campaign goal must be positive")
	// ErrAmountNotPositive indicates a zero or negative donation amount.
	ErrAmountNotPositive = apperrors.New(apperrors.CodeDonationAmountNotPositive, "donation amount must be positive")
)

// Campaign is the aggregate root of the crowdfunding ledger.
type Campaign struct {
	ID       string `json:"id"`
	Proposer string `json:"proposer"`
	Title    string `json:"title"`
	// Description holds free-form campaign text; amendable together with Title.
	Description string `json:"description"`
	// Goal is the maximum total donation amount; set at creation, never changed.
	Goal int64 `json:"goal"`
	// TotalDonations is the sum of accepted donor amounts. It never exceeds Goal.
	TotalDonations int64 `json:"total_donations"`
	// Deadline is an absolute timestamp in nanoseconds since the Unix epoch.
	Deadline int64 `json:"deadline"`
	// Donors records accepted contributions in donation order.
	Donors []Donor `json:"donors"`
}

// Donor records one contribution: the donating identity and its amount.
// A single identity may appear multiple times.
type Donor struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// CreateInput describes the fields needed to open a campaign.
type CreateInput struct {
	Proposer    string
	Title       string
	Description string
	Goal        int64
	// DeadlineDays sets the deadline this many whole days after creation.
	DeadlineDays int
}

// Create builds a new campaign with a generated id, an empty donor list,
// and a deadline DeadlineDays from now.
func Create(input CreateInput, now func() time.Time, idGenerator func() (string, error)) (Campaign, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateInput(input)
	if err != nil {
		return Campaign{}, err
	}

	campaignID, err := idGenerator()
	if err != nil {
		return Campaign{}, fmt.Errorf("generate campaign id: %w", err)
	}

	return Campaign{
		ID:             campaignID,
		Proposer:       normalized.Proposer,
		Title:          normalized.Title,
		Description:    normalized.Description,
		Goal:           normalized.Goal,
		TotalDonations: 0,
		Deadline:       DeadlineFrom(now().UTC(), normalized.DeadlineDays),
		Donors:         []Donor{},
	}, nil
}

// NormalizeCreateInput trims and validates campaign creation input.
func NormalizeCreateInput(input CreateInput) (CreateInput, error) {
	input.Proposer = strings.TrimSpace(input.Proposer)
	if input.Proposer == "" {
		return CreateInput{}, ErrProposerMissing
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return CreateInput{}, ErrTitleEmpty
	}
	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return CreateInput{}, ErrDescriptionEmpty
	}
	if input.Goal <= 0 {
		return CreateInput{}, ErrGoalNotPositive
	}
	return input, nil
}

// MaxDeadlineDays bounds the deadline horizon in either direction. The
// day-to-duration conversion overflows int64 nanoseconds near 106751 days,
// so larger inputs are clamped to this bound.
const MaxDeadlineDays = 100 * 365

// DeadlineFrom computes an absolute deadline in nanoseconds since the epoch,
// days whole days after now. Days beyond ±MaxDeadlineDays are clamped.
func DeadlineFrom(now time.Time, days int) int64 {
	if days > MaxDeadlineDays {
		days = MaxDeadlineDays
	}
	if days < -MaxDeadlineDays {
		days = -MaxDeadlineDays
	}
	return now.UnixNano() + (time.Duration(days) * 24 * time.Hour).Nanoseconds()
}

// Clone returns a deep copy whose donor slice shares no memory with c.
func (c Campaign) Clone() Campaign {
	cloned := c
	cloned.Donors = make([]Donor, len(c.Donors))
	copy(cloned.Donors, c.Donors)
	return cloned
}

// HasReachedGoal reports whether accepted donations meet or exceed the goal.
func (c Campaign) HasReachedGoal() bool {
	return c.TotalDonations >= c.Goal
}

// HasEnded reports whether now is strictly past the campaign deadline.
func (c Campaign) HasEnded(now time.Time) bool {
	return now.UnixNano() > c.Deadline
}

// Donate validates and applies a donation. A donation is rejected when the
// campaign has ended or when it would push the accepted total past the goal;
// a rejected donation returns the zero Campaign and leaves c untouched. The
// ended check runs before the goal check.
func Donate(c Campaign, donorID string, amount int64, now time.Time) (Campaign, error) {
	if amount <= 0 {
		return Campaign{}, ErrAmountNotPositive
	}
	if c.HasEnded(now) {
		return Campaign{}, apperrors.WithMetadata(
			apperrors.CodeCampaignEnded,
			"campaign deadline has passed",
			map[string]string{
				"CampaignID": c.ID,
				"Deadline":   strconv.FormatInt(c.Deadline, 10),
			},
		)
	}
	// Gate on the remaining capacity; summing the total and the amount
	// first can overflow int64 and wrap negative past the goal check.
	if amount > c.Goal-c.TotalDonations {
		return Campaign{}, apperrors.WithMetadata(
			apperrors.CodeCampaignGoalExceeded,
			fmt.Sprintf("donation would exceed goal: %d accepted of %d, amount %d", c.TotalDonations, c.Goal, amount),
			map[string]string{
				"Amount": strconv.FormatInt(amount, 10),
				"Goal":   strconv.FormatInt(c.Goal, 10),
			},
		)
	}

	updated := c.Clone()
	updated.Donors = append(updated.Donors, Donor{ID: donorID, Amount: amount})
	updated.TotalDonations = c.TotalDonations + amount
	return updated, nil
}

// UpdateDetails replaces the title and description. The amend operation
// applies no validation to the new values.
func UpdateDetails(c Campaign, title, description string) Campaign {
	updated := c.Clone()
	updated.Title = title
	updated.Description = description
	return updated
}

// UpdateDeadline recomputes the deadline as days whole days after now.
func UpdateDeadline(c Campaign, days int, now time.Time) Campaign {
	updated := c.Clone()
	updated.Deadline = DeadlineFrom(now, days)
	return updated
}

// AddDonor appends a donor record without goal or deadline gating and
// without updating TotalDonations. Administrative override only; see the
// package documentation for the weaker contract.
func AddDonor(c Campaign, donor Donor) Campaign {
	updated := c.Clone()
	updated.Donors = append(updated.Donors, donor)
	return updated
}
