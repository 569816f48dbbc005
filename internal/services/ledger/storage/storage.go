// Package storage defines the persistence contracts for the ledger service.
package storage

import (
	"context"
	"strconv"
	"time"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such campaign"
// states and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrRecordTooLarge indicates a campaign record breached a storage bound.
var ErrRecordTooLarge = apperrors.New(apperrors.CodeRecordTooLarge, "record exceeds storage limits")

// Storage bounds shared by every CampaignStore implementation. The durable
// layers reject rather than truncate when a record breaches them.
const (
	// MaxKeyBytes bounds the campaign id key length.
	MaxKeyBytes = 64
	// MaxRecordBytes bounds one serialized campaign record.
	MaxRecordBytes = 256 * 1024
	// MaxDonors bounds the donor list length of one campaign.
	MaxDonors = 4096
)

// CheckBounds validates a campaign id and its serialized record against the
// storage limits. Implementations call it from Put before writing.
func CheckBounds(id string, serialized []byte, donors int) error {
	if len(id) == 0 || len(id) > MaxKeyBytes {
		return apperrors.WithMetadata(
			apperrors.CodeRecordTooLarge,
			"campaign id breaches key bound",
			map[string]string{"Size": strconv.Itoa(len(id))},
		)
	}
	if len(serialized) > MaxRecordBytes {
		return apperrors.WithMetadata(
			apperrors.CodeRecordTooLarge,
			"serialized campaign breaches record bound",
			map[string]string{"Size": strconv.Itoa(len(serialized))},
		)
	}
	if donors > MaxDonors {
		return apperrors.WithMetadata(
			apperrors.CodeRecordTooLarge,
			"donor list breaches entry bound",
			map[string]string{"Size": strconv.Itoa(donors)},
		)
	}
	return nil
}

// CampaignStore is a durable ordered map from campaign id to campaign record.
type CampaignStore interface {
	// Put upserts the campaign under its id, subject to the storage bounds.
	Put(ctx context.Context, c campaign.Campaign) error
	// Get returns the stored campaign or ErrNotFound.
	Get(ctx context.Context, id string) (campaign.Campaign, error)
	// Delete removes and returns the stored campaign, or ErrNotFound.
	Delete(ctx context.Context, id string) (campaign.Campaign, error)
	// List returns all campaigns in ascending id order.
	List(ctx context.Context) ([]campaign.Campaign, error)
}

// TelemetryEvent captures an operational observation emitted during ledger
// command execution.
type TelemetryEvent struct {
	Timestamp  time.Time
	EventName  string
	CampaignID string
	Attributes map[string]string
}

// TelemetryStore persists operational telemetry records for audits.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
	// ListTelemetryEvents returns up to limit events in append order.
	// A non-positive limit returns all events.
	ListTelemetryEvents(ctx context.Context, limit int) ([]TelemetryEvent, error)
}

// LedgerStatistics contains aggregate counters used by dashboards and
// operational tooling.
type LedgerStatistics struct {
	CampaignCount int64
	DonorCount    int64
	DonatedTotal  int64
}

// StatisticsStore centralizes aggregate count queries.
type StatisticsStore interface {
	GetLedgerStatistics(ctx context.Context) (LedgerStatistics, error)
}

// Store is a composite interface for all persistence concerns of the ledger.
type Store interface {
	CampaignStore
	TelemetryStore
	StatisticsStore
	Close() error
}
