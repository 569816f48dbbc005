package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
)

// TelemetryStore persists emitted events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error
}

// Emitter appends telemetry events through a store. A nil emitter or an
// emitter without a store silently drops events, so callers can emit
// unconditionally.
type Emitter struct {
	store TelemetryStore
	clock func() time.Time
}

// NewEmitter builds an emitter that appends events through the given store.
// A nil clock falls back to time.Now.
func NewEmitter(store TelemetryStore, clock func() time.Time) *Emitter {
	return &Emitter{store: store, clock: clock}
}

// Emit records one event, stamping the current time when the event does not
// carry its own timestamp.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		clock := e.clock
		if clock == nil {
			clock = time.Now
		}
		evt.Timestamp = clock().UTC()
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}
