package subscription

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("subscription not found")

// Store durably persists the most recently resolved subscription so
// entitlement survives process restarts.
type Store interface {
	// SaveCurrent overwrites the persisted subscription with the given record.
	// The write is atomic and flushed before returning.
	SaveCurrent(ctx context.Context, record *Record) error

	// GetCurrent returns the persisted subscription, or ErrNotFound when
	// nothing was ever saved or the stored value cannot be decoded. Corrupt
	// data is indistinguishable from absence on purpose.
	GetCurrent(ctx context.Context) (*Record, error)

	// InitStartDate returns the persisted reference start timestamp,
	// persisting fallback on first use. Later calls return the original value
	// regardless of subsequent clock changes.
	InitStartDate(ctx context.Context, fallback time.Time) (time.Time, error)
}
