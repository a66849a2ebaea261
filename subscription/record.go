package subscription

import "time"

// Record is one purchased subscription period, normalized from a single
// in-app purchase entry of a verification response. Immutable after
// construction.
type Record struct {
	ProductID     string
	PurchaseDate  time.Time
	ExpiresDate   time.Time
	IsTrialPeriod bool
}

// IsActiveAt reports whether the record grants entitlement at the given time.
//
// Trial periods are treated as active regardless of ExpiresDate. This
// preserves long-standing billing behavior; whether a trial should also lapse
// is pending product-owner confirmation.
func (r *Record) IsActiveAt(now time.Time) bool {
	if r.IsTrialPeriod {
		return true
	}
	return !now.Before(r.PurchaseDate) && !now.After(r.ExpiresDate)
}

func (r *Record) Clone() *Record {
	cloned := *r
	return &cloned
}
