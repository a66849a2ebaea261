package storekit

import (
	"time"

	"github.com/google/uuid"

	"github.com/witworkapp/storekit-go/appstore"
	"github.com/witworkapp/storekit-go/subscription"
)

// Session bundles one fetch-and-validate transaction: the raw receipt
// submitted, the full decoded response, and the subscription records parsed
// from it.
type Session struct {
	// ID is unique per session, assigned at construction and never reused.
	ID string

	ReceiptData []byte
	Response    *appstore.VerifyResponse
	Records     []subscription.Record
}

func NewSession(receiptData []byte, response *appstore.VerifyResponse) *Session {
	return &Session{
		ID:          uuid.NewString(),
		ReceiptData: receiptData,
		Response:    response,
		Records:     subscription.ParseRecords(response),
	}
}

// Current resolves the subscription in effect at the given time. Recomputed
// on each call rather than stored.
func (s *Session) Current(now time.Time) (subscription.Record, bool) {
	return subscription.Current(s.Records, now)
}

// Equal compares sessions by identity, not structure.
func (s *Session) Equal(other *Session) bool {
	return other != nil && s.ID == other.ID
}
