package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecord_IsActiveAt(t *testing.T) {
	purchase := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	record := Record{
		ProductID:    "pro.monthly",
		PurchaseDate: purchase,
		ExpiresDate:  expires,
	}

	require.False(t, record.IsActiveAt(purchase.Add(-time.Second)))
	require.True(t, record.IsActiveAt(purchase))
	require.True(t, record.IsActiveAt(purchase.Add(10*24*time.Hour)))
	require.True(t, record.IsActiveAt(expires))
	require.False(t, record.IsActiveAt(expires.Add(time.Second)))
}

func TestRecord_TrialOverridesExpiry(t *testing.T) {
	record := Record{
		ProductID:     "pro.monthly",
		PurchaseDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresDate:   time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC),
		IsTrialPeriod: true,
	}

	// Trial records are active regardless of the expiry window.
	require.True(t, record.IsActiveAt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, record.IsActiveAt(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRecord_Clone(t *testing.T) {
	record := &Record{
		ProductID:    "pro.monthly",
		PurchaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	cloned := record.Clone()
	require.Equal(t, record, cloned)

	cloned.ProductID = "pro.yearly"
	require.Equal(t, "pro.monthly", record.ProductID)
}
