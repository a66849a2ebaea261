package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/witworkapp/storekit-go/subscription"
)

func RunStoreTests(t *testing.T, s subscription.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s subscription.Store){
		testStore_RoundTrip,
		testStore_AbsentLoad,
		testStore_Overwrite,
		testStore_StartDateStability,
	} {
		tf(t, s)
		teardown()
	}
}

func requireSameRecord(t *testing.T, expected, actual *subscription.Record) {
	require.Equal(t, expected.ProductID, actual.ProductID)
	require.True(t, expected.PurchaseDate.Equal(actual.PurchaseDate))
	require.True(t, expected.ExpiresDate.Equal(actual.ExpiresDate))
	require.Equal(t, expected.IsTrialPeriod, actual.IsTrialPeriod)
}

func testStore_RoundTrip(t *testing.T, store subscription.Store) {
	expected := &subscription.Record{
		ProductID:     "pro.monthly",
		PurchaseDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		IsTrialPeriod: true,
	}

	require.NoError(t, store.SaveCurrent(context.Background(), expected))

	actual, err := store.GetCurrent(context.Background())
	require.NoError(t, err)
	requireSameRecord(t, expected, actual)
}

func testStore_AbsentLoad(t *testing.T, store subscription.Store) {
	_, err := store.GetCurrent(context.Background())
	require.Equal(t, subscription.ErrNotFound, err)
}

func testStore_Overwrite(t *testing.T, store subscription.Store) {
	first := &subscription.Record{
		ProductID:    "pro.monthly",
		PurchaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	second := &subscription.Record{
		ProductID:    "pro.yearly",
		PurchaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpiresDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.SaveCurrent(context.Background(), first))
	require.NoError(t, store.SaveCurrent(context.Background(), second))

	actual, err := store.GetCurrent(context.Background())
	require.NoError(t, err)
	requireSameRecord(t, second, actual)
}

func testStore_StartDateStability(t *testing.T, store subscription.Store) {
	first := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	got, err := store.InitStartDate(context.Background(), first)
	require.NoError(t, err)
	require.True(t, first.Equal(got))

	// A later fallback must not displace the captured value.
	got, err = store.InitStartDate(context.Background(), first.Add(48*time.Hour))
	require.NoError(t, err)
	require.True(t, first.Equal(got))
}
