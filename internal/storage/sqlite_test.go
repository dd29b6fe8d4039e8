package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcowell/sift/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}

func TestRecordAndRecentOutcomes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	outcomes := []model.Outcome{
		{
			TransactionID: 100,
			Payee:         "Whole Foods",
			Amount:        decimal.NewFromFloat(-42.17),
			CategoryID:    1,
			CategoryName:  "Groceries",
			Result:        model.OutcomeCommitted,
			DecidedAt:     base,
		},
		{
			TransactionID: 101,
			Payee:         "Shell",
			Amount:        decimal.NewFromFloat(-30.00),
			Result:        model.OutcomeSkipped,
			DecidedAt:     base.Add(time.Minute),
		},
		{
			TransactionID: 102,
			Payee:         "PG&E",
			Amount:        decimal.NewFromFloat(-120.55),
			CategoryID:    3,
			CategoryName:  "Utilities",
			Result:        model.OutcomeFailed,
			DecidedAt:     base.Add(2 * time.Minute),
		},
	}
	for _, outcome := range outcomes {
		require.NoError(t, store.Record(ctx, outcome))
	}

	got, err := store.RecentOutcomes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, int64(102), got[0].TransactionID)
	assert.Equal(t, model.OutcomeFailed, got[0].Result)
	assert.Equal(t, int64(100), got[2].TransactionID)
	assert.Equal(t, "Groceries", got[2].CategoryName)
	assert.True(t, got[2].Amount.Equal(decimal.NewFromFloat(-42.17)))
	assert.True(t, got[2].DecidedAt.Equal(base))
}

func TestRecentOutcomesLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, store.Record(ctx, model.Outcome{
			TransactionID: int64(100 + i),
			Payee:         "Payee",
			Amount:        decimal.NewFromInt(-10),
			Result:        model.OutcomeSkipped,
			DecidedAt:     time.Date(2024, 1, 15, 10, i, 0, 0, time.UTC),
		}))
	}

	got, err := store.RecentOutcomes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(104), got[0].TransactionID)

	got, err = store.RecentOutcomes(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 5, "non-positive limit falls back to the default")
}

func TestRecentOutcomesEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.RecentOutcomes(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
