package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		raw    *float64
		want   *float64
		name   string
		absent bool
	}{
		{name: "nil stays absent", raw: nil, absent: true},
		{name: "already normalized", raw: floatPtr(0.9), want: floatPtr(0.9)},
		{name: "percentage", raw: floatPtr(85), want: floatPtr(0.85)},
		{name: "boundary one", raw: floatPtr(1), want: floatPtr(1)},
		{name: "percentage above hundred capped", raw: floatPtr(150), want: floatPtr(1)},
		{name: "negative treated as absent", raw: floatPtr(-1), absent: true},
		{name: "zero", raw: floatPtr(0), want: floatPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeConfidence(tt.raw)
			if tt.absent {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		value *float64
		name  string
		want  ConfidenceBucket
	}{
		{name: "absent has no bucket", value: nil, want: BucketNone},
		{name: "high boundary", value: floatPtr(0.80), want: BucketHigh},
		{name: "above high", value: floatPtr(0.95), want: BucketHigh},
		{name: "medium boundary", value: floatPtr(0.50), want: BucketMedium},
		{name: "below medium is low", value: floatPtr(0.45), want: BucketLow},
		{name: "zero is low", value: floatPtr(0), want: BucketLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bucket(tt.value))
		})
	}
}

func TestTransactionMerchant(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want string
	}{
		{
			name: "merchant name wins",
			txn: Transaction{
				Payee:    "SQ *COFFEE 042",
				Metadata: &Metadata{MerchantName: "Blue Bottle", Name: "Blue Bottle Coffee"},
			},
			want: "Blue Bottle",
		},
		{
			name: "generic name second",
			txn: Transaction{
				Payee:    "SQ *COFFEE 042",
				Metadata: &Metadata{Name: "Blue Bottle Coffee"},
			},
			want: "Blue Bottle Coffee",
		},
		{
			name: "payee as fallback",
			txn:  Transaction{Payee: "SQ *COFFEE 042", Metadata: &Metadata{}},
			want: "SQ *COFFEE 042",
		},
		{
			name: "no metadata at all",
			txn:  Transaction{Payee: "SQ *COFFEE 042"},
			want: "SQ *COFFEE 042",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.Merchant())
		})
	}
}

func TestTransactionCurrencyCode(t *testing.T) {
	assert.Equal(t, "USD", Transaction{Currency: "USD"}.CurrencyCode())
	assert.Equal(t, "EUR", Transaction{Metadata: &Metadata{ISOCurrencyCode: "EUR"}}.CurrencyCode())
	assert.Equal(t, "", Transaction{}.CurrencyCode())
}

func TestActiveCategories(t *testing.T) {
	cats := []Category{
		{ID: 1, Name: "Groceries"},
		{ID: 2, Name: "Old Stuff", Archived: true},
		{ID: 3, Name: "Everything", IsGroup: true},
		{ID: 4, Name: "Gas, Transportation"},
	}

	active := ActiveCategories(cats)
	require.Len(t, active, 2)
	assert.Equal(t, "Groceries", active[0].Name)
	assert.Equal(t, "Gas, Transportation", active[1].Name)
}
