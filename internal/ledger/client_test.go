package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcowell/sift/internal/common"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("https://ledger.example.com", "")
	require.ErrorIs(t, err, common.ErrMissingLedgerToken)

	_, err = NewClient("", "token")
	require.Error(t, err)

	client, err := NewClient("https://ledger.example.com", "token")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestCategoriesFiltersInactive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/categories", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"categories": []map[string]any{
				{"id": 1, "name": "Groceries", "description": "Food shopping"},
				{"id": 2, "name": "Old Stuff", "archived": true},
				{"id": 3, "name": "Living", "is_group": true},
				{"id": 4, "name": "Utilities"},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Groceries", categories[0].Name)
	assert.Equal(t, "Food shopping", categories[0].Description)
	assert.Equal(t, "Utilities", categories[1].Name)
}

func TestCategoriesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	_, err = client.Categories(context.Background())

	var te *common.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusServiceUnavailable, te.Status)
	assert.Equal(t, "maintenance", te.Body)
}

func TestUncategorizedTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transactions", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2024-01-01", q.Get("start_date"))
		assert.Equal(t, "2024-01-31", q.Get("end_date"))
		assert.Equal(t, "true", q.Get("uncategorized"))
		assert.Equal(t, "500", q.Get("limit"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"transactions": []map[string]any{
				{
					"id":     101,
					"date":   "2024-01-15",
					"payee":  "WHOLEFDS 10259",
					"amount": "-42.17",
					"metadata": map[string]any{
						"merchant_name": "Whole Foods",
					},
				},
				{
					// Already categorized; must be dropped even though the
					// server claimed to filter.
					"id":          102,
					"date":        "2024-01-16",
					"payee":       "Rent",
					"amount":      "-1200.00",
					"category_id": 7,
				},
				{
					// Malformed amount; skipped, not fatal.
					"id":     103,
					"date":   "2024-01-17",
					"payee":  "Broken",
					"amount": "not-a-number",
				},
			},
			"has_more": false,
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	transactions, err := client.UncategorizedTransactions(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, transactions, 1)

	txn := transactions[0]
	assert.Equal(t, int64(101), txn.ID)
	assert.Equal(t, "WHOLEFDS 10259", txn.Payee)
	assert.Equal(t, "Whole Foods", txn.Merchant())
	assert.Equal(t, "-42.17", txn.Amount.StringFixed(2))
	assert.True(t, txn.Uncategorized())
}

func TestUncategorizedTransactionsMalformedMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"transactions":[{"id":1,"date":"2024-01-02","payee":"Corner Store","amount":"-5.00","metadata":"oops"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	transactions, err := client.UncategorizedTransactions(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Nil(t, transactions[0].Metadata)
	assert.Equal(t, "Corner Store", transactions[0].Merchant())
}

func TestCategorize(t *testing.T) {
	var gotBody map[string]map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/transactions/101", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	require.NoError(t, client.Categorize(context.Background(), 101, 3))
	assert.Equal(t, 3, gotBody["transaction"]["category_id"])
}

func TestCategorizeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"unknown category"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	err = client.Categorize(context.Background(), 101, 999)

	var te *common.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnprocessableEntity, te.Status)
}

func TestCategorizeCancelledContext(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = client.Categorize(ctx, 101, 3)
	require.Error(t, err)
	assert.False(t, called)
}
