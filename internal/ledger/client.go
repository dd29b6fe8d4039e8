// Package ledger talks to the remote ledger service that owns categories and
// transactions. The ledger is the single source of truth: sift never stores
// transactions locally, and its only write path is the category commit.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcowell/sift/internal/common"
	"github.com/jcowell/sift/internal/model"
)

// pageSize bounds one transaction fetch. The server paginates; sift reads a
// single page per run (see UncategorizedTransactions).
const pageSize = 500

// Client is an HTTP client for the ledger API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a ledger client authenticating with a bearer token.
func NewClient(baseURL, token string) (*Client, error) {
	if token == "" {
		return nil, common.ErrMissingLedgerToken
	}
	if baseURL == "" {
		return nil, fmt.Errorf("ledger base URL is required")
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Categories fetches the category list and returns the active subset:
// archived categories and category groups are filtered out.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	body, err := c.get(ctx, "/v1/categories", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var resp categoriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	categories := make([]model.Category, 0, len(resp.Categories))
	for _, ac := range resp.Categories {
		categories = append(categories, model.Category{
			ID:          ac.ID,
			Name:        ac.Name,
			Description: ac.Description,
			Archived:    ac.Archived,
			IsGroup:     ac.IsGroup,
		})
	}

	active := model.ActiveCategories(categories)
	slog.Debug("fetched categories", "total", len(categories), "active", len(active))
	return active, nil
}

// UncategorizedTransactions fetches uncategorized, non-group transactions in
// the inclusive date range. The fetch is bounded to one page of 500 rows;
// when the server reports more, the excess is left for a later run. This
// truncation is a documented limitation of the workflow, not an error.
func (c *Client) UncategorizedTransactions(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	params := url.Values{}
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))
	params.Set("uncategorized", "true")
	params.Set("limit", strconv.Itoa(pageSize))

	body, err := c.get(ctx, "/v1/transactions", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	var resp transactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}

	if resp.HasMore {
		slog.Info("more uncategorized transactions than one page; processing the first",
			"page_size", pageSize)
	}

	transactions := make([]model.Transaction, 0, len(resp.Transactions))
	for _, at := range resp.Transactions {
		txn, err := at.toModel()
		if err != nil {
			slog.Warn("skipping malformed transaction", "id", at.ID, "error", err)
			continue
		}
		// The server filters these; keep the guarantee even if it misbehaves.
		if !txn.Uncategorized() {
			continue
		}
		transactions = append(transactions, txn)
	}

	slog.Debug("fetched uncategorized transactions", "count", len(transactions))
	return transactions, nil
}

// Categorize assigns a category to a transaction. The call is idempotent:
// repeating it with the same arguments yields the same remote state, and a
// failure leaves the transaction's remote category unchanged.
func (c *Client) Categorize(ctx context.Context, transactionID int64, categoryID int) error {
	reqBody, err := json.Marshal(updateRequest{
		Transaction: updateFields{CategoryID: categoryID},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	path := fmt.Sprintf("/v1/transactions/%d", transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &common.TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// get issues an authenticated GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &common.TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// Ledger API response types.
type categoriesResponse struct {
	Categories []apiCategory `json:"categories"`
}

type apiCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ID          int    `json:"id"`
	Archived    bool   `json:"archived"`
	IsGroup     bool   `json:"is_group"`
}

type transactionsResponse struct {
	Transactions []apiTransaction `json:"transactions"`
	HasMore      bool             `json:"has_more"`
}

type apiTransaction struct {
	Date       string          `json:"date"`
	Payee      string          `json:"payee"`
	Amount     string          `json:"amount"`
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes"`
	Metadata   json.RawMessage `json:"metadata"`
	CategoryID *int            `json:"category_id"`
	ID         int64           `json:"id"`
	IsGroup    bool            `json:"is_group"`
}

func (at apiTransaction) toModel() (model.Transaction, error) {
	date, err := time.Parse("2006-01-02", at.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid date %q: %w", at.Date, err)
	}

	amount, err := decimal.NewFromString(at.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount %q: %w", at.Amount, err)
	}

	txn := model.Transaction{
		ID:         at.ID,
		Date:       date,
		Payee:      at.Payee,
		Amount:     amount,
		Currency:   at.Currency,
		Notes:      at.Notes,
		CategoryID: at.CategoryID,
		IsGroup:    at.IsGroup,
	}

	if len(at.Metadata) > 0 && string(at.Metadata) != "null" {
		var md model.Metadata
		if err := json.Unmarshal(at.Metadata, &md); err != nil {
			// Enrichment is best-effort; a bad blob degrades the prompt,
			// it does not disqualify the transaction.
			slog.Debug("ignoring malformed transaction metadata", "id", at.ID, "error", err)
		} else {
			txn.Metadata = &md
		}
	}

	return txn, nil
}

type updateRequest struct {
	Transaction updateFields `json:"transaction"`
}

type updateFields struct {
	CategoryID int `json:"category_id"`
}
