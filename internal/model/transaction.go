package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single transaction fetched from the ledger.
// Sign convention: a negative amount is a credit (income), a non-negative
// amount is a debit (expense). The sign affects display only, never logic.
type Transaction struct {
	Date       time.Time
	Payee      string
	Currency   string
	Notes      string
	Metadata   *Metadata
	CategoryID *int
	Amount     decimal.Decimal
	ID         int64
	IsGroup    bool
}

// Uncategorized reports whether the transaction is eligible for a
// categorization run: no category assigned and not a group entry.
func (t Transaction) Uncategorized() bool {
	return t.CategoryID == nil && !t.IsGroup
}

// Merchant returns the best available merchant name: the enrichment merchant
// name, then the enrichment generic name, then the payee.
func (t Transaction) Merchant() string {
	if t.Metadata != nil {
		if t.Metadata.MerchantName != "" {
			return t.Metadata.MerchantName
		}
		if t.Metadata.Name != "" {
			return t.Metadata.Name
		}
	}
	return t.Payee
}

// CurrencyCode returns the transaction currency, falling back to the
// enrichment ISO code. Empty when neither is known.
func (t Transaction) CurrencyCode() string {
	if t.Currency != "" {
		return t.Currency
	}
	if t.Metadata != nil {
		return t.Metadata.ISOCurrencyCode
	}
	return ""
}

// Metadata carries provider-assigned enrichment attached to a transaction by
// the ledger service. All fields are optional.
type Metadata struct {
	PersonalFinanceCategory *PersonalFinanceCategory `json:"personal_finance_category,omitempty"`
	Location                *Location                `json:"location,omitempty"`
	Pending                 *bool                    `json:"pending,omitempty"`
	MerchantName            string                   `json:"merchant_name,omitempty"`
	Name                    string                   `json:"name,omitempty"`
	ISOCurrencyCode         string                   `json:"iso_currency_code,omitempty"`
	Category                string                   `json:"category,omitempty"`
	PaymentChannel          string                   `json:"payment_channel,omitempty"`
	TransactionType         string                   `json:"transaction_type,omitempty"`
	Counterparties          []Counterparty           `json:"counterparties,omitempty"`
}

// PersonalFinanceCategory is the provider's two-level category path.
type PersonalFinanceCategory struct {
	Primary  string `json:"primary,omitempty"`
	Detailed string `json:"detailed,omitempty"`
}

// Counterparty is a party involved in the transaction, as identified by the
// enrichment provider.
type Counterparty struct {
	Name            string `json:"name,omitempty"`
	Type            string `json:"type,omitempty"`
	ConfidenceLevel string `json:"confidence_level,omitempty"`
}

// Location is the place the transaction occurred.
type Location struct {
	City   string `json:"city,omitempty"`
	Region string `json:"region,omitempty"`
}
