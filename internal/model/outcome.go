package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutcomeResult is the terminal result recorded for one transaction.
type OutcomeResult string

// Outcome results.
const (
	OutcomeCommitted OutcomeResult = "committed"
	OutcomeSkipped   OutcomeResult = "skipped"
	OutcomeFailed    OutcomeResult = "failed"
)

// Outcome is one row of run history: what happened to one transaction.
type Outcome struct {
	DecidedAt     time.Time
	Payee         string
	CategoryName  string
	Result        OutcomeResult
	Amount        decimal.Decimal
	TransactionID int64
	CategoryID    int
}
