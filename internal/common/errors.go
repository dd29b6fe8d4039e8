// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Configuration errors. These fail a run before any network activity.
	ErrMissingAPIKey      = errors.New("missing API key")
	ErrMissingModel       = errors.New("missing model selection")
	ErrMissingLedgerToken = errors.New("missing ledger token")

	// Run errors.
	ErrNoCategories   = errors.New("no active categories")
	ErrNoTransactions = errors.New("no transactions to categorize")
)

// TransportError is a non-success response from the ledger service or a
// model backend. It is recovered per transaction: a failed suggestion fetch
// or commit never aborts the batch.
type TransportError struct {
	Body   string
	Status int
}

func (e *TransportError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
