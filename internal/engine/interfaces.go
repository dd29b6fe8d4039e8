package engine

import (
	"context"
	"time"

	"github.com/jcowell/sift/internal/model"
)

// Ledger is the remote service that owns categories and transactions.
type Ledger interface {
	Categories(ctx context.Context) ([]model.Category, error)
	UncategorizedTransactions(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	Categorize(ctx context.Context, transactionID int64, categoryID int) error
}

// Suggester produces category suggestions for a rendered transaction prompt.
type Suggester interface {
	Suggest(ctx context.Context, systemPrompt, userPrompt string) ([]model.Suggestion, error)
}

// Prompter presents one transaction for approval and blocks until the human
// decides. A Cancel decision or a context error stops the batch.
type Prompter interface {
	Review(ctx context.Context, approval model.Approval) (model.Decision, error)
}

// History records the outcome of each reviewed transaction. Implementations
// must tolerate being called once per transaction in order.
type History interface {
	Record(ctx context.Context, outcome model.Outcome) error
}
