// Package engine drives the categorization batch: it fetches uncategorized
// transactions, asks the suggester for candidates, presents each transaction
// to the human gate, and commits approved categories back to the ledger.
// Transactions are processed strictly one at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcowell/sift/internal/common"
	"github.com/jcowell/sift/internal/match"
	"github.com/jcowell/sift/internal/model"
	"github.com/jcowell/sift/internal/prompt"
)

// RunState describes where the engine is in its lifecycle.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Summary reports what happened over one batch.
type Summary struct {
	Total     int
	Committed int
	Skipped   int
	Failed    int
	Cancelled bool
}

// Engine orchestrates one categorization run.
type Engine struct {
	ledger    Ledger
	suggester Suggester
	prompter  Prompter
	history   History
	notifier  Notifier
	state     RunState
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistory records each outcome to the given store.
func WithHistory(h History) Option {
	return func(e *Engine) { e.history = h }
}

// WithNotifier streams events and progress to the given notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// New creates an engine. Ledger, suggester, and prompter are required;
// history and notifier are optional.
func New(ledger Ledger, suggester Suggester, prompter Prompter, opts ...Option) *Engine {
	e := &Engine{
		ledger:    ledger,
		suggester: suggester,
		prompter:  prompter,
		notifier:  nopNotifier{},
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() RunState {
	return e.state
}

// Run processes every uncategorized transaction in the date range, one at a
// time. Cancelling the context stops the batch at the next checkpoint;
// outcomes already committed are never rolled back. A suggester failure on
// one transaction never aborts the batch: the transaction is presented
// without suggestions and the run continues.
func (e *Engine) Run(ctx context.Context, start, end time.Time) (Summary, error) {
	e.state = StateRunning

	categories, err := e.ledger.Categories(ctx)
	if err != nil {
		e.state = StateCompleted
		return Summary{}, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		e.state = StateCompleted
		return Summary{}, common.ErrNoCategories
	}

	transactions, err := e.ledger.UncategorizedTransactions(ctx, start, end)
	if err != nil {
		e.state = StateCompleted
		return Summary{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(transactions) == 0 {
		e.state = StateCompleted
		return Summary{}, common.ErrNoTransactions
	}

	e.event(LevelInfo, fmt.Sprintf("Reviewing %d uncategorized transactions", len(transactions)))

	// The category snapshot is taken once; every transaction in the batch is
	// judged against the same list.
	systemPrompt := prompt.System(categories)
	categoryNames := make(map[int]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	summary := Summary{Total: len(transactions)}

	for _, txn := range transactions {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		approval := model.Approval{
			Transaction: txn,
			Categories:  categories,
		}

		suggestions, err := e.suggest(ctx, systemPrompt, txn)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				summary.Cancelled = true
				break
			}
			// Degrade, don't abort: the human still reviews the transaction.
			e.event(LevelWarn, fmt.Sprintf("No suggestions for %q: %v", txn.Merchant(), err))
			slog.Warn("suggestion request failed", "transaction_id", txn.ID, "error", err)
			approval.SuggestionErr = err.Error()
		}

		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		valid, dropped := match.Validate(suggestions, categories)
		for _, d := range dropped {
			e.event(LevelWarn, fmt.Sprintf("Dropped suggestion %q: not an exact category name", d.Name))
		}
		approval.Suggestions = annotate(valid, categories)
		if len(approval.Suggestions) > 0 {
			approval.PreselectedID = approval.Suggestions[0].CategoryID
		}

		decision, err := e.prompter.Review(ctx, approval)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				summary.Cancelled = true
				break
			}
			e.state = StateCompleted
			return summary, fmt.Errorf("approval gate failed: %w", err)
		}

		switch decision.Action {
		case model.DecisionCancel:
			summary.Cancelled = true
			e.event(LevelWarn, fmt.Sprintf("Stopped at %q; leaving it uncategorized", txn.Merchant()))
			slog.Info("transaction left for cancellation", "transaction_id", txn.ID)
			e.notifier.Progress(Progress{
				Completed: summary.Committed + summary.Skipped + summary.Failed,
				Total:     summary.Total,
			})

		case model.DecisionSkip:
			summary.Skipped++
			e.event(LevelInfo, fmt.Sprintf("Skipped %q", txn.Merchant()))
			slog.Info("transaction skipped", "transaction_id", txn.ID)
			e.record(ctx, txn, model.OutcomeSkipped, 0, "")

		case model.DecisionCommit:
			if ctx.Err() != nil {
				summary.Cancelled = true
				break
			}
			name := categoryNames[decision.CategoryID]
			if err := e.ledger.Categorize(ctx, txn.ID, decision.CategoryID); err != nil {
				summary.Failed++
				e.event(LevelError, fmt.Sprintf("Failed to categorize %q: %v", txn.Merchant(), err))
				slog.Error("categorize failed", "transaction_id", txn.ID, "category_id", decision.CategoryID, "error", err)
				e.record(ctx, txn, model.OutcomeFailed, decision.CategoryID, name)
			} else {
				summary.Committed++
				e.event(LevelOK, fmt.Sprintf("Categorized %q as %s", txn.Merchant(), name))
				slog.Info("transaction categorized", "transaction_id", txn.ID, "category_id", decision.CategoryID)
				e.record(ctx, txn, model.OutcomeCommitted, decision.CategoryID, name)
			}
		}

		if summary.Cancelled {
			break
		}

		e.notifier.Progress(Progress{
			Completed: summary.Committed + summary.Skipped + summary.Failed,
			Total:     summary.Total,
		})
	}

	if summary.Cancelled {
		e.state = StateCancelled
		e.event(LevelWarn, "Run cancelled; remaining transactions left untouched")
		slog.Info("run cancelled",
			"committed", summary.Committed, "skipped", summary.Skipped, "failed", summary.Failed)
	} else {
		e.state = StateCompleted
		slog.Info("run completed",
			"committed", summary.Committed, "skipped", summary.Skipped, "failed", summary.Failed)
	}

	return summary, nil
}

// suggest asks the suggester for candidates, guarding the call with context
// checks on both sides so cancellation never starts a new request.
func (e *Engine) suggest(ctx context.Context, systemPrompt string, txn model.Transaction) ([]model.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.suggester.Suggest(ctx, systemPrompt, prompt.Transaction(txn))
}

// annotate resolves validated suggestions to category IDs and attaches
// normalized confidence and bucket labels for display.
func annotate(suggestions []model.Suggestion, categories []model.Category) []model.AnnotatedSuggestion {
	if len(suggestions) == 0 {
		return nil
	}
	annotated := make([]model.AnnotatedSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		id, ok := match.ResolveExact(s.Name, categories)
		if !ok {
			continue
		}
		conf := model.NormalizeConfidence(s.Confidence)
		annotated = append(annotated, model.AnnotatedSuggestion{
			Name:          s.Name,
			Justification: s.Justification,
			Confidence:    conf,
			Bucket:        model.Bucket(conf),
			CategoryID:    id,
		})
	}
	return annotated
}

// record writes an outcome to history when a store is configured. A history
// failure is logged, never surfaced: it must not interrupt the batch.
func (e *Engine) record(ctx context.Context, txn model.Transaction, result model.OutcomeResult, categoryID int, categoryName string) {
	if e.history == nil {
		return
	}
	outcome := model.Outcome{
		TransactionID: txn.ID,
		Payee:         txn.Merchant(),
		Amount:        txn.Amount,
		CategoryID:    categoryID,
		CategoryName:  categoryName,
		Result:        result,
		DecidedAt:     time.Now(),
	}
	if err := e.history.Record(ctx, outcome); err != nil {
		slog.Warn("failed to record outcome", "transaction_id", txn.ID, "error", err)
	}
}

// event forwards a timestamped event to the notifier.
func (e *Engine) event(level Level, message string) {
	e.notifier.Event(Event{Time: time.Now(), Message: message, Level: level})
}
