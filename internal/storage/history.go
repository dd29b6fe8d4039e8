package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcowell/sift/internal/model"
)

// Record appends one outcome to the run history.
func (s *Store) Record(ctx context.Context, outcome model.Outcome) error {
	query := `
	INSERT INTO run_history (transaction_id, payee, amount, category_id, category_name, result, decided_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		outcome.TransactionID,
		outcome.Payee,
		outcome.Amount.String(),
		outcome.CategoryID,
		outcome.CategoryName,
		string(outcome.Result),
		outcome.DecidedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// RecentOutcomes returns the most recent outcomes, newest first.
func (s *Store) RecentOutcomes(ctx context.Context, limit int) ([]model.Outcome, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT transaction_id, payee, amount, category_id, category_name, result, decided_at
	FROM run_history
	ORDER BY decided_at DESC, id DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var outcomes []model.Outcome
	for rows.Next() {
		var (
			outcome   model.Outcome
			amount    string
			result    string
			decidedAt string
		)
		if err := rows.Scan(&outcome.TransactionID, &outcome.Payee, &amount,
			&outcome.CategoryID, &outcome.CategoryName, &result, &decidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		outcome.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
		}
		outcome.Result = model.OutcomeResult(result)
		outcome.DecidedAt, err = time.Parse(time.RFC3339, decidedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid stored timestamp %q: %w", decidedAt, err)
		}

		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return outcomes, nil
}
