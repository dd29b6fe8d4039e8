package llm

import (
	"context"

	"github.com/jcowell/sift/internal/model"
)

// Client is the capability interface implemented by each model backend.
// Implementations check for cancellation before issuing the call and again
// after receiving the result, and commit no side effect once cancelled.
type Client interface {
	Suggest(ctx context.Context, systemPrompt, userPrompt string) ([]model.Suggestion, error)
}

// Config holds configuration for a model backend. The sampling temperature
// is not configurable: it comes from a fixed per-model table.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	MaxTokens int
}
