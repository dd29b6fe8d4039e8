package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jcowell/sift/internal/common"
	"github.com/jcowell/sift/internal/model"
)

// geminiClient implements the Client interface for the Gemini API.
type geminiClient struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", common.ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini: %w", common.ErrMissingModel)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	return &geminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: temperatureFor(cfg.Model),
		maxTokens:   maxTokens,
	}, nil
}

// Suggest sends a suggestion request to Gemini and parses the response.
func (c *geminiClient) Suggest(ctx context.Context, systemPrompt, userPrompt string) ([]model.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(c.temperature)),
		MaxOutputTokens:   int32(c.maxTokens),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content in response")
	}

	parts := make([]string, 0, len(resp.Candidates[0].Content.Parts))
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parseSuggestions(strings.Join(parts, "\n")), nil
}
