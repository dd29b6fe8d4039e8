package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a model backend from configuration. The backend set is
// closed: openai, anthropic, and gemini.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	case "gemini":
		return newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported model backend: %s", cfg.Provider)
	}
}
