package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/jcowell/sift/internal/engine"
	"github.com/jcowell/sift/internal/llm"
)

// createSuggester builds the model backend from configuration. Shared by
// every command that needs suggestions.
func createSuggester() (engine.Suggester, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "openai"
	}

	config := llm.Config{
		Provider:  provider,
		Model:     viper.GetString("llm.model"),
		MaxTokens: viper.GetInt("llm.max_tokens"),
	}

	switch provider {
	case "openai":
		config.APIKey = apiKeyFor("llm.openai_api_key", "OPENAI_API_KEY")
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not found in config or OPENAI_API_KEY environment variable")
		}
		if config.Model == "" {
			config.Model = "gpt-4o"
		}

	case "anthropic":
		config.APIKey = apiKeyFor("llm.anthropic_api_key", "ANTHROPIC_API_KEY")
		if config.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key not found in config or ANTHROPIC_API_KEY environment variable")
		}
		if config.Model == "" {
			config.Model = "claude-3-5-sonnet-20241022"
		}

	case "gemini":
		config.APIKey = apiKeyFor("llm.gemini_api_key", "GEMINI_API_KEY")
		if config.APIKey == "" {
			return nil, fmt.Errorf("gemini API key not found in config or GEMINI_API_KEY environment variable")
		}
		if config.Model == "" {
			config.Model = "gemini-2.5-pro"
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}

	return llm.NewClient(config)
}

// apiKeyFor checks the config file first, then the environment.
func apiKeyFor(viperKey, envVar string) string {
	if key := viper.GetString(viperKey); key != "" {
		return key
	}
	return os.Getenv(envVar)
}
