package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcowell/sift/internal/common"
)

func TestNewAnthropicClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "valid config", config: Config{APIKey: "test-key", Model: "claude-3-opus-20240229"}},
		{name: "missing API key", config: Config{Model: "claude-3-opus-20240229"}, wantErr: common.ErrMissingAPIKey},
		{name: "missing model", config: Config{APIKey: "test-key"}, wantErr: common.ErrMissingModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newAnthropicClient(tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestAnthropicSuggestJoinsContentParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		// The payload arrives split across parts; the client must join them
		// with newlines before parsing.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "```json"},
				{"type": "text", "text": `{"suggestions":[{"name":"Utilities","confidence":0.8}]}`},
				{"type": "text", "text": "```"},
			},
		})
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", Model: "claude-3-opus-20240229"})
	require.NoError(t, err)
	client.(*anthropicClient).baseURL = server.URL

	got, err := client.Suggest(context.Background(), "system", "user")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Utilities", got[0].Name)
}

func TestAnthropicSuggestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "bad-key", Model: "claude-3-opus-20240229"})
	require.NoError(t, err)
	client.(*anthropicClient).baseURL = server.URL

	_, err = client.Suggest(context.Background(), "system", "user")

	var te *common.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.Status)
	assert.Contains(t, te.Body, "invalid api key")
}

func TestNewClientFactory(t *testing.T) {
	_, err := NewClient(Config{Provider: "openai", APIKey: "k", Model: "gpt-4o"})
	require.NoError(t, err)

	_, err = NewClient(Config{Provider: "Anthropic", APIKey: "k", Model: "claude-3-haiku-20240307"})
	require.NoError(t, err, "provider names are case-insensitive")

	_, err = NewClient(Config{Provider: "ollama", APIKey: "k", Model: "m"})
	require.Error(t, err)
}
