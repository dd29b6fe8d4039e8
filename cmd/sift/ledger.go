package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/jcowell/sift/internal/ledger"
)

const defaultLedgerURL = "https://api.lunchmoney.app"

// createLedgerClient builds the ledger client from configuration.
func createLedgerClient() (*ledger.Client, error) {
	baseURL := viper.GetString("ledger.url")
	if baseURL == "" {
		baseURL = defaultLedgerURL
	}

	token := viper.GetString("ledger.token")
	if token == "" {
		token = os.Getenv("LEDGER_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("ledger token not found in config or LEDGER_TOKEN environment variable")
	}

	return ledger.NewClient(baseURL, token)
}
