// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrMissingToken indicates the required GitHub token is absent or empty.
// Every invocation checks this before dispatching any operation.
var ErrMissingToken = errors.New("github token not set: set STOCKFEED_GITHUB_TOKEN (or TOKEN / GITHUB_TOKEN)")

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken string
	Repo        string // "owner/name" target for uploads
	Branch      string
	DBPath      string
	OutputDir   string
	StartDate   time.Time // history fetch window start
	RunAt       string    // daily fire time for serve mode, "HH:MM" UTC
	MergeSymbol string    // base symbol for the predicted/real series merge
}

// Load reads configuration from environment variables and returns a validated
// Config. The token is required (STOCKFEED_GITHUB_TOKEN, with TOKEN and
// GITHUB_TOKEN honored as legacy fallbacks); absence is ErrMissingToken.
// Optional variables with defaults: STOCKFEED_REPO (awakzdev/finance-data),
// STOCKFEED_BRANCH (main), STOCKFEED_DB_PATH (stockfeed.db),
// STOCKFEED_OUTPUT_DIR (.), STOCKFEED_START_DATE (2006-06-21),
// STOCKFEED_RUN_AT (06:30), STOCKFEED_MERGE_SYMBOL (qld).
func Load() (*Config, error) {
	token := os.Getenv("STOCKFEED_GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("TOKEN")
	}
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	repo := "awakzdev/finance-data"
	if v, ok := os.LookupEnv("STOCKFEED_REPO"); ok && v != "" {
		repo = v
	}

	branch := "main"
	if v, ok := os.LookupEnv("STOCKFEED_BRANCH"); ok && v != "" {
		branch = v
	}

	dbPath := "stockfeed.db"
	if v, ok := os.LookupEnv("STOCKFEED_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	outputDir := "."
	if v, ok := os.LookupEnv("STOCKFEED_OUTPUT_DIR"); ok && v != "" {
		outputDir = v
	}

	startDate := time.Date(2006, time.June, 21, 0, 0, 0, 0, time.UTC)
	if v, ok := os.LookupEnv("STOCKFEED_START_DATE"); ok && v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, fmt.Errorf("STOCKFEED_START_DATE has invalid date %q: %w", v, err)
		}
		startDate = parsed
	}

	runAt := "06:30"
	if v, ok := os.LookupEnv("STOCKFEED_RUN_AT"); ok && v != "" {
		if _, err := time.Parse("15:04", v); err != nil {
			return nil, fmt.Errorf("STOCKFEED_RUN_AT has invalid time %q (want HH:MM): %w", v, err)
		}
		runAt = v
	}

	mergeSymbol := "qld"
	if v, ok := os.LookupEnv("STOCKFEED_MERGE_SYMBOL"); ok && v != "" {
		mergeSymbol = v
	}

	return &Config{
		GitHubToken: token,
		Repo:        repo,
		Branch:      branch,
		DBPath:      dbPath,
		OutputDir:   outputDir,
		StartDate:   startDate,
		RunAt:       runAt,
		MergeSymbol: mergeSymbol,
	}, nil
}
