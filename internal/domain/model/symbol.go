package model

import (
	"strings"
	"time"
)

// Symbol is one watchlist entry. Tickers are stored normalized (trimmed,
// uppercase) so the watchlist stays duplicate-free regardless of input casing.
type Symbol struct {
	ID      int64
	Ticker  string
	AddedAt time.Time
}

// NormalizeTicker trims surrounding whitespace and uppercases a raw ticker.
// Returns "" for input that is empty after trimming.
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// DataFileName returns the CSV file name for a ticker's history:
// the ticker with any "^" index prefix stripped, lowercased, plus
// the "_stock_data.csv" suffix (e.g. "^NDX" -> "ndx_stock_data.csv").
func DataFileName(ticker string) string {
	return strings.ToLower(strings.ReplaceAll(ticker, "^", "")) + "_stock_data.csv"
}
