package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/awakzdev/stockfeed/internal/domain/model"
	"github.com/awakzdev/stockfeed/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SymbolStore = (*SymbolRepo)(nil)

// SymbolRepo is the SQLite implementation of the SymbolStore port interface.
type SymbolRepo struct {
	db *DB
}

// NewSymbolRepo creates a new SymbolRepo backed by the given DB.
func NewSymbolRepo(db *DB) *SymbolRepo {
	return &SymbolRepo{db: db}
}

// Add inserts a ticker into the watchlist. Returns (false, nil) when the
// ticker is already present; the UNIQUE constraint makes the insert a no-op.
func (r *SymbolRepo) Add(ctx context.Context, ticker string) (bool, error) {
	const query = `INSERT INTO symbols (ticker, added_at) VALUES (?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, ticker, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return false, nil
		}
		return false, fmt.Errorf("add symbol %s: %w", ticker, err)
	}

	return true, nil
}

// Remove deletes a ticker. Returns ErrSymbolNotFound if it was not present.
func (r *SymbolRepo) Remove(ctx context.Context, ticker string) error {
	const query = `DELETE FROM symbols WHERE ticker = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, ticker)
	if err != nil {
		return fmt.Errorf("remove symbol %s: %w", ticker, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove symbol %s: %w", ticker, err)
	}
	if rows == 0 {
		return fmt.Errorf("remove symbol %s: %w", ticker, driven.ErrSymbolNotFound)
	}

	return nil
}

// List returns all watchlist symbols sorted by ticker ascending.
func (r *SymbolRepo) List(ctx context.Context) ([]model.Symbol, error) {
	const query = `SELECT id, ticker, added_at FROM symbols ORDER BY ticker ASC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []model.Symbol
	for rows.Next() {
		var sym model.Symbol
		var addedAt string
		if err := rows.Scan(&sym.ID, &sym.Ticker, &addedAt); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		sym.AddedAt, err = parseTime(addedAt)
		if err != nil {
			return nil, fmt.Errorf("parse added_at for symbol %s: %w", sym.Ticker, err)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}

	return symbols, nil
}

// Count returns the number of watchlist symbols.
func (r *SymbolRepo) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM symbols`

	var n int
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count symbols: %w", err)
	}
	return n, nil
}

// parseTime parses the timestamp formats SQLite hands back depending on how
// the value was written (driver-formatted vs CURRENT_TIMESTAMP).
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
