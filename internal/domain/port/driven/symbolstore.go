package driven

import (
	"context"
	"errors"

	"github.com/awakzdev/stockfeed/internal/domain/model"
)

// ErrSymbolNotFound indicates the requested watchlist symbol does not exist.
var ErrSymbolNotFound = errors.New("symbol not found")

// SymbolStore defines the driven port for watchlist persistence.
// Tickers passed in are expected to be normalized (model.NormalizeTicker).
type SymbolStore interface {
	// Add inserts a ticker into the watchlist. Returns false with a nil error
	// when the ticker is already present (adding is idempotent).
	Add(ctx context.Context, ticker string) (bool, error)

	// Remove deletes a ticker. Returns ErrSymbolNotFound if absent.
	Remove(ctx context.Context, ticker string) error

	// List returns all watchlist symbols sorted by ticker ascending.
	List(ctx context.Context) ([]model.Symbol, error)

	// Count returns the number of watchlist symbols.
	Count(ctx context.Context) (int, error)
}
