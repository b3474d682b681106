package application

import (
	"context"
	"log/slog"

	"github.com/awakzdev/stockfeed/internal/domain/model"
	"github.com/awakzdev/stockfeed/internal/domain/port/driven"
)

// AddService implements the add operation: insert one symbol into the
// watchlist. Adding an already-watched symbol is a reported no-op, not an
// error.
type AddService struct {
	symbols driven.SymbolStore
}

// NewAddService creates an AddService backed by the given watchlist store.
func NewAddService(symbols driven.SymbolStore) *AddService {
	return &AddService{symbols: symbols}
}

// Add normalizes the symbol and inserts it into the watchlist. A symbol that
// is empty after normalization is a reported no-op: the watchlist is left
// untouched and the operation still succeeds.
func (s *AddService) Add(ctx context.Context, symbol string) error {
	ticker := model.NormalizeTicker(symbol)
	if ticker == "" {
		slog.Warn("empty symbol received, nothing to add")
		return nil
	}

	inserted, err := s.symbols.Add(ctx, ticker)
	if err != nil {
		return err
	}

	if inserted {
		slog.Info("symbol added", "symbol", ticker)
	} else {
		slog.Info("symbol already on watchlist", "symbol", ticker)
	}
	return nil
}
