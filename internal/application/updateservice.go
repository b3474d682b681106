package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awakzdev/stockfeed/internal/csvfile"
	"github.com/awakzdev/stockfeed/internal/domain/model"
	"github.com/awakzdev/stockfeed/internal/domain/port/driven"
)

// legacyWatchlistFile is the symbols file older tooling maintained. An empty
// watchlist is seeded from it once, if present.
const legacyWatchlistFile = "symbols.csv"

// ErrEmptySymbol indicates a single-symbol refresh received a symbol that was
// empty after normalization.
var ErrEmptySymbol = errors.New("empty symbol")

// UpdateService implements the default update operation: fetch history for
// every watchlist symbol, write and repair its CSV, push it to the target
// repository, then merge and push the predicted series.
type UpdateService struct {
	market      driven.MarketData
	publisher   driven.Publisher
	symbols     driven.SymbolStore
	outputDir   string
	startDate   time.Time
	mergeSymbol string
	now         func() time.Time
}

// NewUpdateService creates an UpdateService with all required dependencies.
func NewUpdateService(
	market driven.MarketData,
	publisher driven.Publisher,
	symbols driven.SymbolStore,
	outputDir string,
	startDate time.Time,
	mergeSymbol string,
) *UpdateService {
	return &UpdateService{
		market:      market,
		publisher:   publisher,
		symbols:     symbols,
		outputDir:   outputDir,
		startDate:   startDate,
		mergeSymbol: mergeSymbol,
		now:         time.Now,
	}
}

// Update runs one full update cycle. Per-symbol failures are logged and do
// not abort the remaining symbols; the cycle fails only when a non-empty
// watchlist yields zero successfully pushed symbols.
func (s *UpdateService) Update(ctx context.Context) error {
	start := s.now()

	if err := s.seedLegacyWatchlist(ctx); err != nil {
		slog.Error("legacy watchlist import failed", "error", err)
	}

	watchlist, err := s.symbols.List(ctx)
	if err != nil {
		return err
	}
	if len(watchlist) == 0 {
		return fmt.Errorf("watchlist is empty: nothing to update")
	}

	var pushed, skipped, failed int
	for _, sym := range watchlist {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ok, err := s.updateSymbol(ctx, sym.Ticker)
		switch {
		case err != nil:
			slog.Error("symbol update failed", "symbol", sym.Ticker, "error", err)
			failed++
		case ok:
			pushed++
		default:
			skipped++
		}
	}

	// The merge works from whatever series files are on disk, so it runs even
	// when this cycle pushed nothing new.
	s.mergePredicted(ctx)

	if pushed == 0 {
		return fmt.Errorf("update cycle pushed no symbols (%d failed, %d skipped)", failed, skipped)
	}

	slog.Info("update cycle complete",
		"symbols", len(watchlist),
		"pushed", pushed,
		"skipped", skipped,
		"failed", failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// UpdateSymbol refreshes and pushes a single symbol without touching the
// rest of the watchlist.
func (s *UpdateService) UpdateSymbol(ctx context.Context, ticker string) error {
	ticker = model.NormalizeTicker(ticker)
	if ticker == "" {
		return ErrEmptySymbol
	}

	ok, err := s.updateSymbol(ctx, ticker)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no data fetched for symbol %s", ticker)
	}
	return nil
}

// updateSymbol fetches, writes, repairs, and uploads one symbol's history.
// Returns (false, nil) when the symbol had no data and was skipped.
func (s *UpdateService) updateSymbol(ctx context.Context, ticker string) (bool, error) {
	slog.Info("fetching data", "symbol", ticker)

	candles, err := s.market.FetchDailyHistory(ctx, ticker, s.startDate, s.now())
	if err != nil {
		return false, err
	}
	if len(candles) == 0 {
		slog.Warn("no data fetched", "symbol", ticker)
		return false, nil
	}

	filename := model.DataFileName(ticker)
	path := filepath.Join(s.outputDir, filename)
	if err := csvfile.WriteFile(path, candles); err != nil {
		return false, err
	}
	slog.Info("csv saved", "file", filename, "rows", len(candles))

	if err := csvfile.Repair(path); err != nil {
		return false, fmt.Errorf("validate %s: %w", filename, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	message := fmt.Sprintf("Update %s stock data", ticker)
	if err := s.publisher.Upload(ctx, filename, content, message); err != nil {
		return false, err
	}
	return true, nil
}

// mergePredicted concatenates the predicted series with the freshly fetched
// real series for the merge symbol and pushes the result. Missing inputs are
// logged and skipped; merge problems never fail the update cycle.
func (s *UpdateService) mergePredicted(ctx context.Context) {
	sym := strings.ToLower(s.mergeSymbol)
	predictedPath := filepath.Join(s.outputDir, "predicted"+strings.ToUpper(sym)+".csv")
	realPath := filepath.Join(s.outputDir, sym+"_stock_data.csv")
	mergedName := sym + "2_stock_data.csv"
	mergedPath := filepath.Join(s.outputDir, mergedName)

	for _, p := range []string{predictedPath, realPath} {
		if _, err := os.Stat(p); err != nil {
			slog.Info("merge skipped, input missing", "file", p)
			return
		}
	}

	if err := csvfile.Merge(predictedPath, realPath, mergedPath); err != nil {
		slog.Error("series merge failed", "symbol", sym, "error", err)
		return
	}
	slog.Info("series merged", "file", mergedName)

	if err := csvfile.Repair(mergedPath); err != nil {
		slog.Error("merged file failed validation, skipping upload", "file", mergedName, "error", err)
		return
	}

	content, err := os.ReadFile(mergedPath)
	if err != nil {
		slog.Error("read merged file failed", "file", mergedName, "error", err)
		return
	}

	message := fmt.Sprintf("Update merged %s data", strings.ToUpper(sym))
	if err := s.publisher.Upload(ctx, mergedName, content, message); err != nil {
		slog.Error("push merged file failed", "file", mergedName, "error", err)
	}
}

// seedLegacyWatchlist imports symbols.csv from the output directory into an
// empty watchlist. Later runs leave the file alone; the database is
// authoritative once populated.
func (s *UpdateService) seedLegacyWatchlist(ctx context.Context) error {
	n, err := s.symbols.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	path := filepath.Join(s.outputDir, legacyWatchlistFile)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var imported int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		ticker := model.NormalizeTicker(scanner.Text())
		if ticker == "" {
			continue
		}
		inserted, err := s.symbols.Add(ctx, ticker)
		if err != nil {
			return err
		}
		if inserted {
			imported++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if imported > 0 {
		slog.Info("imported legacy watchlist", "file", path, "symbols", imported)
	}
	return nil
}
