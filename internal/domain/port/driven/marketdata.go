package driven

import (
	"context"
	"time"

	"github.com/awakzdev/stockfeed/internal/domain/model"
)

// MarketData defines the driven port for fetching price history.
type MarketData interface {
	// FetchDailyHistory returns daily candles for the ticker between start and
	// end (inclusive), oldest first. A symbol with no data in the range yields
	// an empty slice and a nil error; callers treat that as "skip", not failure.
	FetchDailyHistory(ctx context.Context, ticker string, start, end time.Time) ([]model.Candle, error)
}
