package model

import "time"

// Candle is one day of OHLCV history for a symbol.
// AdjClose falls back to Close when the data source provides no adjusted series.
type Candle struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}
