// Package csvfile encodes, validates, and merges the stock history CSV files
// this tool publishes. All files share one canonical shape: the header
// "Date,Open,High,Low,Close,Adj Close,Volume" followed by rows whose Date
// column is formatted dd/mm/yyyy.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/awakzdev/stockfeed/internal/domain/model"
)

// Header is the canonical column set, in order.
var Header = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}

// dateLayout renders dates as dd/mm/yyyy.
const dateLayout = "02/01/2006"

// Encode renders candles to canonical CSV bytes, oldest first in input order.
func Encode(candles []model.Candle) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, c := range candles {
		row := []string{
			c.Date.Format(dateLayout),
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
			formatFloat(c.AdjClose),
			strconv.FormatInt(c.Volume, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row for %s: %w", row[0], err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes candles and writes them to path with 0644 permissions.
func WriteFile(path string, candles []model.Candle) error {
	data, err := Encode(candles)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
