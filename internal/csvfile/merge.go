package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Merge concatenates a predicted series and a real series into outPath:
// the canonical header, every predicted data row, then every real data row.
// Both inputs must be canonical files (header plus data rows). Row order
// within each input is preserved; no deduplication across the seam.
func Merge(predictedPath, realPath, outPath string) error {
	predicted, err := readCanonical(predictedPath)
	if err != nil {
		return err
	}
	actual, err := readCanonical(realPath)
	if err != nil {
		return err
	}

	merged := make([][]string, 0, 1+len(predicted)+len(actual))
	merged = append(merged, Header)
	merged = append(merged, predicted...)
	merged = append(merged, actual...)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}

	w := csv.NewWriter(out)
	writeErr := w.WriteAll(merged)
	if closeErr := out.Close(); closeErr != nil && writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", outPath, writeErr)
	}
	return nil
}

// readCanonical returns the data rows of a canonical file, excluding the header.
func readCanonical(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)
	rows, err := r.ReadAll()
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(rows) == 0 || !isHeader(rows[0]) {
		return nil, fmt.Errorf("%s: %w", path, ErrHeaderNotFound)
	}
	return rows[1:], nil
}
