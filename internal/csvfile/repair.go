package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Sentinel errors returned by Repair.
var (
	// ErrHeaderNotFound indicates no row matched the canonical header.
	ErrHeaderNotFound = errors.New("csv header not found")

	// ErrNoDataRows indicates the file held no valid data row after the header.
	ErrNoDataRows = errors.New("csv has no valid data rows")
)

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

// Repair validates the file at path and rewrites it with only its well-formed
// portion: the canonical header plus the contiguous run of valid rows that
// follows it. A valid row has exactly len(Header) columns and a dd/mm/yyyy
// date in the first column. Rows before the header and anything after the
// first malformed row are dropped. Files uploaded previously by other tools
// occasionally carry preamble junk; this recovers them.
func Repair(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if isHeader(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return fmt.Errorf("%s: %w", path, ErrHeaderNotFound)
	}

	valid := [][]string{rows[headerIdx]}
	for _, row := range rows[headerIdx+1:] {
		if len(row) != len(Header) || !datePattern.MatchString(row[0]) {
			break
		}
		valid = append(valid, row)
	}
	if len(valid) < 2 {
		return fmt.Errorf("%s: %w", path, ErrNoDataRows)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", path, err)
	}

	w := csv.NewWriter(out)
	writeErr := w.WriteAll(valid)
	if closeErr := out.Close(); closeErr != nil && writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return fmt.Errorf("rewrite %s: %w", path, writeErr)
	}
	return nil
}

// isHeader reports whether a row equals the canonical header after trimming
// cell whitespace.
func isHeader(row []string) bool {
	if len(row) != len(Header) {
		return false
	}
	for i, cell := range row {
		if strings.TrimSpace(cell) != Header[i] {
			return false
		}
	}
	return true
}
