// Package output writes the extracted pair table.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperifyio/docqa/internal/qa"
)

// Format selects the table encoding.
type Format string

const (
	// CSV is comma-separated UTF-8 with a byte order mark so spreadsheet
	// tools detect the encoding.
	CSV Format = "csv"
	// JSONL is one chat fine-tuning example per line.
	JSONL Format = "jsonl"
)

// ParseFormat accepts "csv" or "jsonl"; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", CSV:
		return CSV, nil
	case JSONL:
		return JSONL, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv or jsonl)", s)
	}
}

// Options carries format specific settings.
type Options struct {
	// SystemPrompt is the system turn of every JSONL example.
	SystemPrompt string
}

// WriteFile writes pairs to path in the given format, creating parent
// directories as needed. It returns the number of rows written.
func WriteFile(path string, format Format, pairs []qa.Pair, opts Options) (int, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	var n int
	switch format {
	case JSONL:
		n, err = WriteJSONL(f, pairs, opts.SystemPrompt)
	default:
		n, err = WriteCSV(f, pairs)
	}
	if err != nil {
		return n, err
	}
	return n, f.Close()
}

// DefaultPath returns the generated output name for a run started at the
// given timestamp (second resolution), e.g. cleaned_output_20240101_120000.csv.
func DefaultPath(format Format, timestamp string) string {
	ext := ".csv"
	if format == JSONL {
		ext = ".jsonl"
	}
	return "cleaned_output_" + timestamp + ext
}
