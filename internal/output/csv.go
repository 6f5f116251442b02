package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/docqa/internal/qa"
)

// Header is the CSV column order.
var Header = []string{"question", "answer", "source_file"}

// WriteCSV writes a header row and one row per pair, UTF-8 with BOM.
func WriteCSV(w io.Writer, pairs []qa.Pair) (int, error) {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for i, p := range pairs {
		if err := cw.Write([]string{p.Question, p.Answer, p.SourceFile}); err != nil {
			return i, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(pairs), fmt.Errorf("flush csv: %w", err)
	}
	if err := bom.Close(); err != nil {
		return len(pairs), fmt.Errorf("flush csv: %w", err)
	}
	return len(pairs), nil
}
