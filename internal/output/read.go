package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hyperifyio/docqa/internal/qa"
)

// ReadCSV reads a table written by WriteCSV. A leading BOM is optional and
// the header row is located by name, so extra columns are tolerated.
func ReadCSV(r io.Reader) ([]qa.Pair, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	qi, okQ := col["question"]
	ai, okA := col["answer"]
	if !okQ || !okA {
		return nil, fmt.Errorf("read csv: header %q lacks question/answer columns", header)
	}
	si, okS := col["source_file"]

	var pairs []qa.Pair
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pairs, fmt.Errorf("read csv row %d: %w", len(pairs)+1, err)
		}
		p := qa.Pair{Question: field(rec, qi), Answer: field(rec, ai)}
		if okS {
			p.SourceFile = field(rec, si)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
