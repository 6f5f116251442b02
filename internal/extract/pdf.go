package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF reads PDF documents page by page. Every text row of a page becomes one
// entry, pages in order.
type PDF struct{}

func (PDF) Paragraphs(path string) (paras []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	// The reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			paras = nil
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open pdf reader: %w", err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines, err := pageLines(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		paras = append(paras, lines...)
	}
	return keepNonEmpty(paras), nil
}

// pageLines returns the page's text split into lines. Rows grouped by
// vertical position are preferred; plain text split on newlines is the
// fallback when the page has no positioned rows. Font resource names are
// scoped to the page, so the font table is built per page.
func pageLines(page pdf.Page) ([]string, error) {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var b strings.Builder
			for _, word := range row.Content {
				b.WriteString(word.S)
			}
			lines = append(lines, b.String())
		}
		return lines, nil
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		font := page.Font(name)
		fonts[name] = &font
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return nil, err
	}
	return strings.Split(text, "\n"), nil
}
