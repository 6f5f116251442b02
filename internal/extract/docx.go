package extract

import (
	"fmt"
	"os"

	"github.com/fumiama/go-docx"
)

// DOCX reads word-processor documents. Each body paragraph becomes one entry;
// tables are skipped.
type DOCX struct{}

func (DOCX) Paragraphs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	paras := make([]string, 0, len(doc.Document.Body.Items))
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paras = append(paras, p.String())
		}
	}
	return keepNonEmpty(paras), nil
}
