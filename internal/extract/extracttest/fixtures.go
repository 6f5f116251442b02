// Package extracttest writes small document fixtures for tests using the same
// libraries the extractors read with.
package extracttest

import (
	"os"

	"github.com/fumiama/go-docx"
	"github.com/jung-kurt/gofpdf"
)

// WriteDOCX writes a .docx file with one body paragraph per entry.
func WriteDOCX(path string, paragraphs ...string) error {
	w := docx.New().WithDefaultTheme()
	for _, p := range paragraphs {
		w.AddParagraph().AddText(p)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WritePDF writes a PDF with one page per entry of pages and one text line
// per string. Only the core Helvetica font is used, so keep text ASCII.
func WritePDF(path string, pages ...[]string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for _, lines := range pages {
		pdf.AddPage()
		for _, line := range lines {
			pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
		}
	}
	return pdf.OutputFileAndClose(path)
}
