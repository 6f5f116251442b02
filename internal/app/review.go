package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/docqa/internal/qa"
)

const reviewFontFamily = "review"

// writeReviewPDF renders pairs to a printable sheet for manual checking: one
// block per pair with its source, question and answer. Core fonts cover
// Latin-1 only, so CJK text needs a UTF-8 TrueType font.
func writeReviewPDF(pairs []qa.Pair, outPath, fontPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	tr := func(s string) string { return s }
	if fontPath = strings.TrimSpace(fontPath); fontPath != "" {
		pdf.AddUTF8Font(reviewFontFamily, "", fontPath)
		pdf.AddUTF8Font(reviewFontFamily, "B", fontPath)
		family = reviewFontFamily
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load font %s: %w", filepath.Base(fontPath), err)
	}

	pdf.SetTitle(tr("Extracted question-answer pairs"), family == reviewFontFamily)
	pdf.AddPage()
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Extracted pairs (%d)", len(pairs))), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, p := range pairs {
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("#%d  %s", i+1, p.SourceFile)), "", 1, "L", false, 0, "")
		pdf.SetFont(family, "B", 11)
		pdf.MultiCell(0, 5, tr(p.Question), "", "L", false)
		pdf.SetFont(family, "", 11)
		answer := p.Answer
		if answer == "" {
			answer = "-"
		}
		pdf.MultiCell(0, 5, tr(answer), "", "L", false)
		pdf.Ln(3)
	}
	return pdf.OutputFileAndClose(outPath)
}
