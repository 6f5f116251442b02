package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extractor turns one document file into its ordered, non-empty paragraphs.
// Implementations open and release the file within the call.
type Extractor interface {
	Paragraphs(path string) ([]string, error)
}

// Format names a supported document format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// DefaultFormats are the formats scanned when none are configured.
var DefaultFormats = []Format{FormatDOCX, FormatPDF}

var extensions = map[string]Format{
	".docx": FormatDOCX,
	".pdf":  FormatPDF,
	".html": FormatHTML,
	".htm":  FormatHTML,
}

// ParseFormats parses a list such as ["docx", "pdf"]. Empty input yields
// DefaultFormats.
func ParseFormats(names []string) ([]Format, error) {
	out := make([]Format, 0, len(names))
	seen := map[Format]bool{}
	for _, n := range names {
		f := Format(strings.ToLower(strings.TrimSpace(n)))
		if f == "" {
			continue
		}
		switch f {
		case FormatDOCX, FormatPDF, FormatHTML:
		default:
			return nil, fmt.Errorf("unsupported format %q", n)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return append([]Format{}, DefaultFormats...), nil
	}
	return out, nil
}

// FormatOf reports the format for a file name by its extension, ignoring case.
func FormatOf(name string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

// ForPath returns the extractor for name when its format is among enabled.
func ForPath(name string, enabled []Format) (Extractor, bool) {
	f, ok := FormatOf(name)
	if !ok {
		return nil, false
	}
	for _, e := range enabled {
		if e == f {
			return ForFormat(f), true
		}
	}
	return nil, false
}

// ForFormat returns the extractor for f, or nil for an unknown format.
func ForFormat(f Format) Extractor {
	switch f {
	case FormatDOCX:
		return DOCX{}
	case FormatPDF:
		return PDF{}
	case FormatHTML:
		return HTML{}
	}
	return nil
}

// keepNonEmpty drops entries that are blank after trimming. Kept entries are
// returned untrimmed; normalization is the matcher's job.
func keepNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
