package qa

import "strings"

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// Normalize replaces each line break character with a space and trims surrounding
// whitespace. Nothing else about the text is changed.
func Normalize(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}

// NormalizePtr is Normalize for optional text; nil yields "".
func NormalizePtr(s *string) string {
	if s == nil {
		return ""
	}
	return Normalize(*s)
}
