// Package qa finds question/answer pairs in an ordered list of paragraphs.
//
// The paragraph strategy (Extract) walks the list once, left to right. Each
// paragraph is tested against an ordered set of rules and the first rule that
// matches turns it into a question. The answer is always the paragraph that
// immediately follows, which is not consumed and is evaluated on its own on
// the next iteration.
package qa

import (
	"regexp"
	"strings"
)

// Pair is one extracted question/answer record. SourceFile is filled in by
// the batch driver, never by the matchers.
type Pair struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	SourceFile string `json:"source_file"`
}

var (
	questionMarker = regexp.MustCompile(`^(?:问题|问)[：:]?`)
	answerMarker   = regexp.MustCompile(`^(?:回答|答)[：:]?`)
	// "1. ...?", "2、...？", "３．...？". \s and \d in RE2 are ASCII only, so
	// \p{Z} covers the ideographic space and \p{Nd} full-width digits.
	numberedQuestion = regexp.MustCompile(`^[\s\p{Z}]*\p{Nd}+[.．、]?[\s\p{Z}]*(.+?)([?？])[\s\p{Z}]*$`)
)

// rule turns a trimmed paragraph into question text. emitted holds every
// pair produced so far for the current paragraph list.
type rule struct {
	name  string
	match func(para string, emitted []Pair) (string, bool)
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{name: "marker", match: matchMarker},
	{name: "numbered", match: matchNumbered},
	{name: "question-mark", match: matchQuestionMark},
}

// Extract applies the paragraph rules to paragraphs and returns the pairs in
// paragraph order. It never fails; input without matches yields no pairs.
func Extract(paragraphs []string) []Pair {
	var pairs []Pair
	for i, raw := range paragraphs {
		para := strings.TrimSpace(raw)
		if para == "" {
			continue
		}
		for _, r := range rules {
			question, ok := r.match(para, pairs)
			if !ok {
				continue
			}
			pairs = append(pairs, Pair{
				Question: Normalize(question),
				Answer:   lookaheadAnswer(paragraphs, i),
			})
			break
		}
	}
	return pairs
}

// RuleFor reports which rule would fire for para given the pairs already
// emitted, or "" when none does. Used for debug logging.
func RuleFor(para string, emitted []Pair) string {
	para = strings.TrimSpace(para)
	if para == "" {
		return ""
	}
	for _, r := range rules {
		if _, ok := r.match(para, emitted); ok {
			return r.name
		}
	}
	return ""
}

func matchMarker(para string, _ []Pair) (string, bool) {
	loc := questionMarker.FindStringIndex(para)
	if loc == nil {
		return "", false
	}
	return strings.TrimSpace(para[loc[1]:]), true
}

func matchNumbered(para string, _ []Pair) (string, bool) {
	m := numberedQuestion.FindStringSubmatch(para)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]) + m[2], true
}

// matchQuestionMark accepts any paragraph with a question mark unless an
// earlier question already contains it.
func matchQuestionMark(para string, emitted []Pair) (string, bool) {
	if !strings.ContainsAny(para, "?？") {
		return "", false
	}
	candidate := Normalize(para)
	for _, p := range emitted {
		if strings.Contains(p.Question, candidate) {
			return "", false
		}
	}
	return para, true
}

// lookaheadAnswer returns the answer for the question at index i: the next
// paragraph with any answer marker stripped, or "" at the end of the list.
func lookaheadAnswer(paragraphs []string, i int) string {
	if i+1 >= len(paragraphs) {
		return ""
	}
	next := strings.TrimSpace(paragraphs[i+1])
	if loc := answerMarker.FindStringIndex(next); loc != nil {
		return Normalize(next[loc[1]:])
	}
	return Normalize(next)
}
