package qa

import (
	"regexp"
	"strings"
)

var (
	blockQuestion = regexp.MustCompile(`(?:问题|问)[：:]`)
	blockAnswer   = regexp.MustCompile(`(?:回答|答)[：:]`)
	lineQuestion  = regexp.MustCompile(`^(?:问题|问)[：:]`)
	lineAnswer    = regexp.MustCompile(`^(?:回答|答)[：:]`)
)

// ExtractBlocks joins paragraphs with newlines and looks for explicitly
// delimited blocks: "问:" question "答:" answer, up to the next question
// marker. The colon is mandatory here. When no block is found it falls back
// to a line scan where a question line is remembered until an answer line
// emits the pair.
func ExtractBlocks(paragraphs []string) []Pair {
	text := strings.Join(paragraphs, "\n")
	if pairs := delimitedBlocks(text); len(pairs) > 0 {
		return pairs
	}
	return questionAnswerLines(strings.Split(text, "\n"))
}

func delimitedBlocks(text string) []Pair {
	var pairs []Pair
	pos := 0
	for pos < len(text) {
		qm := blockQuestion.FindStringIndex(text[pos:])
		if qm == nil {
			break
		}
		qStart := pos + qm[1]
		am := blockAnswer.FindStringIndex(text[qStart:])
		if am == nil {
			// no later question marker can find an answer either
			break
		}
		question := text[qStart : qStart+am[0]]
		aStart := qStart + am[1]
		aEnd := len(text)
		if next := blockQuestion.FindStringIndex(text[aStart:]); next != nil {
			aEnd = aStart + next[0]
		}
		pairs = append(pairs, Pair{
			Question: Normalize(question),
			Answer:   Normalize(text[aStart:aEnd]),
		})
		pos = aEnd
	}
	return pairs
}

// questionAnswerLines does not trim lines before testing them; an indented
// marker is not a marker.
func questionAnswerLines(lines []string) []Pair {
	var pairs []Pair
	question := ""
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "问"):
			question = strings.TrimSpace(lineQuestion.ReplaceAllString(line, ""))
		case strings.HasPrefix(line, "答"), strings.HasPrefix(line, "回答"):
			answer := strings.TrimSpace(lineAnswer.ReplaceAllString(line, ""))
			pairs = append(pairs, Pair{Question: question, Answer: answer})
		}
	}
	return pairs
}
