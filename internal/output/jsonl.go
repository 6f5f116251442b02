package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/docqa/internal/qa"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type example struct {
	Messages []message `json:"messages"`
}

// WriteJSONL writes one chat fine-tuning example per pair: an optional system
// turn, the question as the user turn and the answer as the assistant turn.
// Pairs missing either side are skipped because an example needs both turns.
func WriteJSONL(w io.Writer, pairs []qa.Pair, systemPrompt string) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	written := 0
	for _, p := range pairs {
		if strings.TrimSpace(p.Question) == "" || strings.TrimSpace(p.Answer) == "" {
			continue
		}
		ex := example{Messages: make([]message, 0, 3)}
		if s := strings.TrimSpace(systemPrompt); s != "" {
			ex.Messages = append(ex.Messages, message{Role: openai.ChatMessageRoleSystem, Content: s})
		}
		ex.Messages = append(ex.Messages,
			message{Role: openai.ChatMessageRoleUser, Content: p.Question},
			message{Role: openai.ChatMessageRoleAssistant, Content: p.Answer},
		)
		if err := enc.Encode(ex); err != nil {
			return written, fmt.Errorf("write jsonl: %w", err)
		}
		written++
	}
	return written, nil
}
