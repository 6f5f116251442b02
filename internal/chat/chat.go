// Package chat asks a fine-tuned chat model questions in the same shape the
// extracted pairs are exported for training: a fixed system turn followed by
// the user's question.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/docqa/internal/cache"
	"github.com/hyperifyio/docqa/internal/llm"
)

// DefaultSystemPrompt frames the model as a perioperative care assistant for
// patients.
const DefaultSystemPrompt = "你是一个专业的围术期管理AI助手，专门解答患者在术前、术中、术后的常见问题，请用简单清晰的语言帮助患者。"

// DefaultTemperature is used when Asker.Temperature is zero.
const DefaultTemperature = 0.5

var (
	// ErrNoReply means the model answered with no usable content.
	ErrNoReply = errors.New("no reply from model")
	// ErrNotConfigured means the client or model is missing.
	ErrNotConfigured = errors.New("chat model not configured")
)

// Asker sends single questions to a chat model.
type Asker struct {
	Client       llm.Client
	Model        string
	SystemPrompt string
	Temperature  float32
	// Cache, when set, short-circuits repeated questions.
	Cache *cache.ReplyCache
	// RetryDelay is the pause before the single retry. Zero means 100ms.
	RetryDelay time.Duration
}

// Ask returns the model's reply to question.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("empty question")
	}
	if a.Client == nil || strings.TrimSpace(a.Model) == "" {
		return "", ErrNotConfigured
	}
	system := a.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = DefaultSystemPrompt
	}

	key := cache.KeyFrom(a.Model, system+"\n\n"+question)
	if a.Cache != nil {
		if e, ok, _ := a.Cache.Get(ctx, key); ok && strings.TrimSpace(e.Reply) != "" {
			log.Debug().Str("model", a.Model).Msg("reply served from cache")
			return e.Reply, nil
		}
	}

	temp := a.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}
	req := openai.ChatCompletionRequest{
		Model: a.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		Temperature: temp,
		N:           1,
	}

	resp, err := a.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("model", a.Model).Msg("chat call failed; retrying once")
		if werr := a.wait(ctx); werr != nil {
			return "", werr
		}
		resp, err = a.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("chat call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoReply
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrNoReply
	}

	if a.Cache != nil {
		entry := cache.Entry{Model: a.Model, Question: question, Reply: reply}
		if err := a.Cache.Save(ctx, key, entry); err != nil {
			log.Warn().Err(err).Msg("cache save failed")
		}
	}
	return reply, nil
}

func (a *Asker) wait(ctx context.Context) error {
	d := a.RetryDelay
	if d <= 0 {
		d = 100 * time.Millisecond
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
