// Command docqa-stub is a minimal OpenAI-compatible chat server for trying
// "docqa ask" without a model. It answers questions found in an extracted
// CSV table and a fixed fallback otherwise.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/docqa/internal/output"
	"github.com/hyperifyio/docqa/internal/qa"
)

const fallbackReply = "抱歉，我暂时无法回答这个问题，请咨询您的医生。"

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	answers := map[string]string{}
	if path := strings.TrimSpace(os.Getenv("TABLE")); path != "" {
		var err error
		answers, err = loadAnswers(path)
		if err != nil {
			log.Fatal().Err(err).Str("table", path).Msg("load table")
		}
	}

	log.Info().Str("addr", addr).Str("model", model).Int("answers", len(answers)).Msg("docqa-stub listening")
	if err := http.ListenAndServe(addr, newHandler(model, answers)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func loadAnswers(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pairs, err := output.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	answers := make(map[string]string, len(pairs))
	for _, p := range pairs {
		q := qa.Normalize(p.Question)
		if _, seen := answers[q]; seen || q == "" || strings.TrimSpace(p.Answer) == "" {
			continue
		}
		answers[q] = p.Answer
	}
	return answers, nil
}

func newHandler(model string, answers map[string]string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		user := ""
		for _, m := range req.Messages {
			if m.Role == "user" {
				user = m.Content
			}
		}
		content, ok := answers[qa.Normalize(user)]
		if !ok {
			content = fallbackReply
		}
		log.Debug().Str("question", user).Bool("known", ok).Msg("chat completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		})
	})
	return mux
}
