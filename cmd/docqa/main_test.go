package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hyperifyio/docqa/internal/app"
	"github.com/hyperifyio/docqa/internal/extract/extracttest"
)

func writeDocs(t *testing.T) string {
	t.Helper()
	in := t.TempDir()
	if err := extracttest.WriteDOCX(filepath.Join(in, "faq.docx"), "问：术后多久可以下床？", "答：一般第二天。"); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return in
}

// Smoke test: run writes the table and prints the summary.
func TestRun_WritesOutput(t *testing.T) {
	in := writeDocs(t)
	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := app.DefaultConfig()
	cfg.InputDir = in
	cfg.OutputPath = out

	var stdout bytes.Buffer
	sum, err := run(context.Background(), cfg, &stdout)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if sum.TotalPairs != 1 {
		t.Fatalf("TotalPairs=%d, want 1", sum.TotalPairs)
	}
	b, err := os.ReadFile(out)
	if err != nil || !strings.Contains(string(b), "术后多久可以下床？,一般第二天。,faq.docx") {
		t.Fatalf("unexpected output %q err=%v", b, err)
	}
	if !strings.Contains(stdout.String(), "saved to "+out) {
		t.Fatalf("summary missing output path: %q", stdout.String())
	}
}

// Exit code policy conditions are surfaced as errors from run().
func TestRun_MissingFolder_Error(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.InputDir = filepath.Join(t.TempDir(), "nope")
	var stdout bytes.Buffer
	_, err := run(context.Background(), cfg, &stdout)
	if !errors.Is(err, app.ErrInputDirMissing) {
		t.Fatalf("expected ErrInputDirMissing, got %v", err)
	}
	if exitCode(err) != 1 {
		t.Fatalf("missing folder must exit 1")
	}
	if stdout.Len() != 0 {
		t.Fatalf("no summary expected, got %q", stdout.String())
	}
}

func TestRun_NoPairs_ExitsZero(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.InputDir = t.TempDir()
	var stdout bytes.Buffer
	_, err := run(context.Background(), cfg, &stdout)
	if !errors.Is(err, app.ErrNoPairs) {
		t.Fatalf("expected ErrNoPairs, got %v", err)
	}
	if exitCode(err) != 0 {
		t.Fatalf("no pairs is a warning and must exit 0")
	}
	if !strings.Contains(stdout.String(), "No data extracted") {
		t.Fatalf("expected warning summary, got %q", stdout.String())
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(nil) != 0 {
		t.Fatalf("nil error must exit 0")
	}
	if exitCode(fmt.Errorf("wrapped: %w", app.ErrNoPairs)) != 0 {
		t.Fatalf("wrapped ErrNoPairs must exit 0")
	}
	if exitCode(errors.New("disk full")) != 1 {
		t.Fatalf("other errors must exit 1")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExtractCmd_PositionalFolder(t *testing.T) {
	in := writeDocs(t)
	out := filepath.Join(t.TempDir(), "pairs.jsonl")
	stdout, err := execute(t, "extract", in, "--output", out, "--format", "jsonl", "--no-manifest")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(stdout, "extracted 1 pair(s)") {
		t.Fatalf("unexpected stdout: %q", stdout)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), `"role":"assistant","content":"一般第二天。"`) {
		t.Fatalf("unexpected jsonl: %s", b)
	}
	if _, err := os.Stat(out + ".manifest.json"); !os.IsNotExist(err) {
		t.Fatalf("--no-manifest should suppress the sidecar")
	}
}

// Flags beat environment, environment beats the config file.
func TestExtractCmd_Precedence(t *testing.T) {
	in := writeDocs(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docqa.yaml")
	fileOut := filepath.Join(dir, "from-file.csv")
	envOut := filepath.Join(dir, "from-env.csv")
	flagOut := filepath.Join(dir, "from-flag.csv")
	content := fmt.Sprintf("input: %q\noutput: %q\nstrategy: nonsense\n", in, fileOut)
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DOCQA_OUTPUT", envOut)
	t.Setenv("DOCQA_STRATEGY", "")

	// The file's invalid strategy is overridden by the flag.
	if _, err := execute(t, "extract", "--config", cfgPath, "--strategy", "paragraph"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := os.Stat(envOut); err != nil {
		t.Fatalf("env output should win over file: %v", err)
	}
	if _, err := os.Stat(fileOut); !os.IsNotExist(err) {
		t.Fatalf("file output should be overridden")
	}

	if _, err := execute(t, "extract", "--config", cfgPath, "--strategy", "paragraph", "-o", flagOut); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := os.Stat(flagOut); err != nil {
		t.Fatalf("flag output should win over env: %v", err)
	}
}

func TestExtractCmd_RequiresInput(t *testing.T) {
	t.Setenv("DOCQA_INPUT", "")
	if _, err := execute(t, "extract"); err == nil || !strings.Contains(err.Error(), "input folder is required") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}

func TestExtractCmd_RejectsUnknownFormat(t *testing.T) {
	if _, err := execute(t, "extract", t.TempDir(), "--formats", "docx,odt"); err == nil {
		t.Fatalf("expected error for unsupported document format")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "docqa "+app.BuildVersion) {
		t.Fatalf("unexpected version output %q", out)
	}
}

// stubLLM serves the two endpoints ask uses and echoes the user turn.
func stubLLM(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []map[string]any{{"id": "periop", "object": "model"}}})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		reply := "echo: " + req.Messages[len(req.Messages)-1].Content
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   req.Model,
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": reply}, "finish_reason": "stop"}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAskCmd_PrintsAndCachesReply(t *testing.T) {
	var calls int32
	srv := stubLLM(t, &calls)
	cacheDir := filepath.Join(t.TempDir(), "cache")
	args := []string{"ask", "--llm.base", srv.URL + "/v1", "--llm.model", "periop", "--cache.dir", cacheDir, "能", "喝水吗？"}

	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.TrimSpace(out) != "echo: 能 喝水吗？" {
		t.Fatalf("unexpected reply %q", out)
	}
	if _, err := execute(t, args...); err != nil {
		t.Fatalf("ask again: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("second ask should be served from cache, calls=%d", got)
	}

	if _, err := execute(t, append(args[:len(args):len(args)], "--no-cache")...); err != nil {
		t.Fatalf("ask without cache: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("--no-cache must call the model, calls=%d", got)
	}
}

func TestAskCmd_RequiresModel(t *testing.T) {
	t.Setenv("LLM_MODEL", "")
	if _, err := execute(t, "ask", "hello"); err == nil {
		t.Fatalf("expected error without a model")
	}
}
