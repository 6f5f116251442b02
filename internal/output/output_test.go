package output

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/docqa/internal/qa"
)

var samplePairs = []qa.Pair{
	{Question: "天空为什么是蓝色？", Answer: "因为瑞利散射。", SourceFile: "a.docx"},
	{Question: "Comma, \"quoted\"?", Answer: "yes", SourceFile: "b.pdf"},
	{Question: "最后一个问题", Answer: "", SourceFile: "b.pdf"},
}

func TestWriteCSV_BOMHeaderAndRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, samplePairs)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if n != len(samplePairs) {
		t.Fatalf("n=%d, want %d", n, len(samplePairs))
	}
	raw := buf.Bytes()
	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("expected UTF-8 BOM prefix, got % x", raw[:3])
	}
	records, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != len(samplePairs)+1 {
		t.Fatalf("expected %d records, got %d", len(samplePairs)+1, len(records))
	}
	if strings.Join(records[0], ",") != "question,answer,source_file" {
		t.Fatalf("unexpected header %v", records[0])
	}
	for i, p := range samplePairs {
		row := records[i+1]
		if row[0] != p.Question || row[1] != p.Answer || row[2] != p.SourceFile {
			t.Fatalf("row %d = %v, want %+v", i+1, row, p)
		}
	}
}

func TestWriteJSONL_SkipsIncompletePairs(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteJSONL(&buf, samplePairs, "你是一个助手。")
	if err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 examples, got %d", n)
	}
	sc := bufio.NewScanner(&buf)
	lines := 0
	for sc.Scan() {
		lines++
		var ex example
		if err := json.Unmarshal(sc.Bytes(), &ex); err != nil {
			t.Fatalf("line %d not JSON: %v", lines, err)
		}
		if len(ex.Messages) != 3 || ex.Messages[0].Role != "system" || ex.Messages[1].Role != "user" || ex.Messages[2].Role != "assistant" {
			t.Fatalf("unexpected messages %+v", ex.Messages)
		}
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
}

func TestWriteJSONL_NoSystemPrompt(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteJSONL(&buf, samplePairs[:1], "  "); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	var ex example
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ex); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ex.Messages) != 2 || ex.Messages[0].Content != "天空为什么是蓝色？" {
		t.Fatalf("unexpected messages %+v", ex.Messages)
	}
}

func TestWriteFile_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	n, err := WriteFile(path, CSV, samplePairs, Options{})
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if n != 3 {
		t.Fatalf("n=%d", n)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "因为瑞利散射。") {
		t.Fatalf("expected CJK text to round-trip")
	}
}

func TestParseFormatAndDefaultPath(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != CSV {
		t.Fatalf("empty format: %v %v", f, err)
	}
	if f, err := ParseFormat("JSONL"); err != nil || f != JSONL {
		t.Fatalf("jsonl: %v %v", f, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Fatalf("expected error")
	}
	if got := DefaultPath(CSV, "20240101_120000"); got != "cleaned_output_20240101_120000.csv" {
		t.Fatalf("DefaultPath=%q", got)
	}
	if got := DefaultPath(JSONL, "20240101_120000"); got != "cleaned_output_20240101_120000.jsonl" {
		t.Fatalf("DefaultPath=%q", got)
	}
}
