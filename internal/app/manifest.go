package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"
)

// manifestEntry records one input document of a run.
type manifestEntry struct {
	File   string `json:"file"`
	SHA256 string `json:"sha256,omitempty"`
	Pairs  int    `json:"pairs"`
	Error  string `json:"error,omitempty"`
}

// manifestMeta captures run details for reproducing an output table.
type manifestMeta struct {
	RunID        string    `json:"run_id"`
	Strategy     string    `json:"strategy"`
	OutputFormat string    `json:"output_format"`
	FileCount    int       `json:"file_count"`
	PairCount    int       `json:"pair_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

func buildManifestEntries(results []fileResult) []manifestEntry {
	out := make([]manifestEntry, 0, len(results))
	for _, r := range results {
		e := manifestEntry{File: r.name, Pairs: len(r.pairs)}
		if sum, err := fileSHA256(r.path); err == nil {
			e.SHA256 = sum
		}
		if r.err != nil {
			e.Error = r.err.Error()
		}
		out = append(out, e)
	}
	return out
}

// fileSHA256 returns the lowercase hex SHA-256 of the file's bytes.
func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func marshalManifestJSON(meta manifestMeta, entries []manifestEntry) ([]byte, error) {
	payload := struct {
		Meta  manifestMeta    `json:"meta"`
		Files []manifestEntry `json:"files"`
	}{Meta: meta, Files: entries}
	return json.MarshalIndent(payload, "", "  ")
}

func writeManifest(path string, meta manifestMeta, entries []manifestEntry) error {
	b, err := marshalManifestJSON(meta, entries)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}

// deriveManifestSidecarPath returns the sidecar JSON path next to the output table.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}
