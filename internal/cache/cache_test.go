package cache

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestReplyCache_SaveGet(t *testing.T) {
	c := &ReplyCache{Dir: t.TempDir()}
	key := KeyFrom("model", "prompt")
	if err := c.Save(context.Background(), key, Entry{Model: "model", Question: "几点？", Reply: "九点"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := c.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if got.Reply != "九点" || got.SavedAt.IsZero() {
		t.Fatalf("unexpected entry %+v", got)
	}
	if _, ok, _ := c.Get(context.Background(), KeyFrom("model", "other")); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestKeyFrom_DependsOnModel(t *testing.T) {
	if KeyFrom("a", "p") == KeyFrom("b", "p") {
		t.Fatalf("keys for different models must differ")
	}
	if KeyFrom("a", "p") != KeyFrom("a", "p") {
		t.Fatalf("keys must be stable")
	}
}

func TestReplyCache_NotConfigured(t *testing.T) {
	var c *ReplyCache
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error for nil cache")
	}
}

func TestReplyCache_StrictPerms(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not enforced on windows")
	}
	dir := filepath.Join(t.TempDir(), "replies")
	c := &ReplyCache{Dir: dir, StrictPerms: true}
	key := KeyFrom("m", "p")
	if err := c.Save(context.Background(), key, Entry{Reply: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if info.Mode()&0o777 != 0o700 {
		t.Fatalf("dir perms %o, want 700", info.Mode()&0o777)
	}
	finfo, err := os.Stat(filepath.Join(dir, key+".json"))
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}
	if finfo.Mode()&0o777 != 0o600 {
		t.Fatalf("file perms %o, want 600", finfo.Mode()&0o777)
	}
}

func TestPurgeByAge(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.json")
	newPath := filepath.Join(dir, "new.json")
	for _, p := range []string{oldPath, newPath} {
		if err := os.WriteFile(p, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	removed, err := PurgeByAge(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed=%d, want 1", removed)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("fresh entry should remain: %v", err)
	}
	if n, err := PurgeByAge(dir, 0); n != 0 || err != nil {
		t.Fatalf("zero maxAge should be a no-op, got %d %v", n, err)
	}
}

func TestClearDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ClearDir(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %d entries", len(entries))
	}
	if err := ClearDir(" "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}
