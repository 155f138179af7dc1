package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

func TestSafeWriteFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "nested", "deeper", "ws.json")
	if err := utils.SafeWriteFile(p, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != `{"ok":true}` {
		t.Fatalf("unexpected content: %q", b)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err=%v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/.classmate/workspace.json")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := filepath.Join(home, ".classmate", "workspace.json")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
