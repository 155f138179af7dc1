package utils_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

func TestCountTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		min  int
	}{
		{"empty", "", 0},
		{"simple", "hello world", 1},
		{"long", strings.Repeat("lorem ipsum ", 1000), 500},
	}
	for _, c := range cases {
		if got := utils.CountTokens(c.in); got < c.min {
			t.Errorf("%s: got %d < min %d", c.name, got, c.min)
		}
	}
	if got := utils.CountTokens(""); got != 0 {
		t.Errorf("empty: got %d, want 0", got)
	}
}

func TestHeuristicTokens(t *testing.T) {
	if got := utils.HeuristicTokens("abc"); got != 1 {
		t.Fatalf("short text: got %d, want 1", got)
	}
	if got := utils.HeuristicTokens(strings.Repeat("a", 4000)); got != 1000 {
		t.Fatalf("4000 chars: got %d, want 1000", got)
	}
}

func TestTruncateToTokenLimit(t *testing.T) {
	text := strings.Repeat("abcd ", 1000)
	trunc := utils.TruncateToTokenLimit(text, 300)
	if n := utils.HeuristicTokens(trunc); n > 300 {
		t.Fatalf("tokens=%d exceeds limit", n)
	}
	if len(trunc) == 0 {
		t.Fatalf("expected non-empty truncation")
	}
	if utils.TruncateToTokenLimit(text, 0) != "" {
		t.Fatalf("expected empty output for zero limit")
	}
}
