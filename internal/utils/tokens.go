package utils

import (
	"sync"
	"sync/atomic"

	"github.com/pkoukk/tiktoken-go"
)

// Token estimation. By default 1 token ~= 4 characters. EnableTiktoken switches to
// the cl100k encoder; the BPE ranks are downloaded on first use, so callers opt in.

var (
	useTiktoken atomic.Bool
	encOnce     sync.Once
	enc         *tiktoken.Tiktoken
)

// EnableTiktoken toggles BPE-based counting.
func EnableTiktoken(on bool) { useTiktoken.Store(on) }

func encoder() *tiktoken.Tiktoken {
	if !useTiktoken.Load() {
		return nil
	}
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})
	return enc
}

// CountTokens estimates the number of tokens in the given text.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	if e := encoder(); e != nil {
		if n := len(e.Encode(text, nil, nil)); n > 0 {
			return n
		}
	}
	return HeuristicTokens(text)
}

// HeuristicTokens approximates tokens as runes/4, at least 1 for non-empty text.
func HeuristicTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TruncateToTokenLimit naively truncates text to roughly fit within a token limit.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	charLimit := limit * 4
	if charLimit >= len(runes) {
		return text
	}
	return string(runes[:charLimit])
}
