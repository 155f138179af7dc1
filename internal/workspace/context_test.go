package workspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
)

func TestBuildContext(t *testing.T) {
	docs := []Document{
		{ID: 1, Name: "Notes", Content: "cells divide"},
		{ID: 2, Name: "Quiz", Content: "what is mitosis?"},
	}
	require.Equal(t, "Notes: cells divide\n\nQuiz: what is mitosis?", BuildContext(docs))
	require.Equal(t, "", BuildContext(nil))
}

func TestSystemPromptWithoutDocuments(t *testing.T) {
	got := SystemPrompt("", "Art", nil, 0)
	require.Contains(t, got, DefaultPreamble)
	require.Contains(t, got, "Class: Art")
	require.Contains(t, got, noDocumentsNote)
}

func TestSystemPromptCustomPreamble(t *testing.T) {
	got := SystemPrompt("Be brief.", "Math", []Document{{Name: "HW", Content: "2+2"}}, 0)
	require.Equal(t, "Be brief.\n\nClass: Math\n\nClass documents:\n\nHW: 2+2", got)
}

func TestBuildTranscriptRoles(t *testing.T) {
	history := []ChatMessage{
		{Text: "hi", Sender: SenderUser},
		{Text: "hello", Sender: SenderAssistant},
		{Text: "Error: timeout", Sender: SenderAssistant, Error: true},
	}
	msgs := BuildTranscript("Math", nil, history, "next", Settings{})
	require.Len(t, msgs, 4)
	require.Equal(t, ai.RoleSystem, msgs[0].Role)
	require.Equal(t, ai.Message{Role: ai.RoleUser, Content: "hi"}, msgs[1])
	require.Equal(t, ai.Message{Role: ai.RoleAssistant, Content: "hello"}, msgs[2])
	require.Equal(t, ai.Message{Role: ai.RoleUser, Content: "next"}, msgs[3])
}

func TestSystemPromptCapsContext(t *testing.T) {
	docs := []Document{{Name: "Reader", Content: strings.Repeat("chapter ", 400)}}

	full := SystemPrompt("Be brief.", "History", docs, 0)
	require.NotContains(t, full, truncatedNote)

	capped := SystemPrompt("Be brief.", "History", docs, 50)
	require.True(t, strings.HasSuffix(capped, truncatedNote))
	require.Less(t, len(capped), len(full))

	// a cap larger than the context leaves it alone
	require.Equal(t, full, SystemPrompt("Be brief.", "History", docs, 100000))
}

func TestClipContext(t *testing.T) {
	require.Equal(t, "short", ClipContext("short", 10))
	require.Equal(t, "short", ClipContext("short", 0))
	clipped := ClipContext(strings.Repeat("abcd", 100), 5)
	require.Equal(t, strings.Repeat("abcd", 5)+truncatedNote, clipped)
}
