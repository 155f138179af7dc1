package workspace

import (
	"time"

	"github.com/google/uuid"
)

// Sender tags who wrote a chat bubble.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one bubble of the transcript.
// Error marks the assistant bubble produced by a failed round-trip.
type ChatMessage struct {
	ID        string    `json:"id" yaml:"id" toml:"id"`
	Text      string    `json:"text" yaml:"text" toml:"text"`
	Sender    Sender    `json:"sender" yaml:"sender" toml:"sender"`
	Error     bool      `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" toml:"created_at"`
}

func newMessage(sender Sender, text string, isErr bool) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Error:     isErr,
		CreatedAt: time.Now(),
	}
}
