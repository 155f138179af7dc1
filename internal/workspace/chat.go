package workspace

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

var errNoRuntime = errors.New("no AI runtime configured")

// Exchange is the outcome of one Send: the user bubble, the bubble appended
// in reply and, on failure, the underlying error.
type Exchange struct {
	Request ChatMessage
	Reply   ChatMessage
	Usage   ai.Usage
	Elapsed time.Duration
	Err     error
}

// Preview returns the transcript Send would submit for text, with its token estimate.
func (w *Workspace) Preview(text string) ([]ai.Message, int) {
	w.mu.RLock()
	msgs := BuildTranscript(w.active, w.activeDocsLocked(), w.messages, text, w.settings)
	w.mu.RUnlock()
	return msgs, countTranscript(msgs)
}

// Send appends text as a user bubble, performs one round-trip against rt and
// appends exactly one reply bubble: the assistant's answer, or an error bubble
// when the round-trip fails. Blank text is rejected with ErrEmptyMessage and
// leaves the transcript untouched. The lock is not held during the round-trip.
func (w *Workspace) Send(ctx context.Context, rt ai.Runtime, text string) (Exchange, error) {
	if strings.TrimSpace(text) == "" {
		return Exchange{}, ErrEmptyMessage
	}

	w.mu.Lock()
	history := make([]ChatMessage, len(w.messages))
	copy(history, w.messages)
	user := newMessage(SenderUser, text, false)
	w.messages = append(w.messages, user)
	class := w.active
	docs := w.activeDocsLocked()
	settings := w.settings
	w.mu.Unlock()

	w.broker.Publish(EventMessageAppended, Change{Class: class, Message: &user})
	w.broker.Publish(EventChatStarted, Change{Class: class, Message: &user})

	req := ai.GenerateRequest{
		Model:       settings.Model,
		Messages:    BuildTranscript(class, docs, history, text, settings),
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
	w.log.Debugw("chat request", "class", class, "documents", len(docs), "messages", len(req.Messages), "tokens", countTranscript(req.Messages))

	ex := Exchange{Request: user}
	start := time.Now()
	content, usage, err := roundTrip(ctx, rt, req)
	ex.Elapsed = time.Since(start)
	if err != nil {
		ex.Err = err
		ex.Reply = newMessage(SenderAssistant, "Error: "+err.Error(), true)
		w.log.Warnw("chat request failed", "class", class, "model", req.Model, "error", err)
	} else {
		ex.Usage = usage
		ex.Reply = newMessage(SenderAssistant, content, false)
		w.log.Debugw("chat reply", "class", class, "model", req.Model, "total_tokens", usage.TotalTokens, "elapsed", ex.Elapsed)
	}

	w.mu.Lock()
	w.messages = append(w.messages, ex.Reply)
	w.mu.Unlock()

	w.broker.Publish(EventMessageAppended, Change{Class: class, Message: &ex.Reply})
	w.broker.Publish(EventChatFinished, Change{Class: class, Message: &ex.Reply})
	return ex, nil
}

func roundTrip(ctx context.Context, rt ai.Runtime, req ai.GenerateRequest) (string, ai.Usage, error) {
	if rt == nil {
		return "", ai.Usage{}, errNoRuntime
	}
	resp, err := rt.Generate(ctx, req)
	if err != nil {
		return "", ai.Usage{}, err
	}
	content, err := resp.Content()
	if err != nil {
		return "", ai.Usage{}, err
	}
	return content, resp.Usage, nil
}

func countTranscript(msgs []ai.Message) int {
	n := 0
	for _, m := range msgs {
		n += utils.CountTokens(m.Content)
	}
	return n
}
