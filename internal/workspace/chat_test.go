package workspace

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
)

func stubRuntime(reply string) ai.Runtime {
	return ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		return &ai.GenerateResponse{
			Choices: []ai.Choice{{Message: ai.Message{Role: ai.RoleAssistant, Content: reply}}},
			Usage:   ai.Usage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12},
		}, nil
	})
}

func failingRuntime(err error) ai.Runtime {
	return ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		return nil, err
	})
}

func TestSendSuccessAppendsOneAssistantBubble(t *testing.T) {
	w := NewDemoWorkspace(WithLogger(zaptest.NewLogger(t).Sugar()))
	ex, err := w.Send(context.Background(), stubRuntime("x = 4"), "solve my homework")
	require.NoError(t, err)
	require.NoError(t, ex.Err)
	require.Equal(t, 12, ex.Usage.TotalTokens)

	msgs := w.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, SenderUser, msgs[0].Sender)
	require.Equal(t, "solve my homework", msgs[0].Text)
	require.Equal(t, SenderAssistant, msgs[1].Sender)
	require.Equal(t, "x = 4", msgs[1].Text)
	require.False(t, msgs[1].Error)
	require.Equal(t, ex.Reply, msgs[1])
}

func TestSendFailureAppendsOneErrorBubble(t *testing.T) {
	w := NewDemoWorkspace()
	ex, err := w.Send(context.Background(), failingRuntime(errors.New("boom")), "hello")
	require.NoError(t, err)
	require.EqualError(t, ex.Err, "boom")

	msgs := w.Messages()
	require.Len(t, msgs, 2)
	require.True(t, msgs[1].Error)
	require.Equal(t, SenderAssistant, msgs[1].Sender)
	require.Equal(t, "Error: boom", msgs[1].Text)
}

func TestSendEmptyCompletionIsAnError(t *testing.T) {
	w := NewDemoWorkspace()
	rt := ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		return &ai.GenerateResponse{}, nil
	})
	ex, err := w.Send(context.Background(), rt, "hello")
	require.NoError(t, err)
	require.ErrorIs(t, ex.Err, ai.ErrEmptyCompletion)
	require.Len(t, w.Messages(), 2)
	require.True(t, w.Messages()[1].Error)
}

func TestSendNilRuntime(t *testing.T) {
	w := New()
	ex, err := w.Send(context.Background(), nil, "hello")
	require.NoError(t, err)
	require.Error(t, ex.Err)
	require.True(t, w.Messages()[1].Error)
}

func TestSendBlankIsNoop(t *testing.T) {
	w := NewDemoWorkspace()
	called := false
	rt := ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		called = true
		return nil, nil
	})
	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := w.Send(context.Background(), rt, text)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
	require.False(t, called)
	require.Empty(t, w.Messages())
}

func TestSendAppendsUserBubbleBeforeReply(t *testing.T) {
	w := NewDemoWorkspace()
	release := make(chan struct{})
	entered := make(chan struct{})
	rt := ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		close(entered)
		<-release
		return stubRuntime("done").Generate(ctx, req)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = w.Send(context.Background(), rt, "question")
	}()

	<-entered
	msgs := w.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, SenderUser, msgs[0].Sender)
	// the lock is free while the request is in flight
	_, err := w.AddClass("Art")
	require.NoError(t, err)

	close(release)
	<-done
	require.Len(t, w.Messages(), 2)
}

func TestSendTranscriptCarriesContextAndHistory(t *testing.T) {
	w := NewDemoWorkspace(WithSettings(Settings{Model: "test/model", MaxTokens: 50, Temperature: 0.2}))
	_, _ = w.Send(context.Background(), failingRuntime(errors.New("offline")), "first")
	_, _ = w.Send(context.Background(), stubRuntime("answer"), "second")

	var got ai.GenerateRequest
	rt := ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		got = req
		return stubRuntime("ok").Generate(ctx, req)
	})
	_, err := w.Send(context.Background(), rt, "third")
	require.NoError(t, err)

	require.Equal(t, "test/model", got.Model)
	require.Equal(t, 50, got.MaxTokens)
	require.InDelta(t, 0.2, got.Temperature, 1e-9)

	// system, first, second, answer, third; the error bubble is skipped
	require.Len(t, got.Messages, 5)
	require.Equal(t, ai.RoleSystem, got.Messages[0].Role)
	require.Contains(t, got.Messages[0].Content, "Math Homework: Solve for x")
	require.Equal(t, ai.Message{Role: ai.RoleUser, Content: "first"}, got.Messages[1])
	require.Equal(t, ai.Message{Role: ai.RoleUser, Content: "second"}, got.Messages[2])
	require.Equal(t, ai.Message{Role: ai.RoleAssistant, Content: "answer"}, got.Messages[3])
	require.Equal(t, ai.Message{Role: ai.RoleUser, Content: "third"}, got.Messages[4])
}

func TestConcurrentSendsEachAppendOneReply(t *testing.T) {
	w := NewDemoWorkspace()
	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Send(context.Background(), stubRuntime("r"), "q")
		}()
	}
	wg.Wait()

	msgs := w.Messages()
	require.Len(t, msgs, 2*n)
	users, replies := 0, 0
	for _, m := range msgs {
		if m.Sender == SenderUser {
			users++
		} else {
			replies++
		}
	}
	require.Equal(t, n, users)
	require.Equal(t, n, replies)
}

func TestSendHonorsContextDeadline(t *testing.T) {
	w := NewDemoWorkspace()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ex, err := w.Send(ctx, ai.NewMockClient(time.Second), "slow")
	require.NoError(t, err)
	require.ErrorIs(t, ex.Err, context.DeadlineExceeded)
	require.True(t, strings.HasPrefix(w.Messages()[1].Text, "Error: "))
}

func TestSendWithMockRuntime(t *testing.T) {
	w := NewDemoWorkspace()
	ex, err := w.Send(context.Background(), ai.NewMockClient(0), "hi")
	require.NoError(t, err)
	require.Equal(t, ai.DefaultMockReply, ex.Reply.Text)
}

func TestSendPublishesEvents(t *testing.T) {
	w := NewDemoWorkspace()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Subscribe(ctx)

	_, err := w.Send(context.Background(), stubRuntime("ok"), "hello")
	require.NoError(t, err)

	var types []string
	for i := 0; i < 4; i++ {
		select {
		case ev := <-events:
			types = append(types, string(ev.Type))
		case <-time.After(time.Second):
			t.Fatalf("timed out after %v", types)
		}
	}
	require.Equal(t, []string{
		string(EventMessageAppended),
		string(EventChatStarted),
		string(EventMessageAppended),
		string(EventChatFinished),
	}, types)
}

func TestPreviewDoesNotMutate(t *testing.T) {
	w := NewDemoWorkspace()
	msgs, tokens := w.Preview("what is x?")
	require.Len(t, msgs, 2)
	require.Positive(t, tokens)
	require.Empty(t, w.Messages())
}

func TestSendCapsClassContext(t *testing.T) {
	w := New(WithSettings(Settings{Model: "test/model", ContextLimit: 20}))
	_, err := w.AddClass("History")
	require.NoError(t, err)
	_, err = w.AddDocument("History", "Reader", "reader.txt", strings.Repeat("treaty ", 200))
	require.NoError(t, err)

	var got ai.GenerateRequest
	rt := ai.RuntimeFunc(func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
		got = req
		return stubRuntime("ok").Generate(ctx, req)
	})
	_, err = w.Send(context.Background(), rt, "summarize")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(got.Messages[0].Content, truncatedNote))

	msgs, _ := w.Preview("again")
	require.Equal(t, got.Messages[0].Content, msgs[0].Content)
}
