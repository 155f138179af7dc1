package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBrokerDelivers(t *testing.T) {
	b := NewBroker[string]()
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := b.Subscribe(ctx)

	b.Publish("created", "hello")

	select {
	case ev := <-events:
		require.Equal(t, EventType("created"), ev.Type)
		require.Equal(t, "hello", ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerUnsubscribesOnCancel(t *testing.T) {
	b := NewBroker[int]()
	defer b.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	events := b.Subscribe(ctx)

	cancel()
	select {
	case _, open := <-events:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}

	// publishing after the subscriber left must not panic on a closed channel
	b.Publish(EventType("tick"), 1)
}

func TestBrokerPublishDoesNotBlock(t *testing.T) {
	b := NewBrokerWithBuffer[int](2)
	defer b.Shutdown()
	events := b.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish("updated", i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	require.Len(t, events, 2)
}

func TestBrokerShutdown(t *testing.T) {
	b := NewBroker[int]()
	events := b.Subscribe(context.Background())
	b.Shutdown()
	b.Shutdown()

	_, open := <-events
	require.False(t, open)

	late := b.Subscribe(context.Background())
	_, open = <-late
	require.False(t, open)
	b.Publish("updated", 1)
}
