package pubsub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatLine struct {
	Line string `json:"line"`
}

var testChat = NewEvent[chatLine]("test.chat", "chat lines used in tests")

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []Message
	err := bus.Subscribe(ctx, "test.raw", func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
		return nil
	})
	require.NoError(t, err)

	err = bus.Publish(ctx, Message{
		Topic:    "test.raw",
		ActorID:  "actor-1",
		Payload:  []byte("hello"),
		Metadata: map[string]string{"tick": "20"},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "test.raw", got[0].Topic)
	assert.Equal(t, "actor-1", got[0].ActorID)
	assert.Equal(t, []byte("hello"), got[0].Payload)
	assert.Equal(t, "20", got[0].Metadata["tick"])
	assert.NotContains(t, got[0].Metadata, metaKeyTopic)
	assert.NotContains(t, got[0].Metadata, metaKeyActorID)
}

func TestTypedEvent_PreservesOrder(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var lines []string
	err := Subscribe(ctx, bus, testChat, func(ctx context.Context, msg Message, payload chatLine) error {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, payload.Line)
		return nil
	})
	require.NoError(t, err)

	for _, line := range []string{"a", "b", "c"} {
		require.NoError(t, Publish(ctx, bus, testChat, "", chatLine{Line: line}, nil))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(lines) == 3
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b", "c"}, lines)
	assert.Equal(t, "test.chat", testChat.Name())
}

func TestWatermillBridge_HandlerErrorDoesNotRedeliver(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	err := bus.Subscribe(ctx, "test.fail", func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("boom")
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Message{Topic: "test.fail"}))
	require.NoError(t, bus.Publish(ctx, Message{Topic: "test.fail"}))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}
