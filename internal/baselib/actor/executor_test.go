package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCellQueuePushPopFIFO(t *testing.T) {
	t.Parallel()

	q := newCellQueue()

	a := &ActorCell{}
	b := &ActorCell{}
	q.push(a)
	q.push(b)

	got, ok := q.pop()
	require.True(t, ok)
	require.Same(t, a, got)

	got, ok = q.pop()
	require.True(t, ok)
	require.Same(t, b, got)
}

func TestCellQueueCloseUnblocksPop(t *testing.T) {
	t.Parallel()

	q := newCellQueue()
	done := make(chan bool, 1)

	go func() {
		_, ok := q.pop()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.close()

	select {
	case ok := <-done:
		require.False(t, ok, "pop on a closed, empty queue must report no item")
	case <-time.After(time.Second):
		t.Fatal("close never woke a blocked pop")
	}
}

func TestPinnedExecutorRunsActor(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(SystemConfig{
		Name:            "pinnedtest",
		LogLevel:        LogSilent,
		DefaultExecutor: "default",
		ExecutionContexts: []ExecutionContextConfig{
			{Name: "default", Type: ExecPinned},
		},
	})
	defer shutdownSystem(t, sys)

	received := make(chan Message, 1)
	ref, err := sys.CreateActor(ScopeUser, "pinned-echo", func() Actor {
		return &recordingActor{received: received}
	}, "")
	require.NoError(t, err)

	ref.Tell(context.Background(), pingMsg{})

	select {
	case msg := <-received:
		require.Equal(t, "ping", msg.MessageType())
	case <-time.After(time.Second):
		t.Fatal("pinned executor never dispatched the message")
	}
}

func TestThreadPoolExecutorName(t *testing.T) {
	t.Parallel()

	tp := NewThreadPoolExecutor("pool-a", 2, 5)
	defer tp.Stop()

	require.Equal(t, "pool-a", tp.Name())
}
