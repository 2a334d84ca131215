package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInboxSendAndReceive(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	inbox, err := NewInbox(sys)
	require.NoError(t, err)
	require.Equal(t, ScopeTemp, inbox.Ref().Path().ActorScope())

	inbox.Send(inbox.Ref(), pingMsg{})

	msg, ok := inbox.Receive(time.Second)
	require.True(t, ok)
	require.Equal(t, "ping", msg.MessageType())
}

func TestInboxReceiveTimesOutWhenEmpty(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	inbox, err := NewInbox(sys)
	require.NoError(t, err)

	_, ok := inbox.Receive(20 * time.Millisecond)
	require.False(t, ok)
}

func TestInboxAsActorReplyTarget(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	inbox, err := NewInbox(sys)
	require.NoError(t, err)

	echo, err := sys.CreateActor(ScopeUser, "inbox-echo", func() Actor { return echoActor{} }, "")
	require.NoError(t, err)

	inbox.Send(echo, pingMsg{})

	msg, ok := inbox.Receive(time.Second)
	require.True(t, ok)
	require.Equal(t, "pong", msg.MessageType())
}

func TestInboxAskUnsupported(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	inbox, err := NewInbox(sys)
	require.NoError(t, err)

	_, err = inbox.Ref().Ask(context.Background(), pingMsg{}).
		Await(context.Background()).Unpack()
	require.Error(t, err)
}

func TestInboxCloseStopsReceiving(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	inbox, err := NewInbox(sys)
	require.NoError(t, err)

	inbox.Close()

	_, ok := inbox.Receive(100 * time.Millisecond)
	require.False(t, ok)
}
