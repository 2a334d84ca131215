package actor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCellMailboxEnqueueUserSchedulingFlag(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()

	accepted, mustSchedule := m.EnqueueUser(classicEnvelope{msg: PoisonPill{}})
	require.True(t, accepted)
	require.True(t, mustSchedule, "first enqueue on an idle mailbox must claim scheduling")

	accepted, mustSchedule = m.EnqueueUser(classicEnvelope{msg: PoisonPill{}})
	require.True(t, accepted)
	require.False(t, mustSchedule, "second enqueue while already scheduled must not re-claim it")
}

func TestCellMailboxSystemMessagesTakePriority(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()

	m.EnqueueUser(classicEnvelope{msg: PoisonPill{}})
	m.EnqueueSystem(systemMessage{kind: sysStop})

	_, _, isSystem, ok := m.TryPop(true)
	require.True(t, ok)
	require.True(t, isSystem, "a pending system message must be returned ahead of user messages")
}

func TestCellMailboxClosedRejectsUser(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	m.Close()

	accepted, mustSchedule := m.EnqueueUser(classicEnvelope{msg: PoisonPill{}})
	require.False(t, accepted)
	require.False(t, mustSchedule)
	require.False(t, m.IsOpen())
}

func TestCellMailboxSystemMessagesAcceptedAfterClose(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	m.Close()

	mustSchedule := m.EnqueueSystem(systemMessage{kind: sysStop})
	require.True(t, mustSchedule)

	_, _, isSystem, ok := m.TryPop(true)
	require.True(t, ok)
	require.True(t, isSystem)
}

func TestCellMailboxClearScheduled(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	m.EnqueueUser(classicEnvelope{msg: PoisonPill{}})

	_, _, _, ok := m.TryPop(true)
	require.True(t, ok)

	stillEligible := m.ClearScheduled()
	require.False(t, stillEligible)
	require.False(t, m.IsScheduled())

	m.EnqueueSystem(systemMessage{kind: sysStop})
	require.True(t, m.Eligible())

	stillEligible = m.ClearScheduled()
	require.True(t, stillEligible, "a mailbox with work pending must not be marked unscheduled")
	require.True(t, m.IsScheduled())
}

func TestCellMailboxPopUserBlockingTimeout(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()

	start := time.Now()
	_, ok := m.PopUserBlocking(20 * time.Millisecond)
	require.False(t, ok)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestCellMailboxPopUserBlockingWakesOnEnqueue(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	done := make(chan Message, 1)

	go func() {
		msg, ok := m.PopUserBlocking(time.Second)
		if ok {
			done <- msg
		}
	}()

	time.Sleep(10 * time.Millisecond)
	m.EnqueueUser(classicEnvelope{msg: PoisonPill{}})

	select {
	case msg := <-done:
		require.Equal(t, "PoisonPill", msg.MessageType())
	case <-time.After(time.Second):
		t.Fatal("PopUserBlocking never observed the enqueued message")
	}
}

func TestCellMailboxPopUserBlockingClosedEmpty(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	m.Close()

	_, ok := m.PopUserBlocking(time.Second)
	require.False(t, ok)
}

func TestCellMailboxMarkPermanentlyScheduled(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	m.MarkPermanentlyScheduled()

	_, mustSchedule := m.EnqueueUser(classicEnvelope{msg: PoisonPill{}})
	require.False(t, mustSchedule, "a permanently scheduled mailbox never hands scheduling back out")
}

func TestCellMailboxBlockUntilEligible(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	result := make(chan bool, 1)

	go func() {
		result <- m.BlockUntilEligible()
	}()

	time.Sleep(10 * time.Millisecond)
	m.EnqueueSystem(systemMessage{kind: sysStop})

	select {
	case eligible := <-result:
		require.True(t, eligible)
	case <-time.After(time.Second):
		t.Fatal("BlockUntilEligible never woke")
	}
}

func TestCellMailboxBlockUntilEligibleFalseWhenClosedEmpty(t *testing.T) {
	t.Parallel()

	m := NewCellMailbox()
	m.Close()

	require.False(t, m.BlockUntilEligible())
}
