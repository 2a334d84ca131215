package actor

import (
	"sync"
	"time"
)

// classicEnvelope wraps a single user message destined for an ActorCell,
// together with the sender that should receive any reply via Tell-based
// forwarding (the Ask pattern never attaches a reply channel directly to the
// mailbox; see askingActor in ask.go).
type classicEnvelope struct {
	msg    Message
	sender PathRef
}

// CellMailbox is the per-actor queue pair described in spec: an independent
// FIFO for user messages and a higher-priority FIFO for system messages,
// guarded by a single mutex/condvar, plus the scheduling flag executors use
// to guarantee at most one active task per mailbox at a time.
//
// Thread safety: all exported methods may be called concurrently. Receive
// ordering is enforced per-queue (FIFO), and system messages are always
// returned ahead of user messages by TryPop.
type CellMailbox struct {
	mu   sync.Mutex
	cond *sync.Cond

	userQ []classicEnvelope
	sysQ  []systemMessage

	open      bool
	scheduled bool
}

// NewCellMailbox creates an open, unscheduled mailbox.
func NewCellMailbox() *CellMailbox {
	m := &CellMailbox{open: true}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// EnqueueUser appends a user message to the mailbox. It returns true if the
// message was accepted and the caller is responsible for scheduling the
// mailbox (i.e. it was not already scheduled), false if the mailbox is
// closed (the message is rejected; the caller should route it to dead
// letters) or the mailbox was already scheduled (some other task will see
// this message).
func (m *CellMailbox) EnqueueUser(env classicEnvelope) (accepted, mustSchedule bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return false, false
	}

	m.userQ = append(m.userQ, env)
	m.cond.Broadcast()

	if !m.scheduled {
		m.scheduled = true
		return true, true
	}
	return true, false
}

// EnqueueSystem appends a system message. System messages are accepted even
// after the mailbox has been closed for user traffic, since lifecycle
// control (stop, detach_child) must still reach a draining actor. It returns
// true if the caller must schedule the mailbox.
func (m *CellMailbox) EnqueueSystem(sm systemMessage) (mustSchedule bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sysQ = append(m.sysQ, sm)
	m.cond.Broadcast()

	if !m.scheduled {
		m.scheduled = true
		return true
	}
	return false
}

// TryPop removes and returns the next message to process under the priority
// rule: if preferSystem (always true for executors) and the system queue
// is non-empty, a system message is returned. Otherwise, if the mailbox is
// open and has a user message, that is returned. The last return value (ok)
// reports whether anything was popped.
func (m *CellMailbox) TryPop(preferSystem bool) (sm systemMessage, env classicEnvelope, isSystem, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if preferSystem && len(m.sysQ) > 0 {
		sm = m.sysQ[0]
		m.sysQ = m.sysQ[1:]
		return sm, classicEnvelope{}, true, true
	}

	if m.open && len(m.userQ) > 0 {
		env = m.userQ[0]
		m.userQ = m.userQ[1:]
		return systemMessage{}, env, false, true
	}

	return systemMessage{}, classicEnvelope{}, false, false
}

// PopUserBlocking blocks until a user message is available, the mailbox is
// closed with no further user messages pending, or timeout elapses. It is
// used only by Inbox, which is never claimed by an executor and so must
// drive its own blocking receive loop.
func (m *CellMailbox) PopUserBlocking(timeout time.Duration) (Message, bool) {
	deadline := time.Now().Add(timeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.userQ) == 0 {
		if !m.open {
			return nil, false
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}

		timer := time.AfterFunc(remaining, func() {
			m.mu.Lock()
			m.cond.Broadcast()
			m.mu.Unlock()
		})
		m.cond.Wait()
		timer.Stop()

		if time.Now().After(deadline) && len(m.userQ) == 0 {
			return nil, false
		}
	}

	env := m.userQ[0]
	m.userQ = m.userQ[1:]
	return env.msg, true
}

// Close marks the mailbox closed: no further user messages are accepted.
// System messages may still be enqueued and drained until the owning cell
// finishes terminating. Close is idempotent.
func (m *CellMailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = false
	m.cond.Broadcast()
}

// IsOpen reports whether the mailbox still accepts user messages.
func (m *CellMailbox) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Eligible reports whether this mailbox should be scheduled for execution:
// it has a system message regardless of open state, or it is open and has a
// user message.
func (m *CellMailbox) Eligible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sysQ) > 0 || (m.open && len(m.userQ) > 0)
}

// ClearScheduled clears the scheduling flag. It must only be called by the
// executor task that currently owns this mailbox, after it has determined
// there is no more eligible work (otherwise a concurrent enqueue could be
// missed). Returns whether the mailbox remained eligible (and thus should
// be re-submitted) at the moment the flag was cleared; if eligible is true,
// the scheduled flag is left set instead of cleared, so the caller must
// re-submit without a second enqueue racing it.
func (m *CellMailbox) ClearScheduled() (stillEligible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sysQ) > 0 || (m.open && len(m.userQ) > 0) {
		return true
	}

	m.scheduled = false
	return false
}

// IsScheduled reports whether an executor task is currently responsible for
// draining this mailbox.
func (m *CellMailbox) IsScheduled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled
}

// MarkPermanentlyScheduled sets the scheduled flag and leaves it set: no
// executor will ever claim this mailbox, because EnqueueUser/EnqueueSystem
// will never again report mustSchedule=true. This is how Inbox opts a
// mailbox out of executor dispatch entirely, per spec.md §4.9.
func (m *CellMailbox) MarkPermanentlyScheduled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled = true
}

// BlockUntilEligible blocks until the mailbox has work to drain (a system
// message, or an open mailbox with a user message), returning true; or until
// the mailbox is closed with nothing left to drain, returning false. It is
// used by PinnedExecutor's dedicated per-mailbox goroutine, which owns the
// mailbox exclusively and so never needs the scheduled flag at all.
func (m *CellMailbox) BlockUntilEligible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		if len(m.sysQ) > 0 || (m.open && len(m.userQ) > 0) {
			return true
		}
		if !m.open && len(m.userQ) == 0 && len(m.sysQ) == 0 {
			return false
		}
		m.cond.Wait()
	}
}
