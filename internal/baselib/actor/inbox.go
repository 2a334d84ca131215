package actor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Inbox is a passive, actor-shaped sink usable by non-actor code: its
// mailbox is permanently marked scheduled so no executor ever claims it,
// and Receive drains it by blocking directly on the mailbox condition
// variable, per spec.md §4.9.
type Inbox struct {
	path    ActorPath
	mailbox *CellMailbox
	system  *ActorSystem
	ref     PathRef
}

// NewInbox creates a new Inbox whose path lies in the system's temp scope.
// It is not a supervised ActorCell and is not registered in the system's
// path index.
func NewInbox(system *ActorSystem) (*Inbox, error) {
	path, err := NewActorPath(system.Name(), ScopeTemp, "inbox-"+uuid.NewString())
	if err != nil {
		return nil, err
	}

	mb := NewCellMailbox()
	mb.MarkPermanentlyScheduled()

	ib := &Inbox{path: path, mailbox: mb, system: system}
	ib.ref = &inboxRef{inbox: ib}
	return ib, nil
}

// Ref returns a PathRef that delivers into this Inbox's mailbox. Other
// actors can Tell it like any other actor reference; since the inbox is
// not a resident cell, watching it reports Terminated at once.
func (ib *Inbox) Ref() PathRef { return ib.ref }

// Receive blocks until a user message arrives or timeout elapses, returning
// the message and true, or (nil, false) on timeout.
func (ib *Inbox) Receive(timeout time.Duration) (Message, bool) {
	return ib.mailbox.PopUserBlocking(timeout)
}

// Send tells target, attributing the Inbox itself as sender so that any
// reply comes back into this Inbox's mailbox.
func (ib *Inbox) Send(target PathRef, msg Message) {
	target.TellFrom(context.Background(), msg, ib.ref)
}

// Close permanently closes the Inbox's mailbox; any Receive blocked or
// called afterward returns (nil, false) once drained.
func (ib *Inbox) Close() {
	ib.mailbox.Close()
}

// inboxRef is the PathRef implementation backing Inbox.Ref(). Unlike
// classicRef, it delivers straight into the Inbox's own mailbox rather than
// an ActorCell's, since an Inbox has no behavior/dispatch loop of its own.
type inboxRef struct {
	inbox *Inbox
}

// ID implements BaseActorRef.
func (r *inboxRef) ID() string { return r.inbox.path.String() }

// Path implements PathRef.
func (r *inboxRef) Path() ActorPath { return r.inbox.path }

// Tell implements ActorRef.
func (r *inboxRef) Tell(ctx context.Context, msg Message) {
	r.TellFrom(ctx, msg, nil)
}

// TellFrom implements PathRef.
func (r *inboxRef) TellFrom(_ context.Context, msg Message, sender PathRef) {
	accepted, _ := r.inbox.mailbox.EnqueueUser(classicEnvelope{msg: msg, sender: sender})
	if !accepted {
		r.inbox.system.deadLetter(r.inbox.path, msg)
	}
}

// Ask implements ActorRef. An Inbox is a passive sink with no behavior to
// produce a reply from, so Ask always fails immediately.
func (r *inboxRef) Ask(context.Context, Message) Future[any] {
	p := NewPromise[any]()
	p.Complete(fn.Err[any](errors.New("Inbox does not support ask")))
	return p.Future()
}
