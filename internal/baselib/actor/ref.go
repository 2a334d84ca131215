package actor

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// PathRef is the classic, untyped actor reference used by the hierarchical
// runtime (as opposed to the generic, typed ActorRef[M,R] declared in
// interface.go). It narrows BaseActorRef/ActorRef to the sealed Message
// type and adds Path, so callers can inspect scope/name without parsing
// ID()'s string form.
type PathRef interface {
	ActorRef[Message, any]

	// Path returns the full hierarchical path of the referenced actor.
	Path() ActorPath

	// TellFrom sends msg as if sent by sender, used internally by the
	// runtime (Context.Forward, the Ask temp actor) to preserve sender
	// identity across a hop that a plain Tell would otherwise erase. A
	// nil sender attributes the message to dead letters on reply.
	TellFrom(ctx context.Context, msg Message, sender PathRef)
}

// defaultAskTimeout bounds Ask calls that don't carry a context deadline of
// their own, mirroring the teacher's mergeContexts pattern of always having
// some terminal bound on a request/response round trip.
const defaultAskTimeout = 5 * time.Second

// classicRef is the concrete PathRef implementation. A classicRef with a nil
// cell denotes a reference to an actor that is not (or no longer) locally
// resident: sends are routed to the system's dead-letter office.
type classicRef struct {
	path   ActorPath
	cell   *ActorCell
	system *ActorSystem
}

// ID implements BaseActorRef.
func (r *classicRef) ID() string {
	return r.path.String()
}

// Path implements PathRef.
func (r *classicRef) Path() ActorPath {
	return r.path
}

// Tell implements ActorRef. It is fire-and-forget: the message is handed to
// the cell's mailbox with no sender attached, so any attempt by the callee to
// reply via ctx.Sender() will resolve to the system's dead-letter ref.
func (r *classicRef) Tell(ctx context.Context, msg Message) {
	r.TellFrom(ctx, msg, nil)
}

// TellFrom implements PathRef.
func (r *classicRef) TellFrom(_ context.Context, msg Message, sender PathRef) {
	if r.cell == nil {
		r.system.deadLetter(r.path, msg)
		return
	}

	accepted, mustSchedule := r.cell.mailbox.EnqueueUser(classicEnvelope{
		msg:    msg,
		sender: sender,
	})
	if !accepted {
		r.system.deadLetter(r.path, msg)
		return
	}
	if mustSchedule {
		r.system.schedule(r.cell)
	}
}

// Ask implements ActorRef. It spawns a short-lived temp-scope actor whose
// sole purpose is to capture the first reply addressed to it, per spec: the
// classic mailbox carries no per-message reply channel, so request/response
// is modeled as two Tells joined by a Promise.
func (r *classicRef) Ask(ctx context.Context, msg Message) Future[any] {
	if r.cell == nil {
		p := NewPromise[any]()
		p.Complete(fn.Err[any](ErrActorTerminated))
		return p.Future()
	}
	timeout := defaultAskTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	return askTemp(ctx, r.system, r, msg, timeout)
}
