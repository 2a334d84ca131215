package actor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// askTemp implements spec.md §4.2's ask: a short-lived temp-scope actor is
// created to send msg to target with itself as sender, capture the first
// reply into promise, and stop. A scheduler timer guarantees the future
// completes even if no reply ever arrives: the asker is stopped and the
// future completes with an error (never a panic/throw, per spec.md §7).
func askTemp(ctx context.Context, system *ActorSystem, target PathRef, msg Message, timeout time.Duration) Future[any] {
	promise := NewPromise[any]()

	asker := &askingActor{target: target, request: msg, promise: promise}

	name := "ask-" + uuid.NewString()
	ref, err := system.CreateActor(ScopeTemp, name, func() Actor { return asker }, "")
	if err != nil {
		promise.Complete(fn.Err[any](err))
		return promise.Future()
	}

	system.scheduler.Schedule(timeout, func() {
		if promise.Complete(fn.Err[any](context.DeadlineExceeded)) {
			system.stopCell(ref, false)
		}
	})

	return promise.Future()
}

// askingActor is the temp-scope responder created by askTemp. It forwards
// the outgoing request on PreStart, completes the promise with the first
// reply it receives, and then stops itself.
type askingActor struct {
	BaseActor

	target  PathRef
	request Message
	promise Promise[any]
}

// PreStart implements Actor.
func (a *askingActor) PreStart(ctx Context) error {
	a.target.TellFrom(ctx.Ctx(), a.request, ctx.Self())
	return nil
}

// Receive implements Actor.
func (a *askingActor) Receive(ctx Context, msg Message) error {
	a.promise.Complete(fn.Ok[any](msg))
	ctx.Self().Tell(ctx.Ctx(), PoisonPill{})
	return nil
}
