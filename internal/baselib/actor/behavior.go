package actor

import "context"

// Actor is the interface implemented by user code to define an actor's
// behavior. The runtime invokes PreStart once before the first message is
// processed, Receive for every user message, and PostStop once after the
// actor has finished draining. Exceptions are modeled as Go panics recovered
// by the runtime (see cell.go's handleStart, dispatchUser and terminate): a
// panic from PreStart transitions
// the actor directly to stop; a panic from Receive is logged and the message
// discarded, the actor keeps running; a panic from PostStop is logged and
// shutdown continues regardless.
type Actor interface {
	// PreStart runs once, before the actor processes its first message.
	// Returning an error is equivalent to a panic: the actor is stopped
	// without ever calling Receive.
	PreStart(ctx Context) error

	// Receive handles a single user message. The Context provides
	// self/sender/system access and the become/unbecome/watch helpers.
	Receive(ctx Context, msg Message) error

	// PostStop runs once, after the actor has stopped processing
	// messages (either because it chose to stop or because its parent
	// asked it to), before its mailbox and goroutine are torn down.
	PostStop(ctx Context) error
}

// BaseActor provides no-op implementations of all three Actor hooks. Embed
// it to implement only the hooks you need, mirroring the teacher's
// optional-interface pattern for Stoppable.
type BaseActor struct{}

// PreStart implements Actor as a no-op.
func (BaseActor) PreStart(Context) error { return nil }

// Receive implements Actor as a no-op.
func (BaseActor) Receive(Context, Message) error { return nil }

// PostStop implements Actor as a no-op.
func (BaseActor) PostStop(Context) error { return nil }

// Context is the environment made available to an Actor's hooks by the
// runtime. It is only valid for the duration of the hook invocation that
// received it; actors must not retain a Context across messages.
type Context interface {
	// Ctx returns the Go context governing this dispatch. The runtime
	// supplies context.Background(), which is never cancelled.
	Ctx() context.Context

	// Self returns a reference to the actor processing this message.
	Self() PathRef

	// Sender returns a reference to the sender of the current message,
	// or the system's dead-letters ref if no sender was supplied.
	Sender() PathRef

	// System returns the owning ActorSystem.
	System() *ActorSystem

	// Log returns a logger scoped to this actor ("Actor[<name>]"),
	// inheriting the system's configured log level.
	Log() loggerLike

	// Watch registers the current actor to receive a Terminated message
	// when ref stops. If ref is already stopped, Terminated is delivered
	// immediately.
	Watch(ref PathRef)

	// Unwatch removes a prior Watch registration, if present.
	Unwatch(ref PathRef)

	// CreateChild spawns a new child actor under the current actor,
	// using the given name and builder, and returns its reference.
	CreateChild(name string, build func() Actor) (PathRef, error)

	// Become replaces (discardOld=true) or pushes (discardOld=false) the
	// active behavior on the actor's behavior stack. Subsequent messages
	// are dispatched to the new top-of-stack behavior.
	Become(next Actor, discardOld bool)

	// Unbecome pops the active behavior off the stack, reverting to the
	// previous one. Popping the last remaining behavior is a logged
	// no-op, never a crash.
	Unbecome()

	// Forward re-dispatches the current message to target, preserving
	// the original sender (as opposed to Tell, which would attribute the
	// forwarding actor as sender).
	Forward(msg Message, target PathRef)
}

// loggerLike is the minimal structured-logging surface Context.Log exposes
// to actor hooks, satisfied by btclog.Logger.
type loggerLike interface {
	TraceS(ctx context.Context, msg string, keyvals ...interface{})
	DebugS(ctx context.Context, msg string, keyvals ...interface{})
	InfoS(ctx context.Context, msg string, keyvals ...interface{})
	WarnS(ctx context.Context, msg string, err error, keyvals ...interface{})
	ErrorS(ctx context.Context, msg string, err error, keyvals ...interface{})
}
