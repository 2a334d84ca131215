package actor

import "fmt"

// PoisonPill is a standard user message. When an actor's Receive loop
// observes a PoisonPill, the runtime does not dispatch it to the actor's
// Receive hook; instead it enqueues a Stop system message to the actor
// itself, per spec.
type PoisonPill struct {
	BaseMessage
}

// MessageType implements Message.
func (PoisonPill) MessageType() string { return "PoisonPill" }

// Terminated notifies a watcher that the named actor has stopped. Each
// watcher present at stop time receives exactly one Terminated per stopped
// target.
type Terminated struct {
	BaseMessage

	// Ref is the path of the actor that stopped.
	Ref ActorPath
}

// MessageType implements Message.
func (Terminated) MessageType() string { return "Terminated" }

// SelectionSuccess is the reply sent to a selection sender when the
// requested path resolves to a live actor.
type SelectionSuccess struct {
	BaseMessage

	// Ref is the path of the resolved actor.
	Ref ActorPath
}

// MessageType implements Message.
func (SelectionSuccess) MessageType() string { return "SelectionSuccess" }

// SelectionFailure is the reply sent to a selection sender when no child
// matches the next path segment.
type SelectionFailure struct {
	BaseMessage

	// Reason describes why the selection failed.
	Reason string
}

// MessageType implements Message.
func (SelectionFailure) MessageType() string { return "SelectionFailure" }

// systemMessageKind enumerates the control-plane events processed with
// priority over user messages by an ActorCell, per spec.
type systemMessageKind int

const (
	sysStart systemMessageKind = iota
	sysStop
	sysStopAfterChildren
	sysWatch
	sysUnwatch
	sysAttachChild
	sysDetachChild
	sysSelection
)

// String implements fmt.Stringer for diagnostics and log lines.
func (k systemMessageKind) String() string {
	switch k {
	case sysStart:
		return "start"
	case sysStop:
		return "stop"
	case sysStopAfterChildren:
		return "stop_after_children"
	case sysWatch:
		return "watch"
	case sysUnwatch:
		return "unwatch"
	case sysAttachChild:
		return "attach_child"
	case sysDetachChild:
		return "detach_child"
	case sysSelection:
		return "selection"
	default:
		return fmt.Sprintf("systemMessageKind(%d)", int(k))
	}
}

// systemMessage is the internal control envelope governing actor lifecycle.
// Exactly one of the payload fields is populated, selected by kind.
type systemMessage struct {
	kind systemMessageKind

	// watcher/unwatcher target, for sysWatch/sysUnwatch.
	watchRef ActorRef[Message, any]

	// child cell, for sysAttachChild.
	child *ActorCell

	// path of the child to detach, for sysDetachChild.
	detachPath ActorPath

	// selection fields, for sysSelection.
	selSender ActorRef[Message, any]
	selStack  []string
}
