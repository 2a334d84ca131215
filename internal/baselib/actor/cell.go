package actor

import (
	"context"
	"fmt"
	"sync"
)

// CellBuilder is the captured constructor closure an ActorCell is built
// from. It is invoked exactly once, at cell creation, so that a cell is
// created atomically with its actor instance already in hand.
type CellBuilder func() Actor

// ActorCell is the per-actor node of the supervision tree: it owns the
// actor instance, its mailbox, its children, and its watcher list, and is
// the unit the system-message state machine operates on.
//
// The children map and watchers list are mutated only while draining this
// cell's own mailbox (i.e. from within handleSystemMessage or dispatchUser).
// mu guards them together with the started/stopPending/terminated flags, so
// that queries from other goroutines observe a consistent state.
type ActorCell struct {
	system *ActorSystem
	path   ActorPath
	self   PathRef
	parent *ActorCell

	mailbox *CellMailbox
	log     loggerLike

	executor ExecutionContext

	build CellBuilder

	// behaviorStack's bottom element is the actor itself; become/unbecome
	// push/pop/replace the top. Only ever touched during dispatch.
	behaviorStack []Actor

	// children is keyed by leaf name; only touched during dispatch.
	children map[string]*ActorCell

	// watchers is only touched during dispatch.
	watchers []PathRef

	mu          sync.Mutex
	started     bool
	stopPending bool
	terminated  bool
}

// newActorCell constructs (but does not start) a cell. The caller is
// responsible for enqueueing the start system message.
func newActorCell(system *ActorSystem, path ActorPath, parent *ActorCell, build CellBuilder, exec ExecutionContext) *ActorCell {
	c := &ActorCell{
		system:   system,
		path:     path,
		parent:   parent,
		mailbox:  NewCellMailbox(),
		executor: exec,
		build:    build,
		children: make(map[string]*ActorCell),
		log:      scopedLogger(path),
	}
	instance := build()
	c.behaviorStack = []Actor{instance}
	c.self = &classicRef{path: path, cell: c, system: system}
	return c
}

// Path returns the cell's path.
func (c *ActorCell) Path() ActorPath { return c.path }

// Ref returns a PathRef to this cell.
func (c *ActorCell) Ref() PathRef { return c.self }

func (c *ActorCell) isStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

func (c *ActorCell) isTerminated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminated
}

func (c *ActorCell) activeBehavior() Actor {
	return c.behaviorStack[len(c.behaviorStack)-1]
}

// runDrain implements one executor pass over the cell's mailbox: it drains
// the system queue to empty (or until the cell terminates), then dispatches
// up to throughput user messages (throughput<=0 means unbounded, used by
// PinnedExecutor). It returns true iff the cell fully terminated during this
// pass, in which case the caller must not resubmit the cell.
func (c *ActorCell) runDrain(throughput int) (terminated bool) {
	for {
		c.mailbox.mu.Lock()
		if len(c.mailbox.sysQ) == 0 {
			c.mailbox.mu.Unlock()
			break
		}
		sm := c.mailbox.sysQ[0]
		c.mailbox.sysQ = c.mailbox.sysQ[1:]
		c.mailbox.mu.Unlock()
		c.handleSystemMessage(sm)
		if c.isTerminated() {
			return true
		}
	}
	if c.isTerminated() {
		return true
	}
	if !c.isStarted() {
		return false
	}

	processed := 0
	for throughput <= 0 || processed < throughput {
		sm, env, isSystem, ok := c.mailbox.TryPop(true)
		if !ok {
			break
		}
		if isSystem {
			c.handleSystemMessage(sm)
			if c.isTerminated() {
				return true
			}
			continue
		}
		c.dispatchUser(env)
		processed++
	}
	return false
}

// dispatchUser runs a single user message through the active behavior,
// recovering from and logging a panic exactly as spec.md §4.4 requires for
// Receive failures: the message is discarded, the actor keeps running.
func (c *ActorCell) dispatchUser(env classicEnvelope) {
	if pp, ok := env.msg.(PoisonPill); ok {
		_ = pp
		c.mailbox.EnqueueSystem(systemMessage{kind: sysStop})
		return
	}

	ctx := &cellContext{
		goCtx:  context.Background(),
		cell:   c,
		sender: env.sender,
		msg:    env.msg,
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.ErrorS(ctx.goCtx, "actor panic in Receive",
					fmt.Errorf("%v", r), "path", c.path.String())
			}
		}()

		if err := c.activeBehavior().Receive(ctx, env.msg); err != nil {
			c.log.WarnS(ctx.goCtx, "actor Receive returned error", err,
				"path", c.path.String())
		}
	}()
}

// handleSystemMessage implements the state-machine table of spec.md §4.5.
func (c *ActorCell) handleSystemMessage(sm systemMessage) {
	switch sm.kind {
	case sysStart:
		c.handleStart()
	case sysStop:
		c.handleStop(false)
	case sysStopAfterChildren:
		c.handleStop(true)
	case sysWatch:
		c.addWatcher(sm.watchRef)
	case sysUnwatch:
		c.removeWatcher(sm.watchRef)
	case sysAttachChild:
		c.handleAttachChild(sm.child)
	case sysDetachChild:
		c.handleDetachChild(sm.detachPath)
	case sysSelection:
		c.handleSelection(sm.selSender, sm.selStack)
	}
}

func (c *ActorCell) handleStart() {
	c.mu.Lock()
	alreadyStarted := c.started
	c.mu.Unlock()
	if alreadyStarted {
		return
	}

	ctx := &cellContext{goCtx: context.Background(), cell: c}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in PreStart: %v", r)
			}
		}()
		return c.activeBehavior().PreStart(ctx)
	}()

	if err != nil {
		c.log.ErrorS(ctx.goCtx, "PreStart failed, stopping", err,
			"path", c.path.String())
		c.mailbox.EnqueueSystem(systemMessage{kind: sysStop})
		return
	}

	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
}

func (c *ActorCell) handleStop(afterChildren bool) {
	c.mu.Lock()
	hasChildren := len(c.children) > 0
	c.mu.Unlock()

	if !hasChildren {
		c.terminate()
		return
	}

	c.mu.Lock()
	c.stopPending = true
	c.mu.Unlock()

	if !afterChildren {
		goCtx := context.Background()
		for _, child := range c.snapshotChildren() {
			child.Ref().Tell(goCtx, PoisonPill{})
		}
	}
}

// terminate runs post_stop, marks the cell terminated, notifies watchers,
// and detaches from the parent. It is only ever reached with zero children.
func (c *ActorCell) terminate() {
	ctx := &cellContext{goCtx: context.Background(), cell: c}

	func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.ErrorS(ctx.goCtx, "panic in PostStop",
					fmt.Errorf("%v", r), "path", c.path.String())
			}
		}()
		if err := c.activeBehavior().PostStop(ctx); err != nil {
			c.log.WarnS(ctx.goCtx, "PostStop returned error", err,
				"path", c.path.String())
		}
	}()

	c.mu.Lock()
	c.started = false
	c.terminated = true
	watchers := make([]PathRef, len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.Unlock()

	c.mailbox.Close()

	terminatedMsg := Terminated{Ref: c.path}
	for _, w := range watchers {
		w.Tell(ctx.goCtx, terminatedMsg)
	}

	if c.parent != nil {
		c.parent.mailbox.EnqueueSystem(systemMessage{
			kind:       sysDetachChild,
			detachPath: c.path,
		})
		c.system.schedule(c.parent)
	}

	c.system.onCellTerminated(c)
}

func (c *ActorCell) addWatcher(w PathRef) {
	if w == nil {
		return
	}
	if c.isTerminated() {
		w.Tell(context.Background(), Terminated{Ref: c.path})
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.watchers {
		if existing.Path().Equal(w.Path()) {
			return
		}
	}
	c.watchers = append(c.watchers, w)
}

func (c *ActorCell) removeWatcher(w PathRef) {
	if w == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.watchers {
		if existing.Path().Equal(w.Path()) {
			c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
			return
		}
	}
}

func (c *ActorCell) handleAttachChild(child *ActorCell) {
	c.mu.Lock()
	if c.stopPending {
		c.mu.Unlock()
		return
	}
	c.children[child.path.Name()] = child
	c.mu.Unlock()

	child.mailbox.EnqueueSystem(systemMessage{kind: sysStart})
	c.system.schedule(child)
}

func (c *ActorCell) handleDetachChild(path ActorPath) {
	c.mu.Lock()
	delete(c.children, path.Name())
	stopPending := c.stopPending
	empty := len(c.children) == 0
	c.mu.Unlock()

	if stopPending && empty {
		c.terminate()
	}
}

func (c *ActorCell) handleSelection(sender ActorRef[Message, any], stack []string) {
	goCtx := context.Background()

	if len(stack) == 0 {
		if sender != nil {
			sender.Tell(goCtx, SelectionSuccess{Ref: c.path})
		}
		return
	}

	head := stack[0]
	c.mu.Lock()
	child, ok := c.children[head]
	c.mu.Unlock()

	if !ok {
		if sender != nil {
			sender.Tell(goCtx, SelectionFailure{
				Reason: fmt.Sprintf("no child named %q under %s", head, c.path),
			})
		}
		return
	}

	child.mailbox.EnqueueSystem(systemMessage{
		kind:      sysSelection,
		selSender: sender,
		selStack:  stack[1:],
	})
	c.system.schedule(child)
}

func (c *ActorCell) snapshotChildren() []*ActorCell {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ActorCell, 0, len(c.children))
	for _, ch := range c.children {
		out = append(out, ch)
	}
	return out
}

// cellContext is the Context implementation handed to Actor hooks for the
// duration of a single dispatch. It must not be retained past the hook call
// that received it.
type cellContext struct {
	goCtx  context.Context
	cell   *ActorCell
	sender PathRef
	msg    Message
}

func (ctx *cellContext) Ctx() context.Context { return ctx.goCtx }
func (ctx *cellContext) Self() PathRef        { return ctx.cell.self }

func (ctx *cellContext) Sender() PathRef {
	if ctx.sender != nil {
		return ctx.sender
	}
	return ctx.cell.system.DeadLettersRef()
}

func (ctx *cellContext) System() *ActorSystem { return ctx.cell.system }
func (ctx *cellContext) Log() loggerLike      { return ctx.cell.log }

func (ctx *cellContext) Watch(ref PathRef) {
	if ref == nil {
		return
	}
	target := ctx.cell.system.resolveLocal(ref.Path())
	if target == nil {
		ctx.cell.self.Tell(ctx.goCtx, Terminated{Ref: ref.Path()})
		return
	}
	target.mailbox.EnqueueSystem(systemMessage{kind: sysWatch, watchRef: ctx.cell.self})
	ctx.cell.system.schedule(target)
}

func (ctx *cellContext) Unwatch(ref PathRef) {
	if ref == nil {
		return
	}
	target := ctx.cell.system.resolveLocal(ref.Path())
	if target == nil {
		return
	}
	target.mailbox.EnqueueSystem(systemMessage{kind: sysUnwatch, watchRef: ctx.cell.self})
	ctx.cell.system.schedule(target)
}

func (ctx *cellContext) CreateChild(name string, build func() Actor) (PathRef, error) {
	return ctx.cell.system.createChild(ctx.cell, name, build)
}

func (ctx *cellContext) Become(next Actor, discardOld bool) {
	c := ctx.cell
	if discardOld {
		c.behaviorStack[len(c.behaviorStack)-1] = next
		return
	}
	c.behaviorStack = append(c.behaviorStack, next)
}

func (ctx *cellContext) Unbecome() {
	c := ctx.cell
	if len(c.behaviorStack) <= 1 {
		c.log.WarnS(ctx.goCtx, "unbecome called with no behavior to pop", nil,
			"path", c.path.String())
		return
	}
	c.behaviorStack = c.behaviorStack[:len(c.behaviorStack)-1]
}

func (ctx *cellContext) Forward(msg Message, target PathRef) {
	target.TellFrom(ctx.goCtx, msg, ctx.Sender())
}
