package actor

// RootTerminate is the message used to kick off system-wide shutdown, per
// spec.md §4.6/§5: force=true immediately stops the user and remote
// guardians; force=false asks them to drain (stop_after_children) first.
type RootTerminate struct {
	BaseMessage
	Force bool
}

// MessageType implements Message.
func (RootTerminate) MessageType() string { return "RootTerminate" }

// guardianActor is a bare supervisory node: it owns a subtree of one scope
// and otherwise does nothing on its own behalf. BaseActor's no-ops are
// exactly the behavior spec.md describes for the four guardians.
type guardianActor struct {
	BaseActor
}

// rootActor is the fixed actor spec.md §4.6 describes: its PreStart creates
// the four scope guardians and watches them, and its Receive implements the
// two-phase cascading shutdown (app-facing scopes first, then the
// infrastructure scopes, then itself).
type rootActor struct {
	BaseActor

	guardians map[Scope]PathRef
	down      map[Scope]bool
}

func newRootActor() Actor {
	return &rootActor{
		guardians: make(map[Scope]PathRef, 4),
		down:      make(map[Scope]bool, 4),
	}
}

var guardianScopes = []Scope{ScopeSystem, ScopeUser, ScopeTemp, ScopeRemote}

// PreStart implements Actor.
func (r *rootActor) PreStart(ctx Context) error {
	for _, sc := range guardianScopes {
		scope := sc
		ref, err := ctx.CreateChild(scope.String(), func() Actor {
			return &guardianActor{}
		})
		if err != nil {
			return err
		}
		r.guardians[scope] = ref
		ctx.Watch(ref)
	}
	return nil
}

// Receive implements Actor.
func (r *rootActor) Receive(ctx Context, msg Message) error {
	switch m := msg.(type) {
	case RootTerminate:
		r.handleTerminate(ctx, m.Force)

	case Terminated:
		r.handleGuardianDown(ctx, m.Ref)
	}
	return nil
}

func (r *rootActor) handleTerminate(ctx Context, force bool) {
	sys := ctx.System()

	for _, sc := range []Scope{ScopeUser, ScopeRemote} {
		ref, ok := r.guardians[sc]
		if !ok {
			continue
		}
		sys.stopCell(ref, !force)
	}
}

func (r *rootActor) handleGuardianDown(ctx Context, path ActorPath) {
	scope := scopeFromToken(path.Name())
	r.down[scope] = true

	if r.down[ScopeUser] && r.down[ScopeRemote] {
		sys := ctx.System()
		for _, sc := range []Scope{ScopeSystem, ScopeTemp} {
			if ref, ok := r.guardians[sc]; ok {
				sys.stopCell(ref, false)
			}
		}
	}

	if r.down[ScopeSystem] && r.down[ScopeTemp] {
		ctx.System().stopCell(ctx.Self(), false)
	}
}
