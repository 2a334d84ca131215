package actor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubRef is a minimal PathRef used to observe what a cell sends a watcher,
// without spinning up a second real actor.
type stubRef struct {
	path  ActorPath
	tells chan Message
}

func (s *stubRef) ID() string      { return s.path.String() }
func (s *stubRef) Path() ActorPath { return s.path }
func (s *stubRef) Tell(_ context.Context, msg Message) {
	s.tells <- msg
}
func (s *stubRef) TellFrom(_ context.Context, msg Message, _ PathRef) {
	s.tells <- msg
}
func (s *stubRef) Ask(context.Context, Message) Future[any] {
	panic("stubRef.Ask is not used by these tests")
}

func newStubRef(t *testing.T, sys *ActorSystem, name string) *stubRef {
	t.Helper()
	p, err := NewActorPath(sys.Name(), ScopeUser, name)
	require.NoError(t, err)
	return &stubRef{path: p, tells: make(chan Message, 1)}
}

func TestAddWatcherToTerminatedCellDeliversImmediately(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	ref, err := sys.CreateActor(ScopeUser, "short-lived", func() Actor { return &BaseActor{} }, "")
	require.NoError(t, err)

	cell := sys.resolveLocal(ref.Path())
	require.NotNil(t, cell)

	ref.Tell(context.Background(), PoisonPill{})
	require.Eventually(t, cell.isTerminated, time.Second, 5*time.Millisecond)

	watcher := newStubRef(t, sys, "latecomer")
	cell.addWatcher(watcher)

	select {
	case msg := <-watcher.tells:
		term, ok := msg.(Terminated)
		require.True(t, ok)
		require.True(t, term.Ref.Equal(cell.Path()))
	case <-time.After(time.Second):
		t.Fatal("watching an already-terminated cell must deliver Terminated synchronously")
	}
}

func TestWatcherDedupAndRemoval(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	ref, err := sys.CreateActor(ScopeUser, "watched", func() Actor { return &BaseActor{} }, "")
	require.NoError(t, err)
	cell := sys.resolveLocal(ref.Path())
	require.NotNil(t, cell)

	w := newStubRef(t, sys, "watcher-one")
	cell.addWatcher(w)
	cell.addWatcher(w)
	require.Len(t, cell.watchers, 1, "watching the same ref twice must not duplicate")

	cell.removeWatcher(w)
	require.Empty(t, cell.watchers)
}

type panicOnceActor struct {
	BaseActor
	panicked bool
	results  chan string
}

func (p *panicOnceActor) Receive(ctx Context, msg Message) error {
	if !p.panicked {
		p.panicked = true
		panic("boom")
	}
	p.results <- "recovered"
	return nil
}

func TestActorPanicInReceiveIsRecoveredAndActorSurvives(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	results := make(chan string, 1)
	ref, err := sys.CreateActor(ScopeUser, "panicky", func() Actor {
		return &panicOnceActor{results: results}
	}, "")
	require.NoError(t, err)

	ref.Tell(context.Background(), pingMsg{})
	ref.Tell(context.Background(), pingMsg{})

	select {
	case r := <-results:
		require.Equal(t, "recovered", r)
	case <-time.After(time.Second):
		t.Fatal("actor did not survive the panic in Receive")
	}
}

type failingPreStartActor struct {
	BaseActor
	receiveCalled chan struct{}
}

func (f *failingPreStartActor) PreStart(Context) error {
	return errors.New("prestart always fails")
}

func (f *failingPreStartActor) Receive(ctx Context, msg Message) error {
	close(f.receiveCalled)
	return nil
}

func TestPreStartErrorStopsActorWithoutRunningReceive(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	receiveCalled := make(chan struct{})
	ref, err := sys.CreateActor(ScopeUser, "bad-prestart", func() Actor {
		return &failingPreStartActor{receiveCalled: receiveCalled}
	}, "")
	require.NoError(t, err)

	ref.Tell(context.Background(), pingMsg{})

	require.Eventually(t, func() bool {
		return sys.resolveLocal(ref.Path()) == nil
	}, time.Second, 5*time.Millisecond, "a failed PreStart must still terminate the cell")

	select {
	case <-receiveCalled:
		t.Fatal("Receive must never run when PreStart fails")
	default:
	}
}

type panicPostStopActor struct {
	BaseActor
}

func (panicPostStopActor) PostStop(Context) error {
	panic("boom in post stop")
}

func TestPostStopPanicDoesNotBlockTermination(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	ref, err := sys.CreateActor(ScopeUser, "bad-poststop", func() Actor {
		return &panicPostStopActor{}
	}, "")
	require.NoError(t, err)

	ref.Tell(context.Background(), PoisonPill{})

	require.Eventually(t, func() bool {
		return sys.resolveLocal(ref.Path()) == nil
	}, time.Second, 5*time.Millisecond, "a panicking PostStop must still let the cell finish terminating")
}

func TestDispatchUserTranslatesPoisonPillToSystemStop(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	ref, err := sys.CreateActor(ScopeUser, "stoppable", func() Actor { return &BaseActor{} }, "")
	require.NoError(t, err)
	cell := sys.resolveLocal(ref.Path())
	require.NotNil(t, cell)

	cell.dispatchUser(classicEnvelope{msg: PoisonPill{}})

	_, _, isSystem, ok := cell.mailbox.TryPop(true)
	require.True(t, ok)
	require.True(t, isSystem, "dispatchUser must translate PoisonPill into a sysStop system message")
}
