package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassicRefWithNilCellRoutesToDeadLetters(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	path, err := NewActorPath(sys.Name(), ScopeUser, "nowhere")
	require.NoError(t, err)

	dead := &classicRef{path: path, cell: nil, system: sys}

	before := sys.DeadLetterCount()
	dead.Tell(context.Background(), pingMsg{})
	require.Equal(t, before+1, sys.DeadLetterCount())
}

func TestClassicRefAskWithNilCellFailsImmediately(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	path, err := NewActorPath(sys.Name(), ScopeUser, "nowhere")
	require.NoError(t, err)
	dead := &classicRef{path: path, cell: nil, system: sys}

	_, err = dead.Ask(context.Background(), pingMsg{}).
		Await(context.Background()).Unpack()
	require.ErrorIs(t, err, ErrActorTerminated)
}

func TestClassicRefID(t *testing.T) {
	t.Parallel()

	sys := NewActorSystemWithConfig(DefaultConfig())
	defer shutdownSystem(t, sys)

	ref, err := sys.CreateActor(ScopeUser, "named", func() Actor { return &BaseActor{} }, "")
	require.NoError(t, err)
	require.Equal(t, ref.Path().String(), ref.ID())
}
