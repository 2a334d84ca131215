package commands

import (
	"context"
	"fmt"

	"github.com/arborsys/arbor/internal/baselib/actor"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask an unresponsive actor and observe the timeout complete cleanly (scenario S3)",
	Long: `Spawns an actor that never replies, Asks it, and shows that the
returned Future completes with a deadline-exceeded error rather than
blocking forever or panicking.`,
	RunE: runAsk,
}

type silentActor struct {
	actor.BaseActor
}

func (silentActor) Receive(ctx actor.Context, msg actor.Message) error {
	// Deliberately never replies.
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	system := actor.NewActorSystemWithConfig(actor.DefaultConfig())
	ctx := context.Background()
	defer system.ClassicShutdown(ctx, true)

	ref, err := system.CreateActor(actor.ScopeUser, "silent", func() actor.Actor {
		return &silentActor{}
	}, "")
	if err != nil {
		return err
	}

	future := ref.Ask(ctx, &payloadMsg{value: "are you there?"})
	result := future.Await(ctx)

	_, askErr := result.Unpack()
	if askErr == nil {
		return fmt.Errorf("expected ask to time out, got a reply instead")
	}

	fmt.Printf("ask completed without panic: %v\n", askErr)
	return nil
}
