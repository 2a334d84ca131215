package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/arborsys/arbor/internal/baselib/actor"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an actor that has already stopped (scenario S6)",
	Long: `Stops an actor, then has a second actor Watch it after the fact.
Per spec, watching an already-terminated target delivers Terminated
immediately instead of never firing.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	system := actor.NewActorSystemWithConfig(actor.DefaultConfig())
	ctx := context.Background()
	defer system.ClassicShutdown(ctx, true)

	victimRef, err := system.CreateActor(actor.ScopeUser, "victim", func() actor.Actor {
		return &actor.BaseActor{}
	}, "")
	if err != nil {
		return err
	}

	victimRef.Tell(ctx, actor.PoisonPill{})
	time.Sleep(100 * time.Millisecond) // let the stop drain before watching

	notify := make(chan actor.ActorPath, 1)
	_, err = system.CreateActor(actor.ScopeUser, "watcher", func() actor.Actor {
		return &watcherOnStart{target: victimRef, notify: notify}
	}, "")
	if err != nil {
		return err
	}

	select {
	case path := <-notify:
		fmt.Printf("watcher notified of already-dead actor: %s\n", path)
	case <-time.After(2 * time.Second):
		return fmt.Errorf("watcher was never notified of the dead actor")
	}

	return nil
}

// watcherOnStart watches its target as soon as it starts, which is how an
// actor-shaped caller expresses "watch this possibly-already-dead ref".
type watcherOnStart struct {
	actor.BaseActor
	target actor.PathRef
	notify chan actor.ActorPath
}

func (w *watcherOnStart) PreStart(ctx actor.Context) error {
	ctx.Watch(w.target)
	return nil
}

func (w *watcherOnStart) Receive(ctx actor.Context, msg actor.Message) error {
	if term, ok := msg.(actor.Terminated); ok {
		w.notify <- term.Ref
	}
	return nil
}
