package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/arborsys/arbor/internal/baselib/actor"
	"github.com/spf13/cobra"
)

var pingRounds int

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Bounce a counted message between two actors (scenario S1)",
	Long: `Spawns two actors, ping and pong, and has ping send pong an
initial count; each actor decrements the count and Tells it back to the
sender until it reaches zero, exercising Tell, Sender routing, and ordinary
mailbox delivery.`,
	RunE: runPing,
}

func init() {
	pingCmd.Flags().IntVar(&pingRounds, "rounds", 10, "Number of bounces before the count reaches zero")
}

type bounceMsg struct {
	actor.BaseMessage
	remaining int
}

func (bounceMsg) MessageType() string { return "bounce" }

// bouncer replies to the sender of every bounceMsg with remaining-1, sent as
// itself, or closes doneCh (if set) once remaining reaches zero.
type bouncer struct {
	actor.BaseActor
	doneCh chan struct{}
}

func (b *bouncer) Receive(ctx actor.Context, msg actor.Message) error {
	switch m := msg.(type) {
	case *bounceMsg:
		ctx.Log().InfoS(ctx.Ctx(), "received bounce", "remaining", m.remaining)
		if m.remaining <= 0 {
			if b.doneCh != nil {
				close(b.doneCh)
			}
			return nil
		}
		ctx.Sender().TellFrom(ctx.Ctx(), &bounceMsg{remaining: m.remaining - 1}, ctx.Self())
	}
	return nil
}

func runPing(cmd *cobra.Command, args []string) error {
	system := actor.NewActorSystemWithConfig(actor.DefaultConfig())
	ctx := context.Background()
	defer system.ClassicShutdown(ctx, true)

	done := make(chan struct{})

	pongRef, err := system.CreateActor(actor.ScopeUser, "pong", func() actor.Actor {
		return &bouncer{doneCh: done}
	}, "")
	if err != nil {
		return err
	}

	pingRef, err := system.CreateActor(actor.ScopeUser, "ping", func() actor.Actor {
		return &bouncer{doneCh: done}
	}, "")
	if err != nil {
		return err
	}

	// Seed the bounce: pong replies to ping (the Sender), so attribute
	// ping as the sender of the first message.
	pongRef.TellFrom(ctx, &bounceMsg{remaining: pingRounds}, pingRef)

	select {
	case <-done:
		fmt.Printf("ping-pong complete after %d bounces\n", pingRounds)
	case <-time.After(5 * time.Second):
		return fmt.Errorf("ping-pong did not complete within 5s")
	}

	return nil
}
