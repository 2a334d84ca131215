package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/arborsys/arbor/internal/baselib/actor"
	"github.com/spf13/cobra"
)

var becomeCmd = &cobra.Command{
	Use:   "become",
	Short: "Switch an actor's behavior mid-flight, then switch it back (scenario S2)",
	Long: `Spawns an actor that starts in a "locked" behavior rejecting every
message, Becomes an "unlocked" behavior on receiving unlockMsg, processes one
payload message in the new behavior, then Unbecomes back to locked.`,
	RunE: runBecome,
}

type unlockMsg struct{ actor.BaseMessage }

func (unlockMsg) MessageType() string { return "unlock" }

type lockMsg struct{ actor.BaseMessage }

func (lockMsg) MessageType() string { return "lock" }

type payloadMsg struct {
	actor.BaseMessage
	value string
}

func (payloadMsg) MessageType() string { return "payload" }

type reportMsg struct {
	actor.BaseMessage
	behavior string
	value    string
}

func (reportMsg) MessageType() string { return "report" }

// lockedDoor is the initial behavior: it reports "locked" for any payload
// and, on unlockMsg, becomes an unlockedDoor.
type lockedDoor struct {
	actor.BaseActor
	reportTo actor.PathRef
}

func (d *lockedDoor) Receive(ctx actor.Context, msg actor.Message) error {
	switch m := msg.(type) {
	case *unlockMsg:
		ctx.Become(&unlockedDoor{reportTo: d.reportTo}, false)
	case *payloadMsg:
		d.reportTo.Tell(ctx.Ctx(), &reportMsg{behavior: "locked", value: m.value})
	}
	return nil
}

// unlockedDoor processes one payload and reports it, then reverts to
// whatever behavior was active before Become (lockedDoor, since it wasn't
// discarded).
type unlockedDoor struct {
	actor.BaseActor
	reportTo actor.PathRef
}

func (d *unlockedDoor) Receive(ctx actor.Context, msg actor.Message) error {
	switch m := msg.(type) {
	case *payloadMsg:
		d.reportTo.Tell(ctx.Ctx(), &reportMsg{behavior: "unlocked", value: m.value})
		ctx.Unbecome()
	case *lockMsg:
		ctx.Unbecome()
	}
	return nil
}

type reportCollector struct {
	actor.BaseActor
	reports chan reportMsg
}

func (r *reportCollector) Receive(ctx actor.Context, msg actor.Message) error {
	if m, ok := msg.(*reportMsg); ok {
		r.reports <- *m
	}
	return nil
}

func runBecome(cmd *cobra.Command, args []string) error {
	system := actor.NewActorSystemWithConfig(actor.DefaultConfig())
	ctx := context.Background()
	defer system.ClassicShutdown(ctx, true)

	reports := make(chan reportMsg, 3)

	collectorRef, err := system.CreateActor(actor.ScopeUser, "collector", func() actor.Actor {
		return &reportCollector{reports: reports}
	}, "")
	if err != nil {
		return err
	}

	doorRef, err := system.CreateActor(actor.ScopeUser, "door", func() actor.Actor {
		return &lockedDoor{reportTo: collectorRef}
	}, "")
	if err != nil {
		return err
	}

	doorRef.Tell(ctx, &payloadMsg{value: "first"})
	doorRef.Tell(ctx, &unlockMsg{})
	doorRef.Tell(ctx, &payloadMsg{value: "second"})
	doorRef.Tell(ctx, &payloadMsg{value: "third"})

	timeout := time.After(5 * time.Second)
	for i := 0; i < 3; i++ {
		select {
		case r := <-reports:
			fmt.Printf("behavior=%s value=%s\n", r.behavior, r.value)
		case <-timeout:
			return fmt.Errorf("become scenario did not complete within 5s")
		}
	}

	return nil
}
