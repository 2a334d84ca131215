package commands

import (
	"os"

	"github.com/arborsys/arbor/internal/baselib/actor"
	"github.com/arborsys/arbor/internal/baselib/ndcontainer"
	"github.com/arborsys/arbor/internal/build"
	"github.com/btcsuite/btclog"
	"github.com/spf13/cobra"
)

var (
	// logLevel controls the verbosity of the actor/ndcontainer loggers.
	logLevel string

	// outputFormat holds the --format flag. It is accepted but not read:
	// every subcommand prints plain text.
	outputFormat string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "arborctl",
	Short: "arborctl drives actor-runtime and N-D container demo scenarios",
	Long: `arborctl exercises the actor runtime (paths, mailboxes, supervision,
behavior stacks, executors, the timer scheduler) and the N-dimensional
container core (Proxy, VectorND, ArrayND, boundary-policy samplers) each
through a small, self-contained scenario, one per subcommand.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info",
		"Actor/container log level: trace, debug, info, warn, error, off",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format (accepted but unused; output is always text)",
	)

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(becomeCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(vectorCmd)
}

// parseLevel maps the --log-level flag onto a btclog.Level, defaulting to
// Info for anything unrecognized.
func parseLevel(s string) btclog.Level {
	switch s {
	case "trace":
		return btclog.LevelTrace
	case "debug":
		return btclog.LevelDebug
	case "warn":
		return btclog.LevelWarn
	case "error":
		return btclog.LevelError
	case "off":
		return btclog.LevelOff
	default:
		return btclog.LevelInfo
	}
}

// setupLogging wires a single console handler into both packages' loggers,
// matching the daemon's dual-stream HandlerSet pattern minus file rotation
// (a short-lived demo CLI has no long-running log file to rotate).
func setupLogging() error {
	level := parseLevel(logLevel)

	handler := build.NewHandlerSet(btclog.NewDefaultHandler(os.Stderr))
	handler.SetLevel(level)

	backend := btclog.NewSLogger(handler)
	actor.UseLogger(backend.WithPrefix("ACTR"))
	ndcontainer.UseLogger(backend.WithPrefix("NDCN"))

	return nil
}
