package actor

import (
	"context"

	"github.com/btcsuite/btclog/v2"
)

// log is the package-level logger, following the teacher's convention:
// disabled until a host binary calls UseLogger, never nil.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used for diagnostics not scoped to
// a single actor (system bring-up/shutdown, dead letters, executor
// lifecycle). Actor-scoped logging goes through scopedLogger instead, so
// each actor's lines carry its own "Actor[<name>]" prefix per spec.md §6.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// btclogLevel maps a SystemConfig.LogLevel onto the btclog verbosity it
// selects. Unrecognized values fall back to Info.
func btclogLevel(lvl LogLevel) btclog.Level {
	switch lvl {
	case LogSilent:
		return btclog.LevelOff
	case LogError:
		return btclog.LevelError
	case LogWarning:
		return btclog.LevelWarn
	case LogInfo:
		return btclog.LevelInfo
	case LogDebug:
		return btclog.LevelDebug
	case LogVerbose:
		return btclog.LevelTrace
	default:
		return btclog.LevelInfo
	}
}

// scopedLogger wraps the package logger so every line it emits is prefixed
// with the owning actor's name, matching spec.md §6's
// "[LEVEL] Actor[<name>] - " sink format. btclog.Logger already satisfies
// loggerLike (TraceS/DebugS/InfoS/WarnS/ErrorS).
func scopedLogger(path ActorPath) loggerLike {
	return &prefixedLogger{prefix: "Actor[" + path.Name() + "]"}
}

type prefixedLogger struct {
	prefix string
}

func (p *prefixedLogger) TraceS(ctx context.Context, msg string, keyvals ...interface{}) {
	log.TraceS(ctx, p.prefix+" - "+msg, keyvals...)
}

func (p *prefixedLogger) DebugS(ctx context.Context, msg string, keyvals ...interface{}) {
	log.DebugS(ctx, p.prefix+" - "+msg, keyvals...)
}

func (p *prefixedLogger) InfoS(ctx context.Context, msg string, keyvals ...interface{}) {
	log.InfoS(ctx, p.prefix+" - "+msg, keyvals...)
}

func (p *prefixedLogger) WarnS(ctx context.Context, msg string, err error, keyvals ...interface{}) {
	log.WarnS(ctx, p.prefix+" - "+msg, err, keyvals...)
}

func (p *prefixedLogger) ErrorS(ctx context.Context, msg string, err error, keyvals ...interface{}) {
	log.ErrorS(ctx, p.prefix+" - "+msg, err, keyvals...)
}
