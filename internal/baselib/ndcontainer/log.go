package ndcontainer

import "github.com/btcsuite/btclog/v2"

// log is the package-level logger, disabled until a caller wires one in via
// UseLogger. Mirrors the actor package's logging convention.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used for storage-reallocation
// tracing (VectorND.Reserve).
func UseLogger(logger btclog.Logger) {
	log = logger
}
