package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// bootstrap resampling. Each gate invocation owns a stream rather than
// drawing from shared or global PRNG state.
type RNGPort interface {
	// Stream creates a deterministic RNG for a named trace under a run,
	// derived from baseSeed so that two traces processed by the same
	// orchestrator run draw from independent, individually reproducible
	// streams.
	Stream(ctx context.Context, runID, traceName string, baseSeed int64) (*rand.Rand, error)
}
