package icp

import "time"

// Options configures a partitioning context.
type Options struct {
	// MaxNodes bounds the number of tree nodes (0 = unlimited).
	MaxNodes int

	// MaxDepth bounds the paving depth.
	MaxDepth int

	// Epsilon is the inverse of the minimum relative improvement required to
	// accept a tightened bound. 0 requires strict improvement only.
	Epsilon int64

	// MaxBoundPow is the power of ten used for one-sided bound pruning: lower
	// bounds above 10^MaxBoundPow (and upper bounds below its negation) are
	// discarded when the opposite side is unbounded.
	MaxBoundPow int

	// NthRootPrec is the inverse of the precision used when extracting roots
	// during downward monomial propagation.
	NthRootPrec int64

	// MaxMemoryMB caps the engine's estimated allocation footprint
	// (0 = unlimited).
	MaxMemoryMB int64

	// OutputDir receives auxiliary artifacts such as serialized tasks. Empty
	// disables artifact output.
	OutputDir string

	// MaxRunningTasks is the coordinator's concurrency hint; the number of
	// alive tasks is throttled at 1.2*MaxRunningTasks + 2.
	MaxRunningTasks int

	// RandSeed seeds the PRNG used to sample split literals.
	RandSeed int64

	// SplitDelta is the offset used to pick a split point on half-bounded
	// intervals.
	SplitDelta int64

	// RootPropBudget and NodePropBudget are the wall-clock ceilings for one
	// propagation run on the root and on any other node.
	RootPropBudget time.Duration
	NodePropBudget time.Duration
}

// DefaultOptions are the options used by NewContext if none are provided.
var DefaultOptions = Options{
	MaxNodes:        32,
	MaxDepth:        128,
	Epsilon:         20,
	MaxBoundPow:     10,
	NthRootPrec:     8192,
	MaxMemoryMB:     0,
	MaxRunningTasks: 32,
	RandSeed:        0,
	SplitDelta:      128,
	RootPropBudget:  20 * time.Second,
	NodePropBudget:  10 * time.Second,
}
