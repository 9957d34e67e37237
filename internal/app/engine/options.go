package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// SnapshotInterval is how often the carryover checkpoint loop wakes up.
	SnapshotInterval time.Duration
	// SnapshotOffsetDelta is the minimum number of processed orders between
	// two checkpoints.
	SnapshotOffsetDelta int64
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: 1000,
	}
}
