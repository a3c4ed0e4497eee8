package game

import (
	"github.com/pthm-cable/glimmer/loop"
	"github.com/pthm-cable/glimmer/stream"
)

// Options holds run settings that come from flags rather than the config file.
type Options struct {
	Seed      int64  // RNG seed; 0 picks one from the clock
	LogStats  bool   // Log each stats window
	OutputDir string // CSV telemetry and snapshots; empty disables output
	Resume    string // Snapshot file to restore before the first frame
	MaxFrames uint64 // Stop after this many frames; 0 runs until Close

	// SnapshotDir receives manual and exit snapshots.
	// Defaults to OutputDir/snapshots when OutputDir is set.
	SnapshotDir string

	// Stream receives an encoded frame every stream.every frames when non-nil.
	Stream *stream.Hub

	// AfterFrame runs at the end of every frame hook.
	AfterFrame func(loop.FrameInfo)
}
