package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/glimmer/telemetry"
)

// ErrNoSnapshotDir is returned by Snapshot when no snapshot directory is configured.
var ErrNoSnapshotDir = errors.New("no snapshot directory configured")

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry(frame uint64) {
	if !g.collector.ShouldFlush(frame) {
		return
	}

	stats := g.collector.Flush(frame, g.field)
	perfStats := g.perf.Stats()
	g.lastStats = stats

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// Snapshot saves the field state to the snapshot directory and returns the file path.
func (g *Game) Snapshot(label string) (string, error) {
	if g.opts.SnapshotDir == "" {
		return "", ErrNoSnapshotDir
	}
	snap := telemetry.NewSnapshot(g.field, g.driver.Frames(), g.seed, label)
	path, err := telemetry.SaveSnapshot(snap, g.opts.SnapshotDir)
	if err != nil {
		return "", err
	}
	slog.Info("snapshot saved", "path", path, "frame", snap.Frame)
	return path, nil
}
