// Package game wires the particle field to a surface, a frame scheduler,
// resize notifications, telemetry and the live stream.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pthm-cable/glimmer/config"
	"github.com/pthm-cable/glimmer/field"
	"github.com/pthm-cable/glimmer/loop"
	"github.com/pthm-cable/glimmer/stream"
	"github.com/pthm-cable/glimmer/surface"
	"github.com/pthm-cable/glimmer/telemetry"
)

// Game holds one running particle field and everything attached to it.
// All methods belong to the frame goroutine.
type Game struct {
	cfg  *config.Config
	opts Options
	seed int64

	// Simulation
	surface surface.Surface
	field   *field.Field
	driver  *loop.Driver

	// Resize handling
	unsubscribe func()
	debounce    *loop.Debouncer

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	lastStats telemetry.WindowStats

	// Stream
	hub         *stream.Hub
	streamEvery uint64

	done   chan struct{}
	closed bool
}

// New creates a game drawing onto s and scheduled by sched.
// Resizes from resizes (may be nil) are applied to the field on the frame thread.
// The game is stopped; call Start.
func New(cfg *config.Config, s surface.Surface, sched loop.Scheduler, resizes loop.ResizeSource, opts Options) (*Game, error) {
	fc, err := field.FromConfig(cfg.Field, cfg.Style)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.SnapshotDir == "" && opts.OutputDir != "" {
		opts.SnapshotDir = filepath.Join(opts.OutputDir, "snapshots")
	}

	g := &Game{
		cfg:       cfg,
		opts:      opts,
		seed:      seed,
		surface:   s,
		field:     field.New(s.Width(), s.Height(), fc, rand.New(rand.NewSource(seed))),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Screen.TargetFPS),
		hub:       opts.Stream,
		done:      make(chan struct{}),
	}
	g.streamEvery = uint64(max(cfg.Stream.Every, 1))

	if opts.Resume != "" {
		if err := g.resume(opts.Resume); err != nil {
			return nil, err
		}
	}
	g.field.ApplyStyle(s)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.driver = loop.NewDriver(s, g.field, sched,
		loop.WithPhaseTimer(g.perf),
		loop.WithFrameHook(g.onFrame),
	)

	if resizes != nil {
		if cfg.Screen.DebounceResize {
			g.debounce = loop.NewDebouncer(g.applyResize)
			g.unsubscribe = resizes.Subscribe(g.debounce.Push)
		} else {
			g.unsubscribe = resizes.Subscribe(g.applyResize)
		}
	}

	slog.Info("game created",
		"seed", seed,
		"width", g.field.Width(),
		"height", g.field.Height(),
		"particles", g.field.Len(),
		"max_distance", g.field.MaxDistance(),
		"output_dir", g.output.Dir(),
	)
	return g, nil
}

func (g *Game) resume(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := g.field.Restore(snap.Field); err != nil {
		return fmt.Errorf("resume %s: %w", path, err)
	}
	if r, ok := g.surface.(surface.Resizable); ok {
		b := g.field.Bounds()
		r.SetSize(b.Width, b.Height)
	}
	slog.Info("resumed from snapshot", "path", path, "frame", snap.Frame, "seed", snap.RNGSeed)
	return nil
}

// Start begins scheduling frames.
func (g *Game) Start() {
	if g.closed {
		return
	}
	g.driver.Start()
}

// Close detaches the resize subscription, stops scheduling, writes the
// exit snapshot and closes output files. It is safe to call twice.
func (g *Game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
	g.driver.Stop()
	g.finish()

	if g.opts.SnapshotDir != "" {
		if _, err := g.Snapshot("exit"); err != nil {
			slog.Error("failed to save exit snapshot", "error", err)
		}
	}
	return g.output.Close()
}

// Done is closed when the game stops on its own after MaxFrames, or on Close.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

func (g *Game) finish() {
	select {
	case <-g.done:
	default:
		close(g.done)
	}
}

// applyResize is the resize subscriber. Width and height arrive in
// window order and the field takes them height first. Both are rounded to
// whole pixels, the only sizes a raster or window can hold.
func (g *Game) applyResize(w, h float64) {
	w, h = math.Round(w), math.Round(h)
	g.field.Resize(g.surface, h, w)
	g.collector.RecordResize()
	slog.Info("resize", "width", w, "height", h, "resizes", g.field.Resizes())
}

// onFrame runs after every drawn frame.
func (g *Game) onFrame(fi loop.FrameInfo) {
	g.collector.RecordFrame(fi.Links, fi.Paused)
	g.flushTelemetry(fi.Frame)

	if g.hub != nil && fi.Frame%g.streamEvery == 0 {
		g.publish(fi.Frame)
	}

	// Bursts coalesce to one resize, applied before the next frame draws
	if g.debounce != nil {
		g.debounce.Flush()
	}

	if g.opts.AfterFrame != nil {
		g.opts.AfterFrame(fi)
	}

	if g.opts.MaxFrames > 0 && fi.Frame >= g.opts.MaxFrames {
		slog.Info("max frames reached", "frames", fi.Frame)
		g.driver.Stop()
		g.finish()
	}
}

func (g *Game) publish(frame uint64) {
	data, err := stream.NewFrame(frame, g.field).Encode()
	if err != nil {
		slog.Error("failed to encode frame", "error", err)
		return
	}
	g.hub.Publish(data)
}

// Field returns the simulated field.
func (g *Game) Field() *field.Field { return g.field }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Frames returns the number of frames drawn.
func (g *Game) Frames() uint64 { return g.driver.Frames() }

// Running reports whether frames are being scheduled.
func (g *Game) Running() bool { return g.driver.Running() }

// Paused reports whether the simulation is frozen.
func (g *Game) Paused() bool { return g.driver.Paused() }

// SetPaused freezes or resumes the simulation. Frames keep drawing while paused.
func (g *Game) SetPaused(p bool) {
	if p == g.driver.Paused() {
		return
	}
	g.driver.SetPaused(p)
	slog.Info("pause", "paused", p, "frame", g.driver.Frames())
}

// TogglePause flips the paused state.
func (g *Game) TogglePause() { g.SetPaused(!g.Paused()) }

// ResetParticles respawns every particle within the current bounds.
func (g *Game) ResetParticles() {
	g.field.ResetParticles()
	slog.Info("particles reset", "frame", g.driver.Frames())
}

// MaxDistance returns the connection threshold.
func (g *Game) MaxDistance() float64 { return g.field.MaxDistance() }

// SetMaxDistance changes the connection threshold.
func (g *Game) SetMaxDistance(d float64) { g.field.SetMaxDistance(d) }

// Links returns the pairs currently within the threshold.
func (g *Game) Links() []field.Link { return g.field.Links() }

// Streaming reports whether frames are published to a stream hub.
func (g *Game) Streaming() bool { return g.hub != nil }

// StreamClients returns the number of connected stream clients.
func (g *Game) StreamClients() int {
	if g.hub == nil {
		return 0
	}
	return g.hub.Len()
}

// Perf returns the current perf stats.
func (g *Game) Perf() telemetry.PerfStats { return g.perf.Stats() }

// PerfCollector returns the collector the window reports frame timing to.
func (g *Game) PerfCollector() *telemetry.PerfCollector { return g.perf }

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats { return g.lastStats }
