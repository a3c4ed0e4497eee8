package loop

import (
	"github.com/pthm-cable/glimmer/field"
	"github.com/pthm-cable/glimmer/surface"
)

// Phase names reported to a PhaseTimer.
const (
	PhaseClear     = "clear"
	PhaseParticles = "particles"
	PhaseHook      = "hook"
)

// PhaseTimer receives per-phase timing marks. telemetry.PerfCollector implements it.
type PhaseTimer interface {
	StartTick()
	StartPhase(name string)
	EndTick()
}

// FrameInfo describes a finished frame.
type FrameInfo struct {
	Frame  uint64
	Links  int
	Paused bool
}

// Driver runs the field once per scheduled frame until stopped.
// All methods belong to the frame goroutine.
type Driver struct {
	s     surface.Surface
	field *field.Field
	sched Scheduler

	timer  PhaseTimer
	onTick func(FrameInfo)

	cancel  func()
	running bool
	paused  bool
	frames  uint64
	gen     uint64 // Bumped on Stop so already-dequeued ticks do nothing
}

// Option configures a Driver.
type Option func(*Driver)

// WithPhaseTimer reports phase timings to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(d *Driver) { d.timer = t }
}

// WithFrameHook calls fn after every frame, before the next one is scheduled.
func WithFrameHook(fn func(FrameInfo)) Option {
	return func(d *Driver) { d.onTick = fn }
}

// NewDriver creates a stopped driver.
func NewDriver(s surface.Surface, f *field.Field, sched Scheduler, opts ...Option) *Driver {
	d := &Driver{s: s, field: f, sched: sched}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start schedules the first frame. It is a no-op while running.
func (d *Driver) Start() {
	if d.running {
		return
	}
	d.running = true
	d.schedule()
}

// Stop cancels the pending frame. No further frames run until Start.
func (d *Driver) Stop() {
	if !d.running {
		return
	}
	d.running = false
	d.gen++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Running reports whether frames are being scheduled.
func (d *Driver) Running() bool { return d.running }

// Frames returns the number of frames run.
func (d *Driver) Frames() uint64 { return d.frames }

// SetPaused freezes the simulation. Paused frames still draw.
func (d *Driver) SetPaused(p bool) { d.paused = p }

// Paused reports whether the simulation is frozen.
func (d *Driver) Paused() bool { return d.paused }

func (d *Driver) schedule() {
	gen := d.gen
	d.cancel = d.sched.RequestFrame(func() { d.tick(gen) })
}

func (d *Driver) tick(gen uint64) {
	if !d.running || gen != d.gen {
		return
	}
	d.cancel = nil
	if d.timer != nil {
		d.timer.StartTick()
		d.timer.StartPhase(PhaseClear)
	}

	d.s.ClearRect(0, 0, d.s.Width(), d.s.Height())

	if d.timer != nil {
		d.timer.StartPhase(PhaseParticles)
	}
	var links int
	if d.paused {
		links = d.field.Draw(d.s)
	} else {
		links = d.field.HandleParticles(d.s)
	}
	d.frames++

	if d.onTick != nil {
		if d.timer != nil {
			d.timer.StartPhase(PhaseHook)
		}
		d.onTick(FrameInfo{Frame: d.frames, Links: links, Paused: d.paused})
	}
	if d.timer != nil {
		d.timer.EndTick()
	}

	// The hook may have stopped the driver
	if d.running && gen == d.gen {
		d.schedule()
	}
}
