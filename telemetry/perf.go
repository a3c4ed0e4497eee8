package telemetry

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one frame. They match the loop package's phase marks.
const (
	PhaseClear     = "clear"
	PhaseParticles = "particles"
	PhaseHook      = "hook"
)

var phases = []string{PhaseClear, PhaseParticles, PhaseHook}

// Phases returns the frame phase names in execution order.
func Phases() []string {
	return slices.Clone(phases)
}

func phaseIndex(name string) int {
	return slices.Index(phases, name)
}

// frameSample is the work time of one driver frame split by phase.
type frameSample struct {
	work  time.Duration
	phase [3]time.Duration
}

// PerfCollector keeps a ring of recent frame timings.
// It implements loop.PhaseTimer.
type PerfCollector struct {
	now func() time.Time

	ring   []frameSample
	next   int
	filled int

	cur        frameSample
	frameStart time.Time
	markStart  time.Time
	mark       int // Index of the open phase, -1 when none

	lastPresent time.Time
	interval    time.Duration
}

// NewPerfCollector creates a collector averaging over the last window frames.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{
		now:  time.Now,
		ring: make([]frameSample, window),
		mark: -1,
	}
}

// StartTick opens a new frame.
func (p *PerfCollector) StartTick() {
	p.cur = frameSample{}
	p.frameStart = p.now()
	p.mark = -1
}

// StartPhase closes the open phase and opens name. Names outside Phases
// still count toward the frame's work time.
func (p *PerfCollector) StartPhase(name string) {
	t := p.now()
	p.closeMark(t)
	p.mark = phaseIndex(name)
	p.markStart = t
}

// EndTick closes the frame and stores it in the ring.
func (p *PerfCollector) EndTick() {
	t := p.now()
	p.closeMark(t)
	p.cur.work = t.Sub(p.frameStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

func (p *PerfCollector) closeMark(t time.Time) {
	if p.mark >= 0 {
		p.cur.phase[p.mark] += t.Sub(p.markStart)
	}
	p.mark = -1
}

// RecordFrame marks a presented display frame. The interval between
// two marks drives FPS.
func (p *PerfCollector) RecordFrame() {
	t := p.now()
	if !p.lastPresent.IsZero() {
		p.interval = t.Sub(p.lastPresent)
	}
	p.lastPresent = t
}

// PhaseTiming is the averaged cost of one phase.
type PhaseTiming struct {
	Name string
	Avg  time.Duration
	Pct  float64 // Share of the average frame work
}

// PerfStats summarizes the collector's window.
type PerfStats struct {
	Samples int

	AvgWork time.Duration
	MinWork time.Duration
	MaxWork time.Duration

	// WorkRate is how many frames per second the work alone would allow.
	WorkRate float64

	Phases []PhaseTiming

	Interval time.Duration
	FPS      float64
}

// Phase returns the timing for name, or a zero PhaseTiming.
func (s PerfStats) Phase(name string) PhaseTiming {
	for _, pt := range s.Phases {
		if pt.Name == name {
			return pt
		}
	}
	return PhaseTiming{Name: name}
}

// Stats averages the samples currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Samples:  p.filled,
		Interval: p.interval,
		Phases:   make([]PhaseTiming, len(phases)),
	}
	if p.interval > 0 {
		s.FPS = float64(time.Second) / float64(p.interval)
	}
	for i, name := range phases {
		s.Phases[i].Name = name
	}
	if p.filled == 0 {
		return s
	}

	work := make([]float64, p.filled)
	var sums [3]time.Duration
	for i, fs := range p.ring[:p.filled] {
		work[i] = float64(fs.work)
		if i == 0 || fs.work < s.MinWork {
			s.MinWork = fs.work
		}
		s.MaxWork = max(s.MaxWork, fs.work)
		for j, d := range fs.phase {
			sums[j] += d
		}
	}

	s.AvgWork = time.Duration(stat.Mean(work, nil))
	if s.AvgWork > 0 {
		s.WorkRate = float64(time.Second) / float64(s.AvgWork)
	}
	n := time.Duration(p.filled)
	for j := range s.Phases {
		s.Phases[j].Avg = sums[j] / n
		if s.AvgWork > 0 {
			s.Phases[j].Pct = float64(s.Phases[j].Avg) / float64(s.AvgWork) * 100
		}
	}
	return s
}

func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("avg_work_us", s.AvgWork.Microseconds()),
		slog.Int64("min_work_us", s.MinWork.Microseconds()),
		slog.Int64("max_work_us", s.MaxWork.Microseconds()),
		slog.Int("work_rate", int(s.WorkRate)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, pt := range s.Phases {
		if pt.Pct >= 0.1 {
			attrs = append(attrs, slog.Float64(pt.Name+"_pct", float64(int(pt.Pct*10))/10))
		}
	}
	return attrs
}

// LogStats logs the timings at info level.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// PerfRow is one line of perf.csv.
type PerfRow struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgWorkUS    int64   `csv:"avg_work_us"`
	MinWorkUS    int64   `csv:"min_work_us"`
	MaxWorkUS    int64   `csv:"max_work_us"`
	WorkRate     float64 `csv:"work_rate"`
	FPS          float64 `csv:"fps"`
	ClearPct     float64 `csv:"clear_pct"`
	ParticlesPct float64 `csv:"particles_pct"`
	HookPct      float64 `csv:"hook_pct"`
}

// Row flattens s for perf.csv.
func (s PerfStats) Row(windowEnd uint64) PerfRow {
	return PerfRow{
		WindowEnd:    windowEnd,
		AvgWorkUS:    s.AvgWork.Microseconds(),
		MinWorkUS:    s.MinWork.Microseconds(),
		MaxWorkUS:    s.MaxWork.Microseconds(),
		WorkRate:     s.WorkRate,
		FPS:          s.FPS,
		ClearPct:     s.Phase(PhaseClear).Pct,
		ParticlesPct: s.Phase(PhaseParticles).Pct,
		HookPct:      s.Phase(PhaseHook).Pct,
	}
}
