package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/glimmer/loop"
)

var _ loop.PhaseTimer = (*PerfCollector)(nil)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.now
	return pc, clk
}

// frame runs one driver frame spending the given time in each phase.
func frame(pc *PerfCollector, clk *fakeClock, clear, particles, hook time.Duration) {
	pc.StartTick()
	pc.StartPhase(PhaseClear)
	clk.advance(clear)
	pc.StartPhase(PhaseParticles)
	clk.advance(particles)
	pc.StartPhase(PhaseHook)
	clk.advance(hook)
	pc.EndTick()
}

func TestPerfCollectorPhaseBreakdown(t *testing.T) {
	pc, clk := newTestCollector(10)
	for range 4 {
		frame(pc, clk, 100*time.Microsecond, 800*time.Microsecond, 100*time.Microsecond)
	}

	s := pc.Stats()
	if s.Samples != 4 {
		t.Errorf("Samples = %d, want 4", s.Samples)
	}
	if s.AvgWork != time.Millisecond {
		t.Errorf("AvgWork = %v, want 1ms", s.AvgWork)
	}
	if s.WorkRate != 1000 {
		t.Errorf("WorkRate = %v, want 1000", s.WorkRate)
	}

	tests := []struct {
		phase string
		avg   time.Duration
		pct   float64
	}{
		{PhaseClear, 100 * time.Microsecond, 10},
		{PhaseParticles, 800 * time.Microsecond, 80},
		{PhaseHook, 100 * time.Microsecond, 10},
	}
	for _, tt := range tests {
		pt := s.Phase(tt.phase)
		if pt.Avg != tt.avg || pt.Pct != tt.pct {
			t.Errorf("%s = %v %.1f%%, want %v %.1f%%", tt.phase, pt.Avg, pt.Pct, tt.avg, tt.pct)
		}
	}
}

func TestPerfCollectorWindowWraps(t *testing.T) {
	pc, clk := newTestCollector(3)
	// Two slow frames are pushed out by three fast ones
	frame(pc, clk, 0, 10*time.Millisecond, 0)
	frame(pc, clk, 0, 10*time.Millisecond, 0)
	for range 3 {
		frame(pc, clk, 0, time.Millisecond, 0)
	}

	s := pc.Stats()
	if s.Samples != 3 {
		t.Errorf("Samples = %d, want 3", s.Samples)
	}
	if s.MaxWork != time.Millisecond || s.MinWork != time.Millisecond {
		t.Errorf("min/max = %v/%v, want 1ms/1ms", s.MinWork, s.MaxWork)
	}
}

func TestPerfCollectorMinMax(t *testing.T) {
	pc, clk := newTestCollector(10)
	frame(pc, clk, 0, 2*time.Millisecond, 0)
	frame(pc, clk, 0, 6*time.Millisecond, 0)
	frame(pc, clk, 0, 4*time.Millisecond, 0)

	s := pc.Stats()
	if s.MinWork != 2*time.Millisecond || s.MaxWork != 6*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 2ms/6ms", s.MinWork, s.MaxWork)
	}
	if s.AvgWork != 4*time.Millisecond {
		t.Errorf("AvgWork = %v, want 4ms", s.AvgWork)
	}
}

func TestPerfCollectorUnknownPhase(t *testing.T) {
	pc, clk := newTestCollector(10)
	pc.StartTick()
	pc.StartPhase("overlay")
	clk.advance(time.Millisecond)
	pc.StartPhase(PhaseParticles)
	clk.advance(time.Millisecond)
	pc.EndTick()

	s := pc.Stats()
	if s.AvgWork != 2*time.Millisecond {
		t.Errorf("AvgWork = %v, want 2ms", s.AvgWork)
	}
	if got := s.Phase(PhaseParticles).Pct; got != 50 {
		t.Errorf("particles pct = %v, want 50", got)
	}
	if got := s.Phase("overlay"); got.Avg != 0 {
		t.Errorf("untracked phase = %+v, want zero", got)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	pc, _ := newTestCollector(10)
	s := pc.Stats()
	if s.Samples != 0 || s.AvgWork != 0 || s.FPS != 0 {
		t.Errorf("empty stats = %+v", s)
	}
	if len(s.Phases) != len(Phases()) {
		t.Errorf("Phases len = %d, want %d", len(s.Phases), len(Phases()))
	}
}

func TestPerfCollectorPresentInterval(t *testing.T) {
	pc, clk := newTestCollector(10)
	pc.RecordFrame()
	if pc.Stats().FPS != 0 {
		t.Error("FPS should be zero after a single presented frame")
	}
	clk.advance(20 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.Interval != 20*time.Millisecond {
		t.Errorf("Interval = %v, want 20ms", s.Interval)
	}
	if s.FPS != 50 {
		t.Errorf("FPS = %v, want 50", s.FPS)
	}
}

func TestPerfStatsRow(t *testing.T) {
	pc, clk := newTestCollector(10)
	frame(pc, clk, 300*time.Microsecond, 1200*time.Microsecond, 0)

	row := pc.Stats().Row(120)
	if row.WindowEnd != 120 || row.AvgWorkUS != 1500 {
		t.Errorf("row = %+v, want window_end 120 and avg 1500us", row)
	}
	if row.ClearPct != 20 || row.ParticlesPct != 80 || row.HookPct != 0 {
		t.Errorf("phase pct = %v/%v/%v, want 20/80/0", row.ClearPct, row.ParticlesPct, row.HookPct)
	}
}

func TestPhasesMatchDriver(t *testing.T) {
	want := []string{loop.PhaseClear, loop.PhaseParticles, loop.PhaseHook}
	got := Phases()
	if len(got) != len(want) {
		t.Fatalf("Phases() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Phases()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got[0] = "mutated"
	if Phases()[0] != PhaseClear {
		t.Error("Phases() returned the shared slice")
	}
}
