// Package field implements the particle field: a small set of drifting,
// fading particles joined by distance-weighted lines.
package field

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/glimmer/surface"
)

// ErrParticleCount is returned by Restore when a state's particle count does not match.
var ErrParticleCount = errors.New("particle count mismatch")

// Link is a connection drawn between particles A and B.
type Link struct {
	A, B     int
	Distance float64
	Alpha    float64
}

// Field owns the particles and style state of one drawing surface.
// It is not safe for concurrent use; all calls belong to the frame thread.
type Field struct {
	cfg       Config
	bounds    Bounds
	particles []Particle
	rng       *rand.Rand

	fill   surface.Paint
	stroke surface.Paint

	maxDistance float64
	resizes     int
	resized     bool   // Stroke has switched to the resize stroke
	links       []Link // Scratch buffer reused across frames
}

// New creates a field of w x h with cfg.Count particles.
func New(w, h float64, cfg Config, rng *rand.Rand) *Field {
	f := &Field{
		cfg:         cfg,
		bounds:      Bounds{Width: w, Height: h},
		rng:         rng,
		maxDistance: cfg.MaxDistance,
		fill:        cfg.gradientFor(w, h),
		stroke:      surface.Solid(cfg.Stroke),
	}
	f.particles = make([]Particle, cfg.Count)
	for i := range f.particles {
		f.particles[i] = newParticle(f.bounds, cfg, rng)
	}
	return f
}

// ApplyStyle installs the field's fill and stroke on s.
func (f *Field) ApplyStyle(s surface.Surface) {
	s.SetFillStyle(f.fill)
	s.SetStrokeStyle(f.stroke)
}

// Links returns the pairs closer than the connection threshold.
// The returned slice is reused by the next call.
func (f *Field) Links() []Link {
	f.links = f.AppendLinks(f.links[:0])
	return f.links
}

// AppendLinks appends the current links to dst. O(n²) in particle count.
func (f *Field) AppendLinks(dst []Link) []Link {
	if f.maxDistance <= 0 {
		return dst
	}
	for a := 0; a < len(f.particles); a++ {
		pa := f.particles[a]
		for b := a + 1; b < len(f.particles); b++ {
			pb := f.particles[b]
			d := math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
			if d >= f.maxDistance {
				continue
			}
			dst = append(dst, Link{A: a, B: b, Distance: d, Alpha: 1 - d/f.maxDistance})
		}
	}
	return dst
}

// ConnectParticles draws every link with its alpha and returns how many were drawn.
func (f *Field) ConnectParticles(s surface.Surface) int {
	links := f.Links()
	for _, l := range links {
		pa, pb := f.particles[l.A], f.particles[l.B]
		s.SetGlobalAlpha(l.Alpha)
		s.Line(pa.X, pa.Y, pb.X, pb.Y)
	}
	return len(links)
}

// HandleParticles runs one frame: connections against current positions,
// then each particle is drawn and moved in order. It returns the link count.
func (f *Field) HandleParticles(s surface.Surface) int {
	n := f.ConnectParticles(s)
	s.SetGlobalAlpha(1)
	for i := range f.particles {
		p := &f.particles[i]
		p.Draw(s, f.particlePaint(p))
		p.Update(f.bounds, f.cfg.OpacityDecay)
	}
	return n
}

// Draw renders the current state without advancing it. It returns the link count.
func (f *Field) Draw(s surface.Surface) int {
	n := f.ConnectParticles(s)
	s.SetGlobalAlpha(1)
	for i := range f.particles {
		p := &f.particles[i]
		p.Draw(s, f.particlePaint(p))
	}
	return n
}

func (f *Field) particlePaint(p *Particle) surface.Paint {
	switch f.cfg.FillMode {
	case FillSolid:
		return surface.Solid(f.cfg.FillColor)
	case FillHue:
		return surface.Solid(surface.HSL(p.Hue, 1, 0.5))
	default:
		return nil
	}
}

// Resize stores the new surface size, sizes s to match when it is
// resizable, regenerates the styles and resets every particle.
func (f *Field) Resize(s surface.Surface, height, width float64) {
	f.bounds = Bounds{Width: width, Height: height}
	if r, ok := s.(surface.Resizable); ok {
		r.SetSize(width, height)
	}
	f.fill = f.cfg.gradientFor(width, height)
	f.stroke = surface.Solid(f.cfg.ResizeStroke)
	f.ApplyStyle(s)
	f.resizes++
	f.resized = true

	if f.cfg.ResizeMode == ResizeReclamp {
		for i := range f.particles {
			f.particles[i].clampInto(f.bounds)
		}
		return
	}
	f.ResetParticles()
}

// ResetParticles resets every particle into the current bounds.
func (f *Field) ResetParticles() {
	for i := range f.particles {
		f.particles[i].Reset(f.bounds, f.cfg.InitialOpacity, f.rng)
	}
}

// Bounds returns the current field size.
func (f *Field) Bounds() Bounds { return f.bounds }

// Width returns the current field width.
func (f *Field) Width() float64 { return f.bounds.Width }

// Height returns the current field height.
func (f *Field) Height() float64 { return f.bounds.Height }

// Len returns the particle count.
func (f *Field) Len() int { return len(f.particles) }

// Particles returns the particle slice. Callers must not retain it across frames.
func (f *Field) Particles() []Particle { return f.particles }

// Particle returns a copy of particle i.
func (f *Field) Particle(i int) Particle { return f.particles[i] }

// SetParticle replaces particle i.
func (f *Field) SetParticle(i int, p Particle) { f.particles[i] = p }

// Nearest returns the particle closest to (x, y) within its radius plus
// slop, or -1 when none is that close.
func (f *Field) Nearest(x, y, slop float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, p := range f.particles {
		d := math.Hypot(p.X-x, p.Y-y)
		if d <= p.Radius+slop && d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MaxDistance returns the connection threshold.
func (f *Field) MaxDistance() float64 { return f.maxDistance }

// SetMaxDistance sets the connection threshold. Negative values are treated as 0.
func (f *Field) SetMaxDistance(d float64) {
	f.maxDistance = math.Max(d, 0)
}

// Resizes returns how many times Resize has been called.
func (f *Field) Resizes() int { return f.resizes }

// Config returns the field's configuration.
func (f *Field) Config() Config { return f.cfg }

// State is the serializable part of a field.
type State struct {
	Bounds      Bounds     `json:"bounds"`
	MaxDistance float64    `json:"max_distance"`
	Resized     bool       `json:"resized"` // Stroke has switched to the resize stroke
	Particles   []Particle `json:"particles"`
}

// State captures the field for later Restore.
func (f *Field) State() State {
	ps := make([]Particle, len(f.particles))
	copy(ps, f.particles)
	return State{
		Bounds:      f.bounds,
		MaxDistance: f.maxDistance,
		Resized:     f.resized,
		Particles:   ps,
	}
}

// Restore replaces the field's state. The particle count must match.
func (f *Field) Restore(st State) error {
	if len(st.Particles) != len(f.particles) {
		return fmt.Errorf("restore %d particles into field of %d: %w",
			len(st.Particles), len(f.particles), ErrParticleCount)
	}
	f.bounds = st.Bounds
	f.SetMaxDistance(st.MaxDistance)
	copy(f.particles, st.Particles)
	f.fill = f.cfg.gradientFor(st.Bounds.Width, st.Bounds.Height)
	f.resized = st.Resized
	if st.Resized {
		f.stroke = surface.Solid(f.cfg.ResizeStroke)
	} else {
		f.stroke = surface.Solid(f.cfg.Stroke)
	}
	return nil
}
