package field

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/glimmer/surface"
)

// Bounds is the surface size particles move within.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Particle is one moving, fading point.
type Particle struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
	Hue     float64 `json:"hue"` // Degrees, used by FillHue
}

func newParticle(b Bounds, cfg Config, rng *rand.Rand) Particle {
	p := Particle{
		Radius:  cfg.Radius,
		VX:      (rng.Float64()*2 - 1) * cfg.MaxSpeed,
		VY:      (rng.Float64()*2 - 1) * cfg.MaxSpeed,
		Opacity: cfg.InitialOpacity,
		Hue:     rng.Float64() * 360,
	}
	p.place(b, rng)
	return p
}

// place picks a uniform position in the valid interior of b.
func (p *Particle) place(b Bounds, rng *rand.Rand) {
	p.X = interior(p.Radius, b.Width, rng.Float64())
	p.Y = interior(p.Radius, b.Height, rng.Float64())
}

func interior(r, dim, u float64) float64 {
	span := dim - 2*r
	if span <= 0 {
		return dim / 2
	}
	return r + u*span
}

// Draw fills the particle's circle. A nil paint uses the surface's current fill.
func (p *Particle) Draw(s surface.Surface, paint surface.Paint) {
	if paint == nil {
		s.FillCircle(p.X, p.Y, p.Radius)
		return
	}
	prev := s.FillStyle()
	s.SetFillStyle(paint)
	s.FillCircle(p.X, p.Y, p.Radius)
	s.SetFillStyle(prev)
}

// Update advances the particle one frame within b and fades it by decay.
// Position moves against the velocity; crossing a bound reflects the particle.
func (p *Particle) Update(b Bounds, decay float64) {
	p.X -= p.VX
	p.Y -= p.VY
	p.X, p.VX = reflect(p.X, p.VX, p.Radius, b.Width)
	p.Y, p.VY = reflect(p.Y, p.VY, p.Radius, b.Height)

	p.Opacity -= decay
	if p.Opacity < 0 {
		p.Opacity = 0
	}
}

// reflect mirrors pos back into [r, dim-r] and points v inward.
// Since pos moves by -v, inward at the low bound means v < 0.
func reflect(pos, v, r, dim float64) (float64, float64) {
	lo, hi := r, dim-r
	if hi < lo {
		return dim / 2, v
	}
	switch {
	case pos < lo:
		pos = lo + (lo - pos)
		v = -math.Abs(v)
	case pos > hi:
		pos = hi - (pos - hi)
		v = math.Abs(v)
	default:
		return pos, v
	}
	// A mirror that overshoots the far bound lands on it
	return math.Min(math.Max(pos, lo), hi), v
}

// Reset moves the particle to a random interior point and restores opacity.
// Velocity is kept.
func (p *Particle) Reset(b Bounds, opacity float64, rng *rand.Rand) {
	p.place(b, rng)
	p.Opacity = opacity
}

// clampInto pulls the particle inside b without touching velocity or opacity.
func (p *Particle) clampInto(b Bounds) {
	p.X = clampAxis(p.X, p.Radius, b.Width)
	p.Y = clampAxis(p.Y, p.Radius, b.Height)
}

func clampAxis(pos, r, dim float64) float64 {
	lo, hi := r, dim-r
	if hi < lo {
		return dim / 2
	}
	return math.Min(math.Max(pos, lo), hi)
}
