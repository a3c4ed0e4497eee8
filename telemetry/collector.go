// Package telemetry provides frame statistics, perf timing, CSV output and snapshots.
package telemetry

import (
	"math"

	"github.com/pthm-cable/glimmer/field"
)

// Collector accumulates per-frame counts within windows and produces WindowStats.
type Collector struct {
	windowFrames int
	frameSec     float64 // Seconds per frame at the target rate

	// Current window tracking
	windowStart uint64

	// Counters for current window
	frames      int
	pausedCount int
	resizes     int
	links       []float64
	linksMax    int
}

// NewCollector creates a collector flushing every windowFrames frames.
// fps converts frame counts to elapsed seconds.
func NewCollector(windowFrames, fps int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	if fps < 1 {
		fps = 60
	}
	return &Collector{
		windowFrames: windowFrames,
		frameSec:     1 / float64(fps),
		links:        make([]float64, 0, windowFrames),
	}
}

// RecordFrame records one finished frame and its link count.
func (c *Collector) RecordFrame(links int, paused bool) {
	c.frames++
	if paused {
		c.pausedCount++
	}
	c.links = append(c.links, float64(links))
	if links > c.linksMax {
		c.linksMax = links
	}
}

// RecordResize records a surface resize.
func (c *Collector) RecordResize() {
	c.resizes++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame uint64) bool {
	return currentFrame-c.windowStart >= uint64(c.windowFrames)
}

// Flush produces a WindowStats from the counters and the field's current
// state, then resets the counters for the next window.
func (c *Collector) Flush(currentFrame uint64, f *field.Field) WindowStats {
	linksMean, linksStd := MeanStd(c.links)

	ps := f.Particles()
	opacities := make([]float64, len(ps))
	speeds := make([]float64, len(ps))
	for i, p := range ps {
		opacities[i] = p.Opacity
		speeds[i] = math.Hypot(p.VX, p.VY)
	}
	opMean, opStd := MeanStd(opacities)
	speed := SpreadOf(speeds)

	b := f.Bounds()
	stats := WindowStats{
		WindowStartFrame: c.windowStart,
		WindowEndFrame:   currentFrame,
		ElapsedSec:       float64(currentFrame) * c.frameSec,

		Frames:       c.frames,
		PausedFrames: c.pausedCount,
		Resizes:      c.resizes,

		LinksMean: linksMean,
		LinksStd:  linksStd,
		LinksMax:  c.linksMax,

		Particles:   len(ps),
		OpacityMean: opMean,
		OpacityStd:  opStd,
		SpeedP10:    speed.P10,
		SpeedP50:    speed.P50,
		SpeedP90:    speed.P90,

		Width:       b.Width,
		Height:      b.Height,
		MaxDistance: f.MaxDistance(),
	}

	// Reset for next window
	c.windowStart = currentFrame
	c.frames = 0
	c.pausedCount = 0
	c.resizes = 0
	c.links = c.links[:0]
	c.linksMax = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int {
	return c.windowFrames
}
