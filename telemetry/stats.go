package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	ElapsedSec       float64 `csv:"elapsed"`

	// Frame counts during window
	Frames       int `csv:"frames"`
	PausedFrames int `csv:"paused_frames"`
	Resizes      int `csv:"resizes"`

	// Connections per frame
	LinksMean float64 `csv:"links_mean"`
	LinksStd  float64 `csv:"links_std"`
	LinksMax  int     `csv:"links_max"`

	// Particle distribution (sampled at window end)
	Particles   int     `csv:"particles"`
	OpacityMean float64 `csv:"opacity_mean"`
	OpacityStd  float64 `csv:"opacity_std"`
	SpeedP10    float64 `csv:"speed_p10"`
	SpeedP50    float64 `csv:"speed_p50"`
	SpeedP90    float64 `csv:"speed_p90"`

	// Field state at window end
	Width       float64 `csv:"width"`
	Height      float64 `csv:"height"`
	MaxDistance float64 `csv:"max_distance"`
}

// Spread holds the 10th, 50th and 90th percentiles of a sample.
type Spread struct {
	P10, P50, P90 float64
}

// SpreadOf returns the percentile spread of values without reordering them.
func SpreadOf(values []float64) Spread {
	if len(values) == 0 {
		return Spread{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Spread{
		P10: Quantile(sorted, 0.10),
		P50: Quantile(sorted, 0.50),
		P90: Quantile(sorted, 0.90),
	}
}

// Quantile interpolates linearly between the closest ranks of sorted.
// p is clamped to [0, 1]; an empty slice yields 0.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	i := int(pos)
	if i+1 >= n {
		return sorted[n-1]
	}
	frac := pos - float64(i)
	return sorted[i] + (sorted[i+1]-sorted[i])*frac
}

// MeanStd returns the mean and population standard deviation of values,
// or zeros when there are none.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.Int("frames", s.Frames),
		slog.Int("paused_frames", s.PausedFrames),
		slog.Int("resizes", s.Resizes),
		slog.Float64("links_mean", s.LinksMean),
		slog.Float64("links_std", s.LinksStd),
		slog.Int("links_max", s.LinksMax),
		slog.Int("particles", s.Particles),
		slog.Float64("opacity_mean", s.OpacityMean),
		slog.Float64("opacity_std", s.OpacityStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("width", s.Width),
		slog.Float64("height", s.Height),
		slog.Float64("max_distance", s.MaxDistance),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"elapsed", s.ElapsedSec,
		"frames", s.Frames,
		"paused_frames", s.PausedFrames,
		"resizes", s.Resizes,
		"links_mean", s.LinksMean,
		"links_max", s.LinksMax,
		"opacity_mean", s.OpacityMean,
		"speed_p50", s.SpeedP50,
		"width", s.Width,
		"height", s.Height,
	)
}
