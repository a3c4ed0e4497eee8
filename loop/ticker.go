package loop

import (
	"context"
	"time"
)

// Ticker drains a Queue at a fixed rate on the goroutine that calls Run.
// It is the frame source for headless runs.
type Ticker struct {
	Queue

	interval time.Duration
	posted   Queue // Work from other goroutines, run before each frame
	frames   uint64
}

// NewTicker creates a ticker firing fps times per second. fps <= 0 means 60.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{interval: time.Second / time.Duration(fps)}
}

// Interval returns the time between frames.
func (t *Ticker) Interval() time.Duration { return t.interval }

// Post queues fn to run on the ticker goroutine before the next frame.
func (t *Ticker) Post(fn func()) {
	t.posted.RequestFrame(fn)
}

// Ticks returns how many frames have fired.
func (t *Ticker) Ticks() uint64 { return t.frames }

// Step runs posted work and one frame of queued callbacks without waiting.
func (t *Ticker) Step() int {
	t.posted.RunPending()
	t.frames++
	return t.RunPending()
}

// Run fires frames until ctx is done and returns ctx.Err().
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
			t.Step()
		}
	}
}
