// Package gesture turns raw pointer events into drag deltas and release
// velocities for the crop surface.
package gesture

import (
	"time"
)

// DefaultWindow is how far back the tracker looks when estimating velocity.
const DefaultWindow = 100 * time.Millisecond

// maxSamples bounds the sample history. Older samples are dropped first.
const maxSamples = 20

// Sample is one pointer position at a point in time.
type Sample struct {
	X, Y float64
	At   time.Time
}

// VelocityTracker estimates pointer velocity from recent samples.
//
// This is intended to be called only by the frame loop goroutine (single-owner).
type VelocityTracker struct {
	window  time.Duration
	samples []Sample
}

// NewVelocityTracker creates a tracker averaging over window.
// A non-positive window selects DefaultWindow.
func NewVelocityTracker(window time.Duration) *VelocityTracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &VelocityTracker{
		window:  window,
		samples: make([]Sample, 0, maxSamples),
	}
}

// Add records a pointer position. Samples older than the last one are ignored.
func (t *VelocityTracker) Add(x, y float64, at time.Time) {
	if n := len(t.samples); n > 0 && at.Before(t.samples[n-1].At) {
		return
	}
	if len(t.samples) == maxSamples {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:maxSamples-1]
	}
	t.samples = append(t.samples, Sample{X: x, Y: y, At: at})
}

// Velocity returns the average velocity in units per second over the window
// ending at now. A pointer that has rested for longer than the window has no
// velocity.
func (t *VelocityTracker) Velocity(now time.Time) (vx, vy float64) {
	n := len(t.samples)
	if n < 2 {
		return 0, 0
	}
	last := t.samples[n-1]
	if now.Sub(last.At) > t.window {
		return 0, 0
	}

	first := last
	for i := n - 2; i >= 0; i-- {
		if last.At.Sub(t.samples[i].At) > t.window {
			break
		}
		first = t.samples[i]
	}

	dt := last.At.Sub(first.At).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return (last.X - first.X) / dt, (last.Y - first.Y) / dt
}

// Len returns the number of recorded samples.
func (t *VelocityTracker) Len() int {
	return len(t.samples)
}

// Reset drops all samples.
func (t *VelocityTracker) Reset() {
	t.samples = t.samples[:0]
}
