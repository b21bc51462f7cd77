package motion

import (
	"math"

	"github.com/vovakirdan/tui-cropper/internal/config"
)

// frictionMultiplier scales the configured friction into the exponent of the
// velocity decay, v(t) = v0 * e^(frictionMultiplier*friction*t).
const frictionMultiplier = -4.2

// Status is the outcome of advancing a driver by one tick.
type Status int

const (
	StatusContinue Status = iota // Driver wants more ticks
	StatusHandoff                // Fling left the bounds, spring must take over
	StatusSettled                // Driver finished or was cancelled
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusHandoff:
		return "handoff"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// StepResult is returned by a driver's Step.
type StepResult struct {
	Status   Status
	Velocity float64 // Instantaneous velocity after the tick
}

// Fling decelerates the element under constant friction.
type Fling struct {
	velocity     float64
	decay        float64 // Exponent per second, negative
	stopVelocity float64
	dt           float64
	ticks        int
	cancelled    bool
}

// NewFling creates a fling starting at the given velocity (units per second).
// tickRate fixes the time advanced by every Step.
func NewFling(velocity float64, cfg config.MotionConfig, tickRate int) *Fling {
	return &Fling{
		velocity:     velocity,
		decay:        frictionMultiplier * cfg.Friction,
		stopVelocity: cfg.StopVelocity,
		dt:           1 / float64(tickRate),
	}
}

// Step advances the fling one tick and tests the new placement.
//
// The position delta is the exact integral of the decaying velocity over the
// tick, so the travelled distance does not depend on the tick rate. Bounds are
// tested before the stop threshold: a slow fling that ends outside the window
// still hands off.
func (f *Fling) Step(el Element, geo Geometry) StepResult {
	if f.cancelled {
		return StepResult{Status: StatusSettled}
	}

	v := f.velocity * math.Exp(f.decay*f.dt)
	el.SetPosition(el.Position() + (v-f.velocity)/f.decay)
	f.velocity = v
	f.ticks++

	if geo.Exceeded(el) {
		return StepResult{Status: StatusHandoff, Velocity: v}
	}
	if math.Abs(v) < f.stopVelocity {
		return StepResult{Status: StatusSettled}
	}
	return StepResult{Status: StatusContinue, Velocity: v}
}

// Cancel stops the fling. Later Steps leave the element untouched.
func (f *Fling) Cancel() {
	f.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (f *Fling) Cancelled() bool {
	return f.cancelled
}

// Velocity returns the most recently computed velocity.
func (f *Fling) Velocity() float64 {
	return f.velocity
}

// Ticks returns how many ticks the fling has run.
func (f *Fling) Ticks() int {
	return f.ticks
}
