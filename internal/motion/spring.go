package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/vovakirdan/tui-cropper/internal/config"
)

// SpringParams tunes a damped harmonic oscillator.
type SpringParams struct {
	Stiffness      float64 // Angular frequency is sqrt(Stiffness)
	DampingRatio   float64 // 1 is critical, below bounces, above creeps
	SettleDistance float64
	SettleVelocity float64
}

// SpringParamsFrom extracts the spring tuning from a motion config.
func SpringParamsFrom(cfg config.MotionConfig) SpringParams {
	return SpringParams{
		Stiffness:      cfg.Stiffness,
		DampingRatio:   cfg.DampingRatio,
		SettleDistance: cfg.SettleDistance,
		SettleVelocity: cfg.SettleVelocity,
	}
}

// Spring pulls the element toward a fixed target.
type Spring struct {
	spring        harmonica.Spring
	params        SpringParams
	target        float64
	velocity      float64
	startVelocity float64
	ticks         int
	cancelled     bool
}

// NewSpring creates a spring toward target, seeded with velocity so that
// motion taken over from another driver keeps its momentum.
func NewSpring(target, velocity float64, p SpringParams, tickRate int) *Spring {
	return &Spring{
		spring:        harmonica.NewSpring(harmonica.FPS(tickRate), math.Sqrt(p.Stiffness), p.DampingRatio),
		params:        p,
		target:        target,
		velocity:      velocity,
		startVelocity: velocity,
	}
}

// Step advances the spring one tick. Once both the distance to the target and
// the speed fall under the settle thresholds the element is snapped onto the
// target and the spring reports StatusSettled.
func (s *Spring) Step(el Element) StepResult {
	if s.cancelled {
		return StepResult{Status: StatusSettled}
	}

	pos, vel := s.spring.Update(el.Position(), s.velocity, s.target)
	s.velocity = vel
	s.ticks++

	if math.Abs(pos-s.target) < s.params.SettleDistance && math.Abs(vel) < s.params.SettleVelocity {
		el.SetPosition(s.target)
		s.velocity = 0
		return StepResult{Status: StatusSettled}
	}

	el.SetPosition(pos)
	return StepResult{Status: StatusContinue, Velocity: vel}
}

// Cancel stops the spring. Later Steps leave the element untouched.
func (s *Spring) Cancel() {
	s.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (s *Spring) Cancelled() bool {
	return s.cancelled
}

// Target returns the rest position.
func (s *Spring) Target() float64 {
	return s.target
}

// Velocity returns the current velocity.
func (s *Spring) Velocity() float64 {
	return s.velocity
}

// StartVelocity returns the velocity the spring was seeded with.
func (s *Spring) StartVelocity() float64 {
	return s.startVelocity
}

// Ticks returns how many ticks the spring has run.
func (s *Spring) Ticks() int {
	return s.ticks
}
