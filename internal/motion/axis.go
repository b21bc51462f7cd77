package motion

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cropper/internal/config"
)

// Element is the externally owned state moved along one axis.
// The axis reads Size and Scale and writes Position while it owns a motion.
type Element interface {
	Position() float64
	SetPosition(p float64)
	Size() float64  // Layout extent, unscaled
	Scale() float64 // Zoom factor, scaled about the layout centre
}

// Kind identifies which driver owns the axis.
type Kind int

const (
	KindIdle Kind = iota
	KindDirect
	KindFling
	KindSpring
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindDirect:
		return "direct"
	case KindFling:
		return "fling"
	case KindSpring:
		return "spring"
	default:
		return "unknown"
	}
}

// active is the axis' current motion. Exactly the driver matching kind is set.
type active struct {
	kind   Kind
	fling  *Fling
	spring *Spring
}

// AxisConfig holds the construction parameters of an Axis.
type AxisConfig struct {
	Name     string // Used in log lines, e.g. "x" or "y"
	Bounds   Bounds
	MaxScale float64
	Motion   config.MotionConfig
	TickRate int         // Ticks per second, default 60
	Logger   *log.Logger // Default log.Default()
}

// Axis arbitrates between drag, fling and spring motion along one axis.
//
// All methods must be called from the host's frame loop goroutine.
type Axis struct {
	name     string
	el       Element
	geo      Geometry
	motion   config.MotionConfig
	spring   SpringParams
	tickRate int
	current  active
	logger   *log.Logger
}

// NewAxis creates an idle controller for el.
func NewAxis(el Element, cfg AxisConfig) *Axis {
	assertf(cfg.Bounds.Lower <= cfg.Bounds.Upper, "lower bound %v above upper bound %v", cfg.Bounds.Lower, cfg.Bounds.Upper)
	assertf(cfg.MaxScale > 1, "max scale %v must exceed 1", cfg.MaxScale)
	assertf(cfg.Motion.Friction > 0 && cfg.Motion.DampingRatio > 0, "friction and damping must be positive")

	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	return &Axis{
		name:     cfg.Name,
		el:       el,
		geo:      Geometry{Bounds: cfg.Bounds, MaxScale: cfg.MaxScale},
		motion:   cfg.Motion,
		spring:   SpringParamsFrom(cfg.Motion),
		tickRate: cfg.TickRate,
		current:  active{kind: KindIdle},
		logger:   cfg.Logger,
	}
}

// Move shifts the element by delta immediately. Drag is never clamped.
func (a *Axis) Move(delta float64) {
	assertf(finite(delta), "non-finite delta %v", delta)

	a.transition(active{kind: KindDirect})
	a.el.SetPosition(a.el.Position() + delta)
}

// Adjust springs the element back into bounds if it has left them, typically
// after the host changed its scale. It is a no-op in bounds, and while a spring
// is already heading for the same target.
func (a *Axis) Adjust() {
	target, ok := a.Target()
	if !ok {
		return
	}
	if a.current.kind == KindSpring && math.Abs(a.current.spring.Target()-target) < a.spring.SettleDistance {
		return
	}
	a.startSpring(target, 0)
}

// Fling starts inertial motion at velocity units per second.
func (a *Axis) Fling(velocity float64) {
	assertf(finite(velocity), "non-finite velocity %v", velocity)

	a.transition(active{kind: KindFling, fling: NewFling(velocity, a.motion, a.tickRate)})
}

// CancelAll stops whatever motion is running.
func (a *Axis) CancelAll() {
	a.transition(active{kind: KindIdle})
}

// Step advances the active driver by one tick and returns the kind that owns
// the axis afterwards.
func (a *Axis) Step() Kind {
	switch a.current.kind {
	case KindDirect:
		// Drag updates are applied synchronously by Move; nothing is pending.
		a.transition(active{kind: KindIdle})

	case KindFling:
		res := a.current.fling.Step(a.el, a.geo)
		switch res.Status {
		case StatusHandoff:
			a.handoff(res.Velocity)
		case StatusSettled:
			a.transition(active{kind: KindIdle})
		}

	case KindSpring:
		if res := a.current.spring.Step(a.el); res.Status == StatusSettled {
			a.transition(active{kind: KindIdle})
		}
	}
	return a.current.kind
}

// handoff replaces the fling with a spring carrying its velocity.
func (a *Axis) handoff(velocity float64) {
	target, ok := a.Target()
	if !ok {
		a.transition(active{kind: KindIdle})
		return
	}
	a.logger.Debug("fling handoff", "axis", a.name, "velocity", velocity, "target", target)
	a.startSpring(target, velocity)
}

func (a *Axis) startSpring(target, velocity float64) {
	a.transition(active{
		kind:   KindSpring,
		spring: NewSpring(target, velocity, a.spring, a.tickRate),
	})
}

// transition cancels the current driver before installing next, so a driver
// that lost ownership can never write the position again.
func (a *Axis) transition(next active) {
	prev := a.current
	switch prev.kind {
	case KindFling:
		prev.fling.Cancel()
	case KindSpring:
		prev.spring.Cancel()
	}
	a.current = next

	if prev.kind != next.kind {
		a.logger.Debug("motion transition",
			"axis", a.name,
			"from", prev.kind,
			"to", next.kind,
			"position", a.el.Position(),
		)
	}
}

// Target returns the position the element would spring back to. ok is false
// while the element is in bounds.
func (a *Axis) Target() (float64, bool) {
	size, scale := a.el.Size(), a.el.Scale()
	span := a.geo.Project(a.el.Position(), size, scale)
	return a.geo.Target(span, size, size, scale)
}

// Kind returns the kind of the active motion.
func (a *Axis) Kind() Kind {
	return a.current.kind
}

// Animating reports whether a fling or spring still needs ticks.
func (a *Axis) Animating() bool {
	return a.current.kind == KindFling || a.current.kind == KindSpring
}

// Position returns the element's current position.
func (a *Axis) Position() float64 {
	return a.el.Position()
}

// Velocity returns the velocity of the active driver, zero when none moves.
func (a *Axis) Velocity() float64 {
	switch a.current.kind {
	case KindFling:
		return a.current.fling.Velocity()
	case KindSpring:
		return a.current.spring.Velocity()
	}
	return 0
}

// Projected returns the element's current projected span.
func (a *Axis) Projected() Span {
	return a.geo.Project(a.el.Position(), a.el.Size(), a.el.Scale())
}

// InBounds reports whether the element currently covers the window.
func (a *Axis) InBounds() bool {
	return !a.geo.OutOfBounds(a.Projected())
}

// Geometry returns the axis' geometry evaluator.
func (a *Axis) Geometry() Geometry {
	return a.geo
}
