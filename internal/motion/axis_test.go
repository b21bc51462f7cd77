package motion

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cropper/internal/config"
)

// testElement is a plain element along one axis.
type testElement struct {
	pos, size, scale float64
}

func (e *testElement) Position() float64     { return e.pos }
func (e *testElement) SetPosition(p float64) { e.pos = p }
func (e *testElement) Size() float64         { return e.size }
func (e *testElement) Scale() float64        { return e.scale }

// testMotion uses pixel-sized thresholds.
func testMotion() config.MotionConfig {
	return config.MotionConfig{
		Friction:       1.1,
		StopVelocity:   50,
		Stiffness:      200,
		DampingRatio:   1.0,
		SettleDistance: 0.5,
		SettleVelocity: 5,
	}
}

// newTestAxis builds an axis over a 500-unit window with an 800-unit element.
func newTestAxis(pos float64, m config.MotionConfig) (*Axis, *testElement) {
	el := &testElement{pos: pos, size: 800, scale: 1}
	a := NewAxis(el, AxisConfig{
		Name:     "y",
		Bounds:   Bounds{Lower: 0, Upper: 500},
		MaxScale: 3,
		Motion:   m,
		TickRate: 60,
		Logger:   log.New(io.Discard),
	})
	return a, el
}

// checkExclusive verifies that exactly the driver matching the kind is installed
// and that it is live.
func checkExclusive(t *testing.T, a *Axis) {
	t.Helper()
	c := a.current
	switch c.kind {
	case KindIdle, KindDirect:
		if c.fling != nil || c.spring != nil {
			t.Errorf("%s axis holds a driver: fling=%v spring=%v", c.kind, c.fling != nil, c.spring != nil)
		}
	case KindFling:
		if c.fling == nil || c.spring != nil {
			t.Errorf("fling axis: fling=%v spring=%v", c.fling != nil, c.spring != nil)
		} else if c.fling.Cancelled() {
			t.Error("active fling is cancelled")
		}
	case KindSpring:
		if c.spring == nil || c.fling != nil {
			t.Errorf("spring axis: fling=%v spring=%v", c.fling != nil, c.spring != nil)
		} else if c.spring.Cancelled() {
			t.Error("active spring is cancelled")
		}
	}
}

// runUntilIdle steps the axis until it rests, failing after maxTicks.
func runUntilIdle(t *testing.T, a *Axis, maxTicks int) int {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		if a.Step() == KindIdle {
			return i
		}
		checkExclusive(t, a)
	}
	t.Fatalf("axis still %s after %d ticks at position %v", a.Kind(), maxTicks, a.Position())
	return maxTicks
}

func TestNewAxisIsIdle(t *testing.T) {
	a, _ := newTestAxis(-100, testMotion())
	if a.Kind() != KindIdle {
		t.Errorf("Kind() = %s, expected idle", a.Kind())
	}
	if a.Step() != KindIdle {
		t.Error("Step() on an idle axis should stay idle")
	}
}

func TestMoveTracksDirectly(t *testing.T) {
	a, el := newTestAxis(-50, testMotion())

	a.Move(30)
	if el.pos != -20 {
		t.Errorf("position after Move(30) = %v, expected -20", el.pos)
	}
	if a.Kind() != KindDirect {
		t.Errorf("Kind() = %s, expected direct", a.Kind())
	}

	// Drag is never clamped, even far outside the window
	a.Move(1000)
	if el.pos != 980 {
		t.Errorf("position after Move(1000) = %v, expected 980", el.pos)
	}
	if a.InBounds() {
		t.Error("element should be out of bounds after dragging past the edge")
	}

	// The next tick ends the direct motion without touching the position
	if a.Step() != KindIdle {
		t.Errorf("Step() after Move = %s, expected idle", a.Kind())
	}
	if el.pos != 980 {
		t.Errorf("Step() moved a dragged element to %v", el.pos)
	}
}

func TestExclusivity(t *testing.T) {
	a, el := newTestAxis(-100, testMotion())

	a.Fling(400)
	checkExclusive(t, a)
	a.Step()
	fling := a.current.fling

	// A newer call cancels the fling; a late step on it must not write
	a.Move(-10)
	checkExclusive(t, a)
	if !fling.Cancelled() {
		t.Fatal("Move() did not cancel the running fling")
	}
	before := el.pos
	if res := fling.Step(el, a.Geometry()); res.Status != StatusSettled {
		t.Errorf("stale fling Step() = %s, expected settled", res.Status)
	}
	if el.pos != before {
		t.Errorf("stale fling moved the element from %v to %v", before, el.pos)
	}

	// Same for a spring replaced by a fling
	el.pos = 60
	a.Adjust()
	checkExclusive(t, a)
	spring := a.current.spring
	if spring == nil {
		t.Fatal("Adjust() out of bounds did not start a spring")
	}
	a.Fling(-200)
	checkExclusive(t, a)
	if !spring.Cancelled() {
		t.Fatal("Fling() did not cancel the running spring")
	}
	before = el.pos
	spring.Step(el)
	if el.pos != before {
		t.Errorf("stale spring moved the element from %v to %v", before, el.pos)
	}

	a.CancelAll()
	checkExclusive(t, a)
	if a.Kind() != KindIdle {
		t.Errorf("Kind() after CancelAll = %s, expected idle", a.Kind())
	}
}

func TestExclusivityOverSequences(t *testing.T) {
	sequences := [][]string{
		{"move", "fling", "step", "adjust", "step", "move"},
		{"fling", "fling", "step", "step", "adjust", "adjust"},
		{"adjust", "move", "adjust", "step", "fling", "cancel"},
		{"move", "move", "step", "fling", "move", "step"},
	}

	for _, seq := range sequences {
		a, _ := newTestAxis(-290, testMotion())
		for _, op := range seq {
			switch op {
			case "move":
				a.Move(25)
			case "fling":
				a.Fling(900)
			case "adjust":
				a.Adjust()
			case "cancel":
				a.CancelAll()
			case "step":
				a.Step()
			}
			checkExclusive(t, a)
		}
	}
}

func TestFlingSettlesInBounds(t *testing.T) {
	a, el := newTestAxis(-150, testMotion())

	a.Fling(200)
	last := math.Inf(1)
	for i := 0; i < 600 && a.Kind() != KindIdle; i++ {
		kind := a.Step()
		if kind == KindSpring {
			t.Fatal("fling that stays in bounds handed off to a spring")
		}
		if kind == KindFling {
			v := a.Velocity()
			if v >= last {
				t.Fatalf("velocity did not decay: %v then %v", last, v)
			}
			last = v
		}
	}

	if a.Kind() != KindIdle {
		t.Fatalf("fling did not settle, still %s", a.Kind())
	}
	if el.pos <= -150 {
		t.Errorf("fling did not move the element forward, position %v", el.pos)
	}
	// Total travel is bounded by v0/(4.2*friction)
	if maxTravel := 200 / (4.2 * 1.1); el.pos+150 > maxTravel {
		t.Errorf("fling travelled %v, more than the %v limit", el.pos+150, maxTravel)
	}
	if !a.InBounds() {
		t.Errorf("settled fling left the element out of bounds at %v", el.pos)
	}
}

func TestFlingHandoffKeepsVelocity(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		velocity float64
		target   float64
	}{
		{"through the top edge", -100, 800, 0},
		{"through the bottom edge", -200, -800, -300},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newTestAxis(tc.start, testMotion())
			a.Fling(tc.velocity)

			var fling *Fling
			for i := 0; i < 600 && a.Kind() == KindFling; i++ {
				fling = a.current.fling
				a.Step()
			}

			if a.Kind() != KindSpring {
				t.Fatalf("Kind() = %s, expected spring after leaving bounds", a.Kind())
			}
			if fling.Ticks() < 2 {
				t.Errorf("fling ran %d ticks, expected several before the edge", fling.Ticks())
			}
			if !fling.Cancelled() {
				t.Error("fling was not cancelled at handoff")
			}

			spring := a.current.spring
			if spring.StartVelocity() != fling.Velocity() {
				t.Errorf("spring start velocity = %v, expected fling velocity %v", spring.StartVelocity(), fling.Velocity())
			}
			if spring.StartVelocity() == 0 || math.Signbit(spring.StartVelocity()) != math.Signbit(tc.velocity) {
				t.Errorf("spring start velocity = %v, expected momentum in the fling direction", spring.StartVelocity())
			}
			if !approxEqual(spring.Target(), tc.target) {
				t.Errorf("spring target = %v, expected %v", spring.Target(), tc.target)
			}

			runUntilIdle(t, a, 600)
			if a.Position() != tc.target {
				t.Errorf("position after settling = %v, expected %v", a.Position(), tc.target)
			}
		})
	}
}

func TestSlowReleaseOutOfBoundsHandsOff(t *testing.T) {
	// Released past the edge with almost no speed: the fling must still
	// correct the placement instead of settling where it is
	a, el := newTestAxis(40, testMotion())
	a.Fling(1)
	if a.Step() != KindSpring {
		t.Fatalf("Kind() = %s, expected spring", a.Kind())
	}
	runUntilIdle(t, a, 600)
	if el.pos != 0 {
		t.Errorf("position = %v, expected 0", el.pos)
	}
}

func TestAdjust(t *testing.T) {
	t.Run("in bounds is a no-op", func(t *testing.T) {
		a, el := newTestAxis(-100, testMotion())
		a.Adjust()
		if a.Kind() != KindIdle || el.pos != -100 {
			t.Errorf("Adjust() in bounds changed state: kind %s, position %v", a.Kind(), el.pos)
		}
	})

	t.Run("does not interrupt an in-bounds fling", func(t *testing.T) {
		a, _ := newTestAxis(-150, testMotion())
		a.Fling(100)
		a.Step()
		fling := a.current.fling
		a.Adjust()
		if a.Kind() != KindFling || a.current.fling != fling {
			t.Error("Adjust() in bounds replaced the running fling")
		}
	})

	t.Run("springs back with zero velocity", func(t *testing.T) {
		a, el := newTestAxis(60, testMotion())
		a.Adjust()
		if a.Kind() != KindSpring {
			t.Fatalf("Kind() = %s, expected spring", a.Kind())
		}
		if v := a.current.spring.StartVelocity(); v != 0 {
			t.Errorf("start velocity = %v, expected 0", v)
		}
		runUntilIdle(t, a, 600)
		if el.pos != 0 {
			t.Errorf("position = %v, expected 0", el.pos)
		}
	})

	t.Run("after a scale change", func(t *testing.T) {
		a, el := newTestAxis(200, testMotion())
		el.scale = 2
		a.Adjust()
		if a.Kind() != KindIdle {
			t.Fatalf("zoomed element should cover the window, got %s", a.Kind())
		}

		// Zooming back out opens a gap at the top
		el.scale = 1
		a.Adjust()
		if a.Kind() != KindSpring {
			t.Fatalf("Kind() = %s, expected spring after zooming out", a.Kind())
		}
		runUntilIdle(t, a, 600)
		if !a.InBounds() {
			t.Errorf("element out of bounds at %v after adjust", el.pos)
		}
	})
}

func TestAdjustIsIdempotent(t *testing.T) {
	a, _ := newTestAxis(80, testMotion())

	a.Adjust()
	first := a.current.spring
	a.Adjust()
	if a.current.spring != first {
		t.Fatal("second Adjust() restarted the spring")
	}
	if first.Cancelled() {
		t.Fatal("second Adjust() cancelled the spring")
	}

	runUntilIdle(t, a, 600)
	a.Adjust()
	if a.Kind() != KindIdle {
		t.Errorf("Adjust() once in bounds started %s", a.Kind())
	}
}

func TestConvergence(t *testing.T) {
	tests := []struct {
		name    string
		damping float64
		start   float64
		fling   float64
	}{
		{"critical spring", 1.0, 120, 0},
		{"underdamped spring", 0.3, 120, 0},
		{"overdamped spring", 2.0, 120, 0},
		{"huge fling", 1.0, -150, 1e5},
		{"huge fling underdamped", 0.3, -150, -1e5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := testMotion()
			m.DampingRatio = tc.damping
			a, _ := newTestAxis(tc.start, m)

			if tc.fling != 0 {
				a.Fling(tc.fling)
			} else {
				a.Adjust()
			}
			runUntilIdle(t, a, 60*20)

			if !a.InBounds() {
				t.Errorf("rested out of bounds at %v", a.Position())
			}
		})
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindIdle:   "idle",
		KindDirect: "direct",
		KindFling:  "fling",
		KindSpring: "spring",
		Kind(99):   "unknown",
	}
	for k, expected := range kinds {
		if k.String() != expected {
			t.Errorf("Kind(%d).String() = %q, expected %q", int(k), k.String(), expected)
		}
	}
}

func TestAxisTarget(t *testing.T) {
	tests := []struct {
		name     string
		pos      float64
		expected float64
		ok       bool
	}{
		{"gap at top", 50, 0, true},
		{"gap at bottom", -400, -300, true},
		{"covering", -100, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newTestAxis(tc.pos, testMotion())
			target, ok := a.Target()
			if ok != tc.ok || (ok && target != tc.expected) {
				t.Errorf("Target() = (%v, %v), expected (%v, %v)", target, ok, tc.expected, tc.ok)
			}
		})
	}
}
