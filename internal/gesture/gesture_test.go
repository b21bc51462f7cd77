package gesture

import (
	"math"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func ms(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Millisecond)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestVelocityTracker(t *testing.T) {
	tests := []struct {
		name   string
		points [][3]int // x, y, ms
		now    int
		vx, vy float64
	}{
		{"no samples", nil, 0, 0, 0},
		{"single sample", [][3]int{{5, 5, 0}}, 0, 0, 0},
		{"steady motion", [][3]int{{0, 0, 0}, {2, 1, 20}, {4, 2, 40}, {6, 3, 60}}, 60, 100, 50},
		{"only the trailing window counts", [][3]int{{0, 0, 0}, {50, 0, 100}, {60, 0, 200}, {70, 0, 300}}, 300, 100, 0},
		{"rested after moving", [][3]int{{0, 0, 0}, {10, 0, 50}}, 400, 0, 0},
		{"same timestamp", [][3]int{{0, 0, 10}, {10, 0, 10}}, 10, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewVelocityTracker(DefaultWindow)
			for _, p := range tc.points {
				tr.Add(float64(p[0]), float64(p[1]), ms(p[2]))
			}
			vx, vy := tr.Velocity(ms(tc.now))
			if !near(vx, tc.vx) || !near(vy, tc.vy) {
				t.Errorf("Velocity() = (%v, %v), expected (%v, %v)", vx, vy, tc.vx, tc.vy)
			}
		})
	}
}

func TestVelocityTrackerBoundsHistory(t *testing.T) {
	tr := NewVelocityTracker(time.Second)
	for i := 0; i < maxSamples*3; i++ {
		tr.Add(float64(i), 0, ms(i*10))
	}
	if tr.Len() != maxSamples {
		t.Errorf("Len() = %d, expected %d", tr.Len(), maxSamples)
	}

	// Out-of-order samples are dropped
	tr.Add(1000, 0, ms(0))
	if vx, _ := tr.Velocity(ms(maxSamples * 3 * 10)); !near(vx, 100) {
		t.Errorf("Velocity() after stale sample = %v, expected 100", vx)
	}

	tr.Reset()
	if tr.Len() != 0 {
		t.Error("Reset() should drop all samples")
	}
}

func TestDragHandler(t *testing.T) {
	d := NewDragHandler(0)

	if _, _, ok := d.Motion(3, 3, ms(0)); ok {
		t.Error("Motion() without a press should be ignored")
	}

	d.Press(10, 5, ms(0))
	if !d.IsDragging() {
		t.Fatal("Press() should start a drag")
	}

	dx, dy, ok := d.Motion(12, 4, ms(20))
	if !ok || dx != 2 || dy != -1 {
		t.Errorf("Motion() = (%v, %v, %v), expected (2, -1, true)", dx, dy, ok)
	}
	d.Motion(14, 3, ms(40))

	vx, vy, ok := d.Release(16, 2, ms(60))
	if !ok || !near(vx, 100) || !near(vy, -50) {
		t.Errorf("Release() = (%v, %v, %v), expected (100, -50, true)", vx, vy, ok)
	}
	if d.IsDragging() {
		t.Error("Release() should end the drag")
	}
	if _, _, ok := d.Release(16, 2, ms(80)); ok {
		t.Error("second Release() should be ignored")
	}
}

func TestHandleMouse(t *testing.T) {
	d := NewDragHandler(DefaultWindow)

	steps := []struct {
		msg      tea.MouseMsg
		at       int
		expected EventKind
	}{
		{tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion}, 0, EventNone},
		{tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 0, EventStart},
		{tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, 30, EventMove},
		{tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionRelease}, 30, EventRelease},
		{tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}, 40, EventZoomIn},
		{tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}, 50, EventZoomOut},
		{tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, 60, EventNone},
	}

	for i, s := range steps {
		ev := d.HandleMouse(s.msg, ms(s.at))
		if ev.Kind != s.expected {
			t.Fatalf("step %d: HandleMouse() = %v, expected %v", i, ev.Kind, s.expected)
		}
		switch ev.Kind {
		case EventMove:
			if ev.DX != 3 || ev.DY != 0 {
				t.Errorf("move delta = (%v, %v), expected (3, 0)", ev.DX, ev.DY)
			}
		case EventRelease:
			if !near(ev.VX, 100) || ev.VY != 0 {
				t.Errorf("release velocity = (%v, %v), expected (100, 0)", ev.VX, ev.VY)
			}
			if ev.DX != 0 || ev.DY != 0 {
				t.Errorf("release delta = (%v, %v), expected none", ev.DX, ev.DY)
			}
		}
	}
}

func TestHandleMouseReleaseDelta(t *testing.T) {
	d := NewDragHandler(DefaultWindow)

	d.HandleMouse(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, ms(0))
	d.HandleMouse(tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, ms(30))

	ev := d.HandleMouse(tea.MouseMsg{X: 5, Y: 1, Action: tea.MouseActionRelease}, ms(40))
	if ev.Kind != EventRelease {
		t.Fatalf("HandleMouse() = %v, expected release", ev.Kind)
	}
	if ev.DX != 2 || ev.DY != 1 {
		t.Errorf("release delta = (%v, %v), expected (2, 1)", ev.DX, ev.DY)
	}

	// Releasing again outside a drag reports nothing
	if ev := d.HandleMouse(tea.MouseMsg{X: 9, Y: 9, Action: tea.MouseActionRelease}, ms(50)); ev.Kind != EventNone {
		t.Errorf("stray release = %v, expected none", ev.Kind)
	}
}
