package gesture

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DragState represents the current state of a drag operation.
type DragState int

const (
	DragStateIdle DragState = iota
	DragStateDragging
)

// EventKind classifies what a mouse message meant to the crop surface.
type EventKind int

const (
	EventNone    EventKind = iota
	EventStart             // Left button pressed, drag begins
	EventMove              // Pointer moved while dragging, DX/DY set
	EventRelease           // Button released, VX/VY hold the release velocity
	EventZoomIn            // Wheel up
	EventZoomOut           // Wheel down
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventStart:
		return "start"
	case EventMove:
		return "move"
	case EventRelease:
		return "release"
	case EventZoomIn:
		return "zoom-in"
	case EventZoomOut:
		return "zoom-out"
	default:
		return "unknown"
	}
}

// Event is the result of handling one mouse message.
type Event struct {
	Kind   EventKind
	DX, DY float64 // Pointer delta in cells, EventMove and EventRelease
	VX, VY float64 // Release velocity in cells per second, EventRelease only
}

// DragHandler tracks one pointer drag and the velocity it was released with.
type DragHandler struct {
	state   DragState
	lastX   int
	lastY   int
	tracker *VelocityTracker
}

// NewDragHandler creates an idle drag handler. window is passed to the
// velocity tracker.
func NewDragHandler(window time.Duration) *DragHandler {
	return &DragHandler{
		state:   DragStateIdle,
		tracker: NewVelocityTracker(window),
	}
}

// HandleMouse processes a mouse message received at the given time.
func (d *DragHandler) HandleMouse(msg tea.MouseMsg, at time.Time) Event {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			d.Press(msg.X, msg.Y, at)
			return Event{Kind: EventStart}
		case tea.MouseButtonWheelUp:
			return Event{Kind: EventZoomIn}
		case tea.MouseButtonWheelDown:
			return Event{Kind: EventZoomOut}
		}
	case tea.MouseActionMotion:
		if dx, dy, ok := d.Motion(msg.X, msg.Y, at); ok {
			return Event{Kind: EventMove, DX: dx, DY: dy}
		}
	case tea.MouseActionRelease:
		// The release point may differ from the last motion
		dx, dy := float64(msg.X-d.lastX), float64(msg.Y-d.lastY)
		if vx, vy, ok := d.Release(msg.X, msg.Y, at); ok {
			return Event{Kind: EventRelease, DX: dx, DY: dy, VX: vx, VY: vy}
		}
	}
	return Event{Kind: EventNone}
}

// Press begins a drag at (x, y).
func (d *DragHandler) Press(x, y int, at time.Time) {
	d.state = DragStateDragging
	d.lastX, d.lastY = x, y
	d.tracker.Reset()
	d.tracker.Add(float64(x), float64(y), at)
}

// Motion reports the delta since the last pointer position. ok is false when
// no drag is in progress.
func (d *DragHandler) Motion(x, y int, at time.Time) (dx, dy float64, ok bool) {
	if d.state != DragStateDragging {
		return 0, 0, false
	}
	dx, dy = float64(x-d.lastX), float64(y-d.lastY)
	d.lastX, d.lastY = x, y
	d.tracker.Add(float64(x), float64(y), at)
	return dx, dy, true
}

// Release ends the drag and returns the pointer velocity at release.
// ok is false when no drag was in progress.
func (d *DragHandler) Release(x, y int, at time.Time) (vx, vy float64, ok bool) {
	if d.state != DragStateDragging {
		return 0, 0, false
	}
	d.tracker.Add(float64(x), float64(y), at)
	vx, vy = d.tracker.Velocity(at)
	d.stopDrag()
	return vx, vy, true
}

// IsDragging returns true if currently in a drag operation.
func (d *DragHandler) IsDragging() bool {
	return d.state == DragStateDragging
}

func (d *DragHandler) stopDrag() {
	d.state = DragStateIdle
	d.lastX, d.lastY = 0, 0
	d.tracker.Reset()
}
