// Package motion implements a bounded kinetic motion controller for one axis of
// a pan/zoom surface: direct drag tracking, inertial fling and elastic snap-back,
// with at most one of them driving the position at any time.
//
// Nothing here runs on its own: the host owns the element being moved and calls
// Step once per frame, on the same goroutine as every other call.
package motion

import (
	"math"

	"github.com/vovakirdan/tui-cropper/internal/core"
)

// Bounds is the fixed window, along one axis, that the element must always cover.
// Lower is the numerically smaller screen coordinate (top or left edge).
type Bounds struct {
	Lower float64
	Upper float64
}

// Size returns the extent of the window.
func (b Bounds) Size() float64 {
	return b.Upper - b.Lower
}

// Span is the projected extent of the element along one axis.
type Span struct {
	Top    float64
	Bottom float64
}

// Size returns the extent of the span.
func (s Span) Size() float64 {
	return s.Bottom - s.Top
}

// Geometry evaluates element placement against the bounds of one axis.
type Geometry struct {
	Bounds   Bounds
	MaxScale float64
}

// Project returns the region the element occupies for bounds testing.
//
// The element's layout box [position, position+size] is scaled about its centre.
// Past MaxScale the region is shrunk back to what MaxScale would show, and below
// 1.0 it is widened back to the layout box, so transient pinch states are judged
// by the scale they will settle at. Under-zoom expands the region rather than
// shrinking it to the scaled extent.
func (g Geometry) Project(position, size, scale float64) Span {
	h := size * scale
	top := position + (size-h)/2
	s := Span{Top: top, Bottom: top + h}

	switch {
	case scale > g.MaxScale:
		d := (h - h*(g.MaxScale/scale)) / 2
		s.Top += d
		s.Bottom -= d
	case scale < 1:
		d := (size - h) / 2
		s.Top -= d
		s.Bottom += d
	}
	return s
}

// OutOfBounds reports whether the span leaves part of the window uncovered.
// The lower bound is tested against the span's top edge and the upper bound
// against its bottom edge: coverage, not containment.
func (g Geometry) OutOfBounds(s Span) bool {
	return g.Bounds.Lower < s.Top || s.Bottom < g.Bounds.Upper
}

// Exceeded projects the element's current state and tests it.
func (g Geometry) Exceeded(el Element) bool {
	return g.OutOfBounds(g.Project(el.Position(), el.Size(), el.Scale()))
}

// Target returns the position that closes the gap opened by s.
//
// frameSize is the extent the scale overhang is measured against and
// elementSize the element's layout extent; the axis controller passes the
// layout extent for both. ok is false when s is in bounds.
func (g Geometry) Target(s Span, frameSize, elementSize, scale float64) (target float64, ok bool) {
	effective := core.ClampF(scale, 1, g.MaxScale)
	halfOverhang := (frameSize*effective - frameSize) / 2

	switch {
	case g.Bounds.Lower < s.Top:
		return g.Bounds.Lower + halfOverhang, true
	case s.Bottom < g.Bounds.Upper:
		return g.Bounds.Upper - elementSize - halfOverhang, true
	}
	return 0, false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
