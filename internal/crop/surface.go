// Package crop composes two motion axes into a pan/zoom crop surface and maps
// the resulting placement back onto the source image.
package crop

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cropper/internal/config"
	"github.com/vovakirdan/tui-cropper/internal/core"
	"github.com/vovakirdan/tui-cropper/internal/motion"
)

// Placement is the image element's state in surface units: its unscaled layout
// box and a zoom factor applied about the box centre. The surface owns it and
// lends per-axis views of it to the motion controllers.
type Placement struct {
	X, Y  float64 // Layout top-left
	W, H  float64 // Layout size
	Scale float64
}

// Visual returns the scaled extent of the placement.
func (p Placement) Visual() (left, top, right, bottom float64) {
	w, h := p.W*p.Scale, p.H*p.Scale
	left = p.X + (p.W-w)/2
	top = p.Y + (p.H-h)/2
	return left, top, left + w, top + h
}

// axisView exposes one coordinate of a Placement as a motion.Element.
type axisView struct {
	p        *Placement
	vertical bool
}

func (v axisView) Position() float64 {
	if v.vertical {
		return v.p.Y
	}
	return v.p.X
}

func (v axisView) SetPosition(pos float64) {
	if v.vertical {
		v.p.Y = pos
		return
	}
	v.p.X = pos
}

func (v axisView) Size() float64 {
	if v.vertical {
		return v.p.H
	}
	return v.p.W
}

func (v axisView) Scale() float64 {
	return v.p.Scale
}

// scaleView lets a motion.Spring animate the zoom factor.
type scaleView struct {
	p *Placement
}

func (v scaleView) Position() float64     { return v.p.Scale }
func (v scaleView) SetPosition(s float64) { v.p.Scale = s }
func (v scaleView) Size() float64         { return 1 }
func (v scaleView) Scale() float64        { return 1 }

// Frame is the crop window in surface units. Horizontal units are display cell
// widths, vertical units display cell heights.
type Frame struct {
	Width, Height float64
}

// Options configures a Surface.
type Options struct {
	Config   config.Config
	TickRate int         // Default 60
	Logger   *log.Logger // Default log.Default()
}

// Surface is a crop window over an image that the user pans and zooms.
type Surface struct {
	cfg      config.Config
	tickRate int
	frame    Frame
	imageW   int
	imageH   int
	initial  Placement
	place    Placement
	x, y     *motion.Axis
	zoom     *motion.Spring // Non-nil while the scale springs back into range
	logger   *log.Logger
}

// NewSurface lays an imageW x imageH image out to cover the frame, centred,
// and builds one motion axis per direction over it.
func NewSurface(imageW, imageH int, opts Options) (*Surface, error) {
	if imageW <= 0 || imageH <= 0 {
		return nil, fmt.Errorf("crop: empty image %dx%d", imageW, imageH)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	fc := opts.Config.Frame
	frame := Frame{Width: fc.Width, Height: fc.Height}

	// Cover fit in cells per image pixel, correcting for tall display cells
	fit := math.Max(frame.Width/float64(imageW), frame.Height*fc.CellAspect/float64(imageH))
	w := float64(imageW) * fit
	h := float64(imageH) * fit / fc.CellAspect

	initial := Placement{
		X:     (frame.Width - w) / 2,
		Y:     (frame.Height - h) / 2,
		W:     w,
		H:     h,
		Scale: 1,
	}

	s := &Surface{
		cfg:      opts.Config,
		tickRate: opts.TickRate,
		frame:    frame,
		imageW:   imageW,
		imageH:   imageH,
		initial:  initial,
		place:    initial,
		logger:   opts.Logger,
	}

	axis := func(name string, upper float64, vertical bool) *motion.Axis {
		return motion.NewAxis(axisView{p: &s.place, vertical: vertical}, motion.AxisConfig{
			Name:     name,
			Bounds:   motion.Bounds{Lower: 0, Upper: upper},
			MaxScale: opts.Config.Zoom.MaxScale,
			Motion:   opts.Config.Motion,
			TickRate: opts.TickRate,
			Logger:   opts.Logger,
		})
	}
	s.x = axis("x", frame.Width, false)
	s.y = axis("y", frame.Height, true)

	return s, nil
}

// Drag moves the image with the pointer.
func (s *Surface) Drag(dx, dy float64) {
	s.x.Move(dx)
	s.y.Move(dy)
}

// Release starts a fling on both axes with the pointer's release velocity
// (units per second).
func (s *Surface) Release(vx, vy float64) {
	s.x.Fling(vx)
	s.y.Fling(vy)
}

// Pinch multiplies the scale by factor. The scale may leave [1, max_scale]
// while the gesture lasts, within min_pinch_scale and max_scale*overzoom.
func (s *Surface) Pinch(factor float64) {
	if factor <= 0 || !isFinite(factor) {
		return
	}
	z := s.cfg.Zoom
	s.zoom = nil
	s.place.Scale = core.ClampF(s.place.Scale*factor, z.MinPinchScale, z.MaxScale*z.Overzoom)
	s.adjust()
}

// PinchEnd springs the scale back into [1, max_scale]. The axes are adjusted
// after every tick of the scale spring.
func (s *Surface) PinchEnd() {
	target := core.ClampF(s.place.Scale, 1, s.cfg.Zoom.MaxScale)
	if target == s.place.Scale {
		return
	}
	s.logger.Debug("scale spring", "from", s.place.Scale, "to", target)
	s.zoom = motion.NewSpring(target, 0, motion.SpringParams{
		Stiffness:      s.cfg.Zoom.Stiffness,
		DampingRatio:   s.cfg.Zoom.DampingRatio,
		SettleDistance: 1e-3,
		SettleVelocity: 1e-2,
	}, s.tickRate)
}

// Zoom is a complete pinch gesture: Pinch followed by PinchEnd.
func (s *Surface) Zoom(factor float64) {
	s.Pinch(factor)
	s.PinchEnd()
}

// Step advances every running animation by one tick and reports whether any
// is still running.
func (s *Surface) Step() bool {
	if s.zoom != nil {
		if res := s.zoom.Step(scaleView{p: &s.place}); res.Status == motion.StatusSettled {
			s.zoom = nil
		}
		s.adjust()
	}
	s.x.Step()
	s.y.Step()
	return s.Animating()
}

// adjust corrects both axes after a scale change. An axis being dragged this
// frame is left to the pointer.
func (s *Surface) adjust() {
	for _, a := range []*motion.Axis{s.x, s.y} {
		if a.Kind() != motion.KindDirect {
			a.Adjust()
		}
	}
}

// Animating reports whether a fling or spring is running on any axis or the scale.
func (s *Surface) Animating() bool {
	return s.zoom != nil || s.x.Animating() || s.y.Animating()
}

// Reset cancels all motion and restores the initial placement.
func (s *Surface) Reset() {
	s.x.CancelAll()
	s.y.CancelAll()
	s.zoom = nil
	s.place = s.initial
}

// Placement returns a copy of the current placement.
func (s *Surface) Placement() Placement {
	return s.place
}

// Frame returns the crop window.
func (s *Surface) Frame() Frame {
	return s.frame
}

// X returns the horizontal axis controller.
func (s *Surface) X() *motion.Axis {
	return s.x
}

// Y returns the vertical axis controller.
func (s *Surface) Y() *motion.Axis {
	return s.y
}

// Covered reports whether the image covers the whole frame.
func (s *Surface) Covered() bool {
	return s.x.InBounds() && s.y.InBounds()
}

// ImageAt maps a surface point to normalized image coordinates in [0, 1).
// ok is false when the point is outside the image.
func (s *Surface) ImageAt(u, v float64) (nx, ny float64, ok bool) {
	left, top, right, bottom := s.place.Visual()
	if u < left || u >= right || v < top || v >= bottom {
		return 0, 0, false
	}
	return (u - left) / (right - left), (v - top) / (bottom - top), true
}

// CropRect returns the part of the source image shown in the frame.
func (s *Surface) CropRect() image.Rectangle {
	return s.cropRectIn(s.imageW, s.imageH)
}

// cropRectIn maps the frame onto an image of w x h pixels.
func (s *Surface) cropRectIn(w, h int) image.Rectangle {
	left, top, right, bottom := s.place.Visual()
	sx := float64(w) / (right - left)
	sy := float64(h) / (bottom - top)

	r := image.Rect(
		int(math.Round((0-left)*sx)),
		int(math.Round((0-top)*sy)),
		int(math.Round((s.frame.Width-left)*sx)),
		int(math.Round((s.frame.Height-top)*sy)),
	)
	return r.Intersect(image.Rect(0, 0, w, h))
}

// ErrEmptyCrop is returned when the frame does not overlap the image.
var ErrEmptyCrop = errors.New("crop: frame does not overlap the image")

// Crop cuts the part of src shown in the frame. src may be any size with the
// same aspect ratio as the image the surface was built for.
func (s *Surface) Crop(src image.Image) (*image.NRGBA, image.Rectangle, error) {
	b := src.Bounds()
	r := s.cropRectIn(b.Dx(), b.Dy())
	if r.Empty() {
		return nil, r, ErrEmptyCrop
	}
	r = r.Add(b.Min)
	s.logger.Debug("crop", "rect", r, "scale", s.place.Scale)
	return cropImage(src, r), r, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
