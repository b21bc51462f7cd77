// Package patterns provides procedurally generated source images. Each pattern
// registers itself with the registry on import.
package patterns

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/vovakirdan/tui-cropper/internal/registry"
)

func init() {
	registry.Register("checker", func() registry.Pattern { return Checker{Cell: 32} })
	registry.Register("gradient", func() registry.Pattern { return Gradient{} })
	registry.Register("rings", func() registry.Pattern { return Rings{Period: 24} })
}

// Checker is a two-tone chequerboard with a marker in the top-left square, so
// panning direction is visible.
type Checker struct {
	Cell int // Square side in pixels
}

func (Checker) ID() string    { return "checker" }
func (Checker) Title() string { return "Checkerboard" }

func (c Checker) Image(w, h int) image.Image {
	cell := max(c.Cell, 1)
	dark := color.NRGBA{R: 40, G: 44, B: 52, A: 255}
	light := color.NRGBA{R: 220, G: 223, B: 228, A: 255}
	mark := color.NRGBA{R: 224, G: 108, B: 117, A: 255}

	img := imaging.New(w, h, light)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cx, cy := x/cell, y/cell
			switch {
			case cx == 0 && cy == 0:
				img.SetNRGBA(x, y, mark)
			case (cx+cy)%2 == 1:
				img.SetNRGBA(x, y, dark)
			}
		}
	}
	return img
}

// Gradient is a diagonal luminance ramp tinted from blue to orange.
type Gradient struct{}

func (Gradient) ID() string    { return "gradient" }
func (Gradient) Title() string { return "Diagonal gradient" }

func (Gradient) Image(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	span := float64(max(w+h-2, 1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x+y) / span
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(30 + 225*t),
				G: uint8(60 + 120*t),
				B: uint8(200 - 170*t),
				A: 255,
			})
		}
	}
	return img
}

// Rings are concentric bands around the image centre.
type Rings struct {
	Period float64 // Band width in pixels
}

func (Rings) ID() string    { return "rings" }
func (Rings) Title() string { return "Concentric rings" }

func (r Rings) Image(w, h int) image.Image {
	period := r.Period
	if period <= 0 {
		period = 24
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			v := 0.5 + 0.5*math.Cos(2*math.Pi*d/period)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(40 + 200*v),
				G: uint8(40 + 160*v),
				B: uint8(90 + 120*v),
				A: 255,
			})
		}
	}
	return img
}
