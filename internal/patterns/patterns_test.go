package patterns

import (
	"testing"

	"github.com/vovakirdan/tui-cropper/internal/registry"
)

func TestPatternsRegistered(t *testing.T) {
	for _, id := range []string{"checker", "gradient", "rings"} {
		t.Run(id, func(t *testing.T) {
			p, err := registry.Create(id)
			if err != nil {
				t.Fatalf("Create(%q) failed: %v", id, err)
			}
			if p.ID() != id {
				t.Errorf("ID() = %q, expected %q", p.ID(), id)
			}

			img := p.Image(64, 40)
			if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 40 {
				t.Errorf("Image(64, 40) bounds = %v", b)
			}
		})
	}
}

func TestCheckerMarksOrigin(t *testing.T) {
	img := Checker{Cell: 8}.Image(32, 32)

	r0, g0, b0, _ := img.At(0, 0).RGBA()
	r1, g1, b1, _ := img.At(8, 0).RGBA()
	r2, g2, b2, _ := img.At(16, 0).RGBA()

	if r0 == r2 && g0 == g2 && b0 == b2 {
		t.Error("origin square should differ from the other light squares")
	}
	if r1 == r2 && g1 == g2 && b1 == b2 {
		t.Error("adjacent squares should alternate")
	}
}

func TestGradientIncreasesRed(t *testing.T) {
	img := Gradient{}.Image(50, 50)
	rStart, _, _, _ := img.At(0, 0).RGBA()
	rEnd, _, _, _ := img.At(49, 49).RGBA()
	if rEnd <= rStart {
		t.Errorf("red channel should grow along the diagonal: %d -> %d", rStart, rEnd)
	}
}
