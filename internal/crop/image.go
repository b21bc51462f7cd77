package crop

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// previewSide caps the longest side of the image sampled for display.
const previewSide = 512

// Open decodes an image file, honouring EXIF orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("crop: cannot open image %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, choosing the format from the extension.
// Parent directories are created as needed.
func Save(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("crop: cannot create directory %s: %w", dir, err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("crop: cannot save %s: %w", path, err)
	}
	return nil
}

// Preview returns a downscaled copy of img for sampling on screen.
// Images already small enough are returned unchanged.
func Preview(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= previewSide && b.Dy() <= previewSide {
		return img
	}
	return imaging.Fit(img, previewSide, previewSide, imaging.Box)
}

func cropImage(src image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(src, r)
}
