package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-cropper/internal/core"
	"github.com/vovakirdan/tui-cropper/internal/crop"
)

// ramp orders characters from dark to light.
const ramp = " .:-=+*#%@"

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// frameRect places the crop frame in the middle of a w x h screen, leaving
// footer rows free at the bottom.
func frameRect(f crop.Frame, w, h, footer int) core.Rect {
	fw, fh := int(f.Width), int(f.Height)
	x := core.Max(1, (w-fw)/2)
	y := core.Max(1, (h-footer-fh)/2)
	return core.NewRect(x, y, fw, fh)
}

// drawSurface samples img through the surface placement into dst. Cells
// inside frame are drawn bright, the overscroll around it dim.
func drawSurface(dst *core.Screen, s *crop.Surface, img image.Image, frame core.Rect) {
	b := img.Bounds()
	for sy := 0; sy < dst.Height(); sy++ {
		for sx := 0; sx < dst.Width(); sx++ {
			nx, ny, ok := s.ImageAt(float64(sx-frame.X)+0.5, float64(sy-frame.Y)+0.5)
			if !ok {
				continue
			}
			px := b.Min.X + core.Clamp(int(nx*float64(b.Dx())), 0, b.Dx()-1)
			py := b.Min.Y + core.Clamp(int(ny*float64(b.Dy())), 0, b.Dy()-1)

			c := core.ColorDim
			if frame.Contains(sx, sy) {
				c = core.ColorWhite
			}
			dst.SetCell(sx, sy, core.Cell{Rune: shade(img.At(px, py)), Color: c})
		}
	}

	border := core.ColorCyan
	if !s.Covered() {
		border = core.ColorRed
	}
	dst.DrawBox(core.NewRect(frame.X-1, frame.Y-1, frame.W+2, frame.H+2), border)
}

// shade maps a pixel's luminance onto the ramp.
func shade(c color.Color) rune {
	r, g, b, _ := c.RGBA()
	l := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
	i := core.Clamp(int(l*float64(len(ramp)-1)+0.5), 0, len(ramp)-1)
	return rune(ramp[i])
}
