package tui

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cropper/internal/config"
	"github.com/vovakirdan/tui-cropper/internal/core"
	"github.com/vovakirdan/tui-cropper/internal/crop"
	"github.com/vovakirdan/tui-cropper/internal/gesture"
	"github.com/vovakirdan/tui-cropper/internal/storage"
)

// footerRows is the space below the screen buffer for status and help.
const footerRows = 3

// Source is the image being cropped.
type Source struct {
	Name  string      // Path or "pattern:<id>", recorded in history
	Image image.Image // Full resolution
}

// Options configures a crop Model.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Store   *storage.Store // Optional crop history
	OutDir  string         // Where crops are written; empty records history only
	OutPath string         // Fixed output file, overrides OutDir
	CanBack bool           // Enables the back key, for menus that embed the view
	Logger  *log.Logger
}

// Model is the Bubble Tea model for the interactive crop view.
type Model struct {
	source     Source
	preview    image.Image
	surface    *crop.Surface
	screen     *core.Screen
	drag       *gesture.DragHandler
	keys       CropKeyMap
	help       help.Model
	opts       Options
	now        func() time.Time
	loop       uint64 // Tick loop owned by this view
	status     string
	quitting   bool
	backToMenu bool
}

// NewModel creates a crop view over src.
func NewModel(src Source, opts Options) (Model, error) {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	b := src.Image.Bounds()
	surface, err := crop.NewSurface(b.Dx(), b.Dy(), crop.Options{
		Config:   opts.Config,
		TickRate: opts.Runtime.TickRate,
		Logger:   opts.Logger,
	})
	if err != nil {
		return Model{}, err
	}

	keys := DefaultCropKeyMap()
	keys.Back.SetEnabled(opts.CanBack)

	status := "drag with the mouse, wheel to zoom"
	if opts.Store != nil {
		last, err := opts.Store.LastCrop(src.Name)
		if err != nil {
			opts.Logger.Warn("could not read last crop", "source", src.Name, "error", err)
		} else if last != nil {
			status = fmt.Sprintf("last crop %dx%d at (%d,%d)",
				last.Rect.Dx(), last.Rect.Dy(), last.Rect.Min.X, last.Rect.Min.Y)
		}
	}

	return Model{
		source:  src,
		preview: crop.Preview(src.Image),
		surface: surface,
		screen:  core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH-footerRows),
		drag:    gesture.NewDragHandler(gesture.DefaultWindow),
		keys:    keys,
		help:    help.New(),
		opts:    opts,
		now:     time.Now,
		loop:    nextLoop(),
		status:  status,
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height-footerRows)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		m.surface.Step()
		return m, tickCmd(m.opts.Runtime.TickRate, m.loop)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in := m.opts.Config.Input
	fling := in.KeyFlingVelocity

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		m.nudge(-in.NudgeStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.nudge(in.NudgeStep, 0)
	case key.Matches(msg, m.keys.Up):
		m.nudge(0, -in.NudgeStep)
	case key.Matches(msg, m.keys.Down):
		m.nudge(0, in.NudgeStep)

	case key.Matches(msg, m.keys.FlingLeft):
		m.surface.Release(-fling, 0)
	case key.Matches(msg, m.keys.FlingRight):
		m.surface.Release(fling, 0)
	// Cells are taller than wide; scale vertical flings to match on screen
	case key.Matches(msg, m.keys.FlingUp):
		m.surface.Release(0, -fling/m.opts.Config.Frame.CellAspect)
	case key.Matches(msg, m.keys.FlingDown):
		m.surface.Release(0, fling/m.opts.Config.Frame.CellAspect)

	case key.Matches(msg, m.keys.ZoomIn):
		m.surface.Zoom(m.opts.Config.Zoom.Step)
	case key.Matches(msg, m.keys.ZoomOut):
		m.surface.Zoom(1 / m.opts.Config.Zoom.Step)

	case key.Matches(msg, m.keys.Reset):
		m.surface.Reset()
		m.status = "reset"

	case key.Matches(msg, m.keys.Crop):
		m.status = m.cropAndSave()
	}

	return m, nil
}

// nudge moves the image like a drag that is released at rest, so a nudge past
// the edge springs back.
func (m *Model) nudge(dx, dy float64) {
	m.surface.Drag(dx, dy)
	m.surface.Release(0, 0)
}

// handleMouse translates pointer events into surface gestures.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ev := m.drag.HandleMouse(msg, m.now())

	switch ev.Kind {
	case gesture.EventStart:
		// Grabbing the image stops any running motion
		m.surface.Drag(0, 0)
	case gesture.EventMove:
		m.surface.Drag(ev.DX, ev.DY)
	case gesture.EventRelease:
		m.surface.Drag(ev.DX, ev.DY)
		m.surface.Release(ev.VX, ev.VY)
	case gesture.EventZoomIn:
		m.surface.Zoom(m.opts.Config.Zoom.Step)
	case gesture.EventZoomOut:
		m.surface.Zoom(1 / m.opts.Config.Zoom.Step)
	}

	return m, nil
}

// cropAndSave cuts the framed region out of the source, writes it when an
// output is configured and records it in history. Returns a status line.
func (m *Model) cropAndSave() string {
	img, rect, err := m.surface.Crop(m.source.Image)
	if err != nil {
		m.opts.Logger.Warn("crop failed", "source", m.source.Name, "error", err)
		return fmt.Sprintf("crop failed: %v", err)
	}

	out := m.outputPath()
	if out != "" {
		if err := crop.Save(img, out); err != nil {
			m.opts.Logger.Error("cannot save crop", "path", out, "error", err)
			return fmt.Sprintf("save failed: %v", err)
		}
	}

	if m.opts.Store != nil {
		if _, err := m.opts.Store.SaveCrop(storage.CropEntry{
			Source: m.source.Name,
			Rect:   rect,
			Scale:  m.surface.Placement().Scale,
			Output: out,
		}); err != nil {
			m.opts.Logger.Warn("could not record crop", "error", err)
		}
	}

	m.opts.Logger.Info("cropped", "source", m.source.Name, "rect", rect, "output", out)
	if out == "" {
		return fmt.Sprintf("cropped %dx%d at (%d,%d)", rect.Dx(), rect.Dy(), rect.Min.X, rect.Min.Y)
	}
	return fmt.Sprintf("saved %dx%d to %s", rect.Dx(), rect.Dy(), out)
}

// outputPath picks the file a crop is written to.
func (m Model) outputPath() string {
	if m.opts.OutPath != "" {
		return m.opts.OutPath
	}
	if m.opts.OutDir == "" {
		return ""
	}

	base := filepath.Base(m.source.Name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer(":", "_", string(os.PathSeparator), "_").Replace(base)
	timestamp := m.now().Format("20060102_150405")
	return filepath.Join(m.opts.OutDir, fmt.Sprintf("%s_%s.png", base, timestamp))
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	frame := frameRect(m.surface.Frame(), m.screen.Width(), m.screen.Height(), 0)
	drawSurface(m.screen, m.surface, m.preview, frame)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// statusLine describes both axes, the zoom and the last action.
func (m Model) statusLine() string {
	x, y := m.surface.X(), m.surface.Y()
	r := m.surface.CropRect()
	return statusStyle.Render(fmt.Sprintf(
		"x %-6s %7.1f  y %-6s %7.1f  %.2fx  %dx%d  %s",
		x.Kind(), x.Velocity(),
		y.Kind(), y.Velocity(),
		m.surface.Placement().Scale,
		r.Dx(), r.Dy(),
		m.status,
	))
}

// Surface returns the crop surface driven by the view.
func (m Model) Surface() *crop.Surface {
	return m.surface
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with a crop view over src.
func Run(src Source, opts Options) error {
	model, err := NewModel(src, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Drag and wheel
	)

	_, err = p.Run()
	return err
}
