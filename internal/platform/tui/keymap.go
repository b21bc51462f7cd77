package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// CropKeyMap defines the key bindings of the crop view.
type CropKeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	FlingLeft  key.Binding
	FlingRight key.Binding
	FlingUp    key.Binding
	FlingDown  key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Crop       key.Binding
	Reset      key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k CropKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Crop, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k CropKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.FlingLeft, k.FlingRight, k.FlingUp, k.FlingDown},
		{k.ZoomIn, k.ZoomOut, k.Crop, k.Reset},
		{k.Back, k.Help, k.Quit},
	}
}

// DefaultCropKeyMap returns default key bindings.
func DefaultCropKeyMap() CropKeyMap {
	return CropKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "nudge left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "nudge right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "nudge up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "nudge down"),
		),
		FlingLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("S-←/H", "fling left"),
		),
		FlingRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("S-→/L", "fling right"),
		),
		FlingUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("S-↑/K", "fling up"),
		),
		FlingDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("S-↓/J", "fling down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Crop: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "crop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MenuKeyMap defines the key bindings of list screens.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
