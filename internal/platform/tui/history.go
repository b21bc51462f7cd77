package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-cropper/internal/storage"
)

// maxHistory bounds the crops loaded into the browser.
const maxHistory = 200

// HistoryModel is the Bubble Tea model for browsing saved crops.
type HistoryModel struct {
	entries  []storage.CropEntry
	table    table.Model
	help     help.Model
	keys     MenuKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel loads the most recent crops from store.
func NewHistoryModel(store *storage.Store, width, height int) (HistoryModel, error) {
	entries, err := store.RecentCrops(maxHistory)
	if err != nil {
		return HistoryModel{}, err
	}

	keys := DefaultMenuKeyMap()
	keys.Select.SetEnabled(false)

	m := HistoryModel{
		entries: entries,
		help:    help.New(),
		keys:    keys,
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m, nil
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Date", Width: 12},
		{Title: "Source", Width: 20},
		{Title: "Rect", Width: 22},
		{Title: "Zoom", Width: 6},
		{Title: "Output", Width: 20},
	}

	// Give the remaining width to the path columns
	fixed := 5 + 12 + 22 + 6 + 2*len(columns) + 4
	if extra := m.width - fixed - 40; extra > 0 {
		columns[2].Width += extra / 2
		columns[5].Width += extra - extra/2
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-6, 3)), // Leave room for title and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded entries.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		output := e.Output
		if output == "" {
			output = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", e.ID),
			e.CreatedAt.Format("Jan 02 15:04"),
			e.Source,
			fmt.Sprintf("%d,%d %dx%d", e.Rect.Min.X, e.Rect.Min.Y, e.Rect.Dx(), e.Rect.Dy()),
			fmt.Sprintf("%.2fx", e.Scale),
			output,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("CROP HISTORY (%d)", len(m.entries))))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(emptyStyle.Render("No crops recorded yet.\nRun 'cropper crop' and press c to save one."))
	} else {
		tableStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunHistory runs the history browser.
func RunHistory(store *storage.Store, width, height int) error {
	model, err := NewHistoryModel(store, width, height)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
