package tui

import (
	"image"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-cropper/internal/storage"
)

func TestHistoryModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m, err := NewHistoryModel(store, 120, 30)
	if err != nil {
		t.Fatalf("NewHistoryModel() failed: %v", err)
	}
	if !strings.Contains(m.View(), "No crops recorded yet") {
		t.Error("empty history should say so")
	}

	store.SaveCrop(storage.CropEntry{Source: "pattern:rings", Rect: image.Rect(10, 20, 310, 220), Scale: 2})
	m, err = NewHistoryModel(store, 120, 30)
	if err != nil {
		t.Fatalf("NewHistoryModel() failed: %v", err)
	}

	view := m.View()
	for _, want := range []string{"CROP HISTORY (1)", "pattern:rings", "10,20 300x200", "2.00x"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || next.(HistoryModel).View() != "" {
		t.Error("esc should close the history browser")
	}
}
