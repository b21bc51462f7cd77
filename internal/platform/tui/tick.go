// Package tui provides the Bubble Tea integration for the cropper.
// It handles the terminal UI loop, input mapping, and rendering of the crop
// surface.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a motion tick.
type TickMsg struct {
	Time time.Time
	Loop uint64 // Identifies the tick loop that scheduled it
}

var loopCounter atomic.Uint64

// nextLoop returns a fresh tick loop ID. Loops are process-wide so that
// concurrent SSH sessions never share one.
func nextLoop() uint64 {
	return loopCounter.Add(1)
}

// tickCmd returns a Bubble Tea command that sends a tick message for loop
// after one interval at the specified rate.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Loop: loop}
	})
}
