// Package tui is the terminal client of the arena: a Bubble Tea model that
// draws the shared world with lipgloss, fed either directly by the arena
// (SSH sessions) or over WebSocket (arena play).
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// uiTickRate is how often the client checks held keys and banners.
const uiTickRate = 20

// TickMsg is sent to trigger a client-side housekeeping tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
