// Package tui hosts castlebats in a terminal through Bubble Tea, either
// locally or over SSH, and shows the scoreboard of recorded runs.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the model to run one game frame.
type TickMsg time.Time

// tickCmd schedules the next frame. The game measures real elapsed time
// itself, so a late tick only makes that frame longer.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
