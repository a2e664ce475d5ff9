package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/castlebats/internal/storage"
)

func TestScoreboardViews(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	store.SaveRun(storage.Run{Player: "ann", Score: 300, Kills: 3})
	store.SaveRun(storage.Run{Player: "bob", Score: 500, Kills: 5})

	m := NewScoreboardModel(store, "ann", 80, 24)
	if len(m.runs) != 2 || m.runs[0].Player != "bob" {
		t.Fatalf("top view runs = %+v, expected bob first", m.runs)
	}
	view := m.View()
	for _, want := range []string{"HIGH SCORES", "bob", "ann", "2 runs"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() is missing %q:\n%s", want, view)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if len(m.runs) != 1 || m.runs[0].Player != "ann" {
		t.Errorf("player view runs = %+v, expected only ann", m.runs)
	}
	if !strings.Contains(m.View(), "YOUR RUNS") {
		t.Error("title should follow the selected view")
	}

	next, cmd := m.Update(runeKey("b"))
	m = next.(ScoreboardModel)
	if !m.IsGoingBack() || m.IsQuitting() || !isQuit(cmd) {
		t.Error("back should leave the scoreboard without quitting")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, "ann", 40, 20)
	if !strings.Contains(m.View(), "not available") {
		t.Errorf("View() should explain missing storage:\n%s", m.View())
	}
	if len(m.table.Columns()) != 5 {
		t.Errorf("narrow table should drop the date column, got %d columns", len(m.table.Columns()))
	}
}
