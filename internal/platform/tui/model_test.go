package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/storage"
)

const swordMap = `
########
#      #
# @Z   #
########`

type fakeTime struct {
	now float64
}

func (f *fakeTime) Now() float64 {
	return f.now
}

type modelHarness struct {
	t     *testing.T
	clk   *fakeTime
	store *storage.Store
	m     Model
}

func newModelHarness(t *testing.T) *modelHarness {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clk := &fakeTime{}
	m, err := NewModel(Options{
		Config:     config.DefaultGameConfig(),
		Runtime:    core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1},
		Difficulty: "normal",
		Player:     "tester",
		Map:        swordMap,
		Store:      store,
		Renderer:   plainRenderer(),
		Now:        clk.Now,
	})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return &modelHarness{t: t, clk: clk, store: store, m: m}
}

func (h *modelHarness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *modelHarness) tick() tea.Cmd {
	h.clk.now += 1.0 / 60
	return h.send(TickMsg(time.Now()))
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelTicksAndDraws(t *testing.T) {
	h := newModelHarness(t)
	if h.m.Init() == nil {
		t.Fatal("Init() should start the tick loop")
	}

	if cmd := h.tick(); cmd == nil {
		t.Error("tick should schedule the next frame while playing")
	}
	view := h.m.View()
	if !strings.Contains(view, "SCORE") {
		t.Errorf("View() should show the HUD:\n%s", view)
	}
	if !strings.Contains(view, "jump") {
		t.Errorf("View() should end with the key help:\n%s", view)
	}
}

func TestModelSavesRunOnQuit(t *testing.T) {
	h := newModelHarness(t)

	h.send(runeKey("x"))
	h.tick()
	if st := h.m.Status(); st.Score != 100 || st.Kills != 1 {
		t.Fatalf("Status() = %+v, expected the sword to kill the zombie", st)
	}

	h.send(runeKey("q"))
	if cmd := h.tick(); !isQuit(cmd) {
		t.Error("quitting the level should exit the program")
	}
	if !h.m.Over() || h.m.View() != "" {
		t.Error("model should be finished and render nothing")
	}

	runs, err := h.store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 saved run, got %d", len(runs))
	}
	r := runs[0]
	if r.Player != "tester" || r.Score != 100 || r.Kills != 1 || r.Seed != 1 || r.Difficulty != "normal" {
		t.Errorf("saved run = %+v", r)
	}
}

func TestModelSummaryAndRestart(t *testing.T) {
	h := newModelHarness(t)
	h.send(runeKey("x"))
	h.tick()

	h.send(runeKey("b"))
	if cmd := h.tick(); cmd != nil {
		t.Error("leaving the level with back should stop ticking but not exit")
	}
	if !h.m.Over() {
		t.Fatal("session should be over")
	}
	view := h.m.View()
	for _, want := range []string{"LEFT THE CASTLE", "Score  100", "Run saved."} {
		if !strings.Contains(view, want) {
			t.Errorf("summary is missing %q:\n%s", want, view)
		}
	}
	if cmd := h.tick(); cmd != nil {
		t.Error("ticks after the session ended should be ignored")
	}

	if cmd := h.send(runeKey("r")); cmd == nil {
		t.Error("restart should resume the tick loop")
	}
	if h.m.Over() || h.m.Status().Score != 0 {
		t.Errorf("restart should begin a fresh run, status %+v", h.m.Status())
	}

	runs, _ := h.store.TopRuns(10)
	if len(runs) != 1 {
		t.Errorf("restart should not record the run again, got %d runs", len(runs))
	}
}

func TestModelSkipsEmptyRuns(t *testing.T) {
	h := newModelHarness(t)
	h.tick()

	h.send(runeKey("q"))
	if cmd := h.tick(); !isQuit(cmd) {
		t.Error("expected the program to exit")
	}
	if runs, _ := h.store.TopRuns(10); len(runs) != 0 {
		t.Errorf("runs without score should not be saved, got %d", len(runs))
	}
}

func TestModelAbortAndResize(t *testing.T) {
	h := newModelHarness(t)

	h.send(tea.WindowSizeMsg{Width: 60, Height: 20})
	if h.m.screen.Width() != 60 || h.m.screen.Height() != 19 {
		t.Errorf("screen = %dx%d, expected 60x19 with a help line below",
			h.m.screen.Width(), h.m.screen.Height())
	}

	if cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Error("ctrl+c should exit right away")
	}
}
