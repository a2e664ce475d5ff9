package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/castlebats/internal/castle"
	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
)

const testMap = `
############
#          #
#          #
# @        #
############`

type fakeTime struct {
	now float64
}

func (f *fakeTime) Now() float64 {
	return f.now
}

func newTestGame(t *testing.T) (*Game, *fakeTime) {
	t.Helper()
	clk := &fakeTime{}
	g, err := New(Options{
		Config: config.DefaultGameConfig(),
		Seed:   7,
		Map:    testMap,
		Now:    clk.Now,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g, clk
}

func step(g *Game, clk *fakeTime, actions ...core.Action) bool {
	clk.now += 1.0 / 60
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func TestNewEntersLevel(t *testing.T) {
	g, clk := newTestGame(t)

	if got := g.States().CurrentName(); got != castle.LevelName {
		t.Errorf("CurrentName() = %q, expected %q", got, castle.LevelName)
	}
	if g.Seed() != 7 {
		t.Errorf("Seed() = %d, expected 7", g.Seed())
	}
	if !step(g, clk) {
		t.Error("Step() should keep running while the level is up")
	}

	st := g.Status()
	if st.Lives != 3 || st.Score != 0 || st.Done || st.Paused {
		t.Errorf("Status() = %+v, expected a fresh run with 3 lives", st)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.World.Lives = 0
	if _, err := New(Options{Config: cfg}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestStepPauseAndQuit(t *testing.T) {
	g, clk := newTestGame(t)
	step(g, clk)

	step(g, clk, core.ActionPause)
	if !g.Status().Paused {
		t.Fatal("Status().Paused should be set under the pause screen")
	}
	step(g, clk, core.ActionPause)
	step(g, clk)
	if g.Status().Paused {
		t.Fatal("second pause press should resume the level")
	}

	if !step(g, clk, core.ActionQuit) {
		t.Error("the frame that quits still counts as a running frame")
	}
	if !g.Status().Done {
		t.Error("Status().Done should be set after quitting")
	}
	if step(g, clk) {
		t.Error("Step() should return false once the stack is empty")
	}
}

func TestStepDoesNotLeakInput(t *testing.T) {
	g, clk := newTestGame(t)
	in := core.NewInputFrame()
	in.Set(core.ActionRight)

	clk.now += 1.0 / 60
	g.Step(in)
	if !in.Has(core.ActionRight) {
		t.Error("Step() must not consume the caller's input frame")
	}
	if !g.input.Empty() {
		t.Error("session input should be cleared after the frame")
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		height int
		hud    int
	}{
		{24, 4},
		{10, 2},
		{3, 1},
		{1, 0},
	}
	for _, tc := range tests {
		hud, level := Layout(core.NewRect(0, 0, 80, tc.height))
		if hud.H != tc.hud {
			t.Errorf("Layout(h=%d) hud height = %d, expected %d", tc.height, hud.H, tc.hud)
		}
		if level.Y != hud.H || level.H+hud.H != tc.height {
			t.Errorf("Layout(h=%d) level = %+v, expected the rest below the HUD", tc.height, level)
		}
	}
}

func TestRender(t *testing.T) {
	g, clk := newTestGame(t)
	// Land on an even blink phase of the spawn grace period.
	for i := 0; i < 25; i++ {
		step(g, clk)
	}

	scr := core.NewScreen(60, 10)
	g.Render(scr)

	hud := scr.Row(0)
	for _, want := range []string{"SCORE 000000", "LIVES ♥♥♥", "KILLS 0", "60 FPS"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q is missing %q", hud, want)
		}
	}
	if scr.Get(0, 1) != '─' {
		t.Errorf("expected a separator under the HUD, got %q", scr.Get(0, 1))
	}
	if !strings.Contains(scr.String(), "@") {
		t.Errorf("level should be drawn below the HUD:\n%s", scr.String())
	}
}
