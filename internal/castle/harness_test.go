package castle

import (
	"testing"

	"github.com/vovakirdan/castlebats/internal/clock"
	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/event"
	"github.com/vovakirdan/castlebats/internal/state"
)

// fakeTime is a manually advanced time source.
type fakeTime struct {
	now float64
}

func (f *fakeTime) Now() float64 {
	return f.now
}

// harness runs castle states the way the game loop does, on a fake clock.
type harness struct {
	t     *testing.T
	clk   *fakeTime
	env   *Env
	level *Level
}

func newHarness(t *testing.T, src string, modify ...func(*config.GameConfig)) *harness {
	t.Helper()

	clk := &fakeTime{}
	sched := clock.New(clock.Config{Now: clk.Now})
	sched.Tick()

	cfg := config.DefaultGameConfig()
	for _, m := range modify {
		m(&cfg)
	}

	d := event.NewDispatcher(Events()...)
	d.EnableQueue()
	stats := &core.Status{Lives: cfg.World.Lives}
	if err := TrackStats(d, stats); err != nil {
		t.Fatalf("TrackStats() error: %v", err)
	}

	env := &Env{
		Sched:  sched,
		States: state.NewManager(nil),
		Events: d,
		Config: cfg,
		Stats:  stats,
		Map:    src,
	}
	if err := Register(env); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	s, err := env.States.Push(LevelName)
	if err != nil {
		t.Fatalf("Push(Level) error: %v", err)
	}
	return &harness{t: t, clk: clk, env: env, level: s.(*Level)}
}

// frame advances the clock by dt and runs one game loop iteration with
// the given actions pressed.
func (h *harness) frame(dt float64, actions ...core.Action) {
	h.clk.now += dt
	for _, a := range actions {
		h.env.Input.Set(a)
	}
	elapsed := h.env.Sched.Tick()
	if s := h.env.States.Current(); s != nil {
		s.Update(elapsed)
	}
	h.env.Input.Clear()
}

// run advances the game for the given number of seconds in 1/60 steps.
func (h *harness) run(seconds float64, actions ...core.Action) {
	for n := int(seconds * 60); n > 0; n-- {
		h.frame(1.0/60, actions...)
	}
}
