// Package game runs one castlebats session: it owns the frame scheduler,
// the state stack and the event dispatcher, and drives them once per frame
// for whatever platform hosts it.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/castlebats/internal/castle"
	"github.com/vovakirdan/castlebats/internal/clock"
	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/event"
	"github.com/vovakirdan/castlebats/internal/state"
)

// hudShare is the part of the screen height reserved for the HUD.
const hudShare = 0.2

// Options configures a new session.
type Options struct {
	Config config.GameConfig
	Seed   int64          // 0 picks a seed from the current time
	Map    string         // ASCII level; empty means the built-in one
	Now    func() float64 // Time source in seconds; nil means wall clock
	Logger *log.Logger
}

// Game is a single play session.
type Game struct {
	logger *log.Logger
	sched  *clock.Scheduler
	states *state.Manager
	events *event.Dispatcher
	stats  core.Status
	input  core.InputFrame
	seed   int64
}

// New builds a session and enters the level. The scheduler is ticked once
// so the first Step measures time from here.
func New(opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sc := cfg.Scheduler
	g := &Game{
		logger: logger,
		sched: clock.New(clock.Config{
			Now:              opts.Now,
			NextTickLimit:    sc.NextTickLimit,
			CatchUpThreshold: sc.CatchUpThreshold,
			SoftDivisions:    sc.SoftDivisions,
			ClusterWindow:    sc.ClusterWindow,
			IntervalSamples:  sc.IntervalSamples,
			Logger:           logger.WithPrefix("clock"),
		}),
		states: state.NewManager(logger.WithPrefix("state")),
		events: event.NewDispatcher(castle.Events()...),
		stats:  core.Status{Lives: cfg.World.Lives},
		input:  core.NewInputFrame(),
		seed:   seed,
	}
	g.events.EnableQueue()
	if err := castle.TrackStats(g.events, &g.stats); err != nil {
		return nil, err
	}

	env := &castle.Env{
		Sched:      g.sched,
		States:     g.states,
		Events:     g.events,
		Config:     cfg,
		Difficulty: config.NewDifficultyManager(cfg.Difficulty),
		Stats:      &g.stats,
		Input:      &g.input,
		Rand:       rand.New(rand.NewSource(seed)),
		Logger:     logger,
		Map:        opts.Map,
	}
	if err := castle.Register(env); err != nil {
		return nil, err
	}

	g.sched.Tick()
	if _, err := g.states.Push(castle.LevelName); err != nil {
		return nil, fmt.Errorf("game: enter level: %w", err)
	}
	logger.Info("session started", "seed", seed, "lives", cfg.World.Lives)
	return g, nil
}

// Step runs one frame: it advances the scheduler, then updates the state
// on top of the stack with the elapsed time. It returns false once the
// stack is empty and the session is over.
func (g *Game) Step(in core.InputFrame) bool {
	g.input.Clear()
	for a, on := range in.Actions {
		if on {
			g.input.Set(a)
		}
	}
	defer g.input.Clear()

	dt := g.sched.Tick()
	s := g.states.Current()
	if s == nil {
		return false
	}
	s.Update(dt)
	return true
}

// Layout splits the screen into the HUD strip on top and the level area
// below it.
func Layout(screen core.Rect) (hud, level core.Rect) {
	h := int(float64(screen.H) * hudShare)
	if h < 1 && screen.H > 1 {
		h = 1
	}
	hud = core.NewRect(screen.X, screen.Y, screen.W, h)
	level = core.NewRect(screen.X, screen.Y+h, screen.W, screen.H-h)
	return hud, level
}

// Render draws the current state and the HUD into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	hud, area := Layout(dst.Bounds())
	if s := g.states.Current(); s != nil {
		s.Draw(dst, area)
	}
	g.drawHUD(dst, hud)
}

func (g *Game) drawHUD(dst *core.Screen, r core.Rect) {
	if r.H == 0 {
		return
	}
	st := g.Status()
	dst.DrawTextColored(r.X+1, r.Y, fmt.Sprintf("SCORE %06d", st.Score), core.ColorBrightWhite)
	dst.DrawTextColored(r.X+15, r.Y, "LIVES ", core.ColorWhite)
	for i := 0; i < st.Lives; i++ {
		dst.SetColored(r.X+21+i, r.Y, '♥', core.ColorBrightRed)
	}
	dst.DrawTextColored(r.X+21+max(st.Lives, 1)+2, r.Y, fmt.Sprintf("KILLS %d", st.Kills), core.ColorWhite)

	fps := fmt.Sprintf("%3.0f FPS", g.sched.FPS())
	dst.DrawTextColored(r.Right()-len(fps)-1, r.Y, fps, core.ColorGray)

	if r.H > 1 {
		dst.DrawHLine(r.X, r.Bottom()-1, r.W, '─', core.ColorGray)
	}
}

// Status returns the score keeping for this session.
func (g *Game) Status() core.Status {
	st := g.stats
	st.Done = g.states.Done()
	st.Paused = g.states.CurrentName() == castle.PauseName
	return st
}

// Seed returns the RNG seed of the session.
func (g *Game) Seed() int64 {
	return g.seed
}

// Scheduler returns the session's frame scheduler.
func (g *Game) Scheduler() *clock.Scheduler {
	return g.sched
}

// States returns the session's state stack.
func (g *Game) States() *state.Manager {
	return g.states
}
