// Package castle holds the game content: the castle level with its hero,
// zombies and moving platforms, and the pause screen. Both are states for
// the state manager and keep time through the frame scheduler.
package castle

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/castlebats/internal/clock"
	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/event"
	"github.com/vovakirdan/castlebats/internal/state"
)

// Events raised by the level.
const (
	EventHeroSpawned  = "hero_spawned"
	EventHeroDied     = "hero_died"
	EventZombieKilled = "zombie_killed"
)

// Events returns every event name the level broadcasts.
func Events() []string {
	return []string{EventHeroSpawned, EventHeroDied, EventZombieKilled}
}

// State names.
const (
	LevelName = "Level"
	PauseName = "Pause"
)

// Env is what castle states share with the game that runs them.
type Env struct {
	Sched      *clock.Scheduler
	States     *state.Manager
	Events     *event.Dispatcher
	Config     config.GameConfig
	Difficulty *config.DifficultyManager
	Stats      *core.Status
	Input      *core.InputFrame // Actions of the current frame
	Rand       *rand.Rand
	Logger     *log.Logger
	Map        string // ASCII level; empty means the built-in one
}

// Register adds the castle states to env.States.
func Register(env *Env) error {
	if env.Logger == nil {
		env.Logger = log.New(io.Discard)
	}
	if env.Rand == nil {
		env.Rand = rand.New(rand.NewSource(1))
	}
	if env.Stats == nil {
		env.Stats = &core.Status{}
	}
	if env.Input == nil {
		in := core.NewInputFrame()
		env.Input = &in
	}
	if env.Difficulty == nil {
		env.Difficulty = config.NewDifficultyManager(env.Config.Difficulty)
	}

	factories := []state.Factory{
		func() state.State { return NewLevel(env) },
		func() state.State { return NewPause(env) },
	}
	for _, f := range factories {
		if err := env.States.Register(f); err != nil {
			return fmt.Errorf("castle: register states: %w", err)
		}
	}
	return nil
}

// TrackStats subscribes handlers that keep stats in line with level
// events. The level reads Stats.Lives right after the events are
// delivered to decide between respawn and game over.
func TrackStats(d *event.Dispatcher, stats *core.Status) error {
	subs := []struct {
		name string
		fn   event.Handler
	}{
		{EventHeroDied, func(event.Event) {
			if stats.Lives > 0 {
				stats.Lives--
			}
		}},
		{EventZombieKilled, func(ev event.Event) {
			stats.Kills++
			if p, ok := ev.Args["points"].(int); ok {
				stats.Score += p
			}
		}},
	}
	for _, s := range subs {
		if _, err := d.Subscribe(s.name, s.fn); err != nil {
			return fmt.Errorf("castle: track stats: %w", err)
		}
	}
	return nil
}
