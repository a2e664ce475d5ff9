// Package config provides YAML-based game configuration loading and
// difficulty management for castlebats.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid")

// GameConfig contains all tunable settings of the game.
type GameConfig struct {
	World      WorldConfig      `yaml:"world"`
	Hero       HeroConfig       `yaml:"hero"`
	Zombies    ZombieConfig     `yaml:"zombies"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines level physics and rules. Distances are in tiles,
// times in seconds.
type WorldConfig struct {
	Gravity       float64 `yaml:"gravity"`
	MaxFallSpeed  float64 `yaml:"max_fall_speed"`
	RespawnDelay  float64 `yaml:"respawn_delay"`
	Lives         int     `yaml:"lives"`
	PlatformLift  float64 `yaml:"platform_lift"`  // Travel height of moving platforms
	PlatformSpeed float64 `yaml:"platform_speed"` // Tiles per second
}

// HeroConfig defines the player character.
type HeroConfig struct {
	MoveSpeed       float64 `yaml:"move_speed"`
	AirMoveSpeed    float64 `yaml:"air_move_speed"`
	JumpSpeed       float64 `yaml:"jump_speed"`
	CrouchJumpMod   float64 `yaml:"crouch_jump_mod"` // Jump multiplier when jumping out of a crouch
	ClimbSpeed      float64 `yaml:"climb_speed"`
	MoveHold        float64 `yaml:"move_hold"`   // How long one key press keeps the hero walking
	CrouchHold      float64 `yaml:"crouch_hold"` // How long one key press keeps the hero crouched
	AttackDuration  float64 `yaml:"attack_duration"`
	AttackCooldown  float64 `yaml:"attack_cooldown"`
	InvulnerableFor float64 `yaml:"invulnerable_for"` // Grace period after spawning
}

// ZombieConfig defines the enemies.
type ZombieConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	Points        int     `yaml:"points"`
	SpawnInterval float64 `yaml:"spawn_interval"`
	MaxAlive      int     `yaml:"max_alive"`
}

// SchedulerConfig tunes the frame scheduler and the timers the level
// registers with it.
type SchedulerConfig struct {
	NextTickLimit    int     `yaml:"next_tick_limit"`
	CatchUpThreshold float64 `yaml:"catch_up_threshold"`
	SoftDivisions    int     `yaml:"soft_divisions"`
	ClusterWindow    float64 `yaml:"cluster_window"`
	IntervalSamples  int     `yaml:"interval_samples"`
	PlatformStep     float64 `yaml:"platform_step"` // Interval of the moving platform timer
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // Score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to zombie speed at max difficulty
	SpawnReduction  float64 `yaml:"spawn_reduction"`  // Seconds taken off the spawn interval at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, fixed)", s)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.World.Lives = 5
	case DifficultyHard:
		cfg.World.Lives = 2
		cfg.Zombies.MaxAlive += 2
	}
}

// Validate reports the first setting that would break the game.
func (c GameConfig) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.World.Gravity > 0, "world.gravity"},
		{c.World.MaxFallSpeed > 0, "world.max_fall_speed"},
		{c.World.RespawnDelay > 0, "world.respawn_delay"},
		{c.World.Lives > 0, "world.lives"},
		{c.World.PlatformSpeed >= 0, "world.platform_speed"},
		{c.Hero.MoveSpeed > 0, "hero.move_speed"},
		{c.Hero.JumpSpeed > 0, "hero.jump_speed"},
		{c.Hero.MoveHold > 0, "hero.move_hold"},
		{c.Hero.CrouchHold > 0, "hero.crouch_hold"},
		{c.Hero.AttackDuration > 0, "hero.attack_duration"},
		{c.Hero.AttackCooldown >= c.Hero.AttackDuration, "hero.attack_cooldown"},
		{c.Zombies.SpawnInterval > 0, "zombies.spawn_interval"},
		{c.Zombies.MaxAlive >= 0, "zombies.max_alive"},
		{c.Scheduler.NextTickLimit > 0, "scheduler.next_tick_limit"},
		{c.Scheduler.PlatformStep > 0, "scheduler.platform_step"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, chk.name)
		}
	}
	return nil
}
