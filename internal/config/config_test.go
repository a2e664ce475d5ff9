package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchCode(t *testing.T) {
	var fromYAML GameConfig
	if err := yaml.Unmarshal(DefaultYAML(), &fromYAML); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(fromYAML, DefaultGameConfig()) {
		t.Errorf("embedded YAML = %+v\nexpected %+v", fromYAML, DefaultGameConfig())
	}
	if err := fromYAML.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("world:\n  lives: 9\nzombies:\n  points: 250\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.World.Lives != 9 || cfg.Zombies.Points != 250 {
		t.Errorf("overrides not applied: lives=%d points=%d", cfg.World.Lives, cfg.Zombies.Points)
	}
	if cfg.Hero.JumpSpeed != DefaultGameConfig().Hero.JumpSpeed {
		t.Errorf("missing keys should keep defaults, jump_speed = %v", cfg.Hero.JumpSpeed)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom file should fail")
	}

	broken := filepath.Join(dir, "broken.yaml")
	os.WriteFile(broken, []byte("world: [1, 2"), 0o644)
	if _, err := Load(broken); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("world:\n  lives: 0\n"), 0o644)
	if _, err := Load(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() of invalid values error = %v, expected ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GameConfig)
		field  string
	}{
		{"no gravity", func(c *GameConfig) { c.World.Gravity = 0 }, "world.gravity"},
		{"no lives", func(c *GameConfig) { c.World.Lives = 0 }, "world.lives"},
		{"cooldown shorter than attack", func(c *GameConfig) { c.Hero.AttackCooldown = 0.1 }, "hero.attack_cooldown"},
		{"no next-tick room", func(c *GameConfig) { c.Scheduler.NextTickLimit = 0 }, "scheduler.next_tick_limit"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGameConfig()
			tc.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, expected ErrInvalidConfig", err)
			}
			if want := "config: invalid: " + tc.field; err.Error() != want {
				t.Errorf("Validate() = %q, expected %q", err.Error(), want)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v, expected normal", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset(nightmare) should fail")
	}

	cfg := DefaultGameConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 || cfg.World.Lives != 2 {
		t.Errorf("hard preset = %+v, lives %d", cfg.Difficulty, cfg.World.Lives)
	}

	cfg = DefaultGameConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
	if !IsFixedPreset(DifficultyFixed) || IsFixedPreset(DifficultyEasy) {
		t.Error("IsFixedPreset mismatch")
	}
}

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0, SpawnReduction: 4},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		elapsed  float64
		expected float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tc := range tests {
		if got := d.Level(0, tc.elapsed); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(0, %v) = %v, expected %v", tc.elapsed, got, tc.expected)
		}
	}

	if got := d.Speed(2, 0, 100); got != 4 {
		t.Errorf("Speed at max = %v, expected 4", got)
	}
	if got := d.SpawnInterval(8, 0, 100); got != 4 {
		t.Errorf("SpawnInterval at max = %v, expected 4", got)
	}
	if got := d.SpawnInterval(2, 0, 100); got != 1 {
		t.Errorf("SpawnInterval should not go below 1, got %v", got)
	}

	d.SetEnabled(false)
	if d.IsEnabled() || d.Level(0, 100) != 0.2 {
		t.Error("disabled manager should stay at the initial level")
	}
}

func TestDifficultyByScore(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 1000},
	})
	if got := d.Level(250, 9999); got != 0.25 {
		t.Errorf("Level(250) = %v, expected 0.25", got)
	}

	d.SetInitialLevel(3)
	if got := d.Level(0, 0); got != 1 {
		t.Errorf("initial level should clamp to 1, got %v", got)
	}
}
