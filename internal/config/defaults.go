package config

import (
	_ "embed"
)

//go:embed defaults/castlebats.yaml
var defaultYAML []byte

// DefaultGameConfig returns the built-in configuration. It matches the
// embedded defaults/castlebats.yaml.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		World: WorldConfig{
			Gravity:       40,
			MaxFallSpeed:  20,
			RespawnDelay:  5,
			Lives:         3,
			PlatformLift:  3,
			PlatformSpeed: 1.5,
		},
		Hero: HeroConfig{
			MoveSpeed:       8,
			AirMoveSpeed:    5,
			JumpSpeed:       15,
			CrouchJumpMod:   1.3,
			ClimbSpeed:      5,
			MoveHold:        0.2,
			CrouchHold:      0.5,
			AttackDuration:  0.16,
			AttackCooldown:  0.3,
			InvulnerableFor: 2,
		},
		Zombies: ZombieConfig{
			MoveSpeed:     2,
			Points:        100,
			SpawnInterval: 8,
			MaxAlive:      6,
		},
		Scheduler: SchedulerConfig{
			NextTickLimit:    10,
			CatchUpThreshold: 0.05,
			SoftDivisions:    16,
			ClusterWindow:    0.2,
			IntervalSamples:  10,
			PlatformStep:     0.05,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 300, // five minutes
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				SpawnReduction:  5,
			},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
