package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/castlebats/internal/config"
)

// loadGameConfig reads the game config and applies the difficulty
// preset. No --difficulty means normal.
func loadGameConfig() (config.GameConfig, config.DifficultyPreset, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.GameConfig{}, "", err
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, "", err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, preset, nil
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, opts log.Options) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	opts.Level = level
	return log.NewWithOptions(w, opts), nil
}

// openLogFile opens ~/.castlebats/castlebats.log for appending. The
// terminal belongs to the game while it runs.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".castlebats")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "castlebats.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// playerName returns the name recorded with local runs.
func playerName() string {
	for _, env := range []string{"CASTLEBATS_PLAYER", "USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}
