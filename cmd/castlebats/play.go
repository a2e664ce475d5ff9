package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/platform/tui"
	"github.com/vovakirdan/castlebats/internal/storage"
)

var (
	flagMapPath string
	flagPlayer  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the castle level",
	Long: `Start playing the castle level.

Controls:
  Left/Right  - Walk
  Up/Down     - Climb stairs, Down also crouches
  Space       - Jump (higher out of a crouch)
  X           - Attack
  P/Esc       - Pause
  R           - Restart (after game over)
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Five lives, starts at the lowest difficulty
  normal - Start at 30% difficulty, progresses to max
  hard   - Two lives, more zombies, starts at 70% difficulty
  fixed  - No progression, stays at config's initial level

Examples:
  castlebats play
  castlebats play --difficulty hard
  castlebats play --seed 42
  castlebats play --map ./my-castle.txt
  castlebats play --config ./my-castle.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMapPath, "map", "", "Path to a custom ASCII level map")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name recorded with runs (default: $USER)")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, preset, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var levelMap string
	if flagMapPath != "" {
		data, err := os.ReadFile(flagMapPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading map: %v\n", err)
			os.Exit(1)
		}
		levelMap = string(data)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Log to a file, the terminal is drawn by the game
	var logOut io.Writer = io.Discard
	if f, err := openLogFile(); err == nil {
		defer f.Close()
		logOut = f
	} else {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	}
	logger, err := newLogger(logOut, log.Options{ReportTimestamp: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	player := flagPlayer
	if player == "" {
		player = playerName()
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config:     cfg,
		Runtime:    runtime,
		Difficulty: string(preset),
		Player:     player,
		Map:        levelMap,
		Store:      store,
		Logger:     logger,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
