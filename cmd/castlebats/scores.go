package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/castlebats/internal/platform/tui"
	"github.com/vovakirdan/castlebats/internal/storage"
)

var (
	flagInteractive  bool
	flagScoresPlayer string
	flagScoresLimit  int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded runs",
	Long: `Display the best recorded runs.

Examples:
  castlebats scores
  castlebats scores --player alice
  castlebats scores -i            # Interactive scoreboard`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive scoreboard")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only show runs of this player")
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of runs to show")
}

func runScores(cmd *cobra.Command, args []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunScoreboard(store, flagScoresPlayer, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var runs []storage.Run
	if flagScoresPlayer != "" {
		runs, err = store.PlayerRuns(flagScoresPlayer, flagScoresLimit)
	} else {
		runs, err = store.TopRuns(flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("High Scores - Castlebats")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'castlebats play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %-8s  %-8s  %s\n", "Rank", "Score", "Kills", "Player", "Level", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-12s  %-8s  %-8s  %s\n", "----", "-----", "-----", "------", "-----", "----", "----")

	for i, r := range runs {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-12s  %-8s  %-8s  %s\n",
			i+1, r.Score, r.Kills, r.Player, r.Difficulty, r.Duration.Round(time.Second), dateStr)
	}

	// Show totals
	fmt.Println()
	if stats, err := store.Stats(); err == nil && stats.Runs > 0 {
		fmt.Printf("Best: %d  Runs: %d  Avg: %.0f  Zombies slain: %d\n",
			stats.HighScore, stats.Runs, stats.AvgScore, stats.TotalKills)
	}
}
