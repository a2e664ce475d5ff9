// castlebats is a side-scrolling castle crawler for the terminal: walk,
// climb and jump through the castle and put zombies to the sword.
//
// Usage:
//
//	castlebats play          - Play the castle level (default command)
//	castlebats serve         - Start SSH server for remote play
//	castlebats scores        - Show recorded runs
//	castlebats states        - List registered game states
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible zombie spawns
//	--db <path>           - Set database path (default: ~/.castlebats/scores.db)
//	--config <path>       - Use a custom game config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "castlebats",
	Short: "Castlebats - fight your way through a zombie castle in the terminal",
	Long: `Castlebats is a terminal side-scroller. Walk, climb stairs, ride moving
platforms and slay zombies with your sword. Every frame is driven by a
cooperative scheduler and a stack of game states (level, pause).

Available commands:
  play     - Play the castle level
  serve    - Start SSH server for remote play
  scores   - View recorded runs
  states   - List registered game states

Examples:
  castlebats
  castlebats play --difficulty hard
  castlebats serve --ssh :2222
  castlebats scores -i`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.castlebats/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statesCmd)
}
