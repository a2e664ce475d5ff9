package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/castlebats/internal/castle"
	"github.com/vovakirdan/castlebats/internal/clock"
	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/event"
	"github.com/vovakirdan/castlebats/internal/state"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "List registered game states",
	Long: `Display all game states the state manager knows about.

A session starts by pushing the Level state; Pause is pushed on top of
it while the game is paused.`,
	Args: cobra.NoArgs,
	Run:  runStates,
}

func runStates(cmd *cobra.Command, args []string) {
	states := state.NewManager(nil)
	env := &castle.Env{
		Sched:  clock.New(clock.DefaultConfig()),
		States: states,
		Events: event.NewDispatcher(castle.Events()...),
		Config: config.DefaultGameConfig(),
	}
	if err := castle.Register(env); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	factories := states.Registered()

	fmt.Println("Registered states:")
	fmt.Println()
	for _, name := range states.Names() {
		fmt.Printf("  %-10s %T\n", name, factories[name]())
	}
	fmt.Println()
	fmt.Printf("Events: %v\n", castle.Events())
}
