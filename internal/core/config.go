package core

// RuntimeConfig contains the settings the platform passes to a game session.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second requested from the platform (default 60)
	Seed     int64 // RNG seed for zombie placement and behaviour
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Status summarises a running session for the HUD and score keeping.
type Status struct {
	Score  int  // Points earned this run
	Lives  int  // Remaining hero lives
	Kills  int  // Zombies destroyed
	Done   bool // The state stack is empty; the session is over
	Paused bool // The pause screen is on top
}
