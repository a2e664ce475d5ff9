package core

// Color is the foreground colour of a screen cell. The platform maps
// each value to a terminal colour.
type Color uint8

// Colours drawn by the castle and the HUD. Walls and hints are gray,
// the hero bright white and zombies green. Traps and corpses are red.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorGray
	ColorBrightRed
	ColorBrightWhite
	ColorBrightYellow
)

