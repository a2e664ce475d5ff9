package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/castlebats/internal/core"
)

// plainRenderer renders without colour, as on a dumb terminal.
func plainRenderer() *Renderer {
	return NewRendererFor(lipgloss.NewRenderer(io.Discard))
}

func TestRendererScreen(t *testing.T) {
	s := core.NewScreen(8, 3)
	s.DrawTextColored(0, 0, "ab", core.ColorRed)
	s.DrawTextColored(2, 0, "cd", core.ColorGreen)
	s.DrawTextColored(1, 2, "@", core.ColorBrightWhite)
	s.SetColored(7, 1, 'x', core.Color(250))

	if got := plainRenderer().Screen(s); got != s.String() {
		t.Errorf("Screen() = %q, expected %q", got, s.String())
	}
}

func TestPaletteCoversColors(t *testing.T) {
	for c := core.ColorRed; c <= core.ColorBrightYellow; c++ {
		if palette[c] == "" {
			t.Errorf("palette[%d] is empty, expected an ANSI colour", c)
		}
	}
	if len(palette) != int(core.ColorBrightYellow) {
		t.Errorf("len(palette) = %d, expected %d", len(palette), core.ColorBrightYellow)
	}
}

func TestRendererPanel(t *testing.T) {
	out := plainRenderer().Panel("GAME OVER", "Score  10", "r: play again")
	for _, want := range []string{"GAME OVER", "Score  10", "r: play again", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("Panel() is missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs     float64
		expected string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{61, "1:01"},
		{600, "10:00"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.secs); got != tc.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", tc.secs, got, tc.expected)
		}
	}
}
