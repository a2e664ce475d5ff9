package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/castlebats/internal/core"
)

// palette holds the ANSI colour for every core.Color.
var palette = map[core.Color]string{
	core.ColorRed:          "1",
	core.ColorGreen:        "2",
	core.ColorYellow:       "3",
	core.ColorCyan:         "6",
	core.ColorWhite:        "7",
	core.ColorGray:         "245",
	core.ColorBrightRed:    "9",
	core.ColorBrightWhite:  "15",
	core.ColorBrightYellow: "11",
}

// Renderer turns screen buffers into styled terminal output.
type Renderer struct {
	styles map[core.Color]lipgloss.Style
	plain  lipgloss.Style
	panel  lipgloss.Style
	title  lipgloss.Style
	help   lipgloss.Style
}

// NewRenderer creates a renderer using lipgloss's default renderer.
func NewRenderer() *Renderer {
	return NewRendererFor(lipgloss.DefaultRenderer())
}

// NewRendererFor creates a renderer bound to r, so colour detection
// follows a specific output such as an SSH session.
func NewRendererFor(r *lipgloss.Renderer) *Renderer {
	styles := make(map[core.Color]lipgloss.Style, len(palette))
	for c, ansi := range palette {
		styles[c] = r.NewStyle().Foreground(lipgloss.Color(ansi))
	}
	panel := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 3).
		Align(lipgloss.Center)
	return &Renderer{
		styles: styles,
		plain:  r.NewStyle(),
		panel:  panel,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		help:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (r *Renderer) style(c core.Color) lipgloss.Style {
	if s, ok := r.styles[c]; ok {
		return s
	}
	return r.plain
}

// Screen converts a screen buffer to a styled string. Adjacent cells of
// the same colour share one escape sequence.
func (r *Renderer) Screen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(r.style(color).Render(run.String()))
		}
	}
	return sb.String()
}

// Panel renders a bordered message box.
func (r *Renderer) Panel(title string, lines ...string) string {
	body := append([]string{r.title.Render(title), ""}, lines...)
	return r.panel.Render(strings.Join(body, "\n"))
}

// Help renders a dimmed help line.
func (r *Renderer) Help(s string) string {
	return r.help.Render(s)
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
