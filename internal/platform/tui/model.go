package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/game"
	"github.com/vovakirdan/castlebats/internal/storage"
)

// Options configures one terminal play session.
type Options struct {
	Config     config.GameConfig
	Runtime    core.RuntimeConfig
	Difficulty string // Recorded with saved runs
	Player     string
	Map        string // ASCII level; empty means the built-in one
	Store      *storage.Store
	Logger     *log.Logger
	Renderer   *Renderer
	Now        func() float64 // Game time source; nil means wall clock
}

// Model is the Bubble Tea model that hosts a castlebats session.
type Model struct {
	opts     Options
	game     *game.Game
	screen   *core.Screen
	input    core.InputFrame
	keys     KeyMap
	help     help.Model
	render   *Renderer
	logger   *log.Logger
	started  time.Time
	final    core.Status
	over     bool // The session ended and the summary is shown
	saved    bool // Whether the run has been recorded
	quitReq  bool // Quit was pressed; exit once the session ends
	quitting bool
}

// NewModel creates a model and starts the first session.
func NewModel(opts Options) (Model, error) {
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Renderer == nil {
		opts.Renderer = NewRenderer()
	}

	m := Model{
		opts:   opts,
		screen: core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH-1),
		input:  core.NewInputFrame(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		render: opts.Renderer,
		logger: opts.Logger,
	}
	m.help.Width = opts.Runtime.ScreenW
	if err := m.startGame(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// startGame replaces the session with a fresh one.
func (m *Model) startGame() error {
	g, err := game.New(game.Options{
		Config: m.opts.Config,
		Seed:   m.opts.Runtime.Seed,
		Map:    m.opts.Map,
		Now:    m.opts.Now,
		Logger: m.logger,
	})
	if err != nil {
		return fmt.Errorf("tui: start game: %w", err)
	}
	m.game = g
	m.started = time.Now()
	m.final = core.Status{}
	m.over = false
	m.saved = false
	m.quitReq = false
	m.input.Clear()
	m.keys.Restart.SetEnabled(false)
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Abort):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.over {
		switch m.keys.Action(msg) {
		case core.ActionQuit, core.ActionBack:
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Restart) {
			if err := m.startGame(); err != nil {
				m.logger.Error("failed to restart", "err", err)
				m.quitting = true
				return m, tea.Quit
			}
			return m, tickCmd(m.opts.Runtime.TickRate)
		}
		return m, nil
	}

	a := m.keys.Action(msg)
	if a == core.ActionQuit {
		m.quitReq = true
	}
	if a != core.ActionNone {
		m.input.Set(a)
	}
	return m, nil
}

// handleTick runs one game frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.over {
		return m, nil
	}

	running := m.game.Step(m.input)
	m.input.Clear()

	st := m.game.Status()
	if running && !st.Done {
		return m, tickCmd(m.opts.Runtime.TickRate)
	}

	m.finish(st)
	if m.quitReq {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// finish records the ended session once.
func (m *Model) finish(st core.Status) {
	m.over = true
	m.final = st
	m.keys.Restart.SetEnabled(true)
	if m.saved || m.opts.Store == nil || st.Score == 0 {
		return
	}
	m.saved = true

	run := storage.Run{
		Player:     m.opts.Player,
		Score:      st.Score,
		Kills:      st.Kills,
		Seed:       m.game.Seed(),
		Difficulty: m.opts.Difficulty,
		Duration:   time.Since(m.started).Round(time.Second),
	}
	id, err := m.opts.Store.SaveRun(run)
	if err != nil {
		m.logger.Error("failed to save run", "err", err)
		return
	}
	m.logger.Info("run saved", "id", id, "score", st.Score, "kills", st.Kills)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.over {
		body = lipgloss.Place(m.screen.Width(), m.screen.Height(), lipgloss.Center, lipgloss.Center, m.summary())
	} else {
		m.game.Render(m.screen)
		body = m.render.Screen(m.screen)
	}
	return body + "\n" + m.render.Help(m.help.View(m.keys))
}

// summary describes the ended session.
func (m Model) summary() string {
	title := "GAME OVER"
	if m.final.Lives > 0 {
		title = "LEFT THE CASTLE"
	}
	lines := []string{
		fmt.Sprintf("Score  %d", m.final.Score),
		fmt.Sprintf("Kills  %d", m.final.Kills),
	}
	if m.saved {
		lines = append(lines, "", "Run saved.")
	}
	lines = append(lines, "", "r: play again   q: quit")
	return m.render.Panel(title, lines...)
}

// Status returns the live or final status of the session.
func (m Model) Status() core.Status {
	if m.over {
		return m.final
	}
	return m.game.Status()
}

// Over reports whether the session ended.
func (m Model) Over() bool {
	return m.over
}

// Run starts the Bubble Tea program for a local terminal.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
