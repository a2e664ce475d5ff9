package state

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

var (
	// ErrDuplicateState is returned when a name is registered twice with
	// different state types.
	ErrDuplicateState = errors.New("state: duplicate state name")

	// ErrUnknownState is returned when pushing a name that was never registered.
	ErrUnknownState = errors.New("state: unknown state")

	// ErrEmptyStack is returned when popping with no state on the stack.
	ErrEmptyStack = errors.New("state: pop from empty stack")
)

// slot is one stacked state instance.
type slot struct {
	name  string
	state State
	phase phase
}

// Manager owns the registered state factories and the active stack.
// It is driven from the game loop and is not safe for concurrent use.
type Manager struct {
	logger *log.Logger
	reg    *registry
	stack  []*slot // Top of the stack is the last element
	done   bool
}

// NewManager creates an empty manager. A nil logger discards output.
func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		logger: logger,
		reg:    newRegistry(),
	}
}

// Register makes the state built by f available to Push under its name.
func (m *Manager) Register(f Factory) error {
	name, err := m.reg.add(f)
	if err != nil {
		return err
	}
	m.logger.Debug("state registered", "name", name)
	return nil
}

// MustRegister is like Register but panics on error.
func (m *Manager) MustRegister(f Factory) {
	if err := m.Register(f); err != nil {
		panic(err)
	}
}

// Push pauses the current state, creates a new instance of the named
// state, starts it and puts it on top of the stack. Its first Resume is
// deferred to the next Current call.
func (m *Manager) Push(name string) (State, error) {
	f, ok := m.reg.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}

	// Resolve first so a state still waiting for its resume gets it
	// before it is paused.
	if cur := m.Current(); cur != nil {
		cur.Pause()
	}

	s := f()
	sl := &slot{name: name, state: s, phase: phaseNotStarted}
	s.Startup()
	sl.phase = phasePendingResume

	m.stack = append(m.stack, sl)
	m.done = false
	m.logger.Debug("state pushed", "name", name, "depth", len(m.stack))
	return s, nil
}

// Pop shuts down the top state and discards it. The state below, if any,
// is resumed on the next Current call; otherwise the manager is done.
func (m *Manager) Pop() error {
	if len(m.stack) == 0 {
		return ErrEmptyStack
	}

	top := m.stack[len(m.stack)-1]
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	top.state.Shutdown()

	if len(m.stack) > 0 {
		m.stack[len(m.stack)-1].phase = phasePendingResume
	} else {
		m.done = true
	}
	m.logger.Debug("state popped", "name", top.name, "depth", len(m.stack))
	return nil
}

// Current returns the top state, or nil when the stack is empty.
// A state that just became the top is resumed here, once.
func (m *Manager) Current() State {
	if len(m.stack) == 0 {
		return nil
	}

	top := m.stack[len(m.stack)-1]
	if top.phase == phasePendingResume {
		top.phase = phaseActive
		top.state.Resume()
	}
	return top.state
}

// CurrentName returns the name of the top state without resuming it,
// or "" when the stack is empty.
func (m *Manager) CurrentName() string {
	if len(m.stack) == 0 {
		return ""
	}
	return m.stack[len(m.stack)-1].name
}

// Depth returns the number of stacked states.
func (m *Manager) Depth() int {
	return len(m.stack)
}

// Done reports whether the last state was popped. The outer loop decides
// what to do about it.
func (m *Manager) Done() bool {
	return m.done
}

// Registered returns a copy of the name to factory table.
func (m *Manager) Registered() map[string]Factory {
	return m.reg.snapshot()
}

// Names returns the registered state names, sorted.
func (m *Manager) Names() []string {
	return m.reg.names()
}
