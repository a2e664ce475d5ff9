// Package state keeps the stack of game modes (level, pause screen, ...)
// and drives their lifecycle. Only the top of the stack is updated and
// drawn; the states below it are paused.
package state

import (
	"reflect"

	"github.com/vovakirdan/castlebats/internal/core"
)

// State is a game mode managed by a Manager.
//
// The manager calls Startup once after the state is created, Resume every
// time the state becomes the top of the stack (lazily, on the next call to
// Current), Pause when another state is pushed over it and Shutdown when
// it is popped. A popped state is discarded and never pushed again.
type State interface {
	// Draw renders the state into area of dst.
	Draw(dst *core.Screen, area core.Rect)

	// Update advances the state by dt seconds.
	Update(dt float64)

	Startup()
	Resume()
	Pause()
	Shutdown()
}

// Namer is implemented by states that want a registration name other
// than their Go type name.
type Namer interface {
	Name() string
}

// Factory creates a fresh instance of a state. Register calls it once to
// learn the name and type, then Push calls it for every instance, so it
// should only allocate. Loading belongs in Startup.
type Factory func() State

// Base provides no-op lifecycle methods. Embed it and override what the
// state needs.
type Base struct{}

func (Base) Draw(*core.Screen, core.Rect) {}
func (Base) Update(float64)              {}
func (Base) Startup()                    {}
func (Base) Resume()                     {}
func (Base) Pause()                      {}
func (Base) Shutdown()                   {}

// NameOf returns the registration name of s.
func NameOf(s State) string {
	if n, ok := s.(Namer); ok {
		return n.Name()
	}
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// phase tracks where a stacked instance is in its lifecycle.
type phase int

const (
	phaseNotStarted    phase = iota // Created, Startup not called yet
	phasePendingResume              // Resume fires on the next Current call
	phaseActive                     // Resumed and running
)
