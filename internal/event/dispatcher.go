// Package event routes named game events to subscribers in the order
// they subscribed. A dispatcher can queue broadcasts and deliver them
// later with Flush, so events raised mid-update are handled at a
// well-defined point of the frame.
package event

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDuplicateEvent is returned when an event name is registered twice.
	ErrDuplicateEvent = errors.New("event: duplicate event name")

	// ErrEventNotRegistered is returned for unknown event names or ids.
	ErrEventNotRegistered = errors.New("event: event not registered")

	// ErrNoQueue is returned by Flush when queueing was never enabled.
	ErrNoQueue = errors.New("event: queue not enabled")
)

// Args carries the payload of a broadcast.
type Args map[string]any

// Event is what a subscriber receives.
type Event struct {
	ID   int
	Name string
	Args Args
}

// Handler consumes an event.
type Handler func(ev Event)

type queued struct {
	id   int
	args Args
}

// Dispatcher holds the registered events and their subscribers.
// It is not safe for concurrent use.
type Dispatcher struct {
	names  []string
	lookup map[string]int
	subs   [][]Handler

	queue   []queued
	queuing bool
}

// NewDispatcher creates a dispatcher with the given events registered.
// It panics if names contains duplicates.
func NewDispatcher(names ...string) *Dispatcher {
	d := &Dispatcher{lookup: make(map[string]int)}
	for _, n := range names {
		if _, err := d.Register(n); err != nil {
			panic(err)
		}
	}
	return d
}

// Register adds an event name and returns its id.
func (d *Dispatcher) Register(name string) (int, error) {
	if _, exists := d.lookup[name]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateEvent, name)
	}

	id := len(d.names)
	d.names = append(d.names, name)
	d.lookup[name] = id
	d.subs = append(d.subs, nil)
	return id, nil
}

// ID returns the id of a registered event name.
func (d *Dispatcher) ID(name string) (int, error) {
	id, ok := d.lookup[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrEventNotRegistered, name)
	}
	return id, nil
}

// Handled returns the registered event names, sorted.
func (d *Dispatcher) Handled() []string {
	out := append([]string(nil), d.names...)
	sort.Strings(out)
	return out
}

// EnableQueue makes broadcasts wait for Flush.
func (d *Dispatcher) EnableQueue() {
	d.queuing = true
}

// Subscribe adds h to the named event and returns the event id.
func (d *Dispatcher) Subscribe(name string, h Handler) (int, error) {
	id, err := d.ID(name)
	if err != nil {
		return 0, err
	}
	return id, d.SubscribeByID(id, h)
}

// SubscribeByID adds h to the event with the given id.
func (d *Dispatcher) SubscribeByID(id int, h Handler) error {
	if id < 0 || id >= len(d.subs) {
		return fmt.Errorf("%w: id %d", ErrEventNotRegistered, id)
	}
	d.subs[id] = append(d.subs[id], h)
	return nil
}

// Broadcast sends the named event to its subscribers, or queues it.
func (d *Dispatcher) Broadcast(name string, args Args) error {
	id, err := d.ID(name)
	if err != nil {
		return err
	}
	return d.BroadcastByID(id, args)
}

// BroadcastByID is Broadcast for a known id.
func (d *Dispatcher) BroadcastByID(id int, args Args) error {
	if id < 0 || id >= len(d.subs) {
		return fmt.Errorf("%w: id %d", ErrEventNotRegistered, id)
	}
	if d.queuing {
		d.queue = append(d.queue, queued{id: id, args: args})
		return nil
	}
	d.deliver(id, args)
	return nil
}

// Pending returns the number of queued broadcasts.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Flush delivers queued broadcasts in order, including any queued by
// the handlers themselves.
func (d *Dispatcher) Flush() error {
	if !d.queuing {
		return ErrNoQueue
	}
	for len(d.queue) > 0 {
		q := d.queue[0]
		d.queue[0] = queued{}
		d.queue = d.queue[1:]
		d.deliver(q.id, q.args)
	}
	d.queue = nil
	return nil
}

func (d *Dispatcher) deliver(id int, args Args) {
	ev := Event{ID: id, Name: d.names[id], Args: args}
	for _, h := range d.subs[id] {
		h(ev)
	}
}
