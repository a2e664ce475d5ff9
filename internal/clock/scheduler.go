// Package clock provides the cooperative frame scheduler that drives all
// timed game logic. The scheduler never runs on its own: the game loop
// calls Tick once per frame and every due callback fires synchronously
// inside that call.
//
// A Scheduler is not safe for concurrent use. Code running on another
// goroutine must hold its own lock around every call.
package clock

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrNextTickFull is returned when too many next-tick items are pending.
	// It indicates runaway scheduling and should be treated as fatal.
	ErrNextTickFull = errors.New("clock: next-tick capacity exceeded")

	// ErrSoftWithoutDelay is returned when soft scheduling is requested with no delay.
	ErrSoftWithoutDelay = errors.New("clock: soft scheduling requires a positive delay")

	// ErrNegativeDelay is returned for delays below zero.
	ErrNegativeDelay = errors.New("clock: negative delay")
)

// Config controls scheduler behaviour. Zero fields take the values from
// DefaultConfig.
type Config struct {
	Now              func() float64 // Monotonic time source in seconds
	NextTickLimit    int            // Max pending next-tick items
	CatchUpThreshold float64        // Lag below which a late timer is simply pushed forward
	SoftDivisions    int            // Max subdivisions tried by the soft slot search
	ClusterWindow    float64        // Scheduling within this window of the last tick reuses its timestamp
	IntervalSamples  int            // Number of frame deltas averaged by Interval
	Logger           *log.Logger
}

// DefaultConfig returns the standard scheduler settings.
func DefaultConfig() Config {
	return Config{
		Now:              monotonic(),
		NextTickLimit:    10,
		CatchUpThreshold: 0.05,
		SoftDivisions:    16,
		ClusterWindow:    0.2,
		IntervalSamples:  10,
	}
}

// monotonic returns a time source counting seconds from its creation.
func monotonic() func() float64 {
	start := time.Now()
	return func() float64 {
		return time.Since(start).Seconds()
	}
}

// Scheduler fires callbacks at requested times, driven by Tick.
type Scheduler struct {
	cfg    Config
	logger *log.Logger

	lastTS     float64 // Timestamp of the last tick, -1 before the first
	cumulative float64
	times      deltaRing

	items    itemHeap
	nextTick []*Item
	current  *Item // Item executing inside CallScheduled
}

// New creates a scheduler. Missing config fields fall back to defaults.
func New(cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if cfg.NextTickLimit <= 0 {
		cfg.NextTickLimit = def.NextTickLimit
	}
	if cfg.CatchUpThreshold <= 0 {
		cfg.CatchUpThreshold = def.CatchUpThreshold
	}
	if cfg.SoftDivisions <= 0 {
		cfg.SoftDivisions = def.SoftDivisions
	}
	if cfg.ClusterWindow <= 0 {
		cfg.ClusterWindow = def.ClusterWindow
	}
	if cfg.IntervalSamples <= 0 {
		cfg.IntervalSamples = def.IntervalSamples
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Scheduler{
		cfg:    cfg,
		logger: logger,
		lastTS: -1,
		times:  newDeltaRing(cfg.IntervalSamples),
	}
}

// nearestTS returns the timestamp new items are anchored to. Items
// scheduled shortly after a tick share that tick's timestamp so that
// things scheduled in the same frame fire together.
func (s *Scheduler) nearestTS() float64 {
	last := s.lastTS
	ts := s.cfg.Now()
	if ts-last > s.cfg.ClusterWindow {
		last = ts
	}
	return last
}

// Schedule registers fn to run after delay seconds.
//
// A zero delay puts the item in the next-tick set: it runs on the very
// next Tick regardless of timer precision, once, or on every tick when
// repeat is set. With a positive delay the item runs once after delay
// seconds, or every delay seconds when repeat is set, until fn returns
// Stop or the item is unscheduled. soft lets the scheduler shift the
// first firing into a less crowded slot.
func (s *Scheduler) Schedule(fn Func, delay float64, repeat, soft bool) (*Item, error) {
	if delay < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeDelay, delay)
	}
	if soft && delay == 0 {
		return nil, ErrSoftWithoutDelay
	}

	last := s.nearestTS()
	if soft {
		next := s.softNextTS(last, delay)
		last = next - delay
	}

	it := &Item{
		fn:     fn,
		lastTS: last,
		nextTS: last + delay,
		owner:  s,
	}
	if repeat {
		it.interval = delay
	}

	if delay == 0 {
		if len(s.nextTick) >= s.cfg.NextTickLimit {
			return nil, fmt.Errorf("%w: limit %d", ErrNextTickFull, s.cfg.NextTickLimit)
		}
		it.everyTick = repeat
		it.where = locNextTick
		s.nextTick = append(s.nextTick, it)
		return it, nil
	}

	it.where = locHeap
	heap.Push(&s.items, it)
	return it, nil
}

// Once schedules fn to run a single time after delay seconds.
func (s *Scheduler) Once(fn Func, delay float64) (*Item, error) {
	return s.Schedule(fn, delay, false, false)
}

// Every schedules fn to run every interval seconds.
func (s *Scheduler) Every(fn Func, interval float64) (*Item, error) {
	return s.Schedule(fn, interval, true, false)
}

// EverySoft is like Every but lets the scheduler pick a phase that keeps
// clear of other items with similar timing.
func (s *Scheduler) EverySoft(fn Func, interval float64) (*Item, error) {
	return s.Schedule(fn, interval, true, true)
}

// NextTick schedules fn to run once on the next Tick.
func (s *Scheduler) NextTick(fn Func) (*Item, error) {
	return s.Schedule(fn, 0, false, false)
}

// Tick reads the time source, fires every due callback and returns the
// seconds elapsed since the previous Tick (0 on the first call).
func (s *Scheduler) Tick() float64 {
	dt := s.SetTime(s.cfg.Now())
	s.times.push(dt)
	s.CallScheduled(dt)
	return dt
}

// SetTime moves the clock to ts without firing anything and returns the
// difference from the previous time, or 0 if this is the first update.
func (s *Scheduler) SetTime(ts float64) float64 {
	var dt float64
	if s.lastTS >= 0 {
		dt = ts - s.lastTS
	}
	s.cumulative += dt
	s.lastTS = ts
	return dt
}

// CallScheduled fires the callbacks that are due at the time of the last
// update. dt is passed to next-tick items. Returns true if any next-tick
// item was pending.
func (s *Scheduler) CallScheduled(dt float64) bool {
	now := s.lastTS
	result := false

	if len(s.nextTick) > 0 {
		result = true
		s.fireNextTick(dt)
	}

	if top := s.items.peek(); top == nil || top.nextTS > now {
		return result
	}

	// An item that must go back into the heap is held in it and pushed in
	// the same operation that pops the following one.
	var it *Item
	replace := false

	for s.items.Len() > 0 {
		if replace {
			it = s.pushPop(it)
		} else {
			it = heap.Pop(&s.items).(*Item)
		}

		if it.nextTS > now {
			replace = true
			break
		}

		it.where = locRunning
		s.current = it
		res := it.fn(now - it.lastTS)
		s.current = nil

		if it.interval > 0 && !it.cancelled && res != Stop {
			replace = true
			s.advance(it, now)
			it.where = locHeap
		} else {
			replace = false
			it.where = locNone
		}
	}

	if replace {
		it.where = locHeap
		heap.Push(&s.items, it)
	}

	return result
}

// fireNextTick runs a snapshot of the next-tick set. Items added while
// it runs wait for the following tick.
func (s *Scheduler) fireNextTick(dt float64) {
	pending := append([]*Item(nil), s.nextTick...)
	for _, it := range pending {
		if it.where != locNextTick {
			continue
		}

		it.where = locRunning
		s.current = it
		res := it.fn(dt)
		s.current = nil

		if it.everyTick && !it.cancelled && res != Stop {
			it.where = locNextTick
		} else {
			it.where = locNone
		}
	}

	kept := s.nextTick[:0]
	for _, it := range s.nextTick {
		if it.where == locNextTick {
			kept = append(kept, it)
		}
	}
	for i := len(kept); i < len(s.nextTick); i++ {
		s.nextTick[i] = nil
	}
	s.nextTick = kept
}

// advance computes the next due time of a repeating item that just
// fired at now. The interval is counted from the previous firing, so an
// item that fired late is due again one interval after now.
func (s *Scheduler) advance(it *Item, now float64) {
	it.nextTS = it.lastTS + it.interval
	it.lastTS = now

	if it.nextTS > now {
		return
	}

	if now-it.nextTS < s.cfg.CatchUpThreshold {
		it.nextTS = now + it.interval
		return
	}

	// Missed by a wide margin: re-slot softly instead of firing in a burst.
	// The next dt will not be accurate.
	it.nextTS = s.softNextTS(now, it.interval)
	it.lastTS = it.nextTS - it.interval
}

// pushPop pushes it and pops the smallest item in one step.
func (s *Scheduler) pushPop(it *Item) *Item {
	if top := s.items.peek(); top != nil && top.nextTS < it.nextTS {
		it.where = locHeap
		s.items[0] = it
		heap.Fix(&s.items, 0)
		return top
	}
	return it
}

// Unschedule cancels the item behind h. Heap items are disabled in place
// and discarded when they come due; next-tick items are removed outright.
// An item may unschedule itself while it is running.
// Unknown handles are logged and ignored.
func (s *Scheduler) Unschedule(h *Item) {
	if h == nil || h.owner != s || h.cancelled || h.where == locNone {
		s.logger.Warn("unschedule of untracked item ignored", "item", fmt.Sprintf("%p", h))
		return
	}

	switch h.where {
	case locNextTick:
		h.neuter()
		h.where = locNone
		s.removeNextTick(h)
	case locRunning:
		// Not in the heap right now; the flag stops the reinsertion.
		h.neuter()
	default:
		h.neuter()
	}
}

// removeNextTick drops h from the next-tick set.
func (s *Scheduler) removeNextTick(h *Item) {
	for i, it := range s.nextTick {
		if it == h {
			copy(s.nextTick[i:], s.nextTick[i+1:])
			s.nextTick[len(s.nextTick)-1] = nil
			s.nextTick = s.nextTick[:len(s.nextTick)-1]
			return
		}
	}
}

// Interval returns the average time between the recent ticks, or 0
// before the first tick. Useful for reporting frame rate.
func (s *Scheduler) Interval() float64 {
	return s.times.mean()
}

// FPS returns the frame rate implied by Interval, or 0 when unknown.
func (s *Scheduler) FPS() float64 {
	iv := s.Interval()
	if iv <= 0 {
		return 0
	}
	return 1 / iv
}

// IdleTime returns the time until the next item is due, clamped at 0.
// ok is false when nothing is scheduled.
func (s *Scheduler) IdleTime() (idle float64, ok bool) {
	if len(s.nextTick) > 0 {
		return 0, true
	}

	top := s.items.peek()
	if top == nil {
		return 0, false
	}

	idle = top.nextTS - s.cfg.Now()
	if idle < 0 {
		idle = 0
	}
	return idle, true
}

// Time returns the timestamp of the last tick, or -1 before the first.
// Due times of items are measured on the same scale.
func (s *Scheduler) Time() float64 {
	return s.lastTS
}

// CumulativeTime returns the total time the clock has advanced.
func (s *Scheduler) CumulativeTime() float64 {
	return s.cumulative
}

// Pending returns the number of tracked items, including cancelled heap
// items that have not surfaced yet.
func (s *Scheduler) Pending() int {
	return s.items.Len() + len(s.nextTick)
}

// Executing returns the item whose callback is running, or nil.
func (s *Scheduler) Executing() *Item {
	return s.current
}
