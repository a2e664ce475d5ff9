package castle

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/castlebats/internal/clock"
)

// timer is a callback scheduled through timers. The scheduler item under
// it is replaced when its owner is suspended and resumed, so callers keep
// the timer rather than the item.
type timer struct {
	fn       clock.Func
	interval float64 // Zero for one-shot timers
	soft     bool
	tick     bool // Runs on every tick
	item     *clock.Item

	held      bool    // Suspended, waiting for resume
	left      float64 // Time still to wait when resumed
	spent     float64 // Active time since the last firing, added to the next dt
	cancelled bool
}

// Pending reports whether the timer will still fire.
func (tm *timer) Pending() bool {
	return tm.held || (tm.item != nil && tm.item.Pending())
}

// timers schedules callbacks for one owner and remembers them so they
// can all be suspended, resumed or cancelled together.
type timers struct {
	sched  *clock.Scheduler
	logger *log.Logger
	items  []*timer
	held   bool
}

func newTimers(sched *clock.Scheduler, logger *log.Logger) *timers {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &timers{sched: sched, logger: logger}
}

// after runs fn once, delay seconds from now.
func (t *timers) after(delay float64, fn func()) *timer {
	return t.start(&timer{fn: func(float64) clock.Result {
		fn()
		return clock.Stop
	}}, delay)
}

// every runs fn every interval seconds until it returns Stop. soft lets
// the scheduler shift the phase away from busy slots.
func (t *timers) every(interval float64, soft bool, fn clock.Func) *timer {
	return t.start(&timer{fn: fn, interval: interval, soft: soft}, interval)
}

// eachTick runs fn on every tick until it returns Stop.
func (t *timers) eachTick(fn clock.Func) *timer {
	return t.start(&timer{fn: fn, tick: true}, 0)
}

func (t *timers) start(tm *timer, delay float64) *timer {
	if t.held {
		tm.held = true
		tm.left = delay
	} else if !t.arm(tm, delay) {
		return nil
	}
	t.prune()
	t.items = append(t.items, tm)
	return tm
}

// arm schedules tm to fire delay seconds from now. A repeating timer
// armed part way through its interval fires once after delay and then
// falls back into its regular cadence.
func (t *timers) arm(tm *timer, delay float64) bool {
	var err error
	switch {
	case tm.tick:
		tm.item, err = t.sched.Schedule(tm.fn, 0, true, false)
	case tm.interval > 0 && delay == tm.interval:
		tm.item, err = t.sched.Schedule(tm.fn, delay, true, tm.soft)
	case tm.interval > 0:
		tm.item, err = t.sched.Once(func(dt float64) clock.Result {
			res := tm.fn(tm.spent + dt)
			tm.spent = 0
			if res == clock.Continue && !tm.cancelled {
				t.arm(tm, tm.interval)
			}
			return clock.Stop
		}, delay)
	default:
		tm.item, err = t.sched.Once(tm.fn, delay)
	}
	if err != nil {
		t.logger.Error("failed to schedule timer", "delay", delay, "err", err)
		tm.item = nil
		return false
	}
	return true
}

// suspend takes every pending timer off the scheduler and remembers how
// long each still had to wait. Time passing while suspended does not count.
func (t *timers) suspend() {
	if t.held {
		return
	}
	t.held = true
	t.prune()

	now := t.sched.Time()
	for _, tm := range t.items {
		if !tm.tick {
			tm.left = max(0, tm.item.NextFire()-now)
			if tm.interval > 0 {
				tm.spent += max(0, now-tm.item.LastFire())
			}
		}
		t.sched.Unschedule(tm.item)
		tm.item = nil
		tm.held = true
	}
}

// resume puts suspended timers back on the scheduler.
func (t *timers) resume() {
	if !t.held {
		return
	}
	t.held = false
	for _, tm := range t.items {
		if !tm.held {
			continue
		}
		tm.held = false
		t.arm(tm, tm.left)
	}
	t.prune()
}

// cancel stops tm if it is still pending. Nil is fine.
func (t *timers) cancel(tm *timer) {
	if tm == nil {
		return
	}
	tm.cancelled = true
	tm.held = false
	if tm.item != nil && tm.item.Pending() {
		t.sched.Unschedule(tm.item)
	}
	tm.item = nil
}

// cancelAll stops every pending timer.
func (t *timers) cancelAll() {
	for _, tm := range t.items {
		t.cancel(tm)
	}
	t.items = nil
}

// prune forgets timers that already finished.
func (t *timers) prune() {
	kept := t.items[:0]
	for _, tm := range t.items {
		if tm.Pending() {
			kept = append(kept, tm)
		}
	}
	for i := len(kept); i < len(t.items); i++ {
		t.items[i] = nil
	}
	t.items = kept
}

// count returns the number of pending timers.
func (t *timers) count() int {
	t.prune()
	return len(t.items)
}

// hold keeps an input active for a while after its key press. Terminals
// report presses and repeats but no releases, so each press restarts the
// release timer.
type hold struct {
	t      *timers
	dur    float64
	item   *timer
	active bool
}

func (h *hold) press() {
	h.t.cancel(h.item)
	h.active = true
	h.item = h.t.after(h.dur, func() {
		h.active = false
		h.item = nil
	})
}

func (h *hold) release() {
	h.t.cancel(h.item)
	h.item = nil
	h.active = false
}
