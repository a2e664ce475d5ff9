package clock

// Result is returned by every scheduled callback to tell the scheduler
// whether a repeating item should stay scheduled.
type Result int

const (
	Continue Result = iota // Keep the item scheduled (ignored for one-shot items)
	Stop                   // Drop the item after this call
)

// String returns a human-readable name for the result.
func (r Result) String() string {
	switch r {
	case Continue:
		return "Continue"
	case Stop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// Func is a scheduled callback. dt is the time in seconds since the
// item last fired (or since it was scheduled, for the first call).
type Func func(dt float64) Result

// location records where an item currently lives inside its scheduler.
type location int

const (
	locNone     location = iota // Fired, cancelled or never tracked
	locHeap                     // Waiting in the timer heap
	locNextTick                 // Waiting in the next-tick set
	locRunning                  // Popped and executing right now
)

// Item is the handle returned by Scheduler.Schedule.
// Callers may hold on to it to unschedule the callback later but must
// never modify it. All copies of the pointer observe cancellation.
type Item struct {
	fn       Func
	interval float64 // Zero for one-shot items
	lastTS   float64 // Anchor the next dt is measured from
	nextTS   float64 // When the item is due

	owner     *Scheduler
	where     location
	cancelled bool
	everyTick bool // Repeating next-tick item
}

// NextFire returns the time at which the item is due.
func (it *Item) NextFire() float64 {
	return it.nextTS
}

// LastFire returns the time the next dt will be measured from.
func (it *Item) LastFire() float64 {
	return it.lastTS
}

// Interval returns the repeat interval, or 0 for one-shot items.
func (it *Item) Interval() float64 {
	return it.interval
}

// Cancelled reports whether the item was unscheduled.
func (it *Item) Cancelled() bool {
	return it.cancelled
}

// neuter disables the item in place. A heap-resident item stays in the
// heap until it surfaces and is then discarded without being called.
func (it *Item) neuter() {
	it.cancelled = true
	it.interval = 0
	it.everyTick = false
	it.fn = func(float64) Result { return Stop }
}

// itemHeap is a min-heap of items ordered by next fire time.
// Implements container/heap.Interface.
type itemHeap []*Item

func (h itemHeap) Len() int {
	return len(h)
}

func (h itemHeap) Less(i, j int) bool {
	return h[i].nextTS < h[j].nextTS
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(*Item))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// peek returns the earliest item without removing it.
func (h itemHeap) peek() *Item {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

// Pending reports whether the item is still waiting to fire. It is
// false once a one-shot item has run, after a repeating item returned
// Stop and after the item was unscheduled.
func (it *Item) Pending() bool {
	return !it.cancelled && it.where != locNone
}
