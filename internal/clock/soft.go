package clock

import "sort"

// softNextTS finds a fire time near last+interval that is not already
// crowded by other items. When the preferred slot is taken the interval
// is split into ever finer fractions and each boundary is tried in turn.
// If no free slot turns up the preferred slot is used anyway.
func (s *Scheduler) softNextTS(last, interval float64) float64 {
	times := s.sortedNextTimes()

	// taken reports whether an item is scheduled within e of ts.
	taken := func(ts, e float64) bool {
		i := sort.SearchFloat64s(times, ts-e)
		return i < len(times) && times[i] <= ts+e
	}

	preferred := last + interval
	if !taken(preferred, interval/4) {
		return preferred
	}

	dt := interval
	divs := 1
	for {
		next := last
		for i := 0; i < divs-1; i++ {
			next += dt
			if !taken(next, dt/4) {
				return next
			}
		}
		dt /= 2
		divs *= 2

		if divs > s.cfg.SoftDivisions {
			return preferred
		}
	}
}

// sortedNextTimes returns the due times of all heap items in ascending
// order. The heap itself is only partially ordered.
func (s *Scheduler) sortedNextTimes() []float64 {
	times := make([]float64, len(s.items))
	for i, it := range s.items {
		times[i] = it.nextTS
	}
	sort.Float64s(times)
	return times
}

// deltaRing keeps the most recent frame deltas.
type deltaRing struct {
	buf  []float64
	next int
	full bool
}

func newDeltaRing(size int) deltaRing {
	return deltaRing{buf: make([]float64, size)}
}

func (r *deltaRing) push(v float64) {
	r.buf[r.next] = v
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

func (r *deltaRing) len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

func (r *deltaRing) mean() float64 {
	n := r.len()
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range r.buf[:n] {
		sum += v
	}
	return sum / float64(n)
}
