package castle

import (
	"math"

	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
)

// Physics steps are split so nothing moves more than a fraction of a
// tile per step.
const (
	maxStep    = 1.0 / 60
	maxElapsed = 0.25
	skin       = 1e-6
)

// body is a moving box in world units. pos is the top-left corner.
type body struct {
	pos      core.Vec
	w, h     float64
	vel      core.Vec
	grounded bool
	riding   *platform
}

func (b *body) box() core.Box {
	return core.Box{X: b.pos.X, Y: b.pos.Y, W: b.w, H: b.h}
}

func (b *body) bottom() float64 {
	return b.pos.Y + b.h
}

func (b *body) centerX() float64 {
	return b.pos.X + b.w/2
}

func (b *body) span() boxSpan {
	return span(b.pos.X, b.pos.Y, b.w, b.h)
}

// world resolves movement against the tile map and moving platforms.
type world struct {
	tiles     *TileMap
	platforms []*platform
	cfg       config.WorldConfig
}

// substeps splits dt into physics steps.
func substeps(dt float64) (n int, step float64) {
	dt = core.ClampF(dt, 0, maxElapsed)
	if dt == 0 {
		return 0, 0
	}
	n = int(math.Ceil(dt / maxStep))
	return n, dt / float64(n)
}

// fall applies gravity and moves b by its velocity. It reports whether
// horizontal movement was blocked.
func (w *world) fall(b *body, dt float64) bool {
	b.vel.Y = math.Min(b.vel.Y+w.cfg.Gravity*dt, w.cfg.MaxFallSpeed)
	blocked := w.moveX(b, b.vel.X*dt)
	if blocked {
		b.vel.X = 0
	}
	w.moveY(b, b.vel.Y*dt, false)
	return blocked
}

// moveX moves b horizontally and stops it at solid tiles.
func (w *world) moveX(b *body, dx float64) bool {
	if dx == 0 {
		return false
	}
	b.pos.X += dx
	s := b.span()

	for y := s.y0; y <= s.y1; y++ {
		if dx > 0 && w.tiles.Solid(s.x1, y) {
			b.pos.X = float64(s.x1) - b.w
			return true
		}
		if dx < 0 && w.tiles.Solid(s.x0, y) {
			b.pos.X = float64(s.x0 + 1)
			return true
		}
	}
	return false
}

// moveY moves b vertically. Falling bodies land on solid tiles, ladder
// tops (unless climbing) and moving platforms; rising bodies bump their
// heads on solid tiles only.
func (w *world) moveY(b *body, dy float64, climbing bool) {
	if dy == 0 {
		return
	}
	prevBottom := b.bottom()
	b.pos.Y += dy
	s := b.span()

	if dy < 0 {
		for x := s.x0; x <= s.x1; x++ {
			if w.tiles.Solid(x, s.y0) {
				b.pos.Y = float64(s.y0 + 1)
				b.vel.Y = 0
				return
			}
		}
		return
	}

	b.grounded = false
	b.riding = nil

	for x := s.x0; x <= s.x1; x++ {
		top := float64(s.y1)
		if w.tiles.Solid(x, s.y1) || (!climbing && w.tiles.StairsTop(x, s.y1) && prevBottom <= top+skin) {
			w.land(b, top)
			return
		}
	}

	if climbing {
		return
	}
	for _, p := range w.platforms {
		if p.under(b) && prevBottom <= p.y+skin && b.bottom() >= p.y {
			w.land(b, p.y)
			b.riding = p
			return
		}
	}
}

func (w *world) land(b *body, surface float64) {
	b.pos.Y = surface - b.h
	b.vel.Y = 0
	b.grounded = true
}

// supportAhead reports whether a body walking in dir would still have
// safe ground under its leading edge.
func (w *world) supportAhead(b *body, dir float64) bool {
	fx := b.pos.X - 0.05
	if dir > 0 {
		fx = b.pos.X + b.w + 0.05
	}
	tx := int(math.Floor(fx))
	ty := int(math.Floor(b.bottom() + 0.01))

	if w.tiles.At(tx, ty-1) == TileTrap {
		return false
	}
	if w.tiles.Solid(tx, ty) || w.tiles.StairsTop(tx, ty) {
		return true
	}
	for _, p := range w.platforms {
		if fx >= p.x && fx < p.x+float64(p.w) && math.Abs(p.y-b.bottom()) < 0.1 {
			return true
		}
	}
	return false
}

// below reports whether b has dropped under the map.
func (w *world) below(b *body) bool {
	return b.pos.Y > float64(w.tiles.Height())
}
