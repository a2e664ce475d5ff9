package castle

import "math"

// platform is a moving ledge that travels up from its map row and back
// down. Bodies can stand on it but pass through it from below.
type platform struct {
	x, y  float64 // Left edge and top surface
	w     int
	baseY float64 // Lowest surface position
	topY  float64 // Highest surface position
	dir   float64 // -1 rising, 1 sinking
}

func newPlatform(s platformSpan, lift float64) *platform {
	y := float64(s.Y)
	return &platform{
		x:     float64(s.X),
		y:     y,
		w:     s.W,
		baseY: y,
		topY:  y - lift,
		dir:   -1,
	}
}

// step moves the platform by speed*dt and returns the vertical offset.
func (p *platform) step(dt, speed float64) float64 {
	if p.baseY == p.topY {
		return 0
	}
	old := p.y
	p.y += p.dir * speed * dt
	if p.y <= p.topY {
		p.y = p.topY
		p.dir = 1
	} else if p.y >= p.baseY {
		p.y = p.baseY
		p.dir = -1
	}
	return p.y - old
}

// under reports whether b overlaps the platform horizontally.
func (p *platform) under(b *body) bool {
	return b.pos.X < p.x+float64(p.w) && b.pos.X+b.w > p.x
}

// row returns the screen row the platform is drawn on.
func (p *platform) row() int {
	return int(math.Floor(p.y + 0.5))
}
