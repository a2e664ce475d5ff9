package castle

import "github.com/vovakirdan/castlebats/internal/core"

// zombie walks until it reaches a wall or a ledge and then turns around.
type zombie struct {
	body
	dir   float64
	alive bool
	anim  Animator
}

func newZombie(t *timers, x, y int) *zombie {
	z := &zombie{
		body: body{
			pos: core.Vec{X: float64(x) + (1-actorW)/2, Y: float64(y) + 1 - actorH},
			w:   actorW,
			h:   actorH,
		},
		dir:   -1,
		alive: true,
		anim:  newAnimator(t),
	}
	z.anim.Play(animZombieWalk)
	return z
}

func (z *zombie) step(w *world, dt, speed float64) {
	z.vel.X = z.dir * speed
	if w.fall(&z.body, dt) {
		z.dir = -z.dir
		return
	}
	if z.grounded && !w.supportAhead(&z.body, z.dir) {
		z.dir = -z.dir
	}
}

func (z *zombie) kill() {
	z.alive = false
	z.anim.Stop()
}
