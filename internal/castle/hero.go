package castle

import (
	"math"

	"github.com/vovakirdan/castlebats/internal/config"
	"github.com/vovakirdan/castlebats/internal/core"
)

// Hero and zombie boxes leave a small margin inside their tile.
const (
	actorW = 0.8
	actorH = 0.95
)

// heroMode is the pose the hero is drawn in.
type heroMode int

const (
	heroIdle heroMode = iota
	heroWalking
	heroCrouching
	heroJumping
	heroClimbing
	heroDead
)

// String returns a human-readable name for the mode.
func (m heroMode) String() string {
	switch m {
	case heroIdle:
		return "idle"
	case heroWalking:
		return "walking"
	case heroCrouching:
		return "crouching"
	case heroJumping:
		return "jumping"
	case heroClimbing:
		return "climbing"
	case heroDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Hero is the player character.
type Hero struct {
	body
	cfg config.HeroConfig
	t   *timers

	facing   float64 // 1 right, -1 left
	walkDir  float64
	climbDir float64

	walk   hold
	crouch hold
	climb  hold

	climbing     bool
	attacking    bool
	attackReady  bool
	invulnerable bool
	alive        bool

	mode  heroMode
	anim  Animator
	sword Animator
}

// newHero places a hero standing on the tile below cell x, y.
func newHero(t *timers, cfg config.HeroConfig, x, y int) *Hero {
	h := &Hero{
		body: body{
			pos: core.Vec{X: float64(x) + (1-actorW)/2, Y: float64(y) + 1 - actorH},
			w:   actorW,
			h:   actorH,
		},
		cfg:         cfg,
		t:           t,
		facing:      1,
		walkDir:     1,
		walk:        hold{t: t, dur: cfg.MoveHold},
		crouch:      hold{t: t, dur: cfg.CrouchHold},
		climb:       hold{t: t, dur: cfg.MoveHold},
		attackReady: true,
		alive:       true,
		anim:        newAnimator(t),
		sword:       newAnimator(t),
	}
	h.anim.Play(animIdle)
	return h
}

// protect makes the hero immune to zombies for a while.
func (h *Hero) protect(d float64) {
	if d <= 0 {
		return
	}
	h.invulnerable = true
	h.t.after(d, func() { h.invulnerable = false })
}

// handleInput turns this frame's actions into hero intent.
func (h *Hero) handleInput(in *core.InputFrame, m *TileMap) {
	if !h.alive {
		return
	}

	if in.Consume(core.ActionLeft) {
		h.move(-1)
	}
	if in.Consume(core.ActionRight) {
		h.move(1)
	}
	if in.Consume(core.ActionUp) {
		if h.climbing || h.grabStairs(m, false) {
			h.climbDir = -1
			h.climb.press()
		}
	}
	if in.Consume(core.ActionDown) {
		switch {
		case h.climbing:
			h.climbDir = 1
			h.climb.press()
		case h.grounded && h.aboveStairs(m) && h.grabStairs(m, true):
			h.climbDir = 1
			h.climb.press()
		case h.grounded:
			h.walk.release()
			h.crouch.press()
		}
	}
	if in.Consume(core.ActionJump) {
		h.jump()
	}
	if in.Consume(core.ActionAttack) {
		h.attack()
	}
}

func (h *Hero) move(dir float64) {
	h.facing = dir
	h.walkDir = dir
	h.crouch.release()
	h.walk.press()
}

func (h *Hero) jump() {
	if !h.grounded && !h.climbing {
		return
	}
	mod := 1.0
	if h.crouch.active {
		mod = h.cfg.CrouchJumpMod
		h.crouch.release()
	}
	h.vel.Y = -h.cfg.JumpSpeed * mod
	h.grounded = false
	h.riding = nil
	h.climbing = false
	h.climb.release()
}

func (h *Hero) attack() {
	if !h.attackReady {
		return
	}
	h.attackReady = false
	h.attacking = true
	if h.facing < 0 {
		h.sword.Play(animSwordLeft)
	} else {
		h.sword.Play(animSwordRight)
	}
	h.t.after(h.cfg.AttackDuration, func() {
		h.attacking = false
		h.sword.Stop()
		h.sword.anim = nil
	})
	h.t.after(h.cfg.AttackCooldown, func() { h.attackReady = true })
}

// ladderAt returns the ladder column under the hero's center. With
// below set, a ladder top right under the feet also counts.
func (h *Hero) ladderAt(m *TileMap, below bool) (int, bool) {
	col := int(math.Floor(h.centerX()))
	s := h.span()
	for y := s.y0; y <= s.y1; y++ {
		if m.At(col, y) == TileStairs {
			return col, true
		}
	}
	if below && h.aboveStairs(m) {
		return col, true
	}
	return 0, false
}

// grabStairs starts climbing if a ladder is within reach and lines the
// hero up with it.
func (h *Hero) grabStairs(m *TileMap, below bool) bool {
	col, ok := h.ladderAt(m, below)
	if !ok {
		return false
	}
	h.pos.X = float64(col) + (1-h.w)/2
	h.vel = core.Vec{}
	h.climbing = true
	h.riding = nil
	h.walk.release()
	h.crouch.release()
	return true
}

// aboveStairs reports whether the hero stands on a ladder top.
func (h *Hero) aboveStairs(m *TileMap) bool {
	col := int(math.Floor(h.centerX()))
	return m.StairsTop(col, int(math.Floor(h.bottom()+0.01)))
}

// onStairs reports whether the hero's box touches a ladder.
func (h *Hero) onStairs(m *TileMap) bool {
	return m.Overlaps(h.span(), TileStairs)
}

// step advances the hero by one physics step.
func (h *Hero) step(w *world, dt float64) {
	if !h.alive {
		return
	}

	if h.climbing {
		h.vel = core.Vec{}
		if h.walk.active {
			w.moveX(&h.body, h.walkDir*h.cfg.ClimbSpeed*dt)
		}
		if h.climb.active {
			w.moveY(&h.body, h.climbDir*h.cfg.ClimbSpeed*dt, true)
		}
		if !h.onStairs(w.tiles) {
			h.climbing = false
		}
		return
	}

	switch {
	case h.grounded && h.crouch.active:
		h.vel.X = 0
	case h.grounded && h.walk.active:
		h.vel.X = h.walkDir * h.cfg.MoveSpeed
	case h.grounded:
		h.vel.X = 0
	case h.walk.active:
		h.vel.X = h.walkDir * h.cfg.AirMoveSpeed
	}
	w.fall(&h.body, dt)
}

// sync picks the animation for the current pose.
func (h *Hero) sync() {
	mode := h.pose()
	if mode == h.mode && h.anim.Current() != nil {
		return
	}
	h.mode = mode
	switch mode {
	case heroWalking:
		h.anim.Play(animWalk)
	case heroCrouching:
		h.anim.Play(animCrouch)
	case heroJumping:
		h.anim.Play(animJump)
	case heroClimbing:
		h.anim.Play(animClimb)
	case heroDead:
		h.anim.Play(animDead)
	default:
		h.anim.Play(animIdle)
	}
}

func (h *Hero) pose() heroMode {
	switch {
	case !h.alive:
		return heroDead
	case h.climbing:
		return heroClimbing
	case !h.grounded:
		return heroJumping
	case h.crouch.active:
		return heroCrouching
	case h.walk.active:
		return heroWalking
	default:
		return heroIdle
	}
}

// swordBox is the area the sword hits while attacking.
func (h *Hero) swordBox() core.Box {
	x := h.pos.X + h.w
	if h.facing < 0 {
		x = h.pos.X - 1
	}
	return core.Box{X: x, Y: h.pos.Y, W: 1, H: h.h}
}

// kill stops the hero and its animations.
func (h *Hero) kill() {
	h.alive = false
	h.attacking = false
	h.walk.release()
	h.crouch.release()
	h.climb.release()
	h.sword.Stop()
	h.sync()
}

// Mode returns the hero's current pose name.
func (h *Hero) Mode() string {
	return h.pose().String()
}

// Position returns the top-left corner of the hero's box.
func (h *Hero) Position() core.Vec {
	return h.pos
}
