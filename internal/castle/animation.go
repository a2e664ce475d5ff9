package castle

import (
	"math"

	"github.com/vovakirdan/castlebats/internal/clock"
)

// Animation is a sequence of glyphs shown for Frame seconds each.
type Animation struct {
	Name   string
	Frames []rune
	Frame  float64
	Loop   bool
}

var (
	animIdle       = &Animation{Name: "idle", Frames: []rune("@")}
	animWalk       = &Animation{Name: "walking", Frames: []rune("@a"), Frame: 0.1, Loop: true}
	animCrouch     = &Animation{Name: "crouching", Frames: []rune("m")}
	animJump       = &Animation{Name: "jumping", Frames: []rune("Q")}
	animClimb      = &Animation{Name: "climbing", Frames: []rune("bd"), Frame: 0.15, Loop: true}
	animDead       = &Animation{Name: "dead", Frames: []rune("x")}
	animSwordRight = &Animation{Name: "attacking", Frames: []rune(`/─\─`), Frame: 0.04}
	animSwordLeft  = &Animation{Name: "attacking", Frames: []rune(`\─/─`), Frame: 0.04}
	animZombieWalk = &Animation{Name: "walking", Frames: []rune("Zz"), Frame: 0.18, Loop: true}
)

// Animator plays one animation at a time. Frames advance on a soft
// repeating timer so many sprites do not all flip on the same tick.
type Animator struct {
	t     *timers
	anim  *Animation
	index int
	item  *timer
}

func newAnimator(t *timers) Animator {
	return Animator{t: t}
}

// Play switches to anim and starts it from the first frame. Playing the
// animation that is already running does nothing.
func (a *Animator) Play(anim *Animation) {
	if a.anim == anim {
		return
	}
	a.Stop()
	a.anim = anim
	a.index = 0
	if len(anim.Frames) < 2 || anim.Frame <= 0 {
		return
	}
	a.item = a.t.every(anim.Frame, true, a.advance)
}

func (a *Animator) advance(float64) clock.Result {
	a.index++
	if a.index < len(a.anim.Frames) {
		return clock.Continue
	}
	if a.anim.Loop {
		a.index = 0
		return clock.Continue
	}
	a.index = len(a.anim.Frames) - 1
	a.item = nil
	return clock.Stop
}

// Stop cancels the frame timer and keeps the current frame.
func (a *Animator) Stop() {
	a.t.cancel(a.item)
	a.item = nil
}

// Glyph returns the current frame, or a space when nothing is playing.
func (a *Animator) Glyph() rune {
	if a.anim == nil || len(a.anim.Frames) == 0 {
		return ' '
	}
	return a.anim.Frames[a.index]
}

// Current returns the animation being played.
func (a *Animator) Current() *Animation {
	return a.anim
}

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// OutQuint starts fast and settles gently.
func OutQuint(t float64) float64 {
	return 1 - math.Pow(1-t, 5)
}

// Tween moves a value from one number to another over a duration. It is
// advanced by an every-tick scheduler item that stops once it finishes.
type Tween struct {
	from, to float64
	duration float64
	elapsed  float64
	ease     Ease
	set      func(v float64)
	item     *timer
	done     bool
}

// startTween begins animating and calls set with the start value right away.
func startTween(t *timers, from, to, duration float64, ease Ease, set func(float64)) *Tween {
	tw := &Tween{from: from, to: to, duration: duration, ease: ease, set: set}
	set(from)
	if duration <= 0 {
		tw.finish()
		return tw
	}
	tw.item = t.eachTick(tw.step)
	return tw
}

func (tw *Tween) step(dt float64) clock.Result {
	tw.elapsed += dt
	p := tw.elapsed / tw.duration
	if p >= 1 {
		tw.finish()
		return clock.Stop
	}
	tw.set(tw.from + (tw.to-tw.from)*tw.ease(p))
	return clock.Continue
}

func (tw *Tween) finish() {
	tw.set(tw.to)
	tw.done = true
	tw.item = nil
}

// Done reports whether the tween reached its end value.
func (tw *Tween) Done() bool {
	return tw.done
}
