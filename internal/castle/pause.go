package castle

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/state"
)

// Pause grows a dialog box over the frozen level.
type Pause struct {
	state.Base

	env    *Env
	logger *log.Logger
	t      *timers
	scale  float64
	grow   *Tween
}

// NewPause creates the pause screen.
func NewPause(env *Env) *Pause {
	return &Pause{
		env:    env,
		logger: env.Logger.WithPrefix("pause"),
		t:      newTimers(env.Sched, env.Logger),
	}
}

// Name returns the state name.
func (p *Pause) Name() string { return PauseName }

// Resume restarts the opening animation.
func (p *Pause) Resume() {
	p.grow = startTween(p.t, 0, 1, 0.25, OutQuint, func(v float64) { p.scale = v })
}

// Shutdown stops the animation.
func (p *Pause) Shutdown() {
	p.t.cancelAll()
}

// Update leaves the pause screen on pause or back, and the whole game on quit.
func (p *Pause) Update(float64) {
	in := p.env.Input
	switch {
	case in.Consume(core.ActionQuit):
		// Pause and the level below it.
		for i := 0; i < 2 && p.env.States.Depth() > 0; i++ {
			if err := p.env.States.Pop(); err != nil {
				p.logger.Error("failed to quit", "err", err)
			}
		}
	case in.Consume(core.ActionPause), in.Consume(core.ActionBack):
		if err := p.env.States.Pop(); err != nil {
			p.logger.Error("failed to unpause", "err", err)
		}
	}
}

// Draw renders the dialog at its current size.
func (p *Pause) Draw(dst *core.Screen, area core.Rect) {
	dst.ClearRect(area)
	box := area.Inset(area.W/6, area.H/6).Scaled(p.scale)
	dst.DrawBox(box, core.ColorWhite)
	if p.grow == nil || !p.grow.Done() {
		return
	}
	mid := box.Y + box.H/2
	dst.DrawTextCentered(box, mid-1, "PAUSED", core.ColorBrightYellow)
	dst.DrawTextCentered(box, mid+1, "P: resume  Q: quit", core.ColorGray)
}

// Scale returns the dialog size relative to its full size.
func (p *Pause) Scale() float64 {
	return p.scale
}
