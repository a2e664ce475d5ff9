package castle

import (
	"errors"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/castlebats/internal/clock"
	"github.com/vovakirdan/castlebats/internal/core"
	"github.com/vovakirdan/castlebats/internal/event"
	"github.com/vovakirdan/castlebats/internal/state"
)

// Keep fresh zombies away from the hero.
const minSpawnDistance = 6.0

// Level is the playable castle.
type Level struct {
	state.Base

	env    *Env
	logger *log.Logger
	t      *timers
	world

	hero    *Hero
	corpse  *core.Vec
	zombies []*zombie

	elapsed  float64
	running  bool // Cleared to leave the level
	active   bool // Between Resume and Pause
	gameOver bool

	respawn *timer
	spawner *timer
}

// NewLevel creates a level. Nothing is loaded until Startup.
func NewLevel(env *Env) *Level {
	return &Level{
		env:    env,
		logger: env.Logger.WithPrefix("level"),
		t:      newTimers(env.Sched, env.Logger),
	}
}

// Name returns the state name.
func (l *Level) Name() string { return LevelName }

// Startup loads the map, places the hero and zombies and starts the
// level timers.
func (l *Level) Startup() {
	tiles := DefaultMap()
	if l.env.Map != "" {
		m, err := ParseMap(l.env.Map)
		if err != nil {
			l.logger.Error("custom map rejected, using default", "err", err)
		} else {
			tiles = m
		}
	}

	cfg := l.env.Config
	l.world = world{tiles: tiles, cfg: cfg.World}
	for _, s := range tiles.platforms {
		l.platforms = append(l.platforms, newPlatform(s, cfg.World.PlatformLift))
	}
	for _, p := range tiles.zombieSpawns {
		l.zombies = append(l.zombies, newZombie(l.t, p[0], p[1]))
	}

	l.t.every(cfg.Scheduler.PlatformStep, false, l.movePlatforms)
	l.scheduleSpawn()
	l.spawnHero()
	l.running = true

	l.logger.Info("level loaded",
		"width", tiles.Width(), "height", tiles.Height(),
		"zombies", len(l.zombies), "platforms", len(l.platforms))
}

// Resume marks the level active and restarts its timers where they
// stopped.
func (l *Level) Resume() {
	l.active = true
	l.t.resume()
}

// Pause freezes the level while another state is on top. Its timers stop
// counting until Resume.
func (l *Level) Pause() {
	l.active = false
	l.t.suspend()
}

// Shutdown cancels every timer the level owns.
func (l *Level) Shutdown() {
	l.running = false
	l.active = false
	l.t.cancelAll()
	l.logger.Info("level closed", "elapsed", l.elapsed)
}

// Update handles input, advances physics and resolves collisions.
func (l *Level) Update(dt float64) {
	in := l.env.Input
	l.elapsed += dt

	if in.Consume(core.ActionQuit) || in.Consume(core.ActionBack) {
		l.running = false
	}
	wantPause := in.Consume(core.ActionPause)

	if l.hero != nil {
		l.hero.handleInput(in, l.tiles)
	}

	n, step := substeps(dt)
	speed := l.zombieSpeed()
	for i := 0; i < n; i++ {
		if l.hero != nil {
			l.hero.step(&l.world, step)
		}
		for _, z := range l.zombies {
			z.step(&l.world, step, speed)
		}
		l.collide()
	}
	if l.hero != nil {
		l.hero.sync()
	}
	l.removeDead()

	if err := l.env.Events.Flush(); err != nil && !errors.Is(err, event.ErrNoQueue) {
		l.logger.Error("event flush failed", "err", err)
	}
	l.checkRespawn()

	if !l.running {
		if err := l.env.States.Pop(); err != nil {
			l.logger.Error("failed to leave level", "err", err)
		}
		return
	}
	if wantPause && !l.gameOver {
		if _, err := l.env.States.Push(PauseName); err != nil {
			l.logger.Error("failed to pause", "err", err)
		}
	}
}

func (l *Level) zombieSpeed() float64 {
	return l.env.Difficulty.Speed(l.env.Config.Zombies.MoveSpeed, l.env.Stats.Score, l.elapsed)
}

// collide checks traps, the sword, zombie contact and falling out.
func (l *Level) collide() {
	h := l.hero
	if h == nil || !h.alive {
		return
	}

	if l.tiles.Overlaps(h.span(), TileTrap) {
		l.killHero("trap")
		return
	}
	if l.below(&h.body) {
		l.killHero("fell")
		return
	}

	if h.attacking {
		sword := h.swordBox()
		for _, z := range l.zombies {
			if z.alive && sword.Intersects(z.box()) {
				l.killZombie(z)
			}
		}
	}

	if h.invulnerable {
		return
	}
	for _, z := range l.zombies {
		if z.alive && h.box().Intersects(z.box()) {
			l.killHero("zombie")
			return
		}
	}
}

func (l *Level) killHero(cause string) {
	h := l.hero
	h.kill()
	pos := h.pos
	l.corpse = &pos
	l.hero = nil

	l.broadcast(EventHeroDied, event.Args{"cause": cause, "x": pos.X, "y": pos.Y})
	l.logger.Info("hero died", "cause", cause, "elapsed", l.elapsed)
}

func (l *Level) killZombie(z *zombie) {
	z.kill()
	l.broadcast(EventZombieKilled, event.Args{"points": l.env.Config.Zombies.Points})
}

func (l *Level) broadcast(name string, args event.Args) {
	if err := l.env.Events.Broadcast(name, args); err != nil {
		l.logger.Error("broadcast failed", "event", name, "err", err)
	}
}

// removeDead drops killed zombies and the ones that fell out of the map.
func (l *Level) removeDead() {
	kept := l.zombies[:0]
	for _, z := range l.zombies {
		if z.alive && !l.below(&z.body) {
			kept = append(kept, z)
			continue
		}
		z.kill()
	}
	for i := len(kept); i < len(l.zombies); i++ {
		l.zombies[i] = nil
	}
	l.zombies = kept
}

// checkRespawn runs after events were delivered, so Stats.Lives already
// counts the last death.
func (l *Level) checkRespawn() {
	if l.hero != nil || l.gameOver || (l.respawn != nil && l.respawn.Pending()) {
		return
	}
	if l.env.Stats.Lives > 0 {
		l.respawn = l.t.after(l.env.Config.World.RespawnDelay, l.spawnHero)
		return
	}
	l.gameOver = true
	l.logger.Info("game over", "score", l.env.Stats.Score)
	l.t.after(l.env.Config.World.RespawnDelay/2, func() { l.running = false })
}

func (l *Level) spawnHero() {
	l.respawn = nil
	l.corpse = nil
	x, y := l.tiles.heroSpawn[0], l.tiles.heroSpawn[1]
	l.hero = newHero(l.t, l.env.Config.Hero, x, y)
	l.hero.protect(l.env.Config.Hero.InvulnerableFor)
	l.broadcast(EventHeroSpawned, event.Args{"x": x, "y": y})
}

// scheduleSpawn queues the next zombie. The delay shrinks as the game
// gets harder.
func (l *Level) scheduleSpawn() {
	cfg := l.env.Config.Zombies
	delay := l.env.Difficulty.SpawnInterval(cfg.SpawnInterval, l.env.Stats.Score, l.elapsed)
	l.spawner = l.t.after(delay, l.spawnZombie)
}

func (l *Level) spawnZombie() {
	defer l.scheduleSpawn()

	spawns := l.tiles.zombieSpawns
	if !l.active || len(spawns) == 0 || len(l.zombies) >= l.env.Config.Zombies.MaxAlive {
		return
	}

	p := spawns[l.env.Rand.Intn(len(spawns))]
	if l.hero != nil {
		dx := float64(p[0]) - l.hero.centerX()
		dy := float64(p[1]) - l.hero.pos.Y
		if math.Hypot(dx, dy) < minSpawnDistance {
			return
		}
	}
	l.zombies = append(l.zombies, newZombie(l.t, p[0], p[1]))
	l.logger.Debug("zombie spawned", "x", p[0], "y", p[1], "alive", len(l.zombies))
}

// movePlatforms is the platform timer. Bodies standing on a platform
// ride along with it.
func (l *Level) movePlatforms(dt float64) clock.Result {
	if !l.active {
		return clock.Continue
	}
	speed := l.env.Config.World.PlatformSpeed
	for _, p := range l.platforms {
		dy := p.step(dt, speed)
		if dy == 0 {
			continue
		}
		if l.hero != nil && l.hero.riding == p {
			l.hero.pos.Y += dy
		}
		for _, z := range l.zombies {
			if z.riding == p {
				z.pos.Y += dy
			}
		}
	}
	return clock.Continue
}

// Draw renders the part of the map around the hero into area.
func (l *Level) Draw(dst *core.Screen, area core.Rect) {
	if l.tiles == nil {
		return
	}
	dst.ClearRect(area)
	camX, camY := l.camera(area)

	for sy := 0; sy < area.H; sy++ {
		for sx := 0; sx < area.W; sx++ {
			t := l.tiles.At(camX+sx, camY+sy)
			if camX+sx >= l.tiles.Width() {
				t = TileEmpty
			}
			if r, c, ok := tileGlyph(t); ok {
				dst.SetColored(area.X+sx, area.Y+sy, r, c)
			}
		}
	}

	put := func(wx, wy int, r rune, c core.Color) {
		sx, sy := wx-camX, wy-camY
		if sx >= 0 && sx < area.W && sy >= 0 && sy < area.H {
			dst.SetColored(area.X+sx, area.Y+sy, r, c)
		}
	}

	for _, p := range l.platforms {
		for i := 0; i < p.w; i++ {
			put(int(p.x)+i, p.row(), '=', core.ColorCyan)
		}
	}
	for _, z := range l.zombies {
		x, y := cell(&z.body)
		put(x, y, z.anim.Glyph(), core.ColorGreen)
	}
	if l.corpse != nil {
		put(int(math.Floor(l.corpse.X+actorW/2)), int(math.Floor(l.corpse.Y+actorH/2)), 'x', core.ColorRed)
	}
	if h := l.hero; h != nil {
		x, y := cell(&h.body)
		blink := h.invulnerable && int(l.elapsed*10)%2 == 1
		if !blink {
			put(x, y, h.anim.Glyph(), core.ColorBrightWhite)
		}
		if h.attacking {
			put(x+int(h.facing), y, h.sword.Glyph(), core.ColorBrightYellow)
		}
	}

	if l.gameOver {
		dst.DrawTextCentered(area, area.Y+area.H/2, " GAME OVER ", core.ColorBrightRed)
	}
}

// camera returns the map cell drawn at the top-left of area.
func (l *Level) camera(area core.Rect) (int, int) {
	fx, fy := float64(l.tiles.heroSpawn[0]), float64(l.tiles.heroSpawn[1])
	switch {
	case l.hero != nil:
		fx, fy = l.hero.centerX(), l.hero.pos.Y
	case l.corpse != nil:
		fx, fy = l.corpse.X, l.corpse.Y
	}
	x := clampInt(int(fx)-area.W/2, 0, max(0, l.tiles.Width()-area.W))
	y := clampInt(int(fy)-area.H/2, 0, max(0, l.tiles.Height()-area.H))
	return x, y
}

// cell returns the map cell a body is drawn in.
func cell(b *body) (int, int) {
	return int(math.Floor(b.centerX())), int(math.Floor(b.pos.Y + b.h/2))
}

func tileGlyph(t Tile) (rune, core.Color, bool) {
	switch t {
	case TileSolid:
		return '█', core.ColorGray, true
	case TileStairs:
		return 'H', core.ColorYellow, true
	case TileTrap:
		return '^', core.ColorRed, true
	default:
		return ' ', core.ColorDefault, false
	}
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Hero returns the living hero, or nil while waiting to respawn.
func (l *Level) Hero() *Hero {
	return l.hero
}

// Zombies returns the number of zombies in the level.
func (l *Level) Zombies() int {
	return len(l.zombies)
}

// GameOver reports whether the last life was lost.
func (l *Level) GameOver() bool {
	return l.gameOver
}
