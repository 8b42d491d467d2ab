// Package arena simulates the playfield: platformer movement, bullets, lamps
// and capture point contact. It reports gameplay events to a Referee and
// implements the world surface the round machine drives between rounds.
package arena

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/theowiik/photon-phight/internal/capture"
	"github.com/theowiik/photon-phight/internal/event"
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/round"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

// CapturePaintRadius is how far around a captured point lamps flip to the capturer.
const CapturePaintRadius = 60.0

// Referee receives gameplay events from the arena. *round.Machine satisfies it.
type Referee interface {
	DamagePlayer(p *player.Player, amount int)
	OnPlayerOutOfBounds(p *player.Player)
	OnCapturePointCaptured(id capture.PointID, by team.Team)
	CapturePoints() []capture.Point
}

// Controls is one fighter's input for a single step.
type Controls struct {
	MoveX float64     // -1 (left) to 1 (right)
	Jump  bool        // Edge triggered: true only on the step the jump was pressed
	Aim   physics.Vec // Zero keeps the previous aim
	Shoot bool
}

// body is per-fighter simulation state that does not belong on the Player.
type body struct {
	onGround     bool
	jumpsLeft    int
	fireCooldown time.Duration
}

// Arena owns the world geometry, lamps and bullets.
type Arena struct {
	layout  Layout
	bounds  physics.Rect
	gravity float64
	board   *territory.Board

	players [2]*player.Player
	bodies  [2]body
	bullets []*Bullet

	referee Referee
	log     *log.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithGravity overrides player.DefaultGravity for fighters.
func WithGravity(g float64) Option {
	return func(a *Arena) { a.gravity = g }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Arena) { a.log = l }
}

// New creates an arena from a layout.
func New(layout Layout, opts ...Option) *Arena {
	a := &Arena{
		layout:  layout,
		bounds:  layout.Bounds(),
		gravity: player.DefaultGravity,
		board:   territory.NewBoard(layout.Width, layout.Height, layout.Lamps),
		log:     log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithPrefix("arena")
	return a
}

// AddPlayer places p in its team's slot.
func (a *Arena) AddPlayer(p *player.Player) {
	a.players[p.Team] = p
	p.Spawn = a.layout.Spawn(p.Team)
	a.bodies[p.Team] = body{jumpsLeft: p.Movement.Jumps}
}

// SetReferee wires the arena to the component that judges damage, deaths and captures.
func (a *Arena) SetReferee(r Referee) {
	a.referee = r
}

// Subscribe paints lamps around captured points. The returned func unsubscribes.
func (a *Arena) Subscribe(bus *event.Bus) func() {
	return bus.Subscribe(event.CapturePointCaptured, func(ev event.Event) {
		p, ok := ev.Payload.(round.CapturePointPayload)
		if !ok {
			return
		}
		n := a.board.PaintArea(p.Position, CapturePaintRadius, territory.StateOf(p.Team))
		a.log.Debug("capture painted lamps", "team", p.Team, "lamps", n)
	})
}

// Tiles implements round.World.
func (a *Arena) Tiles() []territory.Tile {
	return a.board.Tiles()
}

// ResetTiles implements round.World.
func (a *Arena) ResetTiles() {
	a.board.ResetAll()
}

// ClearBullets implements round.World.
func (a *Arena) ClearBullets() {
	a.bullets = a.bullets[:0]
}

// SpawnPoint implements round.World.
func (a *Arena) SpawnPoint(t team.Team) physics.Vec {
	return a.layout.Spawn(t)
}

// Layout returns the map geometry.
func (a *Arena) Layout() Layout {
	return a.layout
}

// Board returns the lamp board.
func (a *Arena) Board() *territory.Board {
	return a.board
}

// Bullets returns a copy of the bullets in flight.
func (a *Arena) Bullets() []Bullet {
	out := make([]Bullet, len(a.bullets))
	for i, b := range a.bullets {
		out[i] = *b
	}
	return out
}

// OnGround reports whether the fighter for t is standing on a platform.
func (a *Arena) OnGround(t team.Team) bool {
	return a.bodies[t].onGround
}

// Step advances the simulation by dt using one set of controls per team.
func (a *Arena) Step(dt time.Duration, controls [2]Controls) {
	if dt <= 0 {
		return
	}
	for _, t := range team.All {
		if p := a.players[t]; p != nil {
			a.stepPlayer(p, &a.bodies[t], controls[t], dt)
		}
	}
	a.stepBullets(dt)
	a.checkCaptures()
}

func (a *Arena) stepPlayer(p *player.Player, b *body, c Controls, dt time.Duration) {
	if b.fireCooldown > 0 {
		b.fireCooldown -= dt
	}
	if p.Frozen || !p.Alive {
		b.onGround = false
		b.jumpsLeft = p.Movement.Jumps
		return
	}
	secs := dt.Seconds()
	m := p.Movement

	target := clampUnit(c.MoveX) * m.Speed
	rate := m.FrictionDecelerate
	if c.MoveX != 0 {
		rate = m.FrictionAccelerate
	}
	p.Velocity.X = moveToward(p.Velocity.X, target, rate*secs)

	if c.Jump && b.jumpsLeft > 0 {
		p.Velocity.Y = -m.JumpForce
		b.jumpsLeft--
		b.onGround = false
	}

	p.Velocity.Y += a.gravity * secs
	prev := p.Position
	p.Position = p.Position.Add(p.Velocity.Scale(secs))
	a.land(p, b, prev)

	if !a.bounds.Contains(p.Position) {
		a.log.Debug("player left the arena", "player", p, "at", p.Position)
		if a.referee != nil {
			a.referee.OnPlayerOutOfBounds(p)
		}
		return
	}

	if c.Aim.LengthSquared() > 0 {
		p.Aim = c.Aim.Normalized()
	}
	if c.Shoot && b.fireCooldown <= 0 {
		b.fireCooldown = p.Gun.FireRate
		a.fire(p)
	}
}

// land resolves one-way platform collisions: a fighter falling through a
// platform's top edge this step lands on it.
func (a *Arena) land(p *player.Player, b *body, prev physics.Vec) {
	feet := p.Position.Y + player.Radius
	prevFeet := prev.Y + player.Radius

	grounded := false
	for _, r := range a.layout.Platforms {
		if p.Position.X < r.Min.X || p.Position.X > r.Max.X {
			continue
		}
		if p.Velocity.Y >= 0 && prevFeet <= r.Min.Y && feet >= r.Min.Y {
			p.Position.Y = r.Min.Y - player.Radius
			p.Velocity.Y = 0
			grounded = true
			break
		}
	}

	b.onGround = grounded
	if grounded {
		b.jumpsLeft = p.Movement.Jumps
	}
}

func (a *Arena) checkCaptures() {
	if a.referee == nil {
		return
	}
	for _, cp := range a.referee.CapturePoints() {
		for _, p := range a.players {
			if p == nil || p.Frozen || !p.Alive {
				continue
			}
			if physics.CirclesOverlap(p.Position, player.Radius, cp.Position, capture.Radius) {
				a.referee.OnCapturePointCaptured(cp.ID, p.Team)
				break
			}
		}
	}
}

func moveToward(from, to, delta float64) float64 {
	if from < to {
		return min(from+delta, to)
	}
	return max(from-delta, to)
}

func clampUnit(v float64) float64 {
	return max(-1, min(1, v))
}
