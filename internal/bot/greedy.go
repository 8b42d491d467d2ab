// Package bot contains computer-controlled opponents.
package bot

import (
	"math"
	"time"

	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/player"
)

// Defaults for NewGreedy.
const (
	DefaultJumpInterval = 400 * time.Millisecond
	DefaultJumpRangeDeg = 166.0
)

// Decision is the output of one decision cycle. Both vectors are unit length,
// or zero when there is nobody to chase.
type Decision struct {
	Aim  physics.Vec
	Move physics.Vec
}

// Decide picks the opponent closest to self and heads straight for it.
func Decide(self physics.Vec, opponents []physics.Vec) Decision {
	if len(opponents) == 0 {
		return Decision{}
	}

	closest := opponents[0]
	best := self.DistanceSquaredTo(closest)
	for _, o := range opponents[1:] {
		if d := self.DistanceSquaredTo(o); d < best {
			closest, best = o, d
		}
	}

	dir := closest.Sub(self).Normalized()
	return Decision{Aim: dir, Move: dir}
}

// Greedy chases and shoots at the nearest opponent. It jumps, rate limited,
// whenever its movement points roughly upward.
type Greedy struct {
	self      *player.Player
	opponents []*player.Player

	interval time.Duration
	margin   float64 // degrees between the horizon and the jump window

	clock   time.Duration
	last    Decision
	decided bool
}

// NewGreedy creates a policy for self. Non-positive arguments fall back to
// DefaultJumpInterval and DefaultJumpRangeDeg.
func NewGreedy(self *player.Player, interval time.Duration, rangeDeg float64) *Greedy {
	if interval <= 0 {
		interval = DefaultJumpInterval
	}
	if rangeDeg <= 0 || rangeDeg > 180 {
		rangeDeg = DefaultJumpRangeDeg
	}
	return &Greedy{
		self:     self,
		interval: interval,
		margin:   (180 - rangeDeg) / 2,
	}
}

// AddOpponents registers players to chase. The bot itself and its teammates
// are skipped.
func (g *Greedy) AddOpponents(ps ...*player.Player) {
	for _, p := range ps {
		if p == nil || p == g.self || p.Team == g.self.Team {
			continue
		}
		g.opponents = append(g.opponents, p)
	}
}

// Opponents returns how many opponents are registered.
func (g *Greedy) Opponents() int {
	return len(g.opponents)
}

// Advance feeds simulated time to the jump rate limiter.
func (g *Greedy) Advance(dt time.Duration) {
	if dt > 0 {
		g.clock += dt
	}
}

// Update runs a decision cycle against the registered opponents.
// With no opponents the previous decision is kept.
func (g *Greedy) Update() Decision {
	g.decided = true
	if len(g.opponents) == 0 {
		return g.last
	}

	positions := make([]physics.Vec, len(g.opponents))
	for i, o := range g.opponents {
		positions[i] = o.Position
	}
	g.last = Decide(g.self.Position, positions)
	return g.last
}

// Last returns the most recent decision.
func (g *Greedy) Last() Decision {
	return g.last
}

// ShouldJump reports whether to jump given the current movement direction.
// Once the interval has elapsed every poll restarts it, jump or not.
func (g *Greedy) ShouldJump(move physics.Vec) bool {
	if g.clock <= g.interval {
		return false
	}
	g.clock = 0

	deg := move.Angle() * 180 / math.Pi
	return deg <= -g.margin && deg >= -(180-g.margin)
}

// ShouldShoot reports whether to fire. The bot fires continuously once it
// has made a decision.
func (g *Greedy) ShouldShoot() bool {
	return g.decided
}
