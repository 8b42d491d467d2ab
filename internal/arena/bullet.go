package arena

import (
	"time"

	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

// Bullet tuning.
const (
	BulletLifetime = 3 * time.Second
	BulletRadius   = 1.5
)

// Bullet is a projectile fired by a fighter. Gravity comes from the shooter's
// gun at fire time, so power-ups picked later do not bend bullets in flight.
type Bullet struct {
	Owner    team.Team
	Position physics.Vec
	Velocity physics.Vec
	Gravity  float64
	Damage   int
	Life     time.Duration
}

func (a *Arena) fire(p *player.Player) {
	muzzle := p.Position.Add(p.Aim.Scale(player.Radius + BulletRadius + 1))
	a.bullets = append(a.bullets, &Bullet{
		Owner:    p.Team,
		Position: muzzle,
		Velocity: p.Aim.Scale(p.Gun.BulletSpeed),
		Gravity:  p.Gun.BulletGravity,
		Damage:   p.Gun.Damage,
		Life:     BulletLifetime,
	})
}

// stepBullets moves bullets and resolves hits. A bullet stops at the first
// fighter, lamp or platform it touches.
func (a *Arena) stepBullets(dt time.Duration) {
	secs := dt.Seconds()

	live := a.bullets[:0]
	for _, b := range a.bullets {
		b.Life -= dt
		if b.Life <= 0 {
			continue
		}
		b.Velocity.Y += b.Gravity * secs
		b.Position = b.Position.Add(b.Velocity.Scale(secs))

		if !a.bounds.Contains(b.Position) || a.hitPlatform(b.Position) {
			continue
		}
		if a.hitPlayer(b) || a.hitLamp(b) {
			continue
		}
		live = append(live, b)
	}
	clear(a.bullets[len(live):])
	a.bullets = live
}

func (a *Arena) hitPlatform(pos physics.Vec) bool {
	for _, r := range a.layout.Platforms {
		if r.Contains(pos) {
			return true
		}
	}
	return false
}

func (a *Arena) hitPlayer(b *Bullet) bool {
	target := a.players[b.Owner.Opponent()]
	if target == nil || target.Frozen || !target.Alive {
		return false
	}
	if !physics.CirclesOverlap(b.Position, BulletRadius, target.Position, player.Radius) {
		return false
	}
	if a.referee != nil {
		a.referee.DamagePlayer(target, b.Damage)
	}
	return true
}

func (a *Arena) hitLamp(b *Bullet) bool {
	lamp, ok := a.board.LampAt(b.Position)
	if !ok {
		return false
	}
	a.board.Paint(lamp, territory.StateOf(b.Owner))
	return true
}
