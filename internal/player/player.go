// Package player holds per-fighter state that persists across rounds of a match.
package player

import (
	"fmt"
	"math"
	"time"

	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/team"
)

// Defaults for a freshly created fighter. World units; Y grows downward.
const (
	DefaultMaxHealth     = 100
	DefaultGravity       = 900.0 // Units per second²
	DefaultSpeed         = 160.0
	DefaultJumps         = 2
	DefaultJumpHeight    = 40.0
	DefaultFrictionAccel = 900.0
	DefaultFrictionDecel = 600.0
	DefaultBulletSpeed   = 420.0
	DefaultBulletGravity = 450.0
	DefaultBulletDamage  = 25
	DefaultFireRate      = 200 * time.Millisecond
	Radius               = 6.0 // Collision radius
)

// MovementProfile is the tunable movement state that power-ups mutate.
type MovementProfile struct {
	Speed              float64 // Horizontal target speed
	Jumps              int     // Jumps available before landing again
	JumpHeight         float64 // Apex height of a single jump
	JumpForce          float64 // Initial upward velocity, derived from JumpHeight
	FrictionAccelerate float64 // Horizontal acceleration toward target speed
	FrictionDecelerate float64 // Horizontal deceleration when no input
}

// NewMovementProfile returns the default profile with JumpForce derived for gravity.
func NewMovementProfile(gravity float64) *MovementProfile {
	m := &MovementProfile{
		Speed:              DefaultSpeed,
		Jumps:              DefaultJumps,
		JumpHeight:         DefaultJumpHeight,
		FrictionAccelerate: DefaultFrictionAccel,
		FrictionDecelerate: DefaultFrictionDecel,
	}
	m.UpdateMovementVars(gravity)
	return m
}

// UpdateMovementVars recomputes JumpForce so a jump peaks at JumpHeight.
func (m *MovementProfile) UpdateMovementVars(gravity float64) {
	m.JumpForce = math.Sqrt(2 * gravity * m.JumpHeight)
}

// Gun describes the fighter's weapon.
type Gun struct {
	BulletSpeed   float64
	BulletGravity float64
	Damage        int
	FireRate      time.Duration
}

// NewGun returns the default weapon.
func NewGun() *Gun {
	return &Gun{
		BulletSpeed:   DefaultBulletSpeed,
		BulletGravity: DefaultBulletGravity,
		Damage:        DefaultBulletDamage,
		FireRate:      DefaultFireRate,
	}
}

// Player is one fighter. It is created once per match and reused across rounds.
type Player struct {
	Number    int
	Team      team.Team
	Name      string
	Health    int
	MaxHealth int
	Frozen    bool
	Alive     bool

	Position physics.Vec
	Velocity physics.Vec
	Aim      physics.Vec // Unit aim direction, zero when idle
	Spawn    physics.Vec

	Movement *MovementProfile
	Gun      *Gun
}

// New creates a live, unfrozen fighter standing on its spawn point.
func New(number int, t team.Team, name string, spawn physics.Vec) *Player {
	if name == "" {
		name = fmt.Sprintf("P%d", number)
	}
	return &Player{
		Number:    number,
		Team:      t,
		Name:      name,
		Health:    DefaultMaxHealth,
		MaxHealth: DefaultMaxHealth,
		Alive:     true,
		Position:  spawn,
		Spawn:     spawn,
		Aim:       physics.Vec{X: 1},
		Movement:  NewMovementProfile(DefaultGravity),
		Gun:       NewGun(),
	}
}

// TakeDamage subtracts damage and reports whether health is now depleted.
// Frozen or dead fighters are immune; repeated hits on a depleted fighter report false.
func (p *Player) TakeDamage(damage int) bool {
	if p.Frozen || !p.Alive || damage <= 0 {
		return false
	}
	p.Health = max(p.Health-damage, 0)
	return p.Health == 0
}

// ResetHealth restores health to MaxHealth.
func (p *Player) ResetHealth() {
	p.Health = p.MaxHealth
}

// SetFrozen freezes or unfreezes the fighter. Idempotent.
func (p *Player) SetFrozen(frozen bool) {
	p.Frozen = frozen
	if frozen {
		p.Velocity = physics.Zero
	}
}

// ResetToSpawn moves the fighter to its spawn point and zeroes velocity.
func (p *Player) ResetToSpawn() {
	p.Position = p.Spawn
	p.Velocity = physics.Zero
}

// Kill marks the fighter dead, frozen and back on its spawn point.
func (p *Player) Kill() {
	p.Alive = false
	p.SetFrozen(true)
	p.ResetToSpawn()
}

// Revive marks the fighter alive with full health. Frozen state is left to the caller.
func (p *Player) Revive() {
	p.Alive = true
	p.ResetHealth()
}

func (p *Player) String() string {
	return fmt.Sprintf("%s(%s)", p.Name, p.Team)
}
