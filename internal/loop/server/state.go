package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/theowiik/photon-phight/internal/capture"
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/round"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

// PlayerView is a fighter as clients see it.
type PlayerView struct {
	Name      string
	Team      team.Team
	Position  physics.Vec
	Aim       physics.Vec
	Health    int
	MaxHealth int
	Alive     bool
	Frozen    bool
	Bot       bool
}

// BulletView is a bullet in flight.
type BulletView struct {
	Position physics.Vec
	Team     team.Team
}

// LampView is a territory lamp.
type LampView struct {
	Position physics.Vec
	State    territory.State
}

// EffectView is a visual effect with its remaining lifetime as a 0..1 fraction.
type EffectView struct {
	Kind     round.EffectKind
	Position physics.Vec
	Life     float64
}

// DraftView is the power-up draft on offer.
type DraftView struct {
	Chooser team.Team // Side that won the round and picks
	Choices []string
	Curses  []bool
}

// WorldSnapshot is an immutable view of the match for rendering.
// The server never mutates a snapshot after storing it.
type WorldSnapshot struct {
	MatchID uuid.UUID
	Phase   round.Phase
	Round   int
	Score   round.Score
	Paused  bool

	Scoreboard string
	Timer      string

	Width, Height float64
	Platforms     []physics.Rect
	Players       [2]PlayerView
	Bullets       []BulletView
	Lamps         []LampView
	CapturePoints []capture.Point
	Effects       []EffectView

	Draft *DraftView

	Over    bool
	Winner  team.Team
	Aborted bool
	Reason  string

	Shake float64
	Cues  uint64

	Clients int
	Delta   time.Duration
}

// Seated reports whether t is driven by a human.
func (s *WorldSnapshot) Seated(t team.Team) bool {
	return t.Valid() && !s.Players[t].Bot
}
