package round

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/powerup"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

// Phase is the round lifecycle state.
type Phase int

const (
	Setup Phase = iota
	Active
	Resolving
	Drafting
	MatchOver
)

func (p Phase) String() string {
	switch p {
	case Setup:
		return "Setup"
	case Active:
		return "Active"
	case Resolving:
		return "Resolving"
	case Drafting:
		return "Drafting"
	case MatchOver:
		return "MatchOver"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Score counts round outcomes for the whole match.
type Score struct {
	Light int
	Dark  int
	Ties  int
}

// Of returns the rounds won by t.
func (s Score) Of(t team.Team) int {
	if t == team.Dark {
		return s.Dark
	}
	return s.Light
}

func (s Score) String() string {
	return fmt.Sprintf("Light %d - %d Dark (ties %d)", s.Light, s.Dark, s.Ties)
}

// EffectKind names a fire-and-forget visual effect.
type EffectKind int

const (
	EffectExplosion EffectKind = iota
	EffectRagdoll
	EffectHurt
	EffectPowerUp
	EffectCurse
	EffectCapturePoint
)

func (k EffectKind) String() string {
	switch k {
	case EffectExplosion:
		return "explosion"
	case EffectRagdoll:
		return "ragdoll"
	case EffectHurt:
		return "hurt"
	case EffectPowerUp:
		return "powerup"
	case EffectCurse:
		return "curse"
	case EffectCapturePoint:
		return "capture_point"
	default:
		return "unknown"
	}
}

// Cue names a sound cue.
type Cue int

const (
	CueRoundStart Cue = iota
	CueLightWins
	CueDarkWins
	CueDeath
	CueFallDeath
	CueHurt
	CueCapture
	CuePowerUp
)

func (c Cue) String() string {
	switch c {
	case CueRoundStart:
		return "round_start"
	case CueLightWins:
		return "light_wins"
	case CueDarkWins:
		return "dark_wins"
	case CueDeath:
		return "death"
	case CueFallDeath:
		return "fall_death"
	case CueHurt:
		return "hurt"
	case CueCapture:
		return "capture"
	case CuePowerUp:
		return "powerup"
	default:
		return "unknown"
	}
}

func winCue(t team.Team) Cue {
	if t == team.Dark {
		return CueDarkWins
	}
	return CueLightWins
}

// Host receives the machine's side effects. Implementations must not call back
// into the machine synchronously.
type Host interface {
	SpawnVisualEffect(kind EffectKind, pos physics.Vec)
	PlaySoundCue(cue Cue)
	SetScoreboardText(text string)
	SetTimerText(text string)
	ShowDraftUI(winner team.Team, choices []powerup.Effect)
	HideDraftUI()
	LoadEndScene(winner team.Team)
	ShakeCamera(intensity float64, d time.Duration)
	ShowPauseOverlay(visible bool)
}

// World is the arena as the machine sees it.
type World interface {
	Tiles() []territory.Tile
	ResetTiles()
	ClearBullets()
	SpawnPoint(t team.Team) physics.Vec
}

// InputKind classifies host input routed to the machine.
type InputKind int

const (
	InputNone InputKind = iota
	InputPause
	InputDraftPick
)

// Input is a host input event.
type Input struct {
	Kind   InputKind
	Team   team.Team // Seat that produced the input
	Choice int       // Draft option index for InputDraftPick
}

// Event payloads published on the bus.
type (
	RoundStartedPayload struct {
		Round int
	}

	RoundResolvedPayload struct {
		Round  int
		Result territory.Result
		Winner team.Team
		Tie    bool
		Score  Score
	}

	MatchOverPayload struct {
		Winner  team.Team
		Score   Score
		Aborted bool
		Reason  string
	}

	PlayerPayload struct {
		Number   int
		Team     team.Team
		Position physics.Vec
		Health   int
	}

	CapturePointPayload struct {
		ID       uuid.UUID
		Position physics.Vec
		Team     team.Team // Capturing team; for spawns, the team it was placed near
	}

	PowerUpPayload struct {
		Effect string
		Curse  bool
		Target team.Team // Side that drafted and received the effect
		Both   bool      // Applied to both fighters
	}

	PausePayload struct {
		Paused bool
	}
)
