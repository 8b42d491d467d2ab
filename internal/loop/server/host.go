package server

import (
	"time"

	"github.com/theowiik/photon-phight/internal/loop/config"
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/powerup"
	"github.com/theowiik/photon-phight/internal/round"
	"github.com/theowiik/photon-phight/internal/team"
)

// effect is a short-lived visual marker.
type effect struct {
	kind round.EffectKind
	pos  physics.Vec
	ttl  time.Duration
}

// hud collects the round machine's presentation side effects for snapshots.
// It is only touched from the tick goroutine.
type hud struct {
	scoreboard string
	timer      string

	draftVisible bool
	draftWinner  team.Team
	draftChoices []powerup.Effect

	paused bool

	ended     bool
	endWinner team.Team

	effects []effect

	shake     float64
	shakeLeft time.Duration

	cues    uint64 // Increments on every cue; clients ring the bell on change
	lastCue round.Cue
}

var _ round.Host = (*hud)(nil)

func (h *hud) SpawnVisualEffect(kind round.EffectKind, pos physics.Vec) {
	h.effects = append(h.effects, effect{kind: kind, pos: pos, ttl: config.EffectLifetime})
}

func (h *hud) PlaySoundCue(cue round.Cue) {
	h.cues++
	h.lastCue = cue
}

func (h *hud) SetScoreboardText(text string) { h.scoreboard = text }

func (h *hud) SetTimerText(text string) { h.timer = text }

func (h *hud) ShowDraftUI(winner team.Team, choices []powerup.Effect) {
	h.draftVisible = true
	h.draftWinner = winner
	h.draftChoices = choices
}

func (h *hud) HideDraftUI() {
	h.draftVisible = false
	h.draftChoices = nil
}

func (h *hud) LoadEndScene(winner team.Team) {
	h.ended = true
	h.endWinner = winner
}

func (h *hud) ShakeCamera(intensity float64, d time.Duration) {
	// Stronger shakes win; a weaker one never cuts a running shake short.
	if intensity >= h.shake || h.shakeLeft <= 0 {
		h.shake = intensity
		h.shakeLeft = max(h.shakeLeft, d)
	}
}

func (h *hud) ShowPauseOverlay(visible bool) { h.paused = visible }

// advance ages effects and the camera shake.
func (h *hud) advance(dt time.Duration) {
	kept := h.effects[:0]
	for _, e := range h.effects {
		e.ttl -= dt
		if e.ttl > 0 {
			kept = append(kept, e)
		}
	}
	h.effects = kept

	if h.shakeLeft > 0 {
		h.shakeLeft -= dt
		if h.shakeLeft <= 0 {
			h.shakeLeft = 0
			h.shake = 0
		}
	}
}
