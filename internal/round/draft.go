package round

import (
	"github.com/theowiik/photon-phight/internal/event"
	"github.com/theowiik/photon-phight/internal/powerup"
)

func (m *Machine) beginDraft() {
	m.phase = Drafting
	if m.cfg.DraftChoices == 1 {
		m.draft = []powerup.Effect{m.catalog.SelectRandom()}
	} else {
		m.draft = m.catalog.Draft(m.cfg.DraftChoices)
	}
	m.draftVisible = true
	m.host.ShowDraftUI(m.lastScorer, m.DraftChoices())
	m.log.Debug("draft opened", "winner", m.lastScorer, "choices", len(m.draft))
}

// OnPowerUpSelected applies effect, chosen by the last scorer, to the side that lost and starts
// the next round. It is ignored outside Drafting.
func (m *Machine) OnPowerUpSelected(effect powerup.Effect) {
	if m.phase != Drafting || !effect.Valid() {
		m.log.Debug("power-up selection ignored", "phase", m.phase, "effect", effect.Name)
		return
	}

	winner := m.players[m.lastScorer]
	loser := m.players[m.lastScorer.Opponent()]

	effect.Apply(loser, winner)
	if m.cfg.DebugApplyBoth {
		effect.Apply(winner, loser)
	}

	kind := EffectPowerUp
	if effect.IsCurse {
		kind = EffectCurse
	}
	m.host.SpawnVisualEffect(kind, loser.Position)
	m.host.PlaySoundCue(CuePowerUp)
	m.log.Info("power-up applied", "effect", effect, "to", loser, "both", m.cfg.DebugApplyBoth)
	m.publish(event.PowerUpApplied, PowerUpPayload{
		Effect: effect.Name,
		Curse:  effect.IsCurse,
		Target: loser.Team,
		Both:   m.cfg.DebugApplyBoth,
	})

	m.draft = nil
	m.draftVisible = false
	m.host.HideDraftUI()
	m.startRound()
}

// SelectDraftChoice picks one of the offered effects by index.
func (m *Machine) SelectDraftChoice(i int) bool {
	if m.phase != Drafting || i < 0 || i >= len(m.draft) {
		return false
	}
	m.OnPowerUpSelected(m.draft[i])
	return true
}

// DraftChoices returns a copy of the effects currently on offer.
func (m *Machine) DraftChoices() []powerup.Effect {
	out := make([]powerup.Effect, len(m.draft))
	copy(out, m.draft)
	return out
}

// DraftVisible reports whether the draft UI is showing.
func (m *Machine) DraftVisible() bool { return m.draftVisible }

// OnPauseToggleRequested flips the pause flag and the overlay together.
// While paused, Tick services no timers.
func (m *Machine) OnPauseToggleRequested() {
	if !m.started || m.phase == MatchOver {
		return
	}
	m.paused = !m.paused
	m.host.ShowPauseOverlay(m.paused)
	m.log.Info("pause toggled", "paused", m.paused)
	m.publish(event.PauseToggled, PausePayload{Paused: m.paused})
}
