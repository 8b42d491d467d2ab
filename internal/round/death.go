package round

import (
	"github.com/theowiik/photon-phight/internal/event"
	"github.com/theowiik/photon-phight/internal/player"
)

// DamagePlayer applies damage during Active play and routes lethal hits into the death flow.
func (m *Machine) DamagePlayer(p *player.Player, amount int) {
	if m.phase != Active || !m.owns(p) || p.Frozen || !p.Alive || amount <= 0 {
		return
	}

	depleted := p.TakeDamage(amount)
	m.host.SpawnVisualEffect(EffectHurt, p.Position)
	m.host.PlaySoundCue(CueHurt)
	m.publish(event.PlayerHurt, m.playerPayload(p))

	if depleted {
		m.OnPlayerHealthDepleted(p)
	}
}

// OnPlayerHealthDepleted kills the fighter and arms its respawn timer.
func (m *Machine) OnPlayerHealthDepleted(p *player.Player) {
	if m.phase != Active || !m.owns(p) || !p.Alive {
		return
	}
	m.kill(p, CueDeath)
}

// OnPlayerOutOfBounds treats leaving the arena as lethal damage.
func (m *Machine) OnPlayerOutOfBounds(p *player.Player) {
	if m.phase != Active || !m.owns(p) || !p.Alive {
		return
	}
	p.Health = 0
	m.kill(p, CueFallDeath)
}

func (m *Machine) kill(p *player.Player, cue Cue) {
	at := p.Position
	m.host.SpawnVisualEffect(EffectRagdoll, at)
	m.host.SpawnVisualEffect(EffectExplosion, at)
	m.host.PlaySoundCue(cue)
	m.host.ShakeCamera(deathShake, deathShakeD)

	p.Spawn = m.world.SpawnPoint(p.Team)
	p.Kill()
	m.respawn[p.Team].Start(m.cfg.RespawnDelay)

	m.log.Info("player died", "player", p, "cue", cue, "at", at)
	payload := m.playerPayload(p)
	payload.Position = at
	m.publish(event.PlayerDied, payload)
}

// OnRespawnTimerExpired brings a dead fighter back. Outside Active it only clears
// the timer; the next round start revives everyone anyway.
func (m *Machine) OnRespawnTimerExpired(p *player.Player) {
	if !m.owns(p) {
		return
	}
	m.respawn[p.Team].Stop()
	if p.Alive || m.phase != Active {
		return
	}

	p.Revive()
	p.SetFrozen(false)
	m.log.Debug("player respawned", "player", p)
	m.publish(event.PlayerRespawned, m.playerPayload(p))
}

// RespawnPending reports whether p is waiting on its respawn timer.
func (m *Machine) RespawnPending(p *player.Player) bool {
	return m.owns(p) && m.respawn[p.Team].Running()
}

func (m *Machine) owns(p *player.Player) bool {
	return p != nil && p.Team.Valid() && m.players[p.Team] == p
}

func (m *Machine) playerPayload(p *player.Player) PlayerPayload {
	return PlayerPayload{Number: p.Number, Team: p.Team, Position: p.Position, Health: p.Health}
}
