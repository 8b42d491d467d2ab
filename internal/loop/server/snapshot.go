package server

import (
	"time"

	"github.com/theowiik/photon-phight/internal/loop/config"
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/team"
)

func aimOf(cmd Command) physics.Vec {
	return physics.Vec{X: cmd.AimX, Y: cmd.AimY}.Normalized()
}

func (s *Server) createSnapshot(dt time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.createSnapshotLocked(dt)
}

// createSnapshotLocked builds an immutable copy of everything clients draw.
func (s *Server) createSnapshotLocked(dt time.Duration) {
	m := s.match
	mc := m.machine
	h := m.hud

	snap := &WorldSnapshot{
		MatchID:       m.id,
		Phase:         mc.Phase(),
		Round:         mc.Round(),
		Score:         mc.Score(),
		Paused:        mc.Paused(),
		Scoreboard:    h.scoreboard,
		Timer:         h.timer,
		Width:         s.layout.Width,
		Height:        s.layout.Height,
		Platforms:     s.layout.Platforms,
		CapturePoints: mc.CapturePoints(),
		Over:          m.over,
		Aborted:       m.aborted,
		Shake:         h.shake,
		Cues:          h.cues,
		Clients:       len(s.clients),
		Delta:         dt,
	}

	for _, t := range team.All {
		p := m.players[t]
		snap.Players[t] = PlayerView{
			Name:      p.Name,
			Team:      t,
			Position:  p.Position,
			Aim:       p.Aim,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Alive:     p.Alive,
			Frozen:    p.Frozen,
			Bot:       s.seats[t] == nil,
		}
	}

	bullets := m.arena.Bullets()
	snap.Bullets = make([]BulletView, len(bullets))
	for i, b := range bullets {
		snap.Bullets[i] = BulletView{Position: b.Position, Team: b.Owner}
	}

	lamps := m.arena.Board().Lamps()
	snap.Lamps = make([]LampView, len(lamps))
	for i, l := range lamps {
		snap.Lamps[i] = LampView{Position: l.Position, State: l.State()}
	}

	snap.Effects = make([]EffectView, len(h.effects))
	for i, e := range h.effects {
		snap.Effects[i] = EffectView{
			Kind:     e.kind,
			Position: e.pos,
			Life:     float64(e.ttl) / float64(config.EffectLifetime),
		}
	}

	if h.draftVisible {
		d := &DraftView{Chooser: h.draftWinner}
		for _, c := range h.draftChoices {
			d.Choices = append(d.Choices, c.Name)
			d.Curses = append(d.Curses, c.IsCurse)
		}
		snap.Draft = d
	}

	if m.aborted {
		if err := mc.Err(); err != nil {
			snap.Reason = err.Error()
		}
	} else if w, ok := mc.Winner(); ok {
		snap.Winner = w
	}

	s.snapshot.Store(snap)
}
