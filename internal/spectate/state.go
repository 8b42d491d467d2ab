package spectate

import (
	"context"
	"time"

	"github.com/theowiik/photon-phight/internal/loop/server"
	"github.com/theowiik/photon-phight/internal/territory"
)

// FrameState is the frame type of periodic match summaries.
const FrameState = "state"

// Fighter is a fighter in a state frame.
type Fighter struct {
	Name   string  `json:"name" msgpack:"name"`
	Team   string  `json:"team" msgpack:"team"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Health int     `json:"hp" msgpack:"hp"`
	Alive  bool    `json:"alive" msgpack:"alive"`
}

// State summarizes a snapshot for viewers.
type State struct {
	Match    string    `json:"match" msgpack:"match"`
	Phase    string    `json:"phase" msgpack:"phase"`
	Round    int       `json:"round" msgpack:"round"`
	Light    int       `json:"light" msgpack:"light"`
	Dark     int       `json:"dark" msgpack:"dark"`
	Ties     int       `json:"ties" msgpack:"ties"`
	Timer    string    `json:"timer" msgpack:"timer"`
	Paused   bool      `json:"paused" msgpack:"paused"`
	Lamps    []int8    `json:"lamps" msgpack:"lamps"` // 0 neutral, 1 light, 2 dark
	Captures int       `json:"captures" msgpack:"captures"`
	Fighters []Fighter `json:"fighters" msgpack:"fighters"`
}

// StateFrame summarizes s into a frame.
func StateFrame(s *server.WorldSnapshot) Frame {
	st := State{
		Match:    s.MatchID.String(),
		Phase:    s.Phase.String(),
		Round:    s.Round,
		Light:    s.Score.Light,
		Dark:     s.Score.Dark,
		Ties:     s.Score.Ties,
		Timer:    s.Timer,
		Paused:   s.Paused,
		Lamps:    make([]int8, len(s.Lamps)),
		Captures: len(s.CapturePoints),
	}
	for i, l := range s.Lamps {
		switch l.State {
		case territory.Light:
			st.Lamps[i] = 1
		case territory.Dark:
			st.Lamps[i] = 2
		}
	}
	for _, p := range s.Players {
		st.Fighters = append(st.Fighters, Fighter{
			Name:   p.Name,
			Team:   p.Team.String(),
			X:      p.Position.X,
			Y:      p.Position.Y,
			Health: p.Health,
			Alive:  p.Alive,
		})
	}
	return Frame{Type: FrameState, Data: st}
}

// Stream broadcasts a state frame built from snapshot every interval while
// anyone is watching. It returns when ctx is done.
func (h *Hub) Stream(ctx context.Context, snapshot func() *server.WorldSnapshot, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.Viewers() == 0 {
				continue
			}
			if s := snapshot(); s != nil {
				h.Broadcast(StateFrame(s))
			}
		}
	}
}
