package server

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/theowiik/photon-phight/internal/arena"
	"github.com/theowiik/photon-phight/internal/bot"
	"github.com/theowiik/photon-phight/internal/capture"
	settings "github.com/theowiik/photon-phight/internal/config"
	"github.com/theowiik/photon-phight/internal/event"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/round"
	"github.com/theowiik/photon-phight/internal/team"
)

// match is one best-of run between the two seats. A rematch builds a new one.
type match struct {
	id      uuid.UUID
	arena   *arena.Arena
	machine *round.Machine
	hud     *hud
	rng     *rand.Rand

	players [2]*player.Player
	bots    [2]*bot.Greedy

	unsubscribe func()

	over      bool
	aborted   bool
	overFor   time.Duration
	draftWait time.Duration
}

// newMatch wires a fresh arena, fighters and round machine on bus.
// names are the display names per seat.
func newMatch(cfg settings.Match, layout arena.Layout, names [2]string, bus *event.Bus, logger *log.Logger) (*match, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	catalog, err := cfg.Catalog(rng)
	if err != nil {
		return nil, fmt.Errorf("server: power-up catalog: %w", err)
	}

	id := uuid.New()
	a := arena.New(layout, arena.WithLogger(logger))

	var players [2]*player.Player
	for _, t := range team.All {
		p := player.New(int(t)+1, t, names[t], layout.Spawn(t))
		a.AddPlayer(p)
		players[t] = p
	}

	bounds := layout.Bounds()
	h := &hud{}
	m, err := round.New(cfg.RoundConfig(), round.Deps{
		Host:    h,
		World:   a,
		Catalog: catalog,
		Spawner: capture.NewSpawner(cfg.SpawnerConfig(&bounds), rng),
		Bus:     bus,
		Players: players[:],
		Logger:  logger.With("match", id.String()[:8]),
	})
	if err != nil {
		return nil, fmt.Errorf("server: round machine: %w", err)
	}
	a.SetReferee(m)

	var bots [2]*bot.Greedy
	for _, t := range team.All {
		bots[t] = bot.NewGreedy(players[t], bot.DefaultJumpInterval, bot.DefaultJumpRangeDeg)
		bots[t].AddOpponents(players[:]...)
	}

	return &match{
		id:          id,
		arena:       a,
		machine:     m,
		hud:         h,
		rng:         rng,
		players:     players,
		bots:        bots,
		unsubscribe: a.Subscribe(bus),
	}, nil
}

// botControls turns the policy's decision into arena controls.
func botControls(g *bot.Greedy, dt time.Duration) arena.Controls {
	g.Advance(dt)
	d := g.Update()
	return arena.Controls{
		MoveX: sign(d.Move.X),
		Jump:  g.ShouldJump(d.Move),
		Aim:   d.Aim,
		Shoot: g.ShouldShoot(),
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
