// Package round owns the match lifecycle: rounds, scoring, deaths, capture
// points and the power-up draft between rounds.
//
// A Machine is driven by its host through Init, Tick and HandleInput, plus the
// engine callbacks (OnRoundTimerExpired, OnPlayerHealthDepleted, ...). It is not
// safe for concurrent use; hosts call it from a single simulation goroutine.
// Calls that arrive in the wrong phase are ignored.
package round

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theowiik/photon-phight/internal/capture"
	"github.com/theowiik/photon-phight/internal/event"
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/powerup"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
	"github.com/theowiik/photon-phight/internal/timer"
)

var (
	ErrMissingPlayer     = errors.New("round: need exactly one Light and one Dark player")
	ErrMissingDependency = errors.New("round: missing dependency")
	ErrAlreadyStarted    = errors.New("round: machine already started")
)

// Camera shake presets.
const (
	deathShake   = 0.6
	deathShakeD  = 300 * time.Millisecond
	captureShake = 0.4
	captureD     = 200 * time.Millisecond
)

// Deps are the collaborators a Machine needs.
type Deps struct {
	Host    Host
	World   World
	Catalog *powerup.Catalog
	Spawner *capture.Spawner
	Bus     *event.Bus // Optional; a private bus is created when nil
	Players []*player.Player
	Logger  *log.Logger // Optional; log.Default() when nil
}

// Machine is the round orchestration state machine.
type Machine struct {
	cfg     Config
	host    Host
	world   World
	catalog *powerup.Catalog
	spawner *capture.Spawner
	bus     *event.Bus
	log     *log.Logger

	players [2]*player.Player

	started    bool
	phase      Phase
	round      int
	score      Score
	lastScorer team.Team
	winner     team.Team
	err        error

	paused       bool
	draft        []powerup.Effect
	draftVisible bool

	roundTimer   *timer.Timer
	captureTimer *timer.Timer
	uiTimer      *timer.Timer
	respawn      [2]*timer.Timer

	elapsed time.Duration
}

// New validates the wiring and builds a machine in the Setup phase.
func New(cfg Config, deps Deps) (*Machine, error) {
	switch {
	case deps.Host == nil:
		return nil, fmt.Errorf("%w: host", ErrMissingDependency)
	case deps.World == nil:
		return nil, fmt.Errorf("%w: world", ErrMissingDependency)
	case deps.Catalog == nil:
		return nil, fmt.Errorf("%w: power-up catalog", ErrMissingDependency)
	case deps.Spawner == nil:
		return nil, fmt.Errorf("%w: capture point spawner", ErrMissingDependency)
	}

	var players [2]*player.Player
	for _, p := range deps.Players {
		if p == nil || !p.Team.Valid() || players[p.Team] != nil {
			return nil, ErrMissingPlayer
		}
		players[p.Team] = p
	}
	if players[team.Light] == nil || players[team.Dark] == nil {
		return nil, ErrMissingPlayer
	}

	cfg = cfg.withDefaults()

	bus := deps.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Machine{
		cfg:          cfg,
		host:         deps.Host,
		world:        deps.World,
		catalog:      deps.Catalog,
		spawner:      deps.Spawner,
		bus:          bus,
		log:          logger.WithPrefix("round"),
		players:      players,
		phase:        Setup,
		roundTimer:   timer.NewOneShot(),
		captureTimer: timer.NewRepeating(cfg.TimeBetweenCapturePoint),
		uiTimer:      timer.NewRepeating(cfg.UIUpdateInterval),
		respawn:      [2]*timer.Timer{timer.NewOneShot(), timer.NewOneShot()},
	}, nil
}

// Init starts the first round.
func (m *Machine) Init() error {
	if m.started {
		return ErrAlreadyStarted
	}
	m.started = true
	m.uiTimer.Restart()
	m.startRound()
	return nil
}

// Tick advances gameplay time by dt and services every timer.
// It returns a non-nil error only when the match was aborted by a wiring fault.
func (m *Machine) Tick(dt time.Duration) error {
	if !m.started || m.phase == MatchOver || m.paused || dt <= 0 {
		return nil
	}
	m.elapsed += dt

	for _, t := range team.All {
		if m.respawn[t].Advance(dt) {
			m.OnRespawnTimerExpired(m.players[t])
		}
	}

	if m.phase == Active && m.captureTimer.Advance(dt) {
		if err := m.OnCapturePointSpawnTick(); err != nil {
			return err
		}
	}

	if m.phase == Active && m.roundTimer.Advance(dt) {
		if err := m.OnRoundTimerExpired(); err != nil {
			return err
		}
	}

	if m.phase != MatchOver && m.uiTimer.Advance(dt) {
		if err := m.refreshHUD(); err != nil {
			return err
		}
	}
	return nil
}

// HandleInput routes host input.
func (m *Machine) HandleInput(in Input) {
	switch in.Kind {
	case InputPause:
		m.OnPauseToggleRequested()
	case InputDraftPick:
		if m.paused || m.phase != Drafting || in.Team != m.lastScorer {
			m.log.Debug("draft pick ignored", "team", in.Team, "phase", m.phase, "paused", m.paused)
			return
		}
		m.SelectDraftChoice(in.Choice)
	}
}

// startRound runs Setup and enters Active.
func (m *Machine) startRound() {
	m.phase = Setup
	m.round++

	m.world.ResetTiles()
	m.spawner.Clear()
	for _, t := range team.All {
		p := m.players[t]
		m.respawn[t].Stop()
		p.Spawn = m.world.SpawnPoint(t)
		p.ResetToSpawn()
		p.Revive()
		p.SetFrozen(false)
	}

	m.roundTimer.Start(m.cfg.RoundTime)
	m.captureTimer.Start(m.cfg.TimeBetweenCapturePoint)
	m.phase = Active

	m.host.PlaySoundCue(CueRoundStart)
	m.host.SetTimerText(formatSeconds(m.cfg.RoundTime))
	m.log.Info("round started", "round", m.round, "score", m.score)
	m.publish(event.RoundStarted, RoundStartedPayload{Round: m.round})
}

// OnRoundTimerExpired resolves the current round. Calls outside Active are ignored,
// so a second expiry in the same round never double-counts.
func (m *Machine) OnRoundTimerExpired() error {
	if m.phase != Active {
		m.log.Debug("round expiry ignored", "phase", m.phase)
		return nil
	}
	m.phase = Resolving

	m.roundTimer.Stop()
	m.captureTimer.Stop()
	for _, t := range team.All {
		m.respawn[t].Stop()
		m.players[t].SetFrozen(true)
	}
	m.world.ClearBullets()
	m.spawner.Clear()

	result, err := territory.Tally(m.world.Tiles())
	if err != nil {
		return m.abort(err)
	}

	winner, ok := result.Winner()
	if !ok {
		m.score.Ties++
		m.log.Info("round tied", "round", m.round, "light", result.Light, "dark", result.Dark)
		m.publish(event.RoundResolved, RoundResolvedPayload{Round: m.round, Result: result, Tie: true, Score: m.score})
		m.host.SetScoreboardText(m.scoreboard(result))
		m.startRound()
		return nil
	}

	switch winner {
	case team.Light:
		m.score.Light++
	case team.Dark:
		m.score.Dark++
	}
	m.lastScorer = winner
	m.host.PlaySoundCue(winCue(winner))
	m.host.SetScoreboardText(m.scoreboard(result))
	m.log.Info("round won", "round", m.round, "winner", winner, "light", result.Light, "dark", result.Dark, "score", m.score)
	m.publish(event.RoundResolved, RoundResolvedPayload{Round: m.round, Result: result, Winner: winner, Score: m.score})

	if m.score.Light >= m.cfg.ScoreToWin || m.score.Dark >= m.cfg.ScoreToWin {
		m.endMatch(winner)
		return nil
	}

	m.beginDraft()
	return nil
}

func (m *Machine) endMatch(winner team.Team) {
	m.phase = MatchOver
	m.winner = winner
	m.uiTimer.Stop()
	m.log.Info("match over", "winner", winner, "score", m.score)
	m.host.LoadEndScene(winner)
	m.publish(event.MatchOver, MatchOverPayload{Winner: winner, Score: m.score})
}

// abort ends the match on a wiring fault and returns the wrapped error.
func (m *Machine) abort(cause error) error {
	m.phase = MatchOver
	m.roundTimer.Stop()
	m.captureTimer.Stop()
	m.uiTimer.Stop()
	m.err = fmt.Errorf("round %d aborted: %w", m.round, cause)
	m.log.Error("match aborted", "err", m.err)
	m.publish(event.MatchOver, MatchOverPayload{Score: m.score, Aborted: true, Reason: m.err.Error()})
	return m.err
}

// OnCapturePointSpawnTick spawns a capture point near the side that is behind.
func (m *Machine) OnCapturePointSpawnTick() error {
	if m.phase != Active {
		return nil
	}

	result, err := territory.Tally(m.world.Tiles())
	if err != nil {
		return m.abort(err)
	}

	p, ok := m.spawner.Tick(result, func(t team.Team) physics.Vec {
		return m.players[t].Position
	})
	if !ok {
		m.log.Debug("capture point cap reached", "count", m.spawner.Count())
		return nil
	}

	m.host.SpawnVisualEffect(EffectCapturePoint, p.Position)
	m.log.Debug("capture point spawned", "id", p.ID, "near", result.Losing())
	m.publish(event.CapturePointSpawned, CapturePointPayload{ID: p.ID, Position: p.Position, Team: result.Losing()})
	return nil
}

// OnCapturePointCaptured removes a captured point and fires its side effects.
func (m *Machine) OnCapturePointCaptured(id capture.PointID, by team.Team) {
	if m.phase != Active || !by.Valid() {
		return
	}
	p, ok := m.spawner.OnCaptured(id, by)
	if !ok {
		return
	}

	m.host.SpawnVisualEffect(EffectExplosion, p.Position)
	m.host.PlaySoundCue(CueCapture)
	m.host.ShakeCamera(captureShake, captureD)
	m.log.Debug("capture point captured", "id", p.ID, "team", by)
	m.publish(event.CapturePointCaptured, CapturePointPayload{ID: p.ID, Position: p.Position, Team: by})
}

// CapturePoints returns the live capture points.
func (m *Machine) CapturePoints() []capture.Point {
	return m.spawner.Points()
}

func (m *Machine) refreshHUD() error {
	result, err := territory.Tally(m.world.Tiles())
	if err != nil {
		return m.abort(err)
	}
	m.host.SetScoreboardText(m.scoreboard(result))
	m.host.SetTimerText(formatSeconds(m.roundTimer.Remaining()))
	return nil
}

func (m *Machine) scoreboard(r territory.Result) string {
	return fmt.Sprintf("%s | %s", territory.Percentages(r), m.score)
}

func (m *Machine) publish(kind event.Kind, payload any) {
	m.bus.Publish(event.Event{Kind: kind, Time: m.elapsed, Payload: payload})
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Bus returns the event bus the machine publishes on.
func (m *Machine) Bus() *event.Bus { return m.bus }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Round returns the 1-based number of the current round.
func (m *Machine) Round() int { return m.round }

// Score returns the match score.
func (m *Machine) Score() Score { return m.score }

// LastScorer returns the side that won the most recent decided round.
func (m *Machine) LastScorer() team.Team { return m.lastScorer }

// Paused reports whether gameplay time is frozen.
func (m *Machine) Paused() bool { return m.paused }

// Elapsed returns gameplay time since Init, excluding pauses.
func (m *Machine) Elapsed() time.Duration { return m.elapsed }

// RoundTimeLeft returns the time left in the current round.
func (m *Machine) RoundTimeLeft() time.Duration { return m.roundTimer.Remaining() }

// Player returns the fighter for t.
func (m *Machine) Player(t team.Team) *player.Player { return m.players[t] }

// Err returns the fault that aborted the match, if any.
func (m *Machine) Err() error { return m.err }

// Winner returns the match winner once the match is over.
func (m *Machine) Winner() (team.Team, bool) {
	if m.phase != MatchOver || m.err != nil {
		return team.Light, false
	}
	return m.winner, true
}
