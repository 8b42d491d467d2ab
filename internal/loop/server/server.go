package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theowiik/photon-phight/internal/arena"
	settings "github.com/theowiik/photon-phight/internal/config"
	"github.com/theowiik/photon-phight/internal/event"
	"github.com/theowiik/photon-phight/internal/loop/config"
	"github.com/theowiik/photon-phight/internal/round"
	"github.com/theowiik/photon-phight/internal/team"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	TakeSeat(clientID int) (team.Team, bool)
	SendInput(clientID int, cmd Command)
	GetSnapshot() *WorldSnapshot
}

// Server runs one match at a time on a fixed tick. Two seats, Light and Dark,
// are driven by clients when taken and by bots otherwise.
type Server struct {
	cfg    settings.Match
	layout arena.Layout
	bus    *event.Bus
	log    *log.Logger

	match    *match
	seats    [2]*ClientHandle
	snapshot atomic.Pointer[WorldSnapshot]

	clients      map[int]*ClientHandle
	nextClientID int
	inputChan    chan ClientInput
	mu           sync.RWMutex

	pending [2]Command // Merged inputs per seat since the last tick
	stopped bool
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to client (death, round results, etc.)

	seat   team.Team
	seated bool
}

// ClientInput represents input from a specific client.
type ClientInput struct {
	ClientID int
	Command  Command
}

// Command is one frame of client input.
type Command struct {
	MoveX float64 // -1, 0 or 1
	AimX  float64 // Zero aim keeps the previous direction
	AimY  float64
	Jump  bool // Edge: true on the frame the key was pressed
	Shoot bool
	Pause bool // Edge
	Pick  int  // 1-based draft choice, 0 for none
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type   ClientEventType
	Team   team.Team // Died player, round winner or match winner
	Tie    bool
	Reason string // For EventMatchAborted
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventPlayerDied ClientEventType = iota
	EventRoundResolved
	EventMatchOver
	EventMatchAborted
	EventServerShutdown
)

// Options configures a Server.
type Options struct {
	Match  settings.Match
	Layout *arena.Layout // Defaults to arena.DefaultLayout at the configured world size
	Bus    *event.Bus    // Optional; spectators subscribe here
	Logger *log.Logger
}

// NewServer creates a game server and its first match.
func NewServer(opts Options) (*Server, error) {
	if err := opts.Match.Validate(); err != nil {
		return nil, err
	}

	layout := arena.DefaultLayout(config.WorldWidth, config.WorldHeight)
	if opts.Layout != nil {
		layout = *opts.Layout
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:          opts.Match,
		layout:       layout,
		bus:          bus,
		log:          logger.WithPrefix("server"),
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		inputChan:    make(chan ClientInput, 256),
	}
	s.subscribe()

	if err := s.startMatch(); err != nil {
		return nil, err
	}
	s.createSnapshot(0)
	return s, nil
}

// Bus returns the event bus every match publishes on.
func (s *Server) Bus() *event.Bus {
	return s.bus
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		dt := frameStart.Sub(lastTime)
		lastTime = frameStart

		s.step(dt)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect
// (up to the given timeout). The caller should cancel the server context after
// Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		notify(handle, ClientEvent{Type: EventServerShutdown})
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
// The client watches until it takes a seat.
func (s *Server) RegisterClient(username string) *ClientHandle {
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	s.log.Info("client connected", "id", handle.ID, "user", username)
	return handle
}

// UnregisterClient removes a client from the server. Its seat goes back to a bot.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	if handle.seated {
		s.seats[handle.seat] = nil
		s.pending[handle.seat] = Command{}
		s.match.players[handle.seat].Name = config.BotName
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.log.Info("client disconnected", "id", clientID, "user", handle.Username)
}

// TakeSeat gives the client the first free seat, Light first.
// It returns false when both seats are held by other clients.
func (s *Server) TakeSeat(clientID int) (team.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return team.Light, false
	}
	if handle.seated {
		return handle.seat, true
	}
	for _, t := range team.All {
		if s.seats[t] == nil {
			s.seats[t] = handle
			handle.seat, handle.seated = t, true
			s.match.players[t].Name = handle.Username
			s.log.Info("seat taken", "id", clientID, "team", t)
			return t, true
		}
	}
	return team.Light, false
}

// SendInput sends input from a client to the server.
func (s *Server) SendInput(clientID int, cmd Command) {
	select {
	case s.inputChan <- ClientInput{ClientID: clientID, Command: cmd}:
	default:
		// Input channel full, drop input
	}
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *WorldSnapshot {
	return s.snapshot.Load()
}

// step runs one tick.
func (s *Server) step(dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collectInputs()
	s.updateMatch(dt)
	s.createSnapshotLocked(dt)
}

// collectInputs merges pending client input into per-seat commands.
// Edge-triggered keys are OR'd so a press between ticks is never lost.
func (s *Server) collectInputs() {
	for {
		select {
		case ci := <-s.inputChan:
			handle, ok := s.clients[ci.ClientID]
			if !ok || !handle.seated {
				continue
			}
			p := &s.pending[handle.seat]
			cmd := ci.Command
			p.MoveX = cmd.MoveX
			p.Shoot = cmd.Shoot
			if cmd.AimX != 0 || cmd.AimY != 0 {
				p.AimX, p.AimY = cmd.AimX, cmd.AimY
			}
			p.Jump = p.Jump || cmd.Jump
			p.Pause = p.Pause || cmd.Pause
			if cmd.Pick > 0 {
				p.Pick = cmd.Pick
			}
		default:
			return
		}
	}
}

// updateMatch advances the current match by dt.
func (s *Server) updateMatch(dt time.Duration) {
	m := s.match
	if s.stopped {
		return
	}

	if m.over {
		m.overFor += dt
		if !m.aborted && m.overFor >= config.MatchOverDisplay {
			if err := s.startMatch(); err != nil {
				s.log.Error("rematch failed", "err", err)
				s.stopped = true
			}
		}
		return
	}

	var controls [2]arena.Controls
	for _, t := range team.All {
		cmd := s.pending[t]
		s.pending[t].Jump = false
		s.pending[t].Pause = false
		s.pending[t].Pick = 0

		if cmd.Pause {
			m.machine.HandleInput(round.Input{Kind: round.InputPause, Team: t})
		}
		if cmd.Pick > 0 {
			m.machine.HandleInput(round.Input{Kind: round.InputDraftPick, Team: t, Choice: cmd.Pick - 1})
		}

		if s.seats[t] == nil {
			controls[t] = botControls(m.bots[t], dt)
			continue
		}
		controls[t] = arena.Controls{
			MoveX: cmd.MoveX,
			Jump:  cmd.Jump,
			Aim:   aimOf(cmd),
			Shoot: cmd.Shoot,
		}
	}

	if m.machine.Phase() == round.Drafting && !m.machine.Paused() {
		s.botDraft(dt)
	} else {
		m.draftWait = 0
	}

	if !m.machine.Paused() {
		m.arena.Step(dt, controls)
	}

	if err := m.machine.Tick(dt); err != nil {
		s.log.Error("match aborted", "match", m.id, "err", err)
		s.stopped = true
	}
	m.hud.advance(dt)
}

// botDraft picks a power-up for a bot that won the round.
func (s *Server) botDraft(dt time.Duration) {
	m := s.match
	chooser := m.machine.LastScorer()
	if s.seats[chooser] != nil {
		return
	}
	m.draftWait += dt
	if m.draftWait < config.BotDraftDelay {
		return
	}
	m.draftWait = 0
	if n := len(m.machine.DraftChoices()); n > 0 {
		m.machine.HandleInput(round.Input{Kind: round.InputDraftPick, Team: chooser, Choice: m.rng.IntN(n)})
	}
}

// startMatch replaces the current match with a fresh one. Seats carry over.
func (s *Server) startMatch() error {
	var names [2]string
	for _, t := range team.All {
		names[t] = config.BotName
		if h := s.seats[t]; h != nil {
			names[t] = h.Username
		}
	}

	m, err := newMatch(s.cfg, s.layout, names, s.bus, s.log)
	if err != nil {
		return err
	}
	if s.match != nil {
		s.match.unsubscribe()
	}
	s.match = m
	s.pending = [2]Command{}

	if err := m.machine.Init(); err != nil {
		return err
	}
	s.log.Info("match started", "match", m.id, "light", names[team.Light], "dark", names[team.Dark])
	return nil
}

// subscribe forwards match events to clients.
func (s *Server) subscribe() {
	s.bus.Subscribe(event.PlayerDied, func(ev event.Event) {
		p, ok := ev.Payload.(round.PlayerPayload)
		if !ok {
			return
		}
		if h := s.seats[p.Team]; h != nil {
			notify(h, ClientEvent{Type: EventPlayerDied, Team: p.Team})
		}
	})

	s.bus.Subscribe(event.RoundResolved, func(ev event.Event) {
		p, ok := ev.Payload.(round.RoundResolvedPayload)
		if !ok {
			return
		}
		s.broadcast(ClientEvent{Type: EventRoundResolved, Team: p.Winner, Tie: p.Tie})
	})

	s.bus.Subscribe(event.MatchOver, func(ev event.Event) {
		p, ok := ev.Payload.(round.MatchOverPayload)
		if !ok {
			return
		}
		s.match.over = true
		if p.Aborted {
			s.match.aborted = true
			s.broadcast(ClientEvent{Type: EventMatchAborted, Reason: p.Reason})
			return
		}
		s.broadcast(ClientEvent{Type: EventMatchOver, Team: p.Winner})
	})
}

// broadcast sends ev to every client. Called with the lock held.
func (s *Server) broadcast(ev ClientEvent) {
	for _, h := range s.clients {
		notify(h, ev)
	}
}

func notify(h *ClientHandle, ev ClientEvent) {
	select {
	case h.EventsCh <- ev:
	default:
	}
}

// Err returns the fault that stopped the current match, if any.
func (s *Server) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.match.machine.Err(); err != nil {
		return err
	}
	if s.stopped {
		return errors.New("server: match stopped")
	}
	return nil
}
