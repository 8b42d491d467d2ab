package client

import (
	"time"

	"github.com/theowiik/photon-phight/internal/draw"
	"github.com/theowiik/photon-phight/internal/input"
	"github.com/theowiik/photon-phight/internal/team"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStateWatching                  // Both seats taken; spectating until one frees up
	GameStatePlaying                   // Seated in the match
	GameStateAborted                   // Match stopped on a server fault
	GameStateShutdown                  // Server is shutting down
)

// bannerDuration is how long round and death messages stay on screen.
const bannerDuration = 2 * time.Second

// ClientState holds per-connection state (input, seat, screen, timers).
// Each client has its own instance, managed by the Client.
type ClientState struct {
	Input         input.Input
	GameState     GameState
	Team          team.Team // Seat, valid only while Playing
	termSizeFunc  draw.TermSizeFunc
	Running       bool
	delta         time.Duration
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool

	banner     string
	bannerLeft time.Duration
	abortMsg   string

	lastCues uint64 // Cue counter of the last drawn snapshot

	prevGameState GameState
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		Running:       true,
		prevGameState: -1,
	}
}

// showBanner puts msg on screen for bannerDuration.
func (s *ClientState) showBanner(msg string) {
	s.banner = msg
	s.bannerLeft = bannerDuration
}

func (s *ClientState) tickBanner() {
	if s.bannerLeft <= 0 {
		return
	}
	s.bannerLeft -= s.delta
	if s.bannerLeft <= 0 {
		s.banner = ""
	}
}
