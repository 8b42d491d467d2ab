// Package client runs one terminal connection: it reads keys, forwards them to
// the match server and draws the server's snapshots.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/theowiik/photon-phight/internal/draw"
	"github.com/theowiik/photon-phight/internal/input"
	"github.com/theowiik/photon-phight/internal/loop/config"
	"github.com/theowiik/photon-phight/internal/loop/server"
	"github.com/theowiik/photon-phight/internal/team"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.WorldWidth, config.WorldHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and sends it to the server.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Tapped(input.KeyQuit) {
		c.state.Running = false
	}

	if c.state.GameState == GameStatePlaying {
		c.server.SendInput(c.handle.ID, commandFor(c.state.Input))
	}
}

// commandFor translates one frame of keys into a server command.
func commandFor(in input.Input) server.Command {
	aimX, aimY := in.Aim()
	cmd := server.Command{
		MoveX: in.MoveX(),
		AimX:  aimX,
		AimY:  aimY,
		Jump:  in.Tapped(input.KeyJump),
		Shoot: in.Held(input.KeyShoot),
		Pause: in.Tapped(input.KeyPause),
	}
	if in.Number > 0 {
		cmd.Pick = in.Number
	}
	return cmd
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			c.handleEvent(ev)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(ev server.ClientEvent) {
	switch ev.Type {
	case server.EventPlayerDied:
		c.state.showBanner("You died. Respawning...")
	case server.EventRoundResolved:
		if ev.Tie {
			c.state.showBanner("Round tied")
		} else {
			c.state.showBanner(fmt.Sprintf("%s takes the round", ev.Team))
		}
	case server.EventMatchOver:
		c.state.showBanner(fmt.Sprintf("%s wins the match", ev.Team))
	case server.EventMatchAborted:
		c.state.GameState = GameStateAborted
		c.state.abortMsg = ev.Reason
	case server.EventServerShutdown:
		c.state.GameState = GameStateShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// update advances the current screen.
func (c *Client) update() {
	c.state.tickBanner()

	switch c.state.GameState {
	case GameStateStart, GameStateWatching:
		if c.state.Input.Tapped(input.KeySpace) || c.state.Input.Tapped(input.KeyEnter) {
			c.join()
		}
	case GameStateShutdown:
		c.state.shutdownTimer -= c.state.delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// join asks the server for a seat; without one the client watches.
func (c *Client) join() {
	c.inputStream.Reset()

	seat, ok := c.server.TakeSeat(c.handle.ID)
	if !ok {
		c.state.GameState = GameStateWatching
		c.state.showBanner("Both seats are taken")
		return
	}
	c.state.Team = seat
	c.state.GameState = GameStatePlaying
	c.state.showBanner(fmt.Sprintf("You fight for %s", seat))
}

// teamColor returns the fighter color for t.
func teamColor(t team.Team) draw.Color {
	if t == team.Dark {
		return draw.ColorDarkPlayer
	}
	return draw.ColorLightPlayer
}
