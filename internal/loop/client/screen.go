package client

import (
	"fmt"
	"math"
	"time"

	"github.com/theowiik/photon-phight/internal/draw"
	"github.com/theowiik/photon-phight/internal/loop/config"
	"github.com/theowiik/photon-phight/internal/loop/server"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/round"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

// Pixel sizes for world objects.
const (
	capturePointRadius = 8.0
	effectRadius       = 10.0
	aimLength          = 12.0
	maxShake           = 6.0 // Logical units at full intensity
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	snapshot := c.server.GetSnapshot()
	if snapshot == nil {
		return c.chunkWriter.Flush()
	}

	c.shake(snapshot.Shake)
	c.drawWorld(snapshot)

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawPlayerNames(snapshot)
	c.drawUI(snapshot)

	if snapshot.Cues != c.state.lastCues {
		if c.state.lastCues != 0 && c.state.GameState == GameStatePlaying {
			c.chunkWriter.Bell()
		}
		c.state.lastCues = snapshot.Cues
	}

	return c.chunkWriter.Flush()
}

// shake jitters the canvas while the camera shakes.
func (c *Client) shake(intensity float64) {
	if intensity <= 0 {
		c.canvas.SetShift(0, 0)
		return
	}
	phase := float64(time.Now().UnixMilli()) / 25
	c.canvas.SetShift(math.Sin(phase)*intensity*maxShake, math.Cos(phase*1.3)*intensity*maxShake/2)
}

// drawWorld paints lamps, platforms, capture points, bullets, fighters and effects.
func (c *Client) drawWorld(s *server.WorldSnapshot) {
	cv := c.canvas

	for _, l := range s.Lamps {
		cv.FillCircle(draw.Point{X: l.Position.X, Y: l.Position.Y}, territory.LampRadius, lampColor(l.State))
	}

	for _, r := range s.Platforms {
		cv.FillRect(draw.Point{X: r.Min.X, Y: r.Min.Y}, draw.Point{X: r.Max.X, Y: r.Max.Y}, draw.ColorPlatform)
	}

	for _, p := range s.CapturePoints {
		cv.FillCircle(draw.Point{X: p.Position.X, Y: p.Position.Y}, capturePointRadius, draw.ColorCapture)
	}

	for _, b := range s.Bullets {
		col := draw.ColorLight
		if b.Team == team.Dark {
			col = draw.ColorDark
		}
		cv.Set(b.Position.X, b.Position.Y, col)
	}

	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		center := draw.Point{X: p.Position.X, Y: p.Position.Y}
		cv.FillCircle(center, player.Radius, teamColor(p.Team))
		tip := draw.Point{X: center.X + p.Aim.X*aimLength, Y: center.Y + p.Aim.Y*aimLength}
		cv.DrawLine(center, tip, teamColor(p.Team))
	}

	for _, e := range s.Effects {
		col := draw.ColorEffect
		switch e.Kind {
		case round.EffectCurse:
			col = draw.ColorCurse
		case round.EffectCapturePoint, round.EffectPowerUp:
			col = draw.ColorCapture
		}
		cv.FillCircle(draw.Point{X: e.Position.X, Y: e.Position.Y}, effectRadius*(1-e.Life)+1, col)
	}
}

func lampColor(s territory.State) draw.Color {
	switch s {
	case territory.Light:
		return draw.ColorLight
	case territory.Dark:
		return draw.ColorDark
	default:
		return draw.ColorNeutral
	}
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(s *server.WorldSnapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
		return
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
		return
	case c.state.GameState == GameStateStart:
		c.drawStartScreen(centerX, centerY)
		return
	case c.state.GameState == GameStateAborted:
		c.drawAbortedScreen(centerX, centerY)
		return
	}

	c.drawHUD(termWidth, termHeight, s)

	switch {
	case s.Over:
		c.drawMatchOver(centerX, centerY, s)
	case s.Paused:
		c.text(centerX, centerY, "PAUSED")
		c.text(centerX, centerY+2, "Press P to resume")
	case s.Draft != nil:
		c.drawDraft(centerX, centerY, s.Draft)
	}

	if c.state.banner != "" {
		c.text(centerX, 3, c.state.banner)
	}
}

// text writes s centered on col and marks the cells for repaint next frame.
func (c *Client) text(centerCol, row int, s string) {
	col := c.chunkWriter.WriteCentered(centerCol, row, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// drawHUD draws the scoreboard, round timer and seat info.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(termWidth, termHeight int, s *server.WorldSnapshot) {
	cw := c.chunkWriter

	score := fmt.Sprintf("%-60s", s.Scoreboard)
	cw.WriteAt(2, 1, score)
	c.canvas.MarkTextDirty(2, 1, len(score))

	timer := fmt.Sprintf("Round %d  %6s", s.Round, s.Timer)
	cw.WriteAt(termWidth-len(timer)-1, 1, timer)
	c.canvas.MarkTextDirty(termWidth-len(timer)-1, 1, len(timer))

	var seat string
	switch c.state.GameState {
	case GameStatePlaying:
		p := s.Players[c.state.Team]
		seat = fmt.Sprintf("%s (%s)  HP %3d/%-3d", p.Name, c.state.Team, p.Health, p.MaxHealth)
	case GameStateWatching:
		seat = "Watching. SPACE to take a free seat"
	}
	seat = fmt.Sprintf("%-40s", seat)
	cw.WriteAt(2, termHeight, seat)
	c.canvas.MarkTextDirty(2, termHeight, len(seat))

	viewers := fmt.Sprintf("Connected: %-3d", s.Clients)
	cw.WriteAt(termWidth-len(viewers)-1, termHeight, viewers)
	c.canvas.MarkTextDirty(termWidth-len(viewers)-1, termHeight, len(viewers))
}

// drawDraft lists the power-ups on offer.
func (c *Client) drawDraft(centerX, centerY int, d *server.DraftView) {
	title := fmt.Sprintf("%s picks a power-up", d.Chooser)
	if c.state.GameState == GameStatePlaying && c.state.Team == d.Chooser {
		title = "Pick a power-up"
	}
	c.text(centerX, centerY-len(d.Choices)-1, title)
	for i, name := range d.Choices {
		line := fmt.Sprintf("%d) %s", i+1, name)
		if d.Curses[i] {
			line += " (curse)"
		}
		c.text(centerX, centerY-len(d.Choices)+1+i, line)
	}
}

// drawMatchOver draws the results overlay.
func (c *Client) drawMatchOver(centerX, centerY int, s *server.WorldSnapshot) {
	title := fmt.Sprintf("%s WINS", s.Winner)
	if c.state.GameState == GameStatePlaying {
		if s.Winner == c.state.Team {
			title = "VICTORY"
		} else {
			title = "DEFEAT"
		}
	}
	c.text(centerX, centerY-2, title)
	c.text(centerX, centerY, s.Score.String())
	c.text(centerX, centerY+2, fmt.Sprintf("Rematch in %d seconds", int(config.MatchOverDisplay.Seconds())))
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` ___ _  _  ___ _____ ___  _  _   ___ _  _ ___ ___ _  _ _____ `,
		`| _ \ || |/ _ \_   _/ _ \| \| | | _ \ || |_ _/ __| || |_   _|`,
		`|  _/ __ | (_) || || (_) | .' | |  _/ __ || | (_ | __ | | |  `,
		`|_| |_||_|\___/ |_| \___/|_|\_| |_| |_||_|___\___|_||_| |_|  `,
	}

	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 8
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, titleStartY+i, line)
	}

	subtitle := "~ Light versus Dark over SSH ~"
	cw.WriteAt(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlHeader := "Controls"
	cw.WriteAt(centerX-len(controlHeader)/2, controlsY, controlHeader)

	controlLines := []string{
		"A D / < >  . . . . .  Move",
		"W / Up . . . . . . .  Jump",
		"I J K L U O  . . . . . Aim",
		"F  . . . . . . . . .  Fire",
		"1-9  . . . .  Pick power-up",
		"P  . . . . . . . . . Pause",
		"Q  . . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+1+i, line)
	}

	goal := "Light up the most lamps before the round timer runs out"
	cw.WriteAt(centerX-len(goal)/2, controlsY+len(controlLines)+2, goal)

	// Blinking start prompt
	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">>  Press SPACE to Fight  <<"
		cw.WriteAt(centerX-len(prompt)/2, controlsY+len(controlLines)+4, prompt)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.text(centerX, centerY-2, "INACTIVITY WARNING")
	c.text(centerX, centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	))
	c.text(centerX, centerY+2, "Press any key to continue")
}

// drawAbortedScreen explains a match stopped by a server fault.
func (c *Client) drawAbortedScreen(centerX, centerY int) {
	c.text(centerX, centerY-2, "MATCH ABORTED")
	if c.state.abortMsg != "" {
		c.text(centerX, centerY, c.state.abortMsg)
	}
	c.text(centerX, centerY+2, "Press Q to disconnect")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.text(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.text(centerX, centerY-1, "The server is restarting for maintenance.")
	c.text(centerX, centerY, "Please reconnect in a moment.")
	c.text(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1))
	c.text(centerX, centerY+4, "Press Q to disconnect now")
}

// drawPlayerNames draws names above the fighters.
// Marks the drawn cells as dirty so the canvas overwrites them next frame,
// preventing stale name text from persisting when fighters move.
func (c *Client) drawPlayerNames(s *server.WorldSnapshot) {
	if c.state.GameState == GameStateStart {
		return
	}
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()

	for _, p := range s.Players {
		if !p.Alive || p.Name == "" {
			continue
		}
		col, row := c.canvas.LogicalToTerminal(p.Position.X, p.Position.Y-player.Radius-4)
		col -= len(p.Name) / 2
		if row < 2 || row > termHeight {
			continue
		}
		if col < 1 || col+len(p.Name) > termWidth {
			continue
		}
		c.chunkWriter.WriteColored(col, row, teamColor(p.Team), p.Name)
		c.canvas.MarkTextDirty(col, row, len(p.Name))
	}
}
