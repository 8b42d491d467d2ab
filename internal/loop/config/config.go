// Package config centralizes the tunable parameters of the match server and clients.
package config

import "time"

// World dimensions in logical units. The whole arena is always on screen;
// rendering scales it to fit the terminal.
const (
	WorldWidth  = 480
	WorldHeight = 240
)

// Render area limits. Larger terminals get a centered, bordered render area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Players
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	BotName           = "BOT"
)

// Bots
const (
	BotDraftDelay = 1500 * time.Millisecond // How long a bot "thinks" before picking a power-up
)

// Match flow
const (
	MatchOverDisplay = 10 * time.Second // Time on the results screen before a rematch starts
	EffectLifetime   = 400 * time.Millisecond
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)
