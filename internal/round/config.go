package round

import "time"

// Config holds round tuning. Zero fields fall back to DefaultConfig values.
type Config struct {
	RoundTime               time.Duration
	ScoreToWin              int
	TimeBetweenCapturePoint time.Duration
	RespawnDelay            time.Duration
	UIUpdateInterval        time.Duration
	DraftChoices            int
	DebugApplyBoth          bool // Apply drafted effects to both fighters
}

// DefaultConfig returns the standard match settings.
func DefaultConfig() Config {
	return Config{
		RoundTime:               40 * time.Second,
		ScoreToWin:              4,
		TimeBetweenCapturePoint: 10 * time.Second,
		RespawnDelay:            2 * time.Second,
		UIUpdateInterval:        100 * time.Millisecond,
		DraftChoices:            3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RoundTime <= 0 {
		c.RoundTime = d.RoundTime
	}
	if c.ScoreToWin <= 0 {
		c.ScoreToWin = d.ScoreToWin
	}
	if c.TimeBetweenCapturePoint <= 0 {
		c.TimeBetweenCapturePoint = d.TimeBetweenCapturePoint
	}
	if c.RespawnDelay <= 0 {
		c.RespawnDelay = d.RespawnDelay
	}
	if c.UIUpdateInterval <= 0 {
		c.UIUpdateInterval = d.UIUpdateInterval
	}
	if c.DraftChoices <= 0 {
		c.DraftChoices = d.DraftChoices
	}
	return c
}
