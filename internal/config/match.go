package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theowiik/photon-phight/internal/capture"
	loopconfig "github.com/theowiik/photon-phight/internal/loop/config"
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/powerup"
	"github.com/theowiik/photon-phight/internal/round"
)

var (
	ErrInvalidConfig     = errors.New("config: invalid match config")
	ErrUnsupportedFormat = errors.New("config: unsupported match config format")
)

// MatchConfigEnv names the environment variable holding the match file path.
const MatchConfigEnv = "MATCH_CONFIG"

// Match is the match settings file. Missing keys keep their defaults.
type Match struct {
	RoundTimeSeconds            float64  `toml:"round_time_seconds" yaml:"round_time_seconds"`
	ScoreToWin                  int      `toml:"score_to_win" yaml:"score_to_win"`
	CapturePointIntervalSeconds float64  `toml:"capture_point_interval_seconds" yaml:"capture_point_interval_seconds"`
	MaxCapturePoints            int      `toml:"max_capture_points" yaml:"max_capture_points"`
	CapturePointOffset          float64  `toml:"capture_point_offset" yaml:"capture_point_offset"`
	RespawnDelaySeconds         float64  `toml:"respawn_delay_seconds" yaml:"respawn_delay_seconds"`
	DraftChoices                int      `toml:"draft_choices" yaml:"draft_choices"`
	DebugApplyBoth              bool     `toml:"debug_apply_both" yaml:"debug_apply_both"`
	PowerUps                    []string `toml:"powerups" yaml:"powerups"`
	Seed                        uint64   `toml:"seed" yaml:"seed"` // 0 picks a random seed per match
}

// DefaultMatch returns the standard settings.
func DefaultMatch() Match {
	return Match{
		RoundTimeSeconds:            40,
		ScoreToWin:                  4,
		CapturePointIntervalSeconds: 10,
		MaxCapturePoints:            capture.DefaultMaxConcurrent,
		CapturePointOffset:          capture.DefaultOffset,
		RespawnDelaySeconds:         2,
		DraftChoices:                3,
		PowerUps:                    []string{powerup.NameGravitronizer, powerup.NameSteelBootsCurse},
	}
}

// LoadMatch reads a match file. The format follows the extension: .toml, .yaml or .yml.
func LoadMatch(path string) (Match, error) {
	m := DefaultMatch()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &m); err != nil {
			return Match{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Match{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Match{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	default:
		return Match{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err := m.Validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}

// MatchFromEnv loads the file named by MATCH_CONFIG, or returns the defaults
// when the variable is unset.
func MatchFromEnv() (Match, error) {
	path := GetEnv(MatchConfigEnv, "")
	if path == "" {
		return DefaultMatch(), nil
	}
	return LoadMatch(path)
}

// Validate rejects settings the match cannot run with.
func (m Match) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, name, v))
		}
	}
	// Durations shorter than one server tick would truncate to zero.
	atLeastTick := func(name string, v float64) {
		if seconds(v) < loopconfig.ServerTickTime {
			errs = append(errs, fmt.Errorf("%w: %s must be at least one tick (%v), got %v",
				ErrInvalidConfig, name, loopconfig.ServerTickTime, v))
		}
	}
	atLeastTick("round_time_seconds", m.RoundTimeSeconds)
	positive("score_to_win", float64(m.ScoreToWin))
	atLeastTick("capture_point_interval_seconds", m.CapturePointIntervalSeconds)
	positive("max_capture_points", float64(m.MaxCapturePoints))
	positive("capture_point_offset", m.CapturePointOffset)
	atLeastTick("respawn_delay_seconds", m.RespawnDelaySeconds)
	positive("draft_choices", float64(m.DraftChoices))

	if len(m.PowerUps) == 0 {
		errs = append(errs, fmt.Errorf("%w: powerups must not be empty", ErrInvalidConfig))
	}
	for _, name := range m.PowerUps {
		if _, err := powerup.Lookup(name); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
		}
	}
	return errors.Join(errs...)
}

// RoundConfig converts the settings for the round machine.
func (m Match) RoundConfig() round.Config {
	cfg := round.DefaultConfig()
	cfg.RoundTime = seconds(m.RoundTimeSeconds)
	cfg.ScoreToWin = m.ScoreToWin
	cfg.TimeBetweenCapturePoint = seconds(m.CapturePointIntervalSeconds)
	cfg.RespawnDelay = seconds(m.RespawnDelaySeconds)
	cfg.DraftChoices = m.DraftChoices
	cfg.DebugApplyBoth = m.DebugApplyBoth
	return cfg
}

// SpawnerConfig converts the capture point settings. bounds may be nil.
func (m Match) SpawnerConfig(bounds *physics.Rect) capture.Config {
	return capture.Config{
		MaxConcurrent: m.MaxCapturePoints,
		Offset:        m.CapturePointOffset,
		Bounds:        bounds,
	}
}

// Catalog builds the power-up catalog from the configured names.
func (m Match) Catalog(rng powerup.Source) (*powerup.Catalog, error) {
	return powerup.FromNames(rng, m.PowerUps)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
