package config

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/powerup"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMatchIsValid(t *testing.T) {
	if err := DefaultMatch().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMatchTOML(t *testing.T) {
	path := writeFile(t, "match.toml", `
round_time_seconds = 30
score_to_win = 2
powerups = ["Gravitronizer", "Photon Boost"]
seed = 7
`)
	m, err := LoadMatch(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.RoundTimeSeconds != 30 || m.ScoreToWin != 2 || m.Seed != 7 {
		t.Errorf("decoded %+v", m)
	}
	if len(m.PowerUps) != 2 || m.PowerUps[1] != powerup.NamePhotonBoost {
		t.Errorf("powerups = %v", m.PowerUps)
	}
	// Untouched keys keep defaults.
	if m.RespawnDelaySeconds != 2 || m.DraftChoices != 3 {
		t.Errorf("defaults lost: %+v", m)
	}
}

func TestLoadMatchYAML(t *testing.T) {
	path := writeFile(t, "match.yml", `
capture_point_interval_seconds: 5
max_capture_points: 3
debug_apply_both: true
`)
	m, err := LoadMatch(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.CapturePointIntervalSeconds != 5 || m.MaxCapturePoints != 3 || !m.DebugApplyBoth {
		t.Errorf("decoded %+v", m)
	}
	if m.ScoreToWin != 4 {
		t.Errorf("ScoreToWin = %d, want default 4", m.ScoreToWin)
	}
}

func TestLoadMatchErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want error
	}{
		{"unsupported", "match.json", "{}", ErrUnsupportedFormat},
		{"zero score", "match.toml", "score_to_win = 0", ErrInvalidConfig},
		{"negative round", "match.yaml", "round_time_seconds: -1", ErrInvalidConfig},
		{"round below one tick", "match.toml", "round_time_seconds = 1e-10", ErrInvalidConfig},
		{"respawn below one tick", "match.yaml", "respawn_delay_seconds: 0.001", ErrInvalidConfig},
		{"zero capture interval", "match.toml", "capture_point_interval_seconds = 0", ErrInvalidConfig},
		{"unknown power-up", "match.toml", `powerups = ["Nope"]`, ErrInvalidConfig},
		{"empty power-ups", "match.toml", `powerups = []`, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMatch(writeFile(t, tt.file, tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadMatchMissingFile(t *testing.T) {
	if _, err := LoadMatch(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestMatchFromEnv(t *testing.T) {
	t.Setenv(MatchConfigEnv, "")
	m, err := MatchFromEnv()
	if err != nil || m.ScoreToWin != 4 {
		t.Fatalf("unset env: %+v, %v", m, err)
	}

	t.Setenv(MatchConfigEnv, writeFile(t, "m.toml", "score_to_win = 6"))
	m, err = MatchFromEnv()
	if err != nil || m.ScoreToWin != 6 {
		t.Fatalf("env file: %+v, %v", m, err)
	}
}

func TestConversions(t *testing.T) {
	m := DefaultMatch()
	m.RoundTimeSeconds = 1.5
	m.DebugApplyBoth = true

	rc := m.RoundConfig()
	if rc.RoundTime != 1500*time.Millisecond || rc.ScoreToWin != 4 || !rc.DebugApplyBoth {
		t.Errorf("RoundConfig = %+v", rc)
	}
	if rc.RespawnDelay != 2*time.Second || rc.TimeBetweenCapturePoint != 10*time.Second {
		t.Errorf("RoundConfig timers = %+v", rc)
	}

	bounds := &physics.Rect{Max: physics.Vec{X: 10, Y: 10}}
	sc := m.SpawnerConfig(bounds)
	if sc.MaxConcurrent != 2 || sc.Offset != 100 || sc.Bounds != bounds {
		t.Errorf("SpawnerConfig = %+v", sc)
	}

	cat, err := m.Catalog(rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 2 {
		t.Errorf("catalog has %d effects, want 2", cat.Len())
	}
}
