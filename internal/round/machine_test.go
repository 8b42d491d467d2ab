package round

import (
	"errors"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theowiik/photon-phight/internal/capture"
	"github.com/theowiik/photon-phight/internal/event"
	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/powerup"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

const tick = 10 * time.Millisecond

type fakeHost struct {
	effects      []EffectKind
	cues         []Cue
	scoreboard   string
	timerText    string
	draftShown   int
	draftHidden  int
	draftWinner  team.Team
	draftOffered []powerup.Effect
	endScenes    []team.Team
	shakes       int
	pauseOverlay bool
}

func (h *fakeHost) SpawnVisualEffect(kind EffectKind, _ physics.Vec) {
	h.effects = append(h.effects, kind)
}
func (h *fakeHost) PlaySoundCue(cue Cue)          { h.cues = append(h.cues, cue) }
func (h *fakeHost) SetScoreboardText(text string) { h.scoreboard = text }
func (h *fakeHost) SetTimerText(text string)      { h.timerText = text }
func (h *fakeHost) ShowDraftUI(winner team.Team, choices []powerup.Effect) {
	h.draftShown++
	h.draftWinner = winner
	h.draftOffered = choices
}
func (h *fakeHost) HideDraftUI()                       { h.draftHidden++ }
func (h *fakeHost) LoadEndScene(winner team.Team)      { h.endScenes = append(h.endScenes, winner) }
func (h *fakeHost) ShakeCamera(float64, time.Duration) { h.shakes++ }
func (h *fakeHost) ShowPauseOverlay(visible bool)      { h.pauseOverlay = visible }
func (h *fakeHost) countCue(c Cue) (n int) {
	for _, got := range h.cues {
		if got == c {
			n++
		}
	}
	return n
}

type tile territory.State

func (t *tile) State() territory.State { return territory.State(*t) }

type fakeWorld struct {
	tiles   []*tile
	resets  int
	cleared int
	spawns  map[team.Team]physics.Vec
}

func newFakeWorld(n int) *fakeWorld {
	w := &fakeWorld{spawns: map[team.Team]physics.Vec{
		team.Light: {X: 50, Y: 100},
		team.Dark:  {X: 400, Y: 100},
	}}
	for i := 0; i < n; i++ {
		t := tile(territory.Neutral)
		w.tiles = append(w.tiles, &t)
	}
	return w
}

func (w *fakeWorld) Tiles() []territory.Tile {
	out := make([]territory.Tile, len(w.tiles))
	for i, t := range w.tiles {
		out[i] = t
	}
	return out
}

func (w *fakeWorld) ResetTiles() {
	w.resets++
	for _, t := range w.tiles {
		*t = tile(territory.Neutral)
	}
}

func (w *fakeWorld) ClearBullets()                      { w.cleared++ }
func (w *fakeWorld) SpawnPoint(t team.Team) physics.Vec { return w.spawns[t] }

// paint sets light/dark counts; the rest stay neutral.
func (w *fakeWorld) paint(light, dark int) {
	for i, t := range w.tiles {
		switch {
		case i < light:
			*t = tile(territory.Light)
		case i < light+dark:
			*t = tile(territory.Dark)
		default:
			*t = tile(territory.Neutral)
		}
	}
}

type fixture struct {
	m       *Machine
	host    *fakeHost
	world   *fakeWorld
	light   *player.Player
	dark    *player.Player
	spawner *capture.Spawner
	events  []event.Event
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		host:  &fakeHost{},
		world: newFakeWorld(8),
		light: player.New(1, team.Light, "light", physics.Zero),
		dark:  player.New(2, team.Dark, "dark", physics.Zero),
	}
	rng := rand.New(rand.NewPCG(1, 2))
	f.spawner = capture.NewSpawner(capture.Config{}, rng)
	bus := event.NewBus()
	bus.SubscribeAll(func(ev event.Event) { f.events = append(f.events, ev) })

	m, err := New(cfg, Deps{
		Host:    f.host,
		World:   f.world,
		Catalog: powerup.Default(rng),
		Spawner: f.spawner,
		Bus:     bus,
		Players: []*player.Player{f.light, f.dark},
		Logger:  log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.m = m
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return f
}

func (f *fixture) count(kind event.Kind) (n int) {
	for _, ev := range f.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// last returns the payload of the most recent event of kind, or nil.
func (f *fixture) last(kind event.Kind) any {
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Kind == kind {
			return f.events[i].Payload
		}
	}
	return nil
}

// winRound paints the board for winner and expires the round.
func (f *fixture) winRound(t *testing.T, winner team.Team) {
	t.Helper()
	if winner == team.Light {
		f.world.paint(5, 2)
	} else {
		f.world.paint(2, 5)
	}
	if err := f.m.OnRoundTimerExpired(); err != nil {
		t.Fatalf("OnRoundTimerExpired: %v", err)
	}
}

func TestNewValidatesPlayers(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	base := Deps{
		Host:    &fakeHost{},
		World:   newFakeWorld(1),
		Catalog: powerup.Default(rng),
		Spawner: capture.NewSpawner(capture.Config{}, rng),
		Logger:  log.New(io.Discard),
	}
	light := player.New(1, team.Light, "", physics.Zero)
	dark := player.New(2, team.Dark, "", physics.Zero)

	tests := []struct {
		name    string
		players []*player.Player
	}{
		{"none", nil},
		{"only light", []*player.Player{light}},
		{"two light", []*player.Player{light, player.New(3, team.Light, "", physics.Zero)}},
		{"nil entry", []*player.Player{light, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := base
			deps.Players = tt.players
			if _, err := New(Config{}, deps); !errors.Is(err, ErrMissingPlayer) {
				t.Errorf("err = %v, want ErrMissingPlayer", err)
			}
		})
	}

	deps := base
	deps.Players = []*player.Player{dark, light}
	deps.Host = nil
	if _, err := New(Config{}, deps); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("nil host err = %v, want ErrMissingDependency", err)
	}
}

func TestInitStartsActiveRound(t *testing.T) {
	f := newFixture(t, Config{})

	if f.m.Phase() != Active {
		t.Fatalf("Phase = %v, want Active", f.m.Phase())
	}
	if f.m.Round() != 1 {
		t.Errorf("Round = %d, want 1", f.m.Round())
	}
	if f.world.resets != 1 {
		t.Errorf("tile resets = %d, want 1", f.world.resets)
	}
	if f.light.Position != f.world.spawns[team.Light] || f.dark.Position != f.world.spawns[team.Dark] {
		t.Error("players should stand on their spawn points")
	}
	if f.light.Frozen || f.dark.Frozen {
		t.Error("players should be unfrozen")
	}
	if f.m.RoundTimeLeft() != 40*time.Second {
		t.Errorf("RoundTimeLeft = %v, want 40s", f.m.RoundTimeLeft())
	}
	if err := f.m.Init(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Init err = %v", err)
	}
}

func TestRoundTimerDrivesResolution(t *testing.T) {
	f := newFixture(t, Config{RoundTime: 2 * time.Second})
	f.world.paint(4, 1)

	for i := 0; i < 199; i++ {
		if err := f.m.Tick(tick); err != nil {
			t.Fatal(err)
		}
	}
	if f.m.Phase() != Active {
		t.Fatalf("resolved early: phase %v", f.m.Phase())
	}
	f.m.Tick(tick)

	if f.m.Phase() != Drafting {
		t.Fatalf("Phase = %v, want Drafting", f.m.Phase())
	}
	if f.m.Score().Light != 1 {
		t.Errorf("Score = %v, want Light 1", f.m.Score())
	}
	if !f.light.Frozen || !f.dark.Frozen {
		t.Error("players should be frozen while resolving/drafting")
	}
	if f.world.cleared != 1 {
		t.Errorf("ClearBullets calls = %d, want 1", f.world.cleared)
	}
}

func TestRoundResolutionIsIdempotent(t *testing.T) {
	f := newFixture(t, Config{})
	f.world.paint(3, 1)

	if err := f.m.OnRoundTimerExpired(); err != nil {
		t.Fatal(err)
	}
	if err := f.m.OnRoundTimerExpired(); err != nil {
		t.Fatal(err)
	}

	if got := f.m.Score(); got != (Score{Light: 1}) {
		t.Errorf("Score = %+v, want {Light:1}", got)
	}
	if f.count(event.RoundResolved) != 1 {
		t.Errorf("RoundResolved published %d times", f.count(event.RoundResolved))
	}
}

func TestTieSkipsDraft(t *testing.T) {
	tests := []struct {
		name        string
		light, dark int
	}{
		{"three all with neutrals", 3, 3},
		{"both zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Config{})
			f.world.paint(tt.light, tt.dark)
			lightJump := f.light.Movement.JumpForce
			darkGravity := f.dark.Gun.BulletGravity

			if err := f.m.OnRoundTimerExpired(); err != nil {
				t.Fatal(err)
			}

			if got := f.m.Score(); got != (Score{Ties: 1}) {
				t.Errorf("Score = %+v, want {Ties:1}", got)
			}
			if f.m.Phase() != Active || f.m.Round() != 2 {
				t.Errorf("Phase = %v round %d, want Active round 2", f.m.Phase(), f.m.Round())
			}
			if f.host.draftShown != 0 {
				t.Error("draft must not be shown on a tie")
			}
			if f.light.Movement.JumpForce != lightJump || f.dark.Gun.BulletGravity != darkGravity {
				t.Error("no power-up may be applied on a tie")
			}
			if f.count(event.PowerUpApplied) != 0 {
				t.Error("PowerUpApplied published on a tie")
			}
		})
	}
}

func TestWinOpensDraftForWinner(t *testing.T) {
	f := newFixture(t, Config{})
	f.winRound(t, team.Dark)

	if f.m.Phase() != Drafting {
		t.Fatalf("Phase = %v, want Drafting", f.m.Phase())
	}
	if f.host.draftShown != 1 || f.host.draftWinner != team.Dark {
		t.Errorf("draft shown %d times for %v", f.host.draftShown, f.host.draftWinner)
	}
	if !f.m.DraftVisible() || f.m.RoundTimeLeft() != 0 {
		t.Error("draft visible must exclude a running round timer")
	}
	if f.host.countCue(CueDarkWins) != 1 {
		t.Error("dark win cue not played")
	}
	if f.m.LastScorer() != team.Dark {
		t.Errorf("LastScorer = %v", f.m.LastScorer())
	}
}

func TestPowerUpAppliedToLoser(t *testing.T) {
	f := newFixture(t, Config{})
	f.winRound(t, team.Light)

	f.m.OnPowerUpSelected(powerup.Gravitronizer)

	if f.dark.Gun.BulletGravity != 0 {
		t.Errorf("loser BulletGravity = %v, want 0", f.dark.Gun.BulletGravity)
	}
	if f.light.Gun.BulletGravity == 0 {
		t.Error("winner must not receive the effect")
	}
	if f.host.draftHidden != 1 || f.m.DraftVisible() {
		t.Error("draft UI should be hidden after selection")
	}
	if f.m.Phase() != Active || f.m.Round() != 2 {
		t.Errorf("Phase = %v round %d, want Active round 2", f.m.Phase(), f.m.Round())
	}
	if f.light.Frozen || f.dark.Frozen {
		t.Error("next round should unfreeze both players")
	}
}

func TestHealthBoostFillsAtNextRound(t *testing.T) {
	f := newFixture(t, Config{})
	f.winRound(t, team.Light)

	f.m.OnPowerUpSelected(powerup.HealthBoost)

	if f.dark.MaxHealth != player.DefaultMaxHealth+50 || f.dark.Health != f.dark.MaxHealth {
		t.Errorf("loser health %d/%d, want full at %d", f.dark.Health, f.dark.MaxHealth, player.DefaultMaxHealth+50)
	}
	if f.light.MaxHealth != player.DefaultMaxHealth {
		t.Errorf("winner MaxHealth = %d", f.light.MaxHealth)
	}
}

func TestCurseHitsWinner(t *testing.T) {
	f := newFixture(t, Config{})
	f.winRound(t, team.Light)
	before := f.light.Movement.JumpForce

	f.m.OnPowerUpSelected(powerup.SteelBootsCurse)

	if f.light.Movement.JumpForce >= before {
		t.Errorf("winner JumpForce = %v, want < %v", f.light.Movement.JumpForce, before)
	}
	if f.host.effects[len(f.host.effects)-1] != EffectCurse {
		t.Errorf("last effect = %v, want curse", f.host.effects[len(f.host.effects)-1])
	}
}

func TestDebugAppliesToBoth(t *testing.T) {
	f := newFixture(t, Config{DebugApplyBoth: true})
	f.winRound(t, team.Dark)

	f.m.OnPowerUpSelected(powerup.Gravitronizer)

	if f.light.Gun.BulletGravity != 0 || f.dark.Gun.BulletGravity != 0 {
		t.Errorf("gravity light=%v dark=%v, want both 0", f.light.Gun.BulletGravity, f.dark.Gun.BulletGravity)
	}
}

func TestPowerUpOutOfPhaseIgnored(t *testing.T) {
	f := newFixture(t, Config{})

	f.m.OnPowerUpSelected(powerup.Gravitronizer)

	if f.light.Gun.BulletGravity == 0 || f.dark.Gun.BulletGravity == 0 {
		t.Error("selection during Active must be ignored")
	}
	if f.m.Phase() != Active || f.m.Round() != 1 {
		t.Errorf("Phase = %v round %d", f.m.Phase(), f.m.Round())
	}
}

func TestDraftPickInput(t *testing.T) {
	f := newFixture(t, Config{})
	f.winRound(t, team.Light)

	choice := f.m.DraftChoices()[0]

	// The loser cannot pick.
	f.m.HandleInput(Input{Kind: InputDraftPick, Team: team.Dark, Choice: 0})
	if f.m.Phase() != Drafting {
		t.Fatal("loser pick should be ignored")
	}
	// Out of range.
	f.m.HandleInput(Input{Kind: InputDraftPick, Team: team.Light, Choice: 9})
	if f.m.Phase() != Drafting {
		t.Fatal("out of range pick should be ignored")
	}

	f.m.HandleInput(Input{Kind: InputDraftPick, Team: team.Light, Choice: 0})
	if f.m.Phase() != Active {
		t.Fatalf("Phase = %v, want Active", f.m.Phase())
	}
	if f.count(event.PowerUpApplied) != 1 {
		t.Fatal("expected one PowerUpApplied")
	}
	p := f.last(event.PowerUpApplied).(PowerUpPayload)
	if p.Effect != choice.Name || p.Target != team.Dark {
		t.Errorf("applied %q to %v, want %q to Dark", p.Effect, p.Target, choice.Name)
	}
}

func TestSingleChoiceDraft(t *testing.T) {
	f := newFixture(t, Config{DraftChoices: 1})
	f.winRound(t, team.Dark)

	choices := f.m.DraftChoices()
	if len(choices) != 1 {
		t.Fatalf("DraftChoices = %v, want one effect", choices)
	}
	if choices[0].Name != powerup.NameGravitronizer && choices[0].Name != powerup.NameSteelBootsCurse {
		t.Errorf("unexpected choice %q", choices[0].Name)
	}

	f.m.HandleInput(Input{Kind: InputDraftPick, Team: team.Dark, Choice: 0})
	if f.m.Phase() != Active || f.m.Round() != 2 {
		t.Errorf("Phase = %v round %d, want Active round 2", f.m.Phase(), f.m.Round())
	}
}

func TestLightWinsFourStraight(t *testing.T) {
	f := newFixture(t, Config{RoundTime: 40 * time.Second, ScoreToWin: 4})

	for r := 1; r <= 4; r++ {
		f.winRound(t, team.Light)
		if r < 4 {
			if f.m.Phase() != Drafting {
				t.Fatalf("round %d: Phase = %v, want Drafting", r, f.m.Phase())
			}
			f.m.OnPowerUpSelected(powerup.Gravitronizer)
		}
	}

	if f.m.Phase() != MatchOver {
		t.Fatalf("Phase = %v, want MatchOver", f.m.Phase())
	}
	if len(f.host.endScenes) != 1 || f.host.endScenes[0] != team.Light {
		t.Errorf("LoadEndScene calls = %v, want [Light]", f.host.endScenes)
	}
	if f.host.draftShown != 3 {
		t.Errorf("draft shown %d times, want 3 (never after round 4)", f.host.draftShown)
	}
	if w, ok := f.m.Winner(); !ok || w != team.Light {
		t.Errorf("Winner = %v, %v", w, ok)
	}

	// Terminal: nothing moves any more.
	f.m.OnRoundTimerExpired()
	f.m.OnPowerUpSelected(powerup.Gravitronizer)
	f.m.OnPauseToggleRequested()
	for i := 0; i < 600; i++ {
		f.m.Tick(tick)
	}
	if f.m.Phase() != MatchOver || len(f.host.endScenes) != 1 || f.m.Score().Light != 4 {
		t.Error("MatchOver must be terminal")
	}
}

func TestMatchOverRegardlessOfOrder(t *testing.T) {
	sequences := [][]team.Team{
		{team.Dark, team.Light, team.Dark, team.Light, team.Dark, team.Light, team.Dark},
		{team.Light, team.Light, team.Light, team.Dark, team.Dark, team.Dark, team.Dark},
		{team.Dark, team.Dark, team.Dark, team.Dark},
	}
	for i, seq := range sequences {
		f := newFixture(t, Config{ScoreToWin: 4})
		for j, w := range seq {
			f.winRound(t, w)
			last := j == len(seq)-1
			if last {
				break
			}
			if f.m.Phase() != Drafting {
				t.Fatalf("seq %d step %d: Phase = %v, want Drafting", i, j, f.m.Phase())
			}
			f.m.OnPowerUpSelected(powerup.Gravitronizer)
		}
		if f.m.Phase() != MatchOver {
			t.Errorf("seq %d: Phase = %v, want MatchOver", i, f.m.Phase())
		}
		if f.host.draftShown != len(seq)-1 {
			t.Errorf("seq %d: draft shown %d times, want %d", i, f.host.draftShown, len(seq)-1)
		}
		if len(f.host.endScenes) != 1 || f.host.endScenes[0] != seq[len(seq)-1] {
			t.Errorf("seq %d: end scenes %v", i, f.host.endScenes)
		}
	}
}

func TestDeathAndRespawn(t *testing.T) {
	f := newFixture(t, Config{})
	f.dark.Position = physics.Vec{X: 250, Y: 30}

	f.m.DamagePlayer(f.dark, 60)
	if !f.dark.Alive || f.dark.Health != 40 {
		t.Fatalf("after 60 damage: Alive=%v Health=%d", f.dark.Alive, f.dark.Health)
	}
	f.m.DamagePlayer(f.dark, 60)

	if f.dark.Alive || !f.dark.Frozen {
		t.Fatalf("after lethal damage: Alive=%v Frozen=%v", f.dark.Alive, f.dark.Frozen)
	}
	if f.dark.Position != f.world.spawns[team.Dark] {
		t.Errorf("dead player at %v, want spawn", f.dark.Position)
	}
	if !f.m.RespawnPending(f.dark) {
		t.Error("respawn timer should be armed")
	}
	if f.count(event.PlayerDied) != 1 || f.count(event.PlayerHurt) != 2 {
		t.Errorf("died=%d hurt=%d", f.count(event.PlayerDied), f.count(event.PlayerHurt))
	}

	// Hits on a dead player change nothing.
	f.m.DamagePlayer(f.dark, 60)
	f.m.OnPlayerHealthDepleted(f.dark)
	if f.count(event.PlayerDied) != 1 {
		t.Error("dead player died twice")
	}

	for i := 0; i < 199; i++ {
		f.m.Tick(tick)
	}
	if f.dark.Alive {
		t.Fatal("respawned before 2s")
	}
	f.m.Tick(tick)
	if !f.dark.Alive || f.dark.Frozen || f.dark.Health != f.dark.MaxHealth {
		t.Errorf("after 2s: Alive=%v Frozen=%v Health=%d", f.dark.Alive, f.dark.Frozen, f.dark.Health)
	}
	if f.m.Phase() != Active || f.m.Score() != (Score{}) {
		t.Error("respawn must not touch round state")
	}
}

func TestOutOfBoundsIsLethal(t *testing.T) {
	f := newFixture(t, Config{})

	f.m.OnPlayerOutOfBounds(f.light)

	if f.light.Alive || !f.light.Frozen {
		t.Errorf("Alive=%v Frozen=%v", f.light.Alive, f.light.Frozen)
	}
	if f.host.countCue(CueFallDeath) != 1 {
		t.Error("fall death cue not played")
	}
	f.m.OnPlayerOutOfBounds(f.light)
	if f.count(event.PlayerDied) != 1 {
		t.Error("second OOB on a dead player must be ignored")
	}
}

func TestRoundEndWhileDeadRevivesAtNextRound(t *testing.T) {
	f := newFixture(t, Config{RoundTime: time.Second})
	f.world.paint(1, 1)

	// Die half a second before the round ends; respawn would land during the next round.
	for i := 0; i < 50; i++ {
		f.m.Tick(tick)
	}
	f.m.OnPlayerOutOfBounds(f.dark)
	for i := 0; i < 50; i++ {
		f.m.Tick(tick)
	}

	// Tie: straight back to Active with everyone alive.
	if f.m.Phase() != Active || f.m.Round() != 2 {
		t.Fatalf("Phase = %v round %d", f.m.Phase(), f.m.Round())
	}
	if !f.dark.Alive || f.dark.Frozen || f.m.RespawnPending(f.dark) {
		t.Errorf("dark Alive=%v Frozen=%v pending=%v", f.dark.Alive, f.dark.Frozen, f.m.RespawnPending(f.dark))
	}

	for i := 0; i < 300; i++ {
		f.m.Tick(tick)
	}
	if f.count(event.PlayerRespawned) != 0 {
		t.Error("stale respawn timer fired after round restart")
	}
}

func TestRespawnDuringDraftKeepsFrozen(t *testing.T) {
	f := newFixture(t, Config{})
	f.m.OnPlayerOutOfBounds(f.dark)
	f.winRound(t, team.Light)

	f.m.OnRespawnTimerExpired(f.dark)

	if f.dark.Alive || !f.dark.Frozen {
		t.Error("respawn outside Active must not unfreeze")
	}
}

func TestPauseFreezesAllTimers(t *testing.T) {
	f := newFixture(t, Config{RoundTime: 3 * time.Second, TimeBetweenCapturePoint: time.Second})
	for i := 0; i < 50; i++ {
		f.m.Tick(tick)
	}
	f.m.OnPlayerOutOfBounds(f.dark)
	left := f.m.RoundTimeLeft()
	spawned := f.spawner.Count()

	f.m.HandleInput(Input{Kind: InputPause})
	if !f.m.Paused() || !f.host.pauseOverlay {
		t.Fatal("pause should set flag and overlay together")
	}
	for i := 0; i < 1000; i++ {
		f.m.Tick(tick)
	}
	if f.m.RoundTimeLeft() != left {
		t.Errorf("round timer moved while paused: %v -> %v", left, f.m.RoundTimeLeft())
	}
	if f.spawner.Count() != spawned {
		t.Error("capture timer fired while paused")
	}
	if f.dark.Alive {
		t.Error("respawn timer fired while paused")
	}
	if f.m.Phase() != Active {
		t.Error("round resolved while paused")
	}

	f.m.OnPauseToggleRequested()
	if f.m.Paused() || f.host.pauseOverlay {
		t.Fatal("second toggle should resume and hide overlay")
	}
	f.m.Tick(tick)
	if f.m.RoundTimeLeft() != left-tick {
		t.Errorf("RoundTimeLeft = %v, want %v", f.m.RoundTimeLeft(), left-tick)
	}
	if f.count(event.PauseToggled) != 2 {
		t.Errorf("PauseToggled = %d, want 2", f.count(event.PauseToggled))
	}
}

func TestCapturePointsSpawnAndClear(t *testing.T) {
	f := newFixture(t, Config{RoundTime: 40 * time.Second, TimeBetweenCapturePoint: 10 * time.Second})

	for i := 0; i < 3500; i++ {
		f.m.Tick(tick)
		if f.spawner.Count() > f.spawner.Max() {
			t.Fatalf("capture point count %d exceeds cap", f.spawner.Count())
		}
	}
	if f.spawner.Count() != 2 {
		t.Fatalf("Count after 35s = %d, want 2 (cap)", f.spawner.Count())
	}
	if f.count(event.CapturePointSpawned) != 2 {
		t.Errorf("spawned events = %d, want 2", f.count(event.CapturePointSpawned))
	}

	for i := 0; i < 500; i++ {
		f.m.Tick(tick)
	}
	if f.m.Phase() == Active && f.m.Round() == 1 {
		t.Fatal("round should have resolved at 40s")
	}
	if f.spawner.Count() != 0 {
		t.Errorf("capture points survived round end: %d", f.spawner.Count())
	}
}

func TestCapturePointCaptured(t *testing.T) {
	f := newFixture(t, Config{})
	if err := f.m.OnCapturePointSpawnTick(); err != nil {
		t.Fatal(err)
	}
	pts := f.m.CapturePoints()
	if len(pts) != 1 {
		t.Fatalf("points = %d, want 1", len(pts))
	}

	f.m.OnCapturePointCaptured(pts[0].ID, team.Dark)
	f.m.OnCapturePointCaptured(pts[0].ID, team.Dark)

	if f.count(event.CapturePointCaptured) != 1 {
		t.Errorf("captured events = %d, want 1", f.count(event.CapturePointCaptured))
	}
	if f.host.countCue(CueCapture) != 1 || f.host.shakes != 1 {
		t.Errorf("capture cue=%d shakes=%d", f.host.countCue(CueCapture), f.host.shakes)
	}
	if f.spawner.Count() != 0 {
		t.Error("captured point should be removed")
	}
}

func TestCaptureSpawnOutOfPhaseIgnored(t *testing.T) {
	f := newFixture(t, Config{})
	f.winRound(t, team.Light)

	if err := f.m.OnCapturePointSpawnTick(); err != nil {
		t.Fatal(err)
	}
	if f.spawner.Count() != 0 {
		t.Error("spawn tick during Drafting must be ignored")
	}
}

type badTile struct{}

func (badTile) State() territory.State { return territory.State(42) }

type badWorld struct{ *fakeWorld }

func (w badWorld) Tiles() []territory.Tile {
	return append(w.fakeWorld.Tiles(), badTile{})
}

func TestUndefinedTileAbortsMatch(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	host := &fakeHost{}
	m, err := New(Config{}, Deps{
		Host:    host,
		World:   badWorld{newFakeWorld(3)},
		Catalog: powerup.Default(rng),
		Spawner: capture.NewSpawner(capture.Config{}, rng),
		Players: []*player.Player{
			player.New(1, team.Light, "", physics.Zero),
			player.New(2, team.Dark, "", physics.Zero),
		},
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatal(err)
	}
	m.Init()

	err = m.OnRoundTimerExpired()

	var integrity *territory.DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("err = %v, want DataIntegrityError", err)
	}
	if m.Phase() != MatchOver || m.Err() == nil {
		t.Errorf("Phase = %v Err = %v", m.Phase(), m.Err())
	}
	if m.Score() != (Score{}) {
		t.Errorf("Score = %+v, want zero", m.Score())
	}
	if len(host.endScenes) != 0 {
		t.Error("aborted match must not load the end scene")
	}
	if _, ok := m.Winner(); ok {
		t.Error("aborted match has no winner")
	}
}

func TestHUDText(t *testing.T) {
	f := newFixture(t, Config{UIUpdateInterval: 100 * time.Millisecond})
	f.world.paint(1, 3)

	for i := 0; i < 10; i++ {
		f.m.Tick(tick)
	}
	if f.host.scoreboard != "Lightness: 25%, Darkness: 75% | Light 0 - 0 Dark (ties 0)" {
		t.Errorf("scoreboard = %q", f.host.scoreboard)
	}
	if f.host.timerText != "39.9s" {
		t.Errorf("timer = %q, want 39.9s", f.host.timerText)
	}
}
