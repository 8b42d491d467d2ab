package powerup

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/player"
	"github.com/theowiik/photon-phight/internal/team"
)

// seqSource returns a fixed sequence of indices, wrapping modulo n.
type seqSource struct {
	seq []int
	i   int
}

func (s *seqSource) IntN(n int) int {
	v := s.seq[s.i%len(s.seq)]
	s.i++
	return v % n
}

func fighters() (*player.Player, *player.Player) {
	return player.New(1, team.Light, "", physics.Zero), player.New(2, team.Dark, "", physics.Zero)
}

func TestGravitronizerAffectsSelecting(t *testing.T) {
	sel, other := fighters()
	Gravitronizer.Apply(sel, other)

	if sel.Gun.BulletGravity != 0 {
		t.Errorf("selecting BulletGravity = %v, want 0", sel.Gun.BulletGravity)
	}
	if other.Gun.BulletGravity != player.DefaultBulletGravity {
		t.Errorf("other BulletGravity changed to %v", other.Gun.BulletGravity)
	}
	if Gravitronizer.IsCurse || Gravitronizer.Rarity != Common {
		t.Errorf("Gravitronizer descriptor = %+v", Gravitronizer)
	}
}

func TestSteelBootsCurseAffectsOther(t *testing.T) {
	sel, other := fighters()
	before := other.Movement.JumpForce
	SteelBootsCurse.Apply(sel, other)

	if math.Abs(other.Movement.JumpForce-before/1.33) > 1e-9 {
		t.Errorf("other JumpForce = %v, want %v", other.Movement.JumpForce, before/1.33)
	}
	if sel.Movement.JumpForce != before {
		t.Errorf("selecting JumpForce changed to %v", sel.Movement.JumpForce)
	}
	if !SteelBootsCurse.IsCurse || SteelBootsCurse.Rarity != Rare {
		t.Errorf("SteelBootsCurse descriptor = %+v", SteelBootsCurse)
	}
}

func TestSupplementaryEffects(t *testing.T) {
	tests := []struct {
		effect Effect
		check  func(sel *player.Player) bool
	}{
		{PhotonBoost, func(p *player.Player) bool {
			return p.Movement.Speed == player.DefaultSpeed+40 && p.Movement.Jumps == player.DefaultJumps+1
		}},
		{HealthBoost, func(p *player.Player) bool { return p.MaxHealth == 150 && p.Health == 100 }},
		{BunnyBoost, func(p *player.Player) bool {
			return p.Movement.JumpForce > player.NewMovementProfile(player.DefaultGravity).JumpForce
		}},
		{NoGlide, func(p *player.Player) bool {
			return p.Movement.FrictionAccelerate == p.Movement.Speed*NoGlideFrameRate &&
				p.Movement.FrictionDecelerate == p.Movement.Speed*NoGlideFrameRate
		}},
	}
	for _, tt := range tests {
		t.Run(tt.effect.Name, func(t *testing.T) {
			sel, other := fighters()
			tt.effect.Apply(sel, other)
			if !tt.check(sel) {
				t.Errorf("%s did not apply as expected: %+v", tt.effect.Name, sel.Movement)
			}
		})
	}
}

func TestSelectRandomUsesInjectedSource(t *testing.T) {
	c, err := NewCatalog(&seqSource{seq: []int{1, 0, 1}}, Gravitronizer, SteelBootsCurse)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{NameSteelBootsCurse, NameGravitronizer, NameSteelBootsCurse}
	for i, w := range want {
		if got := c.SelectRandom().Name; got != w {
			t.Errorf("pick %d = %q, want %q", i, got, w)
		}
	}
}

func TestSelectRandomIsRoughlyUniform(t *testing.T) {
	c := Default(rand.New(rand.NewPCG(11, 12)))
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[c.SelectRandom().Name]++
	}
	for _, name := range c.Names() {
		if counts[name] < 4500 || counts[name] > 5500 {
			t.Errorf("%s picked %d/10000 times", name, counts[name])
		}
	}
}

func TestDraftDistinct(t *testing.T) {
	c, _ := NewCatalog(rand.New(rand.NewPCG(5, 6)), All()...)
	for i := 0; i < 100; i++ {
		picks := c.Draft(3)
		if len(picks) != 3 {
			t.Fatalf("Draft(3) returned %d effects", len(picks))
		}
		seen := map[string]bool{}
		for _, p := range picks {
			if seen[p.Name] {
				t.Fatalf("duplicate %q in draft", p.Name)
			}
			seen[p.Name] = true
		}
	}
	if got := len(Default(rand.New(rand.NewPCG(1, 1))).Draft(5)); got != 2 {
		t.Errorf("Draft larger than catalog returned %d, want 2", got)
	}
}

func TestCatalogErrors(t *testing.T) {
	if _, err := NewCatalog(&seqSource{seq: []int{0}}); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("empty catalog err = %v", err)
	}
	if _, err := NewCatalog(&seqSource{seq: []int{0}}, Effect{Name: "broken"}); err == nil {
		t.Error("effect without applier should be rejected")
	}
	if _, err := FromNames(&seqSource{seq: []int{0}}, []string{"Nope"}); !errors.Is(err, ErrUnknownEffect) {
		t.Errorf("unknown name err = %v", err)
	}
	c, err := FromNames(&seqSource{seq: []int{0}}, []string{NameBunnyBoost, NameHealthBoost})
	if err != nil || c.Len() != 2 {
		t.Errorf("FromNames = %v, %v", c, err)
	}
}

func TestZeroEffectIsNoop(t *testing.T) {
	sel, other := fighters()
	Effect{}.Apply(sel, other)
	if sel.Gun.BulletGravity != player.DefaultBulletGravity {
		t.Error("zero effect changed state")
	}
}
