// Package powerup defines the between-round effects a player can draft.
package powerup

import (
	"errors"
	"fmt"

	"github.com/theowiik/photon-phight/internal/player"
)

var (
	ErrEmptyCatalog  = errors.New("powerup: catalog has no effects")
	ErrUnknownEffect = errors.New("powerup: unknown effect")
)

// Rarity grades how strong an effect is.
type Rarity int

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "Common"
	case Rare:
		return "Rare"
	case Epic:
		return "Epic"
	case Legendary:
		return "Legendary"
	default:
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
}

// ApplyFunc mutates the fighters. selecting is the player who drafted the effect.
type ApplyFunc func(selecting, other *player.Player)

// Effect is an immutable power-up descriptor.
type Effect struct {
	Name    string
	Rarity  Rarity
	IsCurse bool
	apply   ApplyFunc
}

// New builds an effect.
func New(name string, rarity Rarity, curse bool, apply ApplyFunc) Effect {
	return Effect{Name: name, Rarity: rarity, IsCurse: curse, apply: apply}
}

// Apply runs the effect. A zero Effect is a no-op.
func (e Effect) Apply(selecting, other *player.Player) {
	if e.apply == nil || selecting == nil || other == nil {
		return
	}
	e.apply(selecting, other)
}

// Valid reports whether e has an applier.
func (e Effect) Valid() bool {
	return e.apply != nil
}

func (e Effect) String() string {
	if e.IsCurse {
		return e.Name + " (curse)"
	}
	return e.Name
}
