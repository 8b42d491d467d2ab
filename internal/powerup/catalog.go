package powerup

import "fmt"

// Source supplies uniform ints in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Catalog is the registry of draftable effects. It is read-only after construction.
type Catalog struct {
	effects []Effect
	rng     Source
}

// NewCatalog registers effects in order. Every effect must have an applier.
func NewCatalog(rng Source, effects ...Effect) (*Catalog, error) {
	if len(effects) == 0 {
		return nil, ErrEmptyCatalog
	}
	for _, e := range effects {
		if !e.Valid() {
			return nil, fmt.Errorf("powerup: effect %q has no applier", e.Name)
		}
	}
	out := make([]Effect, len(effects))
	copy(out, effects)
	return &Catalog{effects: out, rng: rng}, nil
}

// Default returns the standard catalog: Gravitronizer and Steel Boots Curse.
func Default(rng Source) *Catalog {
	c, _ := NewCatalog(rng, Gravitronizer, SteelBootsCurse)
	return c
}

// FromNames builds a catalog from effect names.
func FromNames(rng Source, names []string) (*Catalog, error) {
	effects := make([]Effect, 0, len(names))
	for _, n := range names {
		e, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		effects = append(effects, e)
	}
	return NewCatalog(rng, effects...)
}

// SelectRandom returns one registered effect, uniformly.
func (c *Catalog) SelectRandom() Effect {
	return c.effects[c.rng.IntN(len(c.effects))]
}

// Draft returns up to n distinct effects in random order.
func (c *Catalog) Draft(n int) []Effect {
	if n <= 0 {
		return nil
	}
	pool := make([]Effect, len(c.effects))
	copy(pool, c.effects)

	n = min(n, len(pool))
	for i := 0; i < n; i++ {
		j := i + c.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Len returns the number of registered effects.
func (c *Catalog) Len() int {
	return len(c.effects)
}

// Names lists the registered effect names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.effects))
	for i, e := range c.effects {
		names[i] = e.Name
	}
	return names
}
