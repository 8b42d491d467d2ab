// Package event implements the match's observer bus.
//
// Handlers are plain closures registered per Kind. Publish delivers each event
// synchronously, exactly once to every handler registered at publish time, in
// registration order.
package event

import (
	"sync"
	"time"
)

// Kind identifies what happened.
type Kind int

const (
	RoundStarted Kind = iota
	RoundResolved
	MatchOver
	PlayerHurt
	PlayerDied
	PlayerRespawned
	CapturePointSpawned
	CapturePointCaptured
	PowerUpApplied
	PauseToggled

	kindCount
)

var kindNames = [...]string{
	RoundStarted:         "round_started",
	RoundResolved:        "round_resolved",
	MatchOver:            "match_over",
	PlayerHurt:           "player_hurt",
	PlayerDied:           "player_died",
	PlayerRespawned:      "player_respawned",
	CapturePointSpawned:  "capture_point_spawned",
	CapturePointCaptured: "capture_point_captured",
	PowerUpApplied:       "powerup_applied",
	PauseToggled:         "pause_toggled",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one occurrence. Payload carries a kind-specific struct owned by the publisher.
type Event struct {
	Kind    Kind
	Time    time.Duration // Match time (paused time excluded)
	Payload any
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id uint64
	fn Handler
}

// Bus fans events out to subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	byKind [kindCount][]subscription
	all    []subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for one kind and returns a function that removes it.
func (b *Bus) Subscribe(kind Kind, fn Handler) (unsubscribe func()) {
	if kind < 0 || kind >= kindCount || fn == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.byKind[kind] = append(b.byKind[kind], subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.byKind[kind] = remove(b.byKind[kind], id)
	}
}

// SubscribeAll registers fn for every kind.
func (b *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = remove(b.all, id)
	}
}

// Publish delivers ev to kind subscribers first, then to catch-all subscribers.
// Handlers may publish further events; those are delivered before Publish returns.
func (b *Bus) Publish(ev Event) {
	if ev.Kind < 0 || ev.Kind >= kindCount {
		return
	}

	b.mu.RLock()
	subs := make([]subscription, 0, len(b.byKind[ev.Kind])+len(b.all))
	subs = append(subs, b.byKind[ev.Kind]...)
	subs = append(subs, b.all...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// HandlerCount returns the number of handlers that would receive an event of kind.
func (b *Bus) HandlerCount(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byKind[kind]) + len(b.all)
}

func remove(subs []subscription, id uint64) []subscription {
	for i, s := range subs {
		if s.id == id {
			out := make([]subscription, 0, len(subs)-1)
			out = append(out, subs[:i]...)
			return append(out, subs[i+1:]...)
		}
	}
	return subs
}
