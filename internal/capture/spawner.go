// Package capture spawns contestable capture points near the side that is behind.
package capture

import (
	"github.com/google/uuid"

	"github.com/theowiik/photon-phight/internal/physics"
	"github.com/theowiik/photon-phight/internal/team"
	"github.com/theowiik/photon-phight/internal/territory"
)

// Defaults for the spawner.
const (
	DefaultMaxConcurrent = 2
	DefaultOffset        = 100.0
	Radius               = 12.0 // Contact radius for capturing
)

// Source supplies uniform floats in [0, 1). *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// PointID identifies a capture point.
type PointID = uuid.UUID

// Point is a live capture point.
type Point struct {
	ID       PointID
	Position physics.Vec
}

// Listener is notified when a point is captured.
type Listener func(p Point, by team.Team)

// Config tunes a Spawner.
type Config struct {
	MaxConcurrent int
	Offset        float64       // Spawn offset range: uniform in [-Offset, Offset] on each axis
	Bounds        *physics.Rect // Optional clamp for spawn positions
}

// Spawner tracks live capture points. It is not safe for concurrent use; the
// match drives it from a single tick.
type Spawner struct {
	cfg       Config
	rng       Source
	points    []Point
	listeners []Listener
}

// NewSpawner creates a spawner. Zero config fields take the package defaults.
func NewSpawner(cfg Config, rng Source) *Spawner {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.Offset < 0 {
		cfg.Offset = 0
	} else if cfg.Offset == 0 {
		cfg.Offset = DefaultOffset
	}
	return &Spawner{cfg: cfg, rng: rng}
}

// OnCapture registers a listener for captures.
func (s *Spawner) OnCapture(fn Listener) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Tick spawns one point near the losing player unless the cap is reached.
// positionOf resolves a team to its player's current position.
func (s *Spawner) Tick(result territory.Result, positionOf func(team.Team) physics.Vec) (Point, bool) {
	if len(s.points) >= s.cfg.MaxConcurrent {
		return Point{}, false
	}

	base := positionOf(result.Losing())
	pos := base.Add(physics.Vec{X: s.offset(), Y: s.offset()})
	if s.cfg.Bounds != nil {
		pos = s.cfg.Bounds.Clamp(pos)
	}

	p := Point{ID: uuid.New(), Position: pos}
	s.points = append(s.points, p)
	return p, true
}

// OnCaptured removes the point and notifies listeners. Unknown ids are ignored.
func (s *Spawner) OnCaptured(id PointID, by team.Team) (Point, bool) {
	for i, p := range s.points {
		if p.ID != id {
			continue
		}
		s.points = append(s.points[:i], s.points[i+1:]...)
		for _, fn := range s.listeners {
			fn(p, by)
		}
		return p, true
	}
	return Point{}, false
}

// Clear destroys every live point and returns how many were removed.
func (s *Spawner) Clear() int {
	n := len(s.points)
	s.points = s.points[:0]
	return n
}

// Count returns the number of live points.
func (s *Spawner) Count() int {
	return len(s.points)
}

// Max returns the concurrency cap.
func (s *Spawner) Max() int {
	return s.cfg.MaxConcurrent
}

// Points returns a copy of the live points.
func (s *Spawner) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// PointAt returns the live point whose contact radius overlaps a body of radius r at pos.
func (s *Spawner) PointAt(pos physics.Vec, r float64) (Point, bool) {
	for _, p := range s.points {
		if physics.CirclesOverlap(pos, r, p.Position, Radius) {
			return p, true
		}
	}
	return Point{}, false
}

func (s *Spawner) offset() float64 {
	return (s.rng.Float64()*2 - 1) * s.cfg.Offset
}
