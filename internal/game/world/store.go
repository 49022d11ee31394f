package world

import (
	"fmt"

	"github.com/riftforge/arena/internal/game/geom"
)

// Obstacle is a static circular blocker that cancels dash movement.
type Obstacle struct {
	Center geom.Vec3
	Radius float64
}

// Bounds is the playable area on the horizontal plane.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Contains reports whether p lies inside the bounds (altitude ignored).
func (b Bounds) Contains(p geom.Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// Store owns the live entity set and static geometry for one match.
// Not safe for concurrent use; the simulation goroutine owns it.
type Store struct {
	entities  map[string]*Entity
	obstacles []Obstacle
	bounds    Bounds
}

// NewStore creates an empty Store with the given playable bounds.
func NewStore(bounds Bounds) *Store {
	return &Store{
		entities: make(map[string]*Entity),
		bounds:   bounds,
	}
}

// Add registers e.
//
// Precondition: e must not be nil and e.ID must be unique in the store.
func (s *Store) Add(e *Entity) error {
	if e == nil {
		return fmt.Errorf("world: Add: entity must not be nil")
	}
	if _, exists := s.entities[e.ID]; exists {
		return fmt.Errorf("world: entity %q already present", e.ID)
	}
	s.entities[e.ID] = e
	return nil
}

// Remove deletes the entity with id. Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	delete(s.entities, id)
}

// Get returns the entity with id, or (nil, false).
func (s *Store) Get(id string) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// All returns a snapshot slice of every entity.
func (s *Store) All() []*Entity {
	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	return out
}

// AddObstacle registers a static blocker.
func (s *Store) AddObstacle(o Obstacle) {
	s.obstacles = append(s.obstacles, o)
}

// Bounds returns the playable area.
func (s *Store) Bounds() Bounds {
	return s.bounds
}

// Blocked reports whether p is outside the playable bounds or inside a
// static obstacle. Dash movement cancels at the first blocked position.
func (s *Store) Blocked(p geom.Vec3) bool {
	if !s.bounds.Contains(p) {
		return true
	}
	for _, o := range s.obstacles {
		if p.Flat().DistanceTo(o.Center.Flat()) <= o.Radius {
			return true
		}
	}
	return false
}

// DamageableWithin returns live damageable entities within radius of center,
// excluding the entity with excludeID. Distance is horizontal.
func (s *Store) DamageableWithin(center geom.Vec3, radius float64, excludeID string) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.ID == excludeID || !e.Damageable() {
			continue
		}
		if e.Position.Flat().DistanceTo(center.Flat()) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// DamageableInCone returns live damageable entities inside the horizontal
// cone, excluding excludeID.
func (s *Store) DamageableInCone(origin, facing geom.Vec3, halfAngleDeg, maxRange float64, excludeID string) []*Entity {
	var out []*Entity
	for _, e := range s.entities {
		if e.ID == excludeID || !e.Damageable() {
			continue
		}
		if geom.InCone(origin, facing, e.Position, halfAngleDeg, maxRange) {
			out = append(out, e)
		}
	}
	return out
}

// HasDamageableOther reports whether any live damageable entity other than
// excludeID exists. The projectile spawner uses this to skip spawning when
// nothing could ever be hit.
func (s *Store) HasDamageableOther(excludeID string) bool {
	for _, e := range s.entities {
		if e.ID != excludeID && e.Damageable() {
			return true
		}
	}
	return false
}
