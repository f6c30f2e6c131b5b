package scene

import (
	"fmt"
	"math"
)

// MaxGeneration is the last generation a slot can reach. A slot freed at this
// generation is retired rather than recycled.
const MaxGeneration = math.MaxUint16

// EntityID identifies a spawned entity. It stays valid while the registry slot at
// Index still carries Generation.
type EntityID struct {
	Index      uint32
	Generation uint16
}

func (e EntityID) String() string {
	return fmt.Sprintf("%d#%d", e.Index, e.Generation)
}

// Status is the lifecycle state of a scene node.
type Status uint8

const (
	StatusActive Status = iota
	StatusInactive
	StatusDestroyed
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

type slot struct {
	generation uint16
	used       bool
	pending    bool
}

// entityRegistry hands out generational ids. Freed indices are reused LIFO.
type entityRegistry struct {
	slots   []slot
	free    []uint32
	retired int
}

func newEntityRegistry(capacity int) *entityRegistry {
	return &entityRegistry{
		slots: make([]slot, 0, capacity),
		free:  make([]uint32, 0, capacity/4),
	}
}

func (r *entityRegistry) Allocate() EntityID {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		s := &r.slots[idx]
		s.used = true
		s.pending = false
		return EntityID{Index: idx, Generation: s.generation}
	}
	if uint64(len(r.slots)) > math.MaxUint32 {
		panic("scene: entity index space exhausted")
	}
	idx := uint32(len(r.slots))
	r.slots = append(r.slots, slot{used: true})
	return EntityID{Index: idx}
}

// valid reports whether id still names the slot's current occupant, including
// occupants queued for destruction.
func (r *entityRegistry) valid(id EntityID) bool {
	if int(id.Index) >= len(r.slots) {
		return false
	}
	s := r.slots[id.Index]
	return s.used && s.generation == id.Generation
}

func (r *entityRegistry) IsAlive(id EntityID) bool {
	return r.valid(id) && !r.slots[id.Index].pending
}

func (r *entityRegistry) markPending(id EntityID) {
	r.slots[id.Index].pending = true
}

func (r *entityRegistry) Free(id EntityID) {
	if !r.valid(id) {
		return
	}
	s := &r.slots[id.Index]
	s.used = false
	s.pending = false
	if s.generation == MaxGeneration {
		r.retired++
		return
	}
	s.generation++
	r.free = append(r.free, id.Index)
}

// Len returns the number of allocated, not yet freed slots.
func (r *entityRegistry) Len() int {
	return len(r.slots) - len(r.free) - r.retired
}

// node is the scene's bookkeeping record for one spawned entity.
type node struct {
	entity EntityID
	status Status
	mask   ComponentMask
}
