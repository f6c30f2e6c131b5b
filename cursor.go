package scene

import "iter"

// Cursor walks a snapshot of matched entities. Entities that stop being alive or
// active after the snapshot was taken are skipped by Next.
type Cursor struct {
	scene    *Scene
	entities []EntityID
	pos      int
	current  EntityID
}

func newCursor(s *Scene, entities []EntityID) *Cursor {
	return &Cursor{
		scene:    s,
		entities: entities,
	}
}

// Next advances to the next visible entity.
func (c *Cursor) Next() bool {
	for c.pos < len(c.entities) {
		e := c.entities[c.pos]
		c.pos++
		if c.scene.visible(e) {
			c.current = e
			return true
		}
	}
	c.current = EntityID{}
	return false
}

// Entity returns the entity the last successful Next stopped on.
func (c *Cursor) Entity() EntityID {
	return c.current
}

func (c *Cursor) Entities() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for c.Next() {
			if !yield(c.current) {
				return
			}
		}
	}
}

// Reset rewinds to the start of the same snapshot.
func (c *Cursor) Reset() {
	c.pos = 0
	c.current = EntityID{}
}

// Remaining is the number of snapshot entries not yet visited, including ones
// Next will skip.
func (c *Cursor) Remaining() int {
	return len(c.entities) - c.pos
}

// TotalMatched is the size of the snapshot.
func (c *Cursor) TotalMatched() int {
	return len(c.entities)
}
