package scene

import (
	"iter"

	iter_util "github.com/TheBitDrifter/util/iter"
)

// Query selects the active, live entities whose mask matches an aspect. It holds no
// state between iterations: each iteration snapshots the match set when it starts,
// so components may be added or removed and entities destroyed while iterating.
// Entities that die mid iteration are skipped; entities that start matching are
// not seen until the next iteration.
type Query struct {
	scene  *Scene
	aspect Aspect
}

// Query returns a query over a. Queries on aspects that a subscription or system
// keeps indexed read the index; others scan the smallest storage the aspect
// includes, or every entity when it includes nothing.
func (s *Scene) Query(a Aspect) *Query {
	return &Query{scene: s, aspect: a}
}

func (q *Query) Aspect() Aspect { return q.aspect }

// Entities yields every matching entity in unspecified order.
func (q *Query) Entities() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for _, e := range q.scene.collect(q.aspect, nil) {
			if !q.scene.visible(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Cursor returns a cursor over a snapshot of the match set taken now.
func (q *Query) Cursor() *Cursor {
	return newCursor(q.scene, q.scene.collect(q.aspect, nil))
}

// Snapshot returns the matching entities as a slice the caller owns.
func (q *Query) Snapshot() []EntityID {
	return iter_util.Collect(q.Entities())
}

func (q *Query) Count() int {
	n := 0
	for range q.Entities() {
		n++
	}
	return n
}

// First returns one matching entity, if any.
func (q *Query) First() (EntityID, bool) {
	for e := range q.Entities() {
		return e, true
	}
	return EntityID{}, false
}

// collect appends the active entities matching a to buf.
func (s *Scene) collect(a Aspect, buf []EntityID) []EntityID {
	if x := s.indices.find(a); x != nil {
		for _, idx := range x.members {
			if n := &s.nodes[idx]; n.status == StatusActive {
				buf = append(buf, n.entity)
			}
		}
		return buf
	}

	driver, ok := s.smallestIncluded(a)
	if !ok {
		return buf
	}
	if driver != nil {
		for idx := range driver.Indices() {
			buf = s.appendIfMatch(buf, a, &s.nodes[idx])
		}
		return buf
	}
	for i := range s.nodes {
		buf = s.appendIfMatch(buf, a, &s.nodes[i])
	}
	return buf
}

func (s *Scene) appendIfMatch(buf []EntityID, a Aspect, n *node) []EntityID {
	if n.status == StatusActive && s.registry.IsAlive(n.entity) && a.Matches(n.mask) {
		return append(buf, n.entity)
	}
	return buf
}

// smallestIncluded picks the storage to drive an unindexed scan. It reports false
// when an included type has no storage in this scene, so nothing can match, and a
// nil storage when the aspect includes nothing.
func (s *Scene) smallestIncluded(a Aspect) (columnStorage, bool) {
	var best columnStorage
	for _, bit := range a.Include.bits {
		col := s.columnFor(bit)
		if col == nil {
			return nil, false
		}
		if best == nil || col.Len() < best.Len() {
			best = col
		}
	}
	return best, true
}
