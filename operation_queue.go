package scene

import "go.uber.org/zap"

// opQueue buffers structural work that must wait for a phase boundary. Both
// buffers are FIFO and drained once per boundary.
type opQueue struct {
	spawned        []EntityID
	destroyed      []EntityID
	pendingDestroy map[EntityID]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
	}
}

func (q *opQueue) enqueueSpawn(e EntityID) {
	q.spawned = append(q.spawned, e)
}

// enqueueDestroy reports false when e is already queued.
func (q *opQueue) enqueueDestroy(e EntityID) bool {
	if _, exists := q.pendingDestroy[e]; exists {
		return false
	}
	q.pendingDestroy[e] = struct{}{}
	q.destroyed = append(q.destroyed, e)
	return true
}

func (q *opQueue) empty() bool {
	return len(q.spawned) == 0 && len(q.destroyed) == 0
}

// processOperationQueue hands queued spawns to the spawn observers, then reclaims
// queued entities. Entities destroyed by an observer are reclaimed in the same
// pass; entities spawned by an observer wait for the next boundary.
func (s *Scene) processOperationQueue() (spawned, reclaimed int) {
	batch := s.opQueue.spawned
	s.opQueue.spawned = nil
	for _, e := range batch {
		if !s.registry.IsAlive(e) {
			continue
		}
		spawned++
		for i, fn := range s.spawnObservers {
			s.notifySpawn(i, fn, e)
		}
	}

	for len(s.opQueue.destroyed) > 0 {
		doomed := s.opQueue.destroyed
		s.opQueue.destroyed = nil
		for _, e := range doomed {
			delete(s.opQueue.pendingDestroy, e)
			if s.reclaim(e) {
				reclaimed++
			}
		}
	}
	return spawned, reclaimed
}

// reclaim strips every component of a destroyed entity and frees its slot.
func (s *Scene) reclaim(e EntityID) bool {
	if !s.registry.valid(e) {
		return false
	}
	n := &s.nodes[e.Index]
	for _, bit := range n.mask.Bits() {
		was := s.beginChange(n)
		if col := s.columnFor(bit); col != nil {
			col.Remove(e.Index)
		}
		n.mask.Clear(bit)
		s.endChange(n, was)
		n = &s.nodes[e.Index]
	}
	s.registry.Free(e)
	// The slot keeps its stale id so full scans see it as dead.
	*n = node{entity: e, status: StatusDestroyed}
	return true
}

// notifySpawn runs one spawn observer. A panicking observer is logged and counted;
// the other observers and the destroy drain still run.
func (s *Scene) notifySpawn(observer int, fn EntityCallback, e EntityID) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("spawn observer fault",
				zap.Int("observer", observer),
				entityField(e),
				zap.Any("panic", r),
			)
			s.metrics.incr("spawn_observer.fault")
		}
	}()
	fn(e)
}
