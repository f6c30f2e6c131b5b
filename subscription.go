package scene

// EntityCallback receives the entity whose match status changed.
type EntityCallback func(EntityID)

// Subscription delivers match transitions of one aspect. Callbacks run
// synchronously inside the mutating call, after every index has been updated.
type Subscription struct {
	scene     *Scene
	index     *aspectIndex
	onAdded   EntityCallback
	onRemoved EntityCallback
	active    bool
}

// Aspect returns the aspect the subscription watches.
func (s *Subscription) Aspect() Aspect {
	return s.index.aspect
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s.active
}

// Unsubscribe stops delivery. Calling it again does nothing.
func (s *Subscription) Unsubscribe() {
	s.scene.Unsubscribe(s)
}

type matchEvent struct {
	index  *aspectIndex
	entity EntityID
	added  bool
}

// Subscribe registers callbacks for entities entering or leaving the aspect's
// match set. Either callback may be nil. Entities already matching when the
// subscription is made produce no event.
func (s *Scene) Subscribe(a Aspect, onAdded, onRemoved EntityCallback) *Subscription {
	x := s.acquireIndex(a)
	sub := &Subscription{
		scene:     s,
		index:     x,
		onAdded:   onAdded,
		onRemoved: onRemoved,
		active:    true,
	}
	x.subs = append(x.subs, sub)
	return sub
}

// Unsubscribe removes sub. It is idempotent.
func (s *Scene) Unsubscribe(sub *Subscription) {
	if sub == nil || !sub.active || sub.scene != s {
		return
	}
	sub.active = false
	sub.index.dropSub(sub)
	s.indices.release(sub.index)
}

// acquireIndex returns the index for a, building it from the live population when
// none exists yet.
func (s *Scene) acquireIndex(a Aspect) *aspectIndex {
	if x := s.indices.find(a); x != nil {
		x.refs++
		return x
	}
	x := newAspectIndex(Aspect{Include: a.Include.Clone(), Exclude: a.Exclude.Clone()})
	x.refs = 1
	for i := range s.nodes {
		n := &s.nodes[i]
		if s.tracked(n) && x.aspect.Matches(n.mask) {
			x.add(n.entity.Index)
		}
	}
	s.indices.all = append(s.indices.all, x)
	return x
}

// tracked reports whether n takes part in match sets at all.
func (s *Scene) tracked(n *node) bool {
	return s.registry.IsAlive(n.entity) && n.status != StatusDestroyed
}

// beginChange records, for every index, whether n matches before a mutation.
func (s *Scene) beginChange(n *node) []bool {
	was := s.matchScratch[:0]
	tracked := s.tracked(n)
	for _, x := range s.indices.all {
		was = append(was, tracked && x.has(n.entity.Index))
	}
	s.matchScratch = was
	return was
}

// endChange updates every index after a mutation of n and fires the resulting
// transitions. Transitions caused by a callback are queued behind the ones being
// delivered, so every subscriber sees each entity's transitions in order.
func (s *Scene) endChange(n *node, was []bool) {
	tracked := s.tracked(n)
	for i, x := range s.indices.all {
		is := tracked && x.aspect.Matches(n.mask)
		if is == was[i] {
			continue
		}
		if is {
			x.add(n.entity.Index)
		} else {
			x.remove(n.entity.Index)
		}
		if len(x.subs) > 0 {
			s.events = append(s.events, matchEvent{index: x, entity: n.entity, added: is})
		}
	}
	if s.dispatching {
		return
	}
	s.dispatching = true
	defer func() {
		clear(s.events)
		s.events = s.events[:0]
		s.dispatching = false
	}()
	for i := 0; i < len(s.events); i++ {
		ev := s.events[i]
		for _, sub := range ev.index.subs {
			if !sub.active {
				continue
			}
			if ev.added && sub.onAdded != nil {
				sub.onAdded(ev.entity)
			} else if !ev.added && sub.onRemoved != nil {
				sub.onRemoved(ev.entity)
			}
		}
	}
}
