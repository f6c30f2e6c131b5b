package scene

// aspectIndex is the live match set of one aspect. It exists while at least one
// subscription or system refers to the aspect and is updated on every mutation.
type aspectIndex struct {
	aspect  Aspect
	refs    int
	members []uint32
	pos     []int32
	subs    []*Subscription
}

func newAspectIndex(a Aspect) *aspectIndex {
	return &aspectIndex{aspect: a}
}

func (x *aspectIndex) has(index uint32) bool {
	return int(index) < len(x.pos) && x.pos[index] != noSlot
}

func (x *aspectIndex) add(index uint32) {
	if x.has(index) {
		return
	}
	for int(index) >= len(x.pos) {
		x.pos = append(x.pos, noSlot)
	}
	x.pos[index] = int32(len(x.members))
	x.members = append(x.members, index)
}

func (x *aspectIndex) remove(index uint32) {
	if !x.has(index) {
		return
	}
	at := x.pos[index]
	last := int32(len(x.members) - 1)
	if at != last {
		moved := x.members[last]
		x.members[at] = moved
		x.pos[moved] = at
	}
	x.members = x.members[:last]
	x.pos[index] = noSlot
}

func (x *aspectIndex) dropSub(sub *Subscription) {
	for i, s := range x.subs {
		if s == sub {
			x.subs = append(x.subs[:i:i], x.subs[i+1:]...)
			return
		}
	}
}

// indexSet owns every aspect index of a scene. Aspects are few, so lookup is a
// linear scan by mask equality.
type indexSet struct {
	all []*aspectIndex
}

func (s *indexSet) find(a Aspect) *aspectIndex {
	for _, x := range s.all {
		if x.aspect.Equal(a) {
			return x
		}
	}
	return nil
}

func (s *indexSet) release(x *aspectIndex) {
	x.refs--
	if x.refs > 0 {
		return
	}
	for i, other := range s.all {
		if other == x {
			s.all = append(s.all[:i], s.all[i+1:]...)
			return
		}
	}
}
