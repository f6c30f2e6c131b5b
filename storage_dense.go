package scene

import "iter"

var (
	_ Storage[struct{}] = (*denseStorage[struct{}])(nil)
	_ columnStorage     = (*denseStorage[struct{}])(nil)
)

const noSlot = -1

// denseStorage packs values contiguously. slots maps an entity index to its
// position in values; owners is the reverse map. Removal swaps the last value into
// the hole, so pointers handed out earlier may move.
type denseStorage[T any] struct {
	ct     ComponentType
	values []T
	owners []uint32
	slots  []int32
}

func newDenseStorage[T any](ct ComponentType, capacity int) *denseStorage[T] {
	return &denseStorage[T]{
		ct:     ct,
		values: make([]T, 0, capacity),
		owners: make([]uint32, 0, capacity),
	}
}

func (s *denseStorage[T]) Type() ComponentType { return s.ct }
func (s *denseStorage[T]) Kind() StorageKind   { return Dense }
func (s *denseStorage[T]) Len() int            { return len(s.values) }

func (s *denseStorage[T]) slot(index uint32) int32 {
	if int(index) >= len(s.slots) {
		return noSlot
	}
	return s.slots[index]
}

func (s *denseStorage[T]) Has(index uint32) bool {
	return s.slot(index) != noSlot
}

func (s *denseStorage[T]) Get(index uint32) *T {
	sl := s.slot(index)
	if sl == noSlot {
		return nil
	}
	return &s.values[sl]
}

func (s *denseStorage[T]) Set(index uint32, v T) *T {
	if sl := s.slot(index); sl != noSlot {
		s.values[sl] = v
		return &s.values[sl]
	}
	for int(index) >= len(s.slots) {
		s.slots = append(s.slots, noSlot)
	}
	sl := int32(len(s.values))
	s.values = append(s.values, v)
	s.owners = append(s.owners, index)
	s.slots[index] = sl
	return &s.values[sl]
}

func (s *denseStorage[T]) Remove(index uint32) bool {
	sl := s.slot(index)
	if sl == noSlot {
		return false
	}
	last := int32(len(s.values) - 1)
	if sl != last {
		moved := s.owners[last]
		s.values[sl] = s.values[last]
		s.owners[sl] = moved
		s.slots[moved] = sl
	}
	var zero T
	s.values[last] = zero
	s.values = s.values[:last]
	s.owners = s.owners[:last]
	s.slots[index] = noSlot
	return true
}

func (s *denseStorage[T]) All() iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		for i := range s.values {
			if !yield(s.owners[i], &s.values[i]) {
				return
			}
		}
	}
}

func (s *denseStorage[T]) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, owner := range s.owners {
			if !yield(owner) {
				return
			}
		}
	}
}
