package scene

import "iter"

var (
	_ Storage[struct{}] = (*sparseStorage[struct{}])(nil)
	_ columnStorage     = (*sparseStorage[struct{}])(nil)
)

// compactThreshold is the minimum number of dead order entries before a sparse
// storage rebuilds its order list.
const compactThreshold = 32

type sparseEntry struct {
	index uint32
	live  bool
}

// sparseStorage keeps each value in its own allocation, so pointers survive other
// inserts and removes. order remembers insertion order; removed entries are
// tombstoned and swept once they outnumber the live ones.
type sparseStorage[T any] struct {
	ct     ComponentType
	values map[uint32]*T
	pos    map[uint32]int
	order  []sparseEntry
	dead   int
}

func newSparseStorage[T any](ct ComponentType) *sparseStorage[T] {
	return &sparseStorage[T]{
		ct:     ct,
		values: make(map[uint32]*T),
		pos:    make(map[uint32]int),
	}
}

func (s *sparseStorage[T]) Type() ComponentType { return s.ct }
func (s *sparseStorage[T]) Kind() StorageKind   { return Sparse }
func (s *sparseStorage[T]) Len() int            { return len(s.values) }

func (s *sparseStorage[T]) Has(index uint32) bool {
	_, ok := s.values[index]
	return ok
}

func (s *sparseStorage[T]) Get(index uint32) *T {
	return s.values[index]
}

func (s *sparseStorage[T]) Set(index uint32, v T) *T {
	if p, ok := s.values[index]; ok {
		*p = v
		return p
	}
	p := new(T)
	*p = v
	s.values[index] = p
	s.pos[index] = len(s.order)
	s.order = append(s.order, sparseEntry{index: index, live: true})
	return p
}

func (s *sparseStorage[T]) Remove(index uint32) bool {
	if _, ok := s.values[index]; !ok {
		return false
	}
	delete(s.values, index)
	s.order[s.pos[index]].live = false
	delete(s.pos, index)
	s.dead++
	if s.dead >= compactThreshold && s.dead > len(s.values) {
		s.compact()
	}
	return true
}

func (s *sparseStorage[T]) compact() {
	live := s.order[:0]
	for _, e := range s.order {
		if e.live {
			s.pos[e.index] = len(live)
			live = append(live, e)
		}
	}
	clear(s.order[len(live):])
	s.order = live
	s.dead = 0
}

func (s *sparseStorage[T]) All() iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		for _, e := range s.order {
			if !e.live {
				continue
			}
			if !yield(e.index, s.values[e.index]) {
				return
			}
		}
	}
}

func (s *sparseStorage[T]) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, e := range s.order {
			if e.live && !yield(e.index) {
				return
			}
		}
	}
}
