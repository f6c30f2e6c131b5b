package scene

import "iter"

// Storage maps entity indices to values of one component type. Storages never
// check generations; the scene does that before touching them.
type Storage[T any] interface {
	Type() ComponentType
	Kind() StorageKind
	Len() int
	Has(index uint32) bool
	// Get returns a pointer to the value stored for index, or nil. For Dense
	// storages the pointer is valid until the next Set or Remove on the storage.
	Get(index uint32) *T
	// Set inserts or overwrites the value for index and returns a pointer to it.
	Set(index uint32, v T) *T
	Remove(index uint32) bool
	// All yields entries in the storage's natural order: slot order for Dense,
	// insertion order for Sparse. The storage must not be mutated meanwhile.
	All() iter.Seq2[uint32, *T]
}

// columnStorage is the type erased view the scene keeps per bit.
type columnStorage interface {
	Type() ComponentType
	Kind() StorageKind
	Len() int
	Has(index uint32) bool
	Remove(index uint32) bool
	Indices() iter.Seq[uint32]
}

func newStorage[T any](ct ComponentType, kind StorageKind, capacity int) Storage[T] {
	if kind == Sparse {
		return newSparseStorage[T](ct)
	}
	return newDenseStorage[T](ct, capacity)
}
