package scene

// AddComponent attaches v to e, or overwrites the value e already has, and returns
// a pointer to the stored value. It returns false when e is not alive. The first
// use of T in the scene registers it in the scene's TypeRegistry and panics with
// ComponentNotDeclaredError when T has no declared storage.
func AddComponent[T any](s *Scene, e EntityID, v T) (*T, bool) {
	return addComponent(s, mustStorageFor[T](s), e, v)
}

// GetComponent returns the value of T on e. Entities destroyed during the current
// phase still resolve until reclamation.
func GetComponent[T any](s *Scene, e EntityID) (*T, bool) {
	st, ok := existingStorage[T](s)
	if !ok {
		return nil, false
	}
	return getComponent(s, st, e)
}

// RemoveComponent detaches T from e and reports whether it was present.
func RemoveComponent[T any](s *Scene, e EntityID) bool {
	st, ok := existingStorage[T](s)
	if !ok {
		return false
	}
	return removeComponent(s, st, e)
}

func HasComponent[T any](s *Scene, e EntityID) bool {
	_, ok := GetComponent[T](s, e)
	return ok
}

// existingStorage returns T's storage without creating it; a type never added to
// the scene cannot be on any entity.
func existingStorage[T any](s *Scene) (Storage[T], bool) {
	col, ok := s.byType[reflectType[T]()]
	if !ok {
		return nil, false
	}
	return col.(Storage[T]), true
}
