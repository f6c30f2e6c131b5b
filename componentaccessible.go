package scene

// Component is a typed handle on one component type of one scene. It skips the
// type lookup the free functions do on every call.
type Component[T any] struct {
	ComponentType
	scene   *Scene
	storage Storage[T]
}

// Add attaches v to e, or overwrites the existing value. It returns false when e
// is not alive.
func (c Component[T]) Add(e EntityID, v T) (*T, bool) {
	return addComponent(c.scene, c.storage, e, v)
}

// Get returns the value of e. Entities awaiting reclamation still resolve.
func (c Component[T]) Get(e EntityID) (*T, bool) {
	return getComponent(c.scene, c.storage, e)
}

func (c Component[T]) Has(e EntityID) bool {
	_, ok := c.Get(e)
	return ok
}

// Remove detaches the component from e and reports whether it was present.
func (c Component[T]) Remove(e EntityID) bool {
	return removeComponent(c.scene, c.storage, e)
}

func (c Component[T]) Storage() Storage[T] {
	return c.storage
}

// Kind returns the storage kind this scene uses for T, after config overrides.
func (c Component[T]) Kind() StorageKind {
	return c.storage.Kind()
}
