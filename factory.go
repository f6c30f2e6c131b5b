package scene

import "reflect"

type factory struct{}

// Factory groups the constructors of the package.
var Factory factory

// NewScene builds a scene. Without options it uses DefaultTypes, a no-op logger
// and no metrics.
func (f factory) NewScene(opts ...Option) (*Scene, error) {
	return newScene(opts...)
}

func (f factory) NewAspect() Aspect {
	return NewAspect()
}

func (f factory) NewTypeRegistry() *TypeRegistry {
	return NewTypeRegistry()
}

// FactoryNewComponent returns the handle of T in s, creating its storage.
func FactoryNewComponent[T any](s *Scene) (Component[T], error) {
	st, err := storageFor[T](s)
	if err != nil {
		return Component[T]{}, err
	}
	return Component[T]{
		ComponentType: st.Type(),
		scene:         s,
		storage:       st,
	}, nil
}

// MustComponent is FactoryNewComponent that panics on an undeclared type.
func MustComponent[T any](s *Scene) Component[T] {
	c, err := FactoryNewComponent[T](s)
	if err != nil {
		panic(err)
	}
	return c
}

func FactoryNewCache[T any](capacity int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: capacity,
	}
}

func reflectType[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
