package scene

var _ Cache[any] = &SimpleCache[any]{}

// Cache is a keyed, append only table with stable indices.
type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	Register(string, T) (int, error)
	Len() int
}

// SimpleCache is a bounded Cache. A capacity of zero means unbounded.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	return &c.items[index]
}

// Register stores item under key. Registering an existing key replaces the item
// and keeps its index.
func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if idx, ok := c.itemIndices[key]; ok {
		c.items[idx] = item
		return idx, nil
	}
	if c.maxCapacity > 0 && len(c.items) >= c.maxCapacity {
		return -1, CacheFullError{Capacity: c.maxCapacity}
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

func (c *SimpleCache[T]) Len() int {
	return len(c.items)
}

func (c *SimpleCache[T]) Clear() {
	c.items = c.items[:0]
	clear(c.itemIndices)
}

// Services holds the external collaborators systems may ask for by name, such as
// a physics world or a render batch. Systems resolve their services when they are
// registered, never while a phase is iterating.
type Services struct {
	cache *SimpleCache[any]
}

func newServices(capacity int) *Services {
	return &Services{cache: FactoryNewCache[any](capacity).(*SimpleCache[any])}
}

// Provide registers or replaces a service.
func (s *Services) Provide(name string, service any) error {
	_, err := s.cache.Register(name, service)
	return err
}

// Lookup returns the service registered under name.
func (s *Services) Lookup(name string) (any, bool) {
	idx, ok := s.cache.GetIndex(name)
	if !ok {
		return nil, false
	}
	return *s.cache.GetItem(idx), true
}

func (s *Services) Len() int {
	return s.cache.Len()
}
