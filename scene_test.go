package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnAndComponents(t *testing.T) {
	s := newTestScene(t)
	c := components(s)

	e := s.Spawn()
	assert.True(t, s.IsAlive(e))
	assert.Equal(t, 1, s.Len())

	p, ok := c.pos.Add(e, Position{X: 1, Y: 2})
	require.True(t, ok)
	p.X = 10
	got, ok := c.pos.Get(e)
	require.True(t, ok)
	assert.Equal(t, Position{X: 10, Y: 2}, *got)

	overwritten, ok := AddComponent(s, e, Position{X: 3})
	require.True(t, ok)
	assert.Equal(t, 3.0, overwritten.X)

	mask, ok := s.Mask(e)
	require.True(t, ok)
	assert.True(t, mask.Has(c.pos.Bit))
	assert.False(t, mask.Has(c.vel.Bit))

	assert.True(t, HasComponent[Position](s, e))
	assert.False(t, HasComponent[Velocity](s, e))
	assert.True(t, RemoveComponent[Position](s, e))
	assert.False(t, RemoveComponent[Position](s, e))
	assert.False(t, c.pos.Has(e))
}

func TestFreeFunctionsOnUnusedType(t *testing.T) {
	s := newTestScene(t)
	e := s.Spawn()

	_, ok := GetComponent[Health](s, e)
	assert.False(t, ok)
	assert.False(t, RemoveComponent[Health](s, e))
	assert.Panics(t, func() { AddComponent(s, e, Undeclared{}) })

	_, err := FactoryNewComponent[Undeclared](s)
	assert.ErrorAs(t, err, new(ComponentNotDeclaredError))
}

// TestDestroyIsDeferred covers the window between Destroy and reclamation.
func TestDestroyIsDeferred(t *testing.T) {
	s := newTestScene(t)
	c := components(s)

	e := s.Spawn()
	c.health.Add(e, Health{HP: 7})
	assert.True(t, s.Destroy(e))

	assert.False(t, s.IsAlive(e))
	assert.Equal(t, 0, s.Len())
	status, ok := s.Status(e)
	require.True(t, ok)
	assert.Equal(t, StatusDestroyed, status)

	h, ok := c.health.Get(e)
	require.True(t, ok, "components stay readable until reclamation")
	assert.Equal(t, 7, h.HP)

	_, ok = c.health.Add(e, Health{HP: 1})
	assert.False(t, ok)
	assert.False(t, c.health.Remove(e))
	assert.False(t, s.Disable(e))
	assert.False(t, s.Destroy(e), "second destroy is a no-op")

	require.NoError(t, s.Flush())
	_, ok = c.health.Get(e)
	assert.False(t, ok)
	_, ok = s.Status(e)
	assert.False(t, ok)
	assert.Equal(t, 0, c.health.Storage().Len())
}

// TestStaleIDAfterReuse checks a recycled slot never answers for its old id.
func TestStaleIDAfterReuse(t *testing.T) {
	s := newTestScene(t)
	c := components(s)

	old := s.Spawn()
	c.pos.Add(old, Position{X: 1})
	s.Destroy(old)
	require.NoError(t, s.Flush())

	fresh := s.Spawn()
	assert.Equal(t, old.Index, fresh.Index)
	assert.NotEqual(t, old.Generation, fresh.Generation)
	c.pos.Add(fresh, Position{X: 2})

	assert.False(t, s.IsAlive(old))
	_, ok := c.pos.Get(old)
	assert.False(t, ok)
	assert.False(t, s.Destroy(old))
	assert.True(t, s.IsAlive(fresh))

	mask, ok := s.Mask(fresh)
	require.True(t, ok)
	assert.Equal(t, []uint32{c.pos.Bit}, mask.Bits(), "reused slot starts with an empty mask")
}

func TestEnableDisable(t *testing.T) {
	s := newTestScene(t)
	c := components(s)
	e := s.Spawn()
	c.pos.Add(e, Position{})
	q := s.Query(NewAspect().With(c.pos.ComponentType))

	assert.True(t, s.Disable(e))
	assert.True(t, s.IsAlive(e))
	assert.Equal(t, 0, q.Count())
	_, ok := c.pos.Get(e)
	assert.True(t, ok, "disabled entities keep their components")

	assert.True(t, s.Enable(e))
	assert.Equal(t, 1, q.Count())
}

func TestOnSpawnObservers(t *testing.T) {
	s := newTestScene(t)
	var seen []EntityID
	s.OnSpawn(func(e EntityID) { seen = append(seen, e) })

	a := s.Spawn()
	b := s.Spawn()
	s.Destroy(b)
	assert.Empty(t, seen, "observers only run at a phase boundary")

	require.NoError(t, s.Flush())
	assert.Equal(t, []EntityID{a}, seen, "entities destroyed before the boundary are not announced")
}

func TestDestroyFromSpawnObserver(t *testing.T) {
	s := newTestScene(t)
	s.OnSpawn(func(e EntityID) { s.Destroy(e) })
	e := s.Spawn()

	require.NoError(t, s.Flush())
	_, ok := s.Status(e)
	assert.False(t, ok, "destroys queued by observers are reclaimed in the same pass")
}

func TestStorageOverrideFromConfig(t *testing.T) {
	s := newTestScene(t, WithConfig(Config{StorageOverrides: map[string]string{"Position": "sparse"}}))
	pos := MustComponent[Position](s)
	vel := MustComponent[Velocity](s)

	assert.Equal(t, Sparse, pos.Storage().Kind())
	assert.Equal(t, Dense, vel.Storage().Kind())
	assert.Equal(t, Dense, pos.ComponentType.Storage, "the registry keeps the declared kind")
	assert.Equal(t, Sparse, pos.Kind())
	assert.Equal(t, Dense, vel.Kind())
}

func TestNewSceneRejectsInvalidConfig(t *testing.T) {
	_, err := Factory.NewScene(WithConfig(Config{InitialCapacity: -1}))
	assert.Error(t, err)

	_, err = Factory.NewScene(WithConfig(Config{LogLevel: "loud"}))
	assert.Error(t, err)

	_, err = Factory.NewScene(
		WithConfig(Config{MaxServices: 1}),
		WithService("a", 1),
		WithService("b", 2),
	)
	assert.ErrorAs(t, err, new(CacheFullError))
}

func TestScenesAreIndependent(t *testing.T) {
	types := NewTypeRegistry()
	a := newTestScene(t, WithTypes(types))
	b := newTestScene(t, WithTypes(types))
	assert.NotEqual(t, a.ID(), b.ID())

	ea := a.Spawn()
	AddComponent(a, ea, Position{X: 1})
	eb := b.Spawn()

	assert.Equal(t, ea, eb, "ids are per scene")
	assert.False(t, HasComponent[Position](b, eb))
	assert.Equal(t, MustComponent[Position](a).Bit, MustComponent[Position](b).Bit)
}
