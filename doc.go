/*
Package scene provides an entity-component-system runtime for games and simulations.

A Scene owns entities, stores their components and runs systems over the entities
whose component set matches an aspect. Component types are plain Go structs; each
declares whether its values live in a Dense storage (contiguous, fast to iterate)
or a Sparse storage (stable pointers, cheap to add and remove).

Core Concepts:

  - EntityID: an index plus a generation. A destroyed entity's index is reused
    under a new generation, so stale ids never resolve.
  - Component: a registered Go type with a bit in the TypeRegistry.
  - Aspect: a set of required and a set of excluded component types.
  - Query: the active entities matching an aspect.
  - System: a callback scheduled in a Phase over the entities of an aspect.
  - Subscription: callbacks fired when entities start or stop matching an aspect.

Destroy is deferred: a destroyed entity disappears from queries at once and its
slot is reclaimed at the end of the running phase, or at Flush.

Basic Usage:

	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	func (Position) ComponentStorage() scene.StorageKind { return scene.Dense }
	func (Velocity) ComponentStorage() scene.StorageKind { return scene.Dense }

	s, _ := scene.Factory.NewScene()
	position := scene.MustComponent[Position](s)
	velocity := scene.MustComponent[Velocity](s)

	e := s.Spawn()
	position.Add(e, Position{})
	velocity.Add(e, Velocity{X: 1})

	s.RegisterSystem(scene.SystemSpec{
		Name:   "movement",
		Aspect: scene.NewAspect().With(position.ComponentType, velocity.ComponentType),
		Phase:  scene.PhaseUpdate,
		Run: func(ctx *scene.Context, cursor *scene.Cursor) error {
			for cursor.Next() {
				pos := position.GetFromCursor(cursor)
				vel := velocity.GetFromCursor(cursor)
				pos.X += vel.X * ctx.DeltaTime()
				pos.Y += vel.Y * ctx.DeltaTime()
			}
			return nil
		},
	})

	s.Frame(1.0 / 60)

Aspects can also be written as text with package aspectql, e.g. "Position & !Frozen".
*/
package scene
