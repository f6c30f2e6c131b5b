package main

import (
	"math/rand/v2"

	"github.com/TheBitDrifter/scene"
)

// workload keeps a constant population: entities expire after a random lifetime
// and are replaced by fresh ones, so every frame exercises destroy and reuse.
type workload struct {
	s        *scene.Scene
	rng      *rand.Rand
	position scene.Component[Position]
	velocity scene.Component[Velocity]
	lifetime scene.Component[Lifetime]
	frozen   scene.Component[Frozen]
	spawned  int
}

func newWorkload(s *scene.Scene, rng *rand.Rand) *workload {
	return &workload{
		s:        s,
		rng:      rng,
		position: scene.MustComponent[Position](s),
		velocity: scene.MustComponent[Velocity](s),
		lifetime: scene.MustComponent[Lifetime](s),
		frozen:   scene.MustComponent[Frozen](s),
	}
}

func (w *workload) spawn() {
	e := w.s.Spawn()
	w.spawned++
	w.position.Add(e, Position{X: w.rng.Float64() * 100, Y: w.rng.Float64() * 100})
	w.velocity.Add(e, Velocity{X: w.rng.NormFloat64(), Y: w.rng.NormFloat64()})
	w.lifetime.Add(e, Lifetime{Frames: 30 + w.rng.IntN(300)})
	if w.rng.IntN(10) == 0 {
		w.frozen.Add(e, Frozen{})
	}
}

func (w *workload) install() error {
	moving := scene.NewAspect().
		With(w.position.ComponentType, w.velocity.ComponentType).
		Without(w.frozen.ComponentType)
	if _, err := w.s.RegisterSystem(scene.SystemSpec{
		Name:   "movement",
		Aspect: moving,
		Phase:  scene.PhaseUpdate,
		Run: func(ctx *scene.Context, cursor *scene.Cursor) error {
			dt := ctx.DeltaTime()
			for cursor.Next() {
				pos := w.position.GetFromCursor(cursor)
				vel := w.velocity.GetFromCursor(cursor)
				pos.X += vel.X * dt
				pos.Y += vel.Y * dt
			}
			return nil
		},
	}); err != nil {
		return err
	}

	if _, err := w.s.RegisterSystem(scene.SystemSpec{
		Name:   "expiry",
		Aspect: scene.NewAspect().With(w.lifetime.ComponentType),
		Phase:  scene.PhaseUpdate,
		Order:  1,
		Each: func(ctx *scene.Context, e scene.EntityID) error {
			life, _ := w.lifetime.Get(e)
			life.Frames--
			if life.Frames <= 0 {
				ctx.Scene().Destroy(e)
			}
			return nil
		},
	}); err != nil {
		return err
	}

	// Replacements are spawned in draw so the update phase's destroys have been
	// reclaimed and their slots can be reused.
	var expired int
	w.s.Subscribe(scene.NewAspect().With(w.lifetime.ComponentType), nil, func(scene.EntityID) { expired++ })
	_, err := w.s.RegisterSystem(scene.SystemSpec{
		Name:  "respawn",
		Phase: scene.PhaseDraw,
		Run: func(*scene.Context, *scene.Cursor) error {
			for ; expired > 0; expired-- {
				w.spawn()
			}
			return nil
		},
	})
	return err
}
