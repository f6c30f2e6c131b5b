package scene

import (
	"cmp"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Phase is one step of a frame. Frame runs the phases in declaration order.
type Phase uint8

const (
	PhaseInput Phase = iota
	PhaseUpdate
	PhaseDraw
	phaseCount
)

// Phases lists every phase in execution order.
var Phases = [...]Phase{PhaseInput, PhaseUpdate, PhaseDraw}

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhaseDraw:
		return "draw"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

func (p Phase) valid() bool { return p < phaseCount }

// EachFunc is called once per matched entity.
type EachFunc func(ctx *Context, e EntityID) error

// RunFunc receives a cursor over the matched entities and drives it itself.
type RunFunc func(ctx *Context, cursor *Cursor) error

// SystemSpec describes a system. Exactly one of Each and Run must be set. When Name
// is empty it is derived from the callback's function name.
type SystemSpec struct {
	Name   string
	Aspect Aspect
	Phase  Phase
	// Order sorts systems within a phase; ties keep registration order.
	Order    int
	Each     EachFunc
	Run      RunFunc
	Services []string
}

// SystemHandle identifies a registered system.
type SystemHandle struct {
	id uint64
}

// SystemStats accumulates per system execution counters.
type SystemStats struct {
	Runs         uint64
	Faults       uint64
	LastFault    error
	LastDuration time.Duration
	// LastMatched is the size of the match snapshot of the last run.
	LastMatched int
}

type system struct {
	id       uint64
	spec     SystemSpec
	index    *aspectIndex
	services map[string]any
	logger   *zap.Logger
	enabled  bool
	stats    SystemStats
	snapshot []EntityID
}

// Context is handed to system callbacks for the duration of one run.
type Context struct {
	scene    *Scene
	system   *system
	phase    Phase
	dt       float64
	services map[string]any
	entity   EntityID
}

func (c *Context) Scene() *Scene      { return c.scene }
func (c *Context) Phase() Phase       { return c.phase }
func (c *Context) DeltaTime() float64 { return c.dt }
func (c *Context) SystemName() string { return c.system.spec.Name }

// Logger returns the scene logger tagged with the system name.
func (c *Context) Logger() *zap.Logger { return c.system.logger }

// Service returns a service the system declared in SystemSpec.Services.
func (c *Context) Service(name string) (any, bool) {
	svc, ok := c.services[name]
	return svc, ok
}

// RegisterSystem validates spec, resolves its services and schedules it in its
// phase. The system's aspect is indexed from then on.
func (s *Scene) RegisterSystem(spec SystemSpec) (SystemHandle, error) {
	if (spec.Each == nil) == (spec.Run == nil) {
		return SystemHandle{}, eris.Errorf("system %q must set exactly one of Each and Run", spec.Name)
	}
	if !spec.Phase.valid() {
		return SystemHandle{}, UnknownPhaseError{Phase: spec.Phase}
	}
	if spec.Name == "" {
		spec.Name = callbackName(spec)
	}
	if slices.ContainsFunc(s.systems, func(other *system) bool { return other.spec.Name == spec.Name }) {
		return SystemHandle{}, DuplicateSystemError{Name: spec.Name}
	}
	services := make(map[string]any, len(spec.Services))
	for _, name := range spec.Services {
		svc, ok := s.services.Lookup(name)
		if !ok {
			return SystemHandle{}, ServiceNotFoundError{System: spec.Name, Service: name}
		}
		services[name] = svc
	}

	s.nextSystemID++
	sys := &system{
		id:       s.nextSystemID,
		spec:     spec,
		index:    s.acquireIndex(spec.Aspect),
		services: services,
		logger:   s.logger.With(zap.String("system", spec.Name)),
		enabled:  true,
	}
	s.systems = append(s.systems, sys)
	phase := append(slices.Clone(s.byPhase[spec.Phase]), sys)
	slices.SortStableFunc(phase, func(a, b *system) int {
		return cmp.Or(cmp.Compare(a.spec.Order, b.spec.Order), cmp.Compare(a.id, b.id))
	})
	s.byPhase[spec.Phase] = phase
	sys.logger.Debug("registered system",
		phaseField(spec.Phase),
		zap.Int("order", spec.Order),
		zap.Stringer("aspect", spec.Aspect),
	)
	return SystemHandle{id: sys.id}, nil
}

func callbackName(spec SystemSpec) string {
	var fn any = spec.Run
	if spec.Each != nil {
		fn = spec.Each
	}
	return filepath.Base(runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name())
}

// UnregisterSystem removes the system. Removed during a phase, it does not run
// for the rest of that phase.
func (s *Scene) UnregisterSystem(h SystemHandle) bool {
	sys := s.lookupSystem(h)
	if sys == nil {
		return false
	}
	s.systems = slices.DeleteFunc(s.systems, func(other *system) bool { return other == sys })
	phase := s.byPhase[sys.spec.Phase]
	s.byPhase[sys.spec.Phase] = slices.DeleteFunc(slices.Clone(phase), func(other *system) bool { return other == sys })
	sys.enabled = false
	s.indices.release(sys.index)
	return true
}

// SetSystemEnabled pauses or resumes a system without unregistering it.
func (s *Scene) SetSystemEnabled(h SystemHandle, enabled bool) bool {
	sys := s.lookupSystem(h)
	if sys == nil {
		return false
	}
	sys.enabled = enabled
	return true
}

// SystemStats returns the counters of a registered system.
func (s *Scene) SystemStats(h SystemHandle) (SystemStats, bool) {
	sys := s.lookupSystem(h)
	if sys == nil {
		return SystemStats{}, false
	}
	return sys.stats, true
}

// Systems returns the names of the systems of phase p in execution order.
func (s *Scene) Systems(p Phase) []string {
	if !p.valid() {
		return nil
	}
	names := make([]string, 0, len(s.byPhase[p]))
	for _, sys := range s.byPhase[p] {
		names = append(names, sys.spec.Name)
	}
	return names
}

func (s *Scene) lookupSystem(h SystemHandle) *system {
	for _, sys := range s.systems {
		if sys.id == h.id {
			return sys
		}
	}
	return nil
}

// RunPhase runs every enabled system of p in order, then applies the destroys and
// spawn notifications queued meanwhile. A failing system is logged and counted; it
// stops that system's run but not the phase.
func (s *Scene) RunPhase(p Phase, dt float64) error {
	if !p.valid() {
		return UnknownPhaseError{Phase: p}
	}
	if s.running {
		return PhaseInProgressError{Phase: s.phase}
	}
	s.running = true
	s.phase = p
	start := time.Now()

	for _, sys := range s.byPhase[p] {
		if !sys.enabled {
			continue
		}
		s.runSystem(sys, p, dt)
	}

	s.running = false
	s.settle()
	s.metrics.timing("phase", start, "phase:"+p.String())
	return nil
}

// Frame runs every phase in order with the same delta time.
func (s *Scene) Frame(dt float64) error {
	for _, p := range Phases {
		if err := s.RunPhase(p, dt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) runSystem(sys *system, p Phase, dt float64) {
	start := time.Now()
	sys.snapshot = s.collect(sys.spec.Aspect, sys.snapshot[:0])
	ctx := &Context{
		scene:    s,
		system:   sys,
		phase:    p,
		dt:       dt,
		services: sys.services,
	}
	err := s.invoke(sys, ctx)

	sys.stats.Runs++
	sys.stats.LastDuration = time.Since(start)
	sys.stats.LastMatched = len(sys.snapshot)
	clear(sys.snapshot)
	if err != nil {
		sys.stats.Faults++
		sys.stats.LastFault = err
		fields := []zap.Field{phaseField(p), zap.Error(err)}
		if sys.spec.Each != nil {
			fields = append(fields, entityField(ctx.entity))
		}
		sys.logger.Error("system fault", fields...)
		s.metrics.incr("system.fault", "system:"+sys.spec.Name, "phase:"+p.String())
	}
	s.metrics.timing("system", start, "system:"+sys.spec.Name, "phase:"+p.String())
}

func (s *Scene) invoke(sys *system, ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = SystemFaultError{System: sys.spec.Name, Phase: ctx.phase, Panic: r}
		}
	}()
	if sys.spec.Each != nil {
		for _, e := range sys.snapshot {
			if !s.visible(e) {
				continue
			}
			ctx.entity = e
			if err := sys.spec.Each(ctx, e); err != nil {
				return SystemFaultError{System: sys.spec.Name, Phase: ctx.phase, Err: err}
			}
		}
		return nil
	}
	if err := sys.spec.Run(ctx, newCursor(s, sys.snapshot)); err != nil {
		return SystemFaultError{System: sys.spec.Name, Phase: ctx.phase, Err: err}
	}
	return nil
}
