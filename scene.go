package scene

import (
	"fmt"
	"reflect"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scene owns a population of entities, one storage per component type, the aspect
// indices and the deferred destroy queue. A Scene is not safe for concurrent use.
type Scene struct {
	id       string
	config   Config
	types    *TypeRegistry
	registry *entityRegistry
	nodes    []node
	columns  []columnStorage
	byType   map[reflect.Type]columnStorage

	indices      indexSet
	matchScratch []bool
	events       []matchEvent
	dispatching  bool

	opQueue        opQueue
	spawnObservers []EntityCallback

	systems      []*system
	byPhase      [phaseCount][]*system
	nextSystemID uint64
	services     *Services

	logger  *zap.Logger
	metrics metrics

	running bool
	phase   Phase
}

func newScene(opts ...Option) (*Scene, error) {
	o := options{config: Config{InitialCapacity: defaultInitialCapacity}}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	if o.types == nil {
		o.types = DefaultTypes
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
		if o.config.LogLevel != "" {
			logger, err := NewLogger(o.config.LogLevel)
			if err != nil {
				return nil, err
			}
			o.logger = logger
		}
	}
	if o.metrics == nil {
		o.metrics = &ddstatsd.NoOpClient{}
		if o.config.MetricsAddress != "" {
			client, err := newMetricsClient(o.config.MetricsAddress, o.config.MetricsNamespace)
			if err != nil {
				return nil, fmt.Errorf("create statsd client: %w", err)
			}
			o.metrics = client
		}
	}

	id := uuid.NewString()
	logger := o.logger.With(zap.String("scene", id))
	capacity := o.config.InitialCapacity
	s := &Scene{
		id:       id,
		config:   o.config,
		types:    o.types,
		registry: newEntityRegistry(capacity),
		nodes:    make([]node, 0, capacity),
		byType:   make(map[reflect.Type]columnStorage),
		opQueue:  newOpQueue(),
		services: newServices(o.config.MaxServices),
		logger:   logger,
		metrics:  metrics{client: o.metrics, logger: logger},
	}
	for _, ns := range o.services {
		if err := s.services.Provide(ns.name, ns.service); err != nil {
			return nil, fmt.Errorf("provide service %q: %w", ns.name, err)
		}
	}
	return s, nil
}

// ID returns the scene's instance id, also attached to every log entry.
func (s *Scene) ID() string { return s.id }

// Types returns the registry the scene takes its component bits from.
func (s *Scene) Types() *TypeRegistry { return s.types }

// Services returns the registry systems resolve their collaborators from.
func (s *Scene) Services() *Services { return s.services }

func (s *Scene) Logger() *zap.Logger { return s.logger }

// Spawn creates an active entity with no components. It is visible to queries
// started after the call.
func (s *Scene) Spawn() EntityID {
	e := s.registry.Allocate()
	if int(e.Index) == len(s.nodes) {
		s.nodes = append(s.nodes, node{})
	}
	n := &s.nodes[e.Index]
	*n = node{entity: e, status: StatusActive}
	if len(s.spawnObservers) > 0 {
		s.opQueue.enqueueSpawn(e)
	}
	if len(s.indices.all) > 0 {
		s.endChange(n, s.untrackedScratch())
	}
	return e
}

// Destroy queues e for reclamation at the next phase boundary. From this call on e
// is dead to IsAlive and to every query; its components stay readable through
// GetComponent until reclamation. Destroying a dead or queued entity does nothing.
func (s *Scene) Destroy(e EntityID) bool {
	if !s.registry.IsAlive(e) {
		return false
	}
	n := &s.nodes[e.Index]
	was := s.beginChange(n)
	s.registry.markPending(e)
	n.status = StatusDestroyed
	s.opQueue.enqueueDestroy(e)
	s.endChange(n, was)
	return true
}

// Enable makes an inactive entity visible to queries again.
func (s *Scene) Enable(e EntityID) bool {
	return s.setStatus(e, StatusActive)
}

// Disable hides e from queries without touching its components.
func (s *Scene) Disable(e EntityID) bool {
	return s.setStatus(e, StatusInactive)
}

func (s *Scene) setStatus(e EntityID, status Status) bool {
	if !s.registry.IsAlive(e) {
		return false
	}
	s.nodes[e.Index].status = status
	return true
}

// IsAlive reports whether e was spawned, is not destroyed and its slot has not
// been recycled.
func (s *Scene) IsAlive(e EntityID) bool {
	return s.registry.IsAlive(e)
}

// Status returns the lifecycle state of e. Entities awaiting reclamation report
// StatusDestroyed; reclaimed or never spawned ids report false.
func (s *Scene) Status(e EntityID) (Status, bool) {
	if !s.registry.valid(e) {
		return 0, false
	}
	return s.nodes[e.Index].status, true
}

// Mask returns a copy of the component mask of e.
func (s *Scene) Mask(e EntityID) (ComponentMask, bool) {
	if !s.registry.valid(e) {
		return ComponentMask{}, false
	}
	return s.nodes[e.Index].mask.Clone(), true
}

// Len returns the number of live entities, not counting those awaiting reclamation.
func (s *Scene) Len() int {
	return s.registry.Len() - len(s.opQueue.pendingDestroy)
}

// OnSpawn registers fn to receive, at each phase boundary, the entities spawned
// since the previous one that are still alive.
func (s *Scene) OnSpawn(fn EntityCallback) {
	s.spawnObservers = append(s.spawnObservers, fn)
}

// Flush applies queued spawn notifications and destroys outside of a phase.
func (s *Scene) Flush() error {
	if s.running {
		return PhaseInProgressError{Phase: s.phase}
	}
	if s.opQueue.empty() {
		return nil
	}
	s.settle()
	return nil
}

func (s *Scene) settle() {
	spawned, reclaimed := s.processOperationQueue()
	if reclaimed > 0 {
		s.metrics.gauge("entities", float64(s.Len()))
	}
	if spawned > 0 || reclaimed > 0 {
		s.logger.Debug("applied deferred operations",
			zap.Int("spawned", spawned),
			zap.Int("reclaimed", reclaimed),
			zap.Int("live", s.Len()),
		)
	}
}

// untrackedScratch returns a match vector for an entity in no index yet.
func (s *Scene) untrackedScratch() []bool {
	was := s.matchScratch[:0]
	for range s.indices.all {
		was = append(was, false)
	}
	s.matchScratch = was
	return was
}

// visible reports whether e should be yielded by queries.
func (s *Scene) visible(e EntityID) bool {
	return s.registry.IsAlive(e) && s.nodes[e.Index].status == StatusActive
}

func (s *Scene) columnFor(bit uint32) columnStorage {
	if int(bit) >= len(s.columns) {
		return nil
	}
	return s.columns[bit]
}

// storageFor returns the storage of T, creating it on first use in this scene.
func storageFor[T any](s *Scene) (Storage[T], error) {
	t := reflectType[T]()
	if col, ok := s.byType[t]; ok {
		return col.(Storage[T]), nil
	}
	ct, err := Register[T](s.types)
	if err != nil {
		return nil, err
	}
	kind := ct.Storage
	if override, ok := s.config.storageOverride(ct); ok {
		kind = override
	}
	st := newStorage[T](ct, kind, s.config.InitialCapacity)
	col := st.(columnStorage)
	for int(ct.Bit) >= len(s.columns) {
		s.columns = append(s.columns, nil)
	}
	s.columns[ct.Bit] = col
	s.byType[t] = col
	s.logger.Debug("created component storage",
		zap.String("component", ct.Name),
		zap.Uint32("bit", ct.Bit),
		zap.Stringer("storage", kind),
	)
	return st, nil
}

func mustStorageFor[T any](s *Scene) Storage[T] {
	st, err := storageFor[T](s)
	if err != nil {
		panic(err)
	}
	return st
}

func addComponent[T any](s *Scene, st Storage[T], e EntityID, v T) (*T, bool) {
	if !s.registry.IsAlive(e) {
		return nil, false
	}
	n := &s.nodes[e.Index]
	bit := st.Type().Bit
	if n.mask.Has(bit) {
		return st.Set(e.Index, v), true
	}
	was := s.beginChange(n)
	st.Set(e.Index, v)
	n.mask.Set(bit)
	s.endChange(n, was)
	// Callbacks may have moved or removed the value.
	p := st.Get(e.Index)
	return p, p != nil
}

func getComponent[T any](s *Scene, st Storage[T], e EntityID) (*T, bool) {
	if !s.registry.valid(e) {
		return nil, false
	}
	p := st.Get(e.Index)
	return p, p != nil
}

func removeComponent[T any](s *Scene, st Storage[T], e EntityID) bool {
	if !s.registry.IsAlive(e) {
		return false
	}
	n := &s.nodes[e.Index]
	bit := st.Type().Bit
	if !n.mask.Has(bit) {
		return false
	}
	was := s.beginChange(n)
	st.Remove(e.Index)
	n.mask.Clear(bit)
	s.endChange(n, was)
	return true
}
