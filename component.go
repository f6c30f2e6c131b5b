package scene

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/TheBitDrifter/table"
)

// StorageKind selects the storage strategy of a component type.
type StorageKind uint8

const (
	// Dense keeps values in a compacted arena. Use it for components most entities carry.
	Dense StorageKind = iota + 1
	// Sparse keeps values in a map keyed by entity index. Use it for rare or optional components.
	Sparse
)

func (k StorageKind) String() string {
	switch k {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	}
	return "undeclared"
}

// ParseStorageKind converts "dense" or "sparse" into a StorageKind.
func ParseStorageKind(s string) (StorageKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dense":
		return Dense, nil
	case "sparse":
		return Sparse, nil
	}
	return 0, fmt.Errorf("unknown storage kind %q", s)
}

// StorageDeclarer is implemented by component types that carry their own storage
// preference. The method is called once, on the zero value, at registration.
type StorageDeclarer interface {
	ComponentStorage() StorageKind
}

// ComponentType is the registry record of one Go component type.
type ComponentType struct {
	Bit  uint32
	Name string
	// Storage is the declared kind. A scene's Config.StorageOverrides may pick a
	// different one; Component.Kind reports what the scene actually uses.
	Storage StorageKind

	typ reflect.Type
}

// DefaultTypes is the process wide registry used by scenes that are not given one.
var DefaultTypes = NewTypeRegistry()

// TypeRegistry assigns each component type a bit position on first use. Bits are
// never released. It is the only piece shared between scenes, so it is guarded.
type TypeRegistry struct {
	mu       sync.Mutex
	schema   table.Schema
	byType   map[reflect.Type]ComponentType
	declared map[reflect.Type]StorageKind
	ordered  []ComponentType
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		schema:   table.Factory.NewSchema(),
		byType:   make(map[reflect.Type]ComponentType),
		declared: make(map[reflect.Type]StorageKind),
	}
}

// Declare records the storage preference of T. It must happen before T's first
// registration; declaring an already registered type with a different kind fails.
func Declare[T any](r *TypeRegistry, kind StorageKind) error {
	if kind != Dense && kind != Sparse {
		return fmt.Errorf("declare %s: invalid storage kind %d", reflect.TypeFor[T](), kind)
	}
	t := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if ct, ok := r.byType[t]; ok && ct.Storage != kind {
		return fmt.Errorf("declare %s: already registered with %s storage", t, ct.Storage)
	}
	r.declared[t] = kind
	return nil
}

// Register returns the ComponentType of T, assigning its bit on the first call.
func Register[T any](r *TypeRegistry) (ComponentType, error) {
	t := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if ct, ok := r.byType[t]; ok {
		return ct, nil
	}

	kind, ok := r.declared[t]
	if !ok {
		var zero T
		if d, isDeclarer := any(zero).(StorageDeclarer); isDeclarer {
			kind = d.ComponentStorage()
		} else if d, isDeclarer := any(&zero).(StorageDeclarer); isDeclarer {
			kind = d.ComponentStorage()
		}
	}
	if kind != Dense && kind != Sparse {
		return ComponentType{}, ComponentNotDeclaredError{Type: t.String()}
	}

	elem := table.FactoryNewElementType[T]()
	r.schema.Register(elem)
	ct := ComponentType{
		Bit:     r.schema.RowIndexFor(elem),
		Name:    t.String(),
		Storage: kind,
		typ:     t,
	}
	r.byType[t] = ct
	r.ordered = append(r.ordered, ct)
	return ct, nil
}

// MustRegister is Register for setup code; it panics on an undeclared type.
func MustRegister[T any](r *TypeRegistry) ComponentType {
	ct, err := Register[T](r)
	if err != nil {
		panic(err)
	}
	return ct
}

// Lookup resolves a registered type by its full name ("pkg.Position") or by its
// short name ("Position") when that is unambiguous.
func (r *TypeRegistry) Lookup(name string) (ComponentType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []ComponentType
	for _, ct := range r.ordered {
		if ct.Name == name {
			return ct, nil
		}
		if shortName(ct.Name) == name {
			found = append(found, ct)
		}
	}
	switch len(found) {
	case 0:
		return ComponentType{}, ComponentNotFoundError{Name: name}
	case 1:
		return found[0], nil
	}
	return ComponentType{}, fmt.Errorf("component name %q is ambiguous (%d matches)", name, len(found))
}

// Types returns every registered type in bit order.
func (r *TypeRegistry) Types() []ComponentType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.ordered)
	slices.SortFunc(out, func(a, b ComponentType) int {
		return cmp.Compare(a.Bit, b.Bit)
	})
	return out
}

func shortName(full string) string {
	if i := strings.LastIndexByte(full, '.'); i >= 0 {
		return full[i+1:]
	}
	return full
}
