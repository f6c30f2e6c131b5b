package scene

import "fmt"

// ComponentNotDeclaredError is a wiring mistake: a component type was used before
// its storage strategy was declared.
type ComponentNotDeclaredError struct {
	Type string
}

func (e ComponentNotDeclaredError) Error() string {
	return fmt.Sprintf("component type %s has no declared storage (implement ComponentStorage or call Declare)", e.Type)
}

type ComponentNotFoundError struct {
	Name string
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("no registered component type named %q", e.Name)
}

type PhaseInProgressError struct {
	Phase Phase
}

func (e PhaseInProgressError) Error() string {
	return fmt.Sprintf("scene is running phase %s", e.Phase)
}

type UnknownPhaseError struct {
	Phase Phase
}

func (e UnknownPhaseError) Error() string {
	return fmt.Sprintf("unknown phase %d", uint8(e.Phase))
}

type DuplicateSystemError struct {
	Name string
}

func (e DuplicateSystemError) Error() string {
	return fmt.Sprintf("system %q is already registered", e.Name)
}

type ServiceNotFoundError struct {
	System, Service string
}

func (e ServiceNotFoundError) Error() string {
	return fmt.Sprintf("system %q needs service %q which is not registered", e.System, e.Service)
}

// SystemFaultError wraps an error returned, or a value panicked, by a system callback.
type SystemFaultError struct {
	System string
	Phase  Phase
	Panic  any
	Err    error
}

func (e SystemFaultError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("system %q panicked during %s: %v", e.System, e.Phase, e.Panic)
	}
	return fmt.Sprintf("system %q failed during %s: %v", e.System, e.Phase, e.Err)
}

func (e SystemFaultError) Unwrap() error {
	return e.Err
}

type CacheFullError struct {
	Capacity int
}

func (e CacheFullError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}
