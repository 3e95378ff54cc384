package reflection

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// TypeRegistry is a concurrency-safe index of types by name, the runtime
// analog of scanning an assembly for concrete classes. Types register once,
// usually from package init functions, and are then discoverable by name or
// by the interfaces they implement.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeRegistry creates an empty registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]reflect.Type)}
}

// Register indexes the dynamic type of sample under its package-qualified
// name and returns that name. Pointer samples register their base type.
func (g *TypeRegistry) Register(sample any) (string, error) {
	if sample == nil {
		return "", newOperationError("register_type", "sample cannot be nil", ErrOperationFailed)
	}
	t := Indirect(reflect.TypeOf(sample))
	name := TypeName(t)
	return name, g.RegisterName(name, t)
}

// RegisterName indexes t under an explicit name. Registering a name twice
// is an error.
func (g *TypeRegistry) RegisterName(name string, t reflect.Type) error {
	if name == "" {
		return newOperationError("register_type", "name cannot be empty", ErrOperationFailed)
	}
	if t == nil {
		return newOperationError("register_type", "type cannot be nil", ErrOperationFailed)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.types[name]; ok {
		return newOperationError("register_type", fmt.Sprintf("type name '%s' is already registered", name), ErrTypeRegistered)
	}
	g.types[name] = t
	return nil
}

// Lookup returns the type registered under name
func (g *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.types[name]
	return t, ok
}

// Types returns all registered types sorted by registered name
func (g *TypeRegistry) Types() []reflect.Type {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]reflect.Type, 0, len(g.types))
	for _, name := range g.sortedNames() {
		out = append(out, g.types[name])
	}
	return out
}

// Implementers returns the registered types satisfying the interface iface,
// directly or through a pointer receiver, sorted by registered name.
func (g *TypeRegistry) Implementers(iface reflect.Type) ([]reflect.Type, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return nil, newOperationError("implementers", "argument must be an interface type", ErrTypeMismatch)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []reflect.Type
	for _, name := range g.sortedNames() {
		t := g.types[name]
		if t.Implements(iface) || reflect.PointerTo(t).Implements(iface) {
			out = append(out, t)
		}
	}
	return out, nil
}

// NewInstance returns a pointer to a fresh zero value of the named type
func (g *TypeRegistry) NewInstance(name string) (any, error) {
	t, ok := g.Lookup(name)
	if !ok {
		return nil, newOperationError("new_instance", fmt.Sprintf("type name '%s' is not registered", name), ErrTypeNotRegistered)
	}
	return reflect.New(t).Interface(), nil
}

// sortedNames is called with the lock held.
func (g *TypeRegistry) sortedNames() []string {
	names := make([]string, 0, len(g.types))
	for name := range g.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeName returns the package-qualified name Register files a type under
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// defaultRegistry backs the package-level registry functions.
var defaultRegistry = NewTypeRegistry()

// RegisterType indexes the dynamic type of sample in the default registry
func RegisterType(sample any) (string, error) {
	return defaultRegistry.Register(sample)
}

// RegisterTypeName indexes t under an explicit name in the default registry
func RegisterTypeName(name string, t reflect.Type) error {
	return defaultRegistry.RegisterName(name, t)
}

// LookupType returns the type registered under name in the default registry
func LookupType(name string) (reflect.Type, bool) {
	return defaultRegistry.Lookup(name)
}

// ImplementersOf returns the default-registry types satisfying iface
func ImplementersOf(iface reflect.Type) ([]reflect.Type, error) {
	return defaultRegistry.Implementers(iface)
}

// NewInstanceOf creates a pointer to a zero value of a type registered in
// the default registry
func NewInstanceOf(name string) (any, error) {
	return defaultRegistry.NewInstance(name)
}
