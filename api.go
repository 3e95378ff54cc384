package reflection

import (
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
)

var (
	defaultResolver   atomic.Pointer[Resolver]
	defaultResolverMu sync.Mutex
)

// getDefaultResolver returns the resolver behind the package-level API,
// creating it lazily on first use.
func getDefaultResolver() *Resolver {
	// Fast path: the resolver already exists.
	if r := defaultResolver.Load(); r != nil {
		return r
	}

	defaultResolverMu.Lock()
	defer defaultResolverMu.Unlock()

	// Double-check after acquiring the lock.
	if r := defaultResolver.Load(); r != nil {
		return r
	}

	r := New()
	defaultResolver.Store(r)
	return r
}

// SetDefaultResolver replaces the resolver behind the package-level API
// (thread-safe). A nil resolver is ignored.
func SetDefaultResolver(r *Resolver) {
	if r == nil {
		return
	}

	defaultResolverMu.Lock()
	defer defaultResolverMu.Unlock()
	defaultResolver.Store(r)
}

// SetDefaultLogger swaps the logger of the default resolver
func SetDefaultLogger(logger *slog.Logger) {
	getDefaultResolver().SetLogger(logger)
}

// GetPropertyValue resolves a property path against root and returns the
// value at the end of the path. Use Resolve when the declared type of the
// value matters as well.
func GetPropertyValue(root any, path string, opts ...*Options) (any, error) {
	res, err := getDefaultResolver().Resolve(root, path, opts...)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Resolve evaluates a property path against root, returning the value and
// the declared type of the last member or element accessed
func Resolve(root any, path string, opts ...*Options) (Result, error) {
	return getDefaultResolver().Resolve(root, path, opts...)
}

// ResolveType evaluates a property path starting from an explicit declared
// type, which permits a nil root
func ResolveType(rootType reflect.Type, root any, path string, opts ...*Options) (Result, error) {
	return getDefaultResolver().ResolveType(rootType, root, path, opts...)
}

// Set assigns value to the member at path inside root
func Set(root any, path string, value any, opts ...*Options) error {
	return getDefaultResolver().Set(root, path, value, opts...)
}

// SetIfChanged assigns value to the member at path only when the current
// value differs. It reports whether an assignment happened.
func SetIfChanged(root any, path string, value any, opts ...*Options) (bool, error) {
	return getDefaultResolver().SetIfChanged(root, path, value, opts...)
}

// Flatten walks the object graph under root and returns its leaves keyed by
// property paths
func Flatten(root any) (map[string]any, error) {
	return getDefaultResolver().Flatten(root)
}

// FlattenWithOptions is Flatten with explicit traversal options
func FlattenWithOptions(root any, opts *FlattenOptions) (map[string]any, error) {
	return getDefaultResolver().FlattenWithOptions(root, opts)
}
