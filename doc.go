// Package reflection provides property-path resolution over live Go object
// graphs, plus the reflection conveniences that cluster around it: typed
// getters, a nested setter, graph flattening, compile-checked member
// references, type introspection helpers, and a named-type registry.
//
// Most users can simply import the root package:
//
//	import "github.com/RushuiGuan/reflection"
//
// # Basic Usage
//
// Resolve a path against any value:
//
//	value, err := reflection.GetPropertyValue(order, "Customer.Address.City")
//	res, err := reflection.Resolve(order, "Items[0].Price")
//	// res.Value is the price, res.Type its declared type
//
// Paths mix member access and indexers freely:
//
//	reflection.Resolve(org, "Teams[Development][0].Manager.Name")
//
// Indexers dispatch on the runtime type of the current value: slices,
// arrays, and strings take integer indexes, maps convert the token to their
// key type, and custom collections expose an At method. A nil anywhere along
// the path switches the rest of the walk to declared types: the result is a
// nil value with the declared type at the end of the path, never an error.
//
// Type-safe operations:
//
//	name, err := reflection.GetString(order, "Customer.Name")
//	count := reflection.GetWithDefault(order, "Items[0].Quantity", 1)
//
// Member names compare case-sensitively by default:
//
//	res, err := reflection.Resolve(order, "customer.name", reflection.IgnoreCase())
//
// # Configuration
//
// A dedicated resolver isolates configuration and counters:
//
//	resolver := reflection.New(&reflection.Config{CaseInsensitive: true})
//	res, err := resolver.Resolve(order, "customer.name")
//
// # Errors
//
// Failures wrap sentinel errors, so callers classify them with errors.Is:
//
//	_, err := reflection.Resolve(order, "Items[oops]")
//	if errors.Is(err, reflection.ErrInvalidIndexFormat) { ... }
//
// # Package Structure
//
// All public API lives in the root package:
//
//   - resolver.go: Resolver, Result, Stats
//   - path.go, member.go, indexer.go: the resolution engine
//   - config.go: Config and per-call Options
//   - errors.go: sentinel errors and PathError
//   - api.go, api_get.go: package-level convenience API
//   - set.go: Set and SetIfChanged
//   - flatten.go: Flatten
//   - fieldref.go: FieldInfo and FieldPath
//   - typeutil.go: type introspection helpers
//   - registry.go: TypeRegistry
//   - resource.go: embedded resource loading
//
// Implementation details are in the internal/ package.
package reflection
