package reflection

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/RushuiGuan/reflection/internal"
)

// Result is one resolved property access: the value found at the end of the
// path and the declared type of the last member or element accessed. Type is
// never nil on success, even when Value is nil.
type Result struct {
	Value any
	Type  reflect.Type
}

// Resolver is the property-path resolution engine. It carries configuration
// and counters only; resolution itself is stateless, so a single Resolver is
// safe for concurrent use.
type Resolver struct {
	config *Config
	logger *slog.Logger
	stats  resolverStats
}

type resolverStats struct {
	operations atomic.Int64
	errors     atomic.Int64
}

// Stats is a snapshot of a Resolver's cumulative counters
type Stats struct {
	Operations int64
	Errors     int64
}

// New creates a resolver with the given configuration.
// If no configuration is provided, uses default configuration.
func New(config ...*Config) *Resolver {
	var cfg *Config
	if len(config) > 0 && config[0] != nil {
		cfg = config[0].Clone()
	} else {
		cfg = DefaultConfig()
	}

	if err := ValidateConfig(cfg); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return &Resolver{
		config: cfg,
		logger: defaultLogger(),
	}
}

func defaultLogger() *slog.Logger {
	return slog.Default().With("component", "reflection-resolver")
}

// SetLogger replaces the resolver's logger. A nil logger restores the
// default. Swap loggers before sharing the resolver across goroutines.
func (r *Resolver) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = defaultLogger()
	}
	r.logger = logger
}

// Stats returns a snapshot of the resolver's operation counters
func (r *Resolver) Stats() Stats {
	return Stats{
		Operations: r.stats.operations.Load(),
		Errors:     r.stats.errors.Load(),
	}
}

// Resolve evaluates a property path against root and returns the value at
// the end of the path together with its declared type. The search starts
// from the runtime type of root, which therefore cannot be nil; use
// ResolveType when only the type is known.
func (r *Resolver) Resolve(root any, path string, opts ...*Options) (Result, error) {
	if root == nil {
		return Result{}, r.reject("resolve", path, "root value cannot be nil", ErrNilRoot)
	}
	rv := reflect.ValueOf(root)
	return r.run("resolve", rv, rv.Type(), path, opts...)
}

// ResolveType evaluates a property path starting from an explicit declared
// type. A nil root resolves the whole path against declared types only and
// reports a nil value with the declared type at the end of the path. When
// root is non-nil its runtime type drives the search.
func (r *Resolver) ResolveType(rootType reflect.Type, root any, path string, opts ...*Options) (Result, error) {
	if rootType == nil {
		return Result{}, r.reject("resolve", path, "root type cannot be nil", ErrNilRoot)
	}

	var rv reflect.Value
	t := rootType
	if root != nil {
		rv = reflect.ValueOf(root)
		if !rv.Type().AssignableTo(rootType) {
			message := fmt.Sprintf("root value of type %s is not assignable to %s", rv.Type(), rootType)
			return Result{}, r.reject("resolve", path, message, ErrTypeMismatch)
		}
		t = rv.Type()
	}
	return r.run("resolve", rv, t, path, opts...)
}

// run validates the path against the configured guards and drives the walk.
func (r *Resolver) run(op string, v reflect.Value, t reflect.Type, path string, opts ...*Options) (Result, error) {
	r.stats.operations.Add(1)

	fold, maxDepth := r.effective(opts...)
	if err := internal.ValidatePath(path, r.config.MaxPathLength, maxDepth); err != nil {
		perr := limitError(op, path, err)
		r.fail(op, path, perr)
		return Result{}, perr
	}

	// A nil-ish root (typed nil pointer, nil map, nil slice) downgrades the
	// whole walk to type-only resolution: the path still resolves against
	// declared types, with a nil value at the end.
	if v.IsValid() && isNilOrInvalid(v) {
		v = reflect.Value{}
	}

	res, err := r.walk(v, t, path, fold)
	if err != nil {
		err = fillErrorContext(err, op, path)
		r.fail(op, path, err)
		return Result{}, err
	}
	return res, nil
}

// reject records a failed operation that never reached the walk
func (r *Resolver) reject(op, path, message string, sentinel error) error {
	r.stats.operations.Add(1)
	err := newError(op, path, message, sentinel)
	r.fail(op, path, err)
	return err
}

func (r *Resolver) fail(op, path string, err error) {
	r.stats.errors.Add(1)
	r.logger.Debug("reflection operation failed", "op", op, "path", path, "error", err)
}

// effective merges per-call options over the resolver configuration
func (r *Resolver) effective(opts ...*Options) (fold bool, maxDepth int) {
	fold = r.config.CaseInsensitive
	maxDepth = r.config.MaxPathDepth
	if len(opts) > 0 && opts[0] != nil {
		o := opts[0]
		if o.CaseInsensitive != nil {
			fold = *o.CaseInsensitive
		}
		if o.MaxDepth > 0 {
			maxDepth = o.MaxDepth
		}
	}
	return fold, maxDepth
}

func limitError(op, path string, err error) *PathError {
	sentinel := ErrSizeLimit
	if errors.Is(err, internal.ErrPathTooDeep) {
		sentinel = ErrDepthLimit
	}
	return newError(op, path, err.Error(), sentinel)
}
