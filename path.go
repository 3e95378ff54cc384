package reflection

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/RushuiGuan/reflection/internal"
)

// walk resolves the remaining path against the current value and type. One
// segment is consumed per step: a leading bracket segment is evaluated in
// place, otherwise the path splits at the first dot or bracket and the head
// resolves as a member access. The value may be invalid for type-only
// resolution; the type is never nil.
func (r *Resolver) walk(v reflect.Value, t reflect.Type, path string, fold bool) (Result, error) {
	if path == "" {
		return Result{}, newSyntaxError("path cannot be empty")
	}
	if path[0] == '.' {
		return Result{}, newSyntaxError(fmt.Sprintf("path segment cannot start with '.' in '%s'", path))
	}
	if path[0] == '[' {
		return r.walkIndex(v, t, path, fold)
	}

	dot := strings.IndexByte(path, '.')
	bracket := strings.IndexByte(path, '[')

	// Fast path: the whole remaining path is one member name.
	if dot < 0 && bracket < 0 {
		m, err := lookupMember(v, t, path, fold)
		if err != nil {
			return Result{}, err
		}
		return resultOf(m), nil
	}

	// Split at the dot when it comes first (the dot is consumed), otherwise
	// at the bracket (the bracket is retained for the next step).
	var head, tail string
	if dot >= 0 && (bracket < 0 || dot < bracket) {
		head, tail = path[:dot], path[dot+1:]
		if tail == "" {
			return Result{}, newSyntaxError(fmt.Sprintf("trailing dot in '%s'", path))
		}
	} else {
		head, tail = path[:bracket], path[bracket:]
	}

	m, err := lookupMember(v, t, head, fold)
	if err != nil {
		return Result{}, err
	}
	return r.step(m, tail, fold)
}

// step continues the walk after one resolved access. A nil value downgrades
// the remainder of the walk to declared types: the remaining segments still
// resolve, but no further values are read, so the result carries a nil value
// and the declared type at the end of the path. A non-nil value continues on
// its runtime type.
func (r *Resolver) step(m member, rest string, fold bool) (Result, error) {
	if isNilOrInvalid(m.value) {
		return r.walk(reflect.Value{}, m.declared, rest, fold)
	}
	rv := concrete(m.value)
	return r.walk(rv, rv.Type(), rest, fold)
}

// walkIndex evaluates a bracket segment at the head of the path and
// continues with whatever follows the closing bracket.
func (r *Resolver) walkIndex(v reflect.Value, t reflect.Type, path string, fold bool) (Result, error) {
	token, rest, err := internal.SplitBracket(path)
	if err != nil {
		return Result{}, newSyntaxError(err.Error())
	}

	m, err := applyIndex(v, t, token)
	if err != nil {
		return Result{}, err
	}

	if rest == "" {
		return resultOf(m), nil
	}

	switch rest[0] {
	case '.':
		rest = rest[1:]
		if rest == "" {
			return Result{}, newSyntaxError(fmt.Sprintf("trailing dot in '%s'", path))
		}
	case '[':
		// Chained indexer, continue directly.
	default:
		return Result{}, newSyntaxError(fmt.Sprintf("expected '.' or '[' after ']' in '%s'", path))
	}

	return r.step(m, rest, fold)
}

// resultOf converts a resolved member into the public Result shape. Nil-ish
// values normalize to a plain nil so callers can compare against nil without
// reflection.
func resultOf(m member) Result {
	if isNilOrInvalid(m.value) {
		return Result{Type: m.declared}
	}
	return Result{Value: m.value.Interface(), Type: m.declared}
}

// concrete unwraps interface values so the next step works on the runtime
// type. The value is known to be non-nil here.
func concrete(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface {
		return v.Elem()
	}
	return v
}

// isNilOrInvalid reports whether a resolved value holds nothing: an invalid
// value from a type-only lookup, a nil pointer, map, slice, func, or
// channel, or an interface wrapping one of those.
func isNilOrInvalid(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.Interface:
		return v.IsNil() || isNilOrInvalid(v.Elem())
	}
	return false
}
