package reflection

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/RushuiGuan/reflection/internal"
)

// Set assigns value to the member at path inside root. Root must be a
// non-nil pointer so the graph is writable in place. The write path accepts
// dotted member segments only; bracket segments are read-only.
//
// Nil struct pointers on the way down are allocated when they sit in
// settable positions. The final segment may land on a struct field or on an
// entry of a string-keyed map; a nil final map is allocated when settable.
func (r *Resolver) Set(root any, path string, value any, opts ...*Options) error {
	rv := reflect.ValueOf(root)
	if root == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return r.reject("set", path, "root must be a non-nil pointer", ErrNotAddressable)
	}

	r.stats.operations.Add(1)

	fold, maxDepth := r.effective(opts...)
	if err := internal.ValidatePath(path, r.config.MaxPathLength, maxDepth); err != nil {
		perr := limitError("set", path, err)
		r.fail("set", path, perr)
		return perr
	}

	if err := r.runSet(rv, path, value, fold); err != nil {
		err = fillErrorContext(err, "set", path)
		r.fail("set", path, err)
		return err
	}
	return nil
}

// SetIfChanged assigns value to the member at path only when the current
// value differs from it. It reports whether an assignment happened.
func (r *Resolver) SetIfChanged(root any, path string, value any, opts ...*Options) (bool, error) {
	cur, err := r.Resolve(root, path, opts...)
	if err != nil {
		return false, err
	}

	if value == nil && cur.Value == nil {
		return false, nil
	}
	if value != nil {
		cv, err := coerce(value, cur.Type)
		if err != nil {
			return false, fillErrorContext(err, "set", path)
		}
		if reflect.DeepEqual(cur.Value, cv.Interface()) {
			return false, nil
		}
	}

	if err := r.Set(root, path, value, opts...); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Resolver) runSet(rv reflect.Value, path string, value any, fold bool) error {
	if path == "" {
		return newSyntaxError("path cannot be empty")
	}
	if strings.IndexByte(path, '[') >= 0 || strings.IndexByte(path, ']') >= 0 {
		return newError("", "", "indexer segments are not supported on the write path", ErrUnsupportedIndexer)
	}

	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return newSyntaxError(fmt.Sprintf("empty segment in '%s'", path))
		}
	}

	cur := rv
	for i, seg := range segments {
		var err error
		cur, err = derefForWrite(cur)
		if err != nil {
			return err
		}
		if cur.Kind() == reflect.Interface {
			if cur, err = unwrapForWrite(cur, seg); err != nil {
				return err
			}
			if cur, err = derefForWrite(cur); err != nil {
				return err
			}
		}

		last := i == len(segments)-1
		switch cur.Kind() {
		case reflect.Struct:
			cur, err = r.setStructStep(cur, seg, value, fold, last)
		case reflect.Map:
			cur, err = r.setMapStep(cur, seg, value, fold, last)
		default:
			err = newError("", "", fmt.Sprintf("type %s has no member '%s'", cur.Type(), seg), ErrMemberNotFound)
		}
		if err != nil {
			return err
		}
		if last {
			return nil
		}
	}
	return nil
}

func (r *Resolver) setStructStep(cur reflect.Value, seg string, value any, fold, last bool) (reflect.Value, error) {
	sf, ok := findField(cur.Type(), seg, fold)
	if !ok {
		return reflect.Value{}, newError("", "", fmt.Sprintf("type %s has no member '%s'", cur.Type(), seg), ErrMemberNotFound)
	}

	fv, err := fieldForWrite(cur, sf.Index)
	if err != nil {
		return reflect.Value{}, err
	}
	if !last {
		return fv, nil
	}

	if !fv.CanSet() {
		return reflect.Value{}, newError("", "", fmt.Sprintf("member '%s' is not settable", seg), ErrNotAddressable)
	}
	cv, err := coerce(value, fv.Type())
	if err != nil {
		return reflect.Value{}, err
	}
	fv.Set(cv)
	return fv, nil
}

// setMapStep writes the final segment into a string-keyed map, or reads an
// intermediate entry. Intermediate entries must be reference values (pointer,
// map, slice): a struct value read out of a map is a copy, so writing through
// it would be silently lost.
func (r *Resolver) setMapStep(cur reflect.Value, seg string, value any, fold, last bool) (reflect.Value, error) {
	t := cur.Type()
	if t.Key().Kind() != reflect.String {
		return reflect.Value{}, newError("", "", fmt.Sprintf("type %s has no member '%s'", t, seg), ErrMemberNotFound)
	}

	if last {
		if cur.IsNil() {
			if !cur.CanSet() {
				return reflect.Value{}, newError("", "", "nil map is not settable", ErrNotAddressable)
			}
			cur.Set(reflect.MakeMap(t))
		}
		cv, err := coerce(value, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		// With folding on, an existing entry under a differently-cased key
		// is overwritten instead of adding a sibling key.
		key := seg
		if fold && !cur.MapIndex(reflect.ValueOf(seg).Convert(t.Key())).IsValid() {
			if k, ok := foldMapKey(cur, seg); ok {
				key = k
			}
		}
		cur.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), cv)
		return cur, nil
	}

	m, err := lookupMapEntry(cur, t, seg, fold)
	if err != nil {
		return reflect.Value{}, err
	}
	entry := concrete(m.value)
	if isNilOrInvalid(entry) {
		return reflect.Value{}, newError("", "", fmt.Sprintf("entry '%s' is nil and cannot be allocated in place", seg), ErrNotAddressable)
	}
	switch entry.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		return entry, nil
	}
	return reflect.Value{}, newError("", "", fmt.Sprintf("entry '%s' holds a value type; set the entry wholesale", seg), ErrNotAddressable)
}

// unwrapForWrite steps through an interface on the write path. Only
// reference values can be traversed: a struct read out of an interface is a
// copy, so writing through it would be silently lost.
func unwrapForWrite(v reflect.Value, seg string) (reflect.Value, error) {
	if v.IsNil() {
		return reflect.Value{}, newError("", "", fmt.Sprintf("cannot reach member '%s' through a nil value", seg), ErrNotAddressable)
	}
	elem := v.Elem()
	switch elem.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if elem.IsNil() {
			return reflect.Value{}, newError("", "", fmt.Sprintf("cannot reach member '%s' through a nil value", seg), ErrNotAddressable)
		}
		return elem, nil
	}
	return reflect.Value{}, newError("", "", fmt.Sprintf("cannot reach member '%s' through an interface holding a value type; set the enclosing value wholesale", seg), ErrNotAddressable)
}

// derefForWrite walks down pointers, allocating nil ones when they are
// settable.
func derefForWrite(v reflect.Value) (reflect.Value, error) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			if !v.CanSet() {
				return reflect.Value{}, newError("", "", "nil pointer is not settable", ErrNotAddressable)
			}
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v, nil
}

// fieldForWrite steps through a promoted field's index chain, allocating nil
// embedded pointers on the way.
func fieldForWrite(v reflect.Value, index []int) (reflect.Value, error) {
	for n, i := range index {
		if n > 0 {
			var err error
			v, err = derefForWrite(v)
			if err != nil {
				return reflect.Value{}, err
			}
		}
		v = v.Field(i)
	}
	return v, nil
}

// coerce prepares value for assignment into a target of the given type. Nil
// fits any nilable target; otherwise the value must be assignable, or
// convertible within the getter conversion rules.
func coerce(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		if IsNilable(target) {
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, newError("", "", fmt.Sprintf("cannot assign nil to %s", target), ErrTypeMismatch)
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if convertibleKinds(rv.Kind(), target.Kind()) && rv.Type().ConvertibleTo(target) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, newError("", "", fmt.Sprintf("cannot assign value of type %s to %s", rv.Type(), target), ErrTypeMismatch)
}
