package reflection

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// FlattenOptions adjusts graph traversal
type FlattenOptions struct {
	// MaxDepth caps the nesting depth. Zero uses the resolver default.
	MaxDepth int

	// KeepNils emits keys for nil branches instead of skipping them.
	KeepNils bool
}

// Flatten walks the object graph under root and returns its leaves keyed by
// property paths in resolver grammar: "Manager.Address.City", "Items[0]",
// "Dict[key]". Every returned key resolves back to its value against the
// same root. Shared subtrees flatten once per path; a cycle is an error.
func (r *Resolver) Flatten(root any) (map[string]any, error) {
	return r.FlattenWithOptions(root, nil)
}

// FlattenWithOptions is Flatten with explicit traversal options
func (r *Resolver) FlattenWithOptions(root any, opts *FlattenOptions) (map[string]any, error) {
	if root == nil {
		return nil, r.reject("flatten", "", "root value cannot be nil", ErrNilRoot)
	}

	r.stats.operations.Add(1)

	f := &flattener{
		out:      make(map[string]any),
		visiting: make(map[visitKey]struct{}),
		maxDepth: r.config.MaxPathDepth,
	}
	if opts != nil {
		if opts.MaxDepth > 0 {
			f.maxDepth = opts.MaxDepth
		}
		f.keepNils = opts.KeepNils
	}

	if err := f.walk("", reflect.ValueOf(root), 0); err != nil {
		err = fillErrorContext(err, "flatten", "")
		r.fail("flatten", "", err)
		return nil, err
	}
	return f.out, nil
}

// visitKey identifies a reference node on the current walk path. Cycles can
// only form through pointers, maps, and slices.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

type flattener struct {
	out      map[string]any
	visiting map[visitKey]struct{}
	maxDepth int
	keepNils bool
}

func (f *flattener) walk(prefix string, v reflect.Value, depth int) error {
	if depth > f.maxDepth {
		return newError("", prefix, fmt.Sprintf("depth %d exceeds maximum %d", depth, f.maxDepth), ErrDepthLimit)
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return f.emitNil(prefix)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return f.emitNil(prefix)
		}
		key := visitKey{v.Pointer(), v.Type()}
		if err := f.enter(key, prefix); err != nil {
			return err
		}
		err := f.walk(prefix, v.Elem(), depth)
		delete(f.visiting, key)
		return err

	case reflect.Struct:
		return f.walkStruct(prefix, v, depth)

	case reflect.Map:
		if v.IsNil() {
			return f.emitNil(prefix)
		}
		key := visitKey{v.Pointer(), v.Type()}
		if err := f.enter(key, prefix); err != nil {
			return err
		}
		err := f.walkMap(prefix, v, depth)
		delete(f.visiting, key)
		return err

	case reflect.Slice:
		if v.IsNil() {
			return f.emitNil(prefix)
		}
		if v.Len() == 0 {
			return nil
		}
		key := visitKey{v.Pointer(), v.Type()}
		if err := f.enter(key, prefix); err != nil {
			return err
		}
		err := f.walkSequence(prefix, v, depth)
		delete(f.visiting, key)
		return err

	case reflect.Array:
		return f.walkSequence(prefix, v, depth)
	}

	return f.emit(prefix, v)
}

func (f *flattener) walkStruct(prefix string, v reflect.Value, depth int) error {
	t := v.Type()

	// Opaque structs such as time.Time or decimal.Decimal carry their state
	// in unexported fields; they flatten as leaves.
	if !hasExportedFields(t) {
		return f.emit(prefix, v)
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		key := sf.Name
		if prefix != "" {
			key = prefix + "." + sf.Name
		}
		if err := f.walk(key, v.Field(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) walkMap(prefix string, v reflect.Value, depth int) error {
	keys := v.MapKeys()
	tokens := make([]string, len(keys))
	byToken := make(map[string]reflect.Value, len(keys))
	for i, k := range keys {
		token, err := mapKeyToken(k)
		if err != nil {
			return newError("", prefix, err.Error(), ErrUnrepresentableKey)
		}
		tokens[i] = token
		byToken[token] = k
	}
	sort.Strings(tokens)

	for _, token := range tokens {
		key := prefix + "[" + token + "]"
		if err := f.walk(key, v.MapIndex(byToken[token]), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) walkSequence(prefix string, v reflect.Value, depth int) error {
	for i := 0; i < v.Len(); i++ {
		key := prefix + "[" + strconv.Itoa(i) + "]"
		if err := f.walk(key, v.Index(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) enter(key visitKey, prefix string) error {
	if _, ok := f.visiting[key]; ok {
		return newError("", prefix, "cyclic reference", ErrCyclicGraph)
	}
	f.visiting[key] = struct{}{}
	return nil
}

func (f *flattener) emit(prefix string, v reflect.Value) error {
	if prefix == "" {
		return newError("", "", fmt.Sprintf("root of type %s cannot be flattened; use a struct, map, slice, or array", v.Type()), ErrTypeMismatch)
	}
	f.out[prefix] = v.Interface()
	return nil
}

func (f *flattener) emitNil(prefix string) error {
	if prefix == "" {
		return newError("", "", "root value is nil", ErrNilRoot)
	}
	if f.keepNils {
		f.out[prefix] = nil
	}
	return nil
}

func hasExportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath == "" {
			return true
		}
	}
	return false
}

// mapKeyToken renders a map key as an index token that resolves back to the
// same entry. Keys whose text form is empty or contains ']' cannot appear in
// the path grammar.
func mapKeyToken(key reflect.Value) (string, error) {
	var token string
	switch key.Kind() {
	case reflect.String:
		token = key.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		token = strconv.FormatInt(key.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		token = strconv.FormatUint(key.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		token = strconv.FormatFloat(key.Float(), 'g', -1, 64)
	case reflect.Bool:
		token = strconv.FormatBool(key.Bool())
	default:
		tm, ok := key.Interface().(encoding.TextMarshaler)
		if !ok {
			return "", fmt.Errorf("map key type %s cannot be represented as an index token", key.Type())
		}
		text, err := tm.MarshalText()
		if err != nil {
			return "", fmt.Errorf("map key of type %s failed to marshal: %v", key.Type(), err)
		}
		token = string(text)
	}

	if token == "" || strings.ContainsRune(token, ']') {
		return "", fmt.Errorf("map key '%s' cannot be represented as an index token", token)
	}
	return token, nil
}
