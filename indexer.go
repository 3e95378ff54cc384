package reflection

import (
	"fmt"
	"reflect"

	"github.com/RushuiGuan/reflection/internal"
)

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	byteType  = reflect.TypeOf(byte(0))
)

// indexerMethodName is the single-parameter method convention recognized as
// a custom indexer, the default-indexer analog for user collection types.
const indexerMethodName = "At"

// applyIndex evaluates one bracket segment against the current value. The
// dispatch consults the runtime type: native sequences take integer indexes,
// maps convert the token to their key type, and any other type must expose
// an At method. A nil value downgrades the access to type-only so the walk
// can finish with null propagation.
func applyIndex(v reflect.Value, t reflect.Type, token string) (member, error) {
	orig, origType := v, t

	for {
		if v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			v = reflect.Value{}
		}
		switch t.Kind() {
		case reflect.Pointer:
			t = t.Elem()
			if v.IsValid() {
				v = v.Elem()
			}
			continue
		case reflect.Interface:
			if v.IsValid() {
				v = v.Elem()
				t = v.Type()
				continue
			}
		}
		break
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return indexSequence(v, t.Elem(), token)
	case reflect.String:
		return indexSequence(v, byteType, token)
	case reflect.Map:
		return indexMap(v, t, token)
	}

	if m, ok, err := atIndexer(orig, origType, token); ok {
		return m, err
	}
	return member{}, newError("", "", fmt.Sprintf("type %s does not support indexer access", t), ErrUnsupportedIndexer)
}

// indexSequence reads element i of a slice, array, or string. The token must
// be a base-10 integer and the parsed index must sit inside [0, len).
func indexSequence(v reflect.Value, elem reflect.Type, token string) (member, error) {
	idx, err := internal.ParseSequenceIndex(token)
	if err != nil {
		return member{}, newError("", "", err.Error(), ErrInvalidIndexFormat)
	}

	if !v.IsValid() {
		return member{declared: elem}, nil
	}

	if idx < 0 || idx >= v.Len() {
		return member{}, newError("", "", fmt.Sprintf("index %d out of range for length %d", idx, v.Len()), ErrIndexOutOfRange)
	}
	return member{value: v.Index(idx), declared: elem}, nil
}

// indexMap converts the token to the map's key type and reads the entry.
// A missing key is an observable failure, never a silent nil.
func indexMap(v reflect.Value, t reflect.Type, token string) (member, error) {
	key, err := internal.ConvertToken(token, t.Key())
	if err != nil {
		return member{}, newError("", "", err.Error(), ErrInvalidIndexFormat)
	}

	if !v.IsValid() {
		return member{declared: t.Elem()}, nil
	}

	mv := v.MapIndex(key)
	if !mv.IsValid() {
		return member{}, newError("", "", fmt.Sprintf("key '%s' not found in %s", token, t), ErrKeyNotFound)
	}
	return member{value: mv, declared: t.Elem()}, nil
}

// atIndexer dispatches a bracket segment to an At method on the runtime
// type. Recognized shapes are At(K) V and At(K) (V, error). An error
// returned by the method propagates to the caller unmodified.
func atIndexer(v reflect.Value, t reflect.Type, token string) (member, bool, error) {
	if v.IsValid() {
		mv := v.MethodByName(indexerMethodName)
		if !mv.IsValid() {
			return member{}, false, nil
		}
		mt := mv.Type()
		if mt.NumIn() != 1 || !validIndexerResults(mt) {
			return member{}, false, nil
		}
		key, err := internal.ConvertToken(token, mt.In(0))
		if err != nil {
			return member{}, true, newError("", "", err.Error(), ErrInvalidIndexFormat)
		}
		out := mv.Call([]reflect.Value{key})
		if len(out) == 2 && !out[1].IsNil() {
			return member{}, true, out[1].Interface().(error)
		}
		return member{value: out[0], declared: mt.Out(0)}, true, nil
	}

	// Type-only lookup: consult both the value and the pointer method set.
	// Interface method signatures carry no receiver parameter.
	m, ok := t.MethodByName(indexerMethodName)
	if !ok && t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		m, ok = reflect.PointerTo(t).MethodByName(indexerMethodName)
	}
	if !ok {
		return member{}, false, nil
	}
	mt := m.Type
	keyIn := 1
	if t.Kind() == reflect.Interface {
		keyIn = 0
	}
	if mt.NumIn() != keyIn+1 || !validIndexerResults(mt) {
		return member{}, false, nil
	}
	if _, err := internal.ConvertToken(token, mt.In(keyIn)); err != nil {
		return member{}, true, newError("", "", err.Error(), ErrInvalidIndexFormat)
	}
	return member{declared: mt.Out(0)}, true, nil
}

func validIndexerResults(mt reflect.Type) bool {
	switch mt.NumOut() {
	case 1:
		return true
	case 2:
		return mt.Out(1) == errorType
	}
	return false
}
