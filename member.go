package reflection

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// member is one resolved access: the value read and the declared type of the
// member that produced it. The value is invalid when only type information
// is available, which happens during type-only resolution of a nil root and
// when a nil pointer sits between an embedded field and its owner.
type member struct {
	value    reflect.Value
	declared reflect.Type
}

// lookupMember resolves a named segment against the current value and type.
// Struct fields are searched first; maps with string keys expose their
// entries as members. Pointers are dereferenced as deep as needed, with a
// nil pointer downgrading the lookup to type-only.
func lookupMember(v reflect.Value, t reflect.Type, name string, fold bool) (member, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		if v.IsValid() {
			if v.IsNil() {
				v = reflect.Value{}
			} else {
				v = v.Elem()
			}
		}
	}

	switch t.Kind() {
	case reflect.Struct:
		return lookupField(v, t, name, fold)
	case reflect.Map:
		return lookupMapEntry(v, t, name, fold)
	}

	return member{}, newError("", "", fmt.Sprintf("type %s has no member '%s'", t, name), ErrMemberNotFound)
}

// lookupField reads an exported struct field, honoring promoted embedded
// fields. The exact-case match always wins; folding is attempted only when
// it misses.
func lookupField(v reflect.Value, t reflect.Type, name string, fold bool) (member, error) {
	sf, ok := findField(t, name, fold)
	if !ok {
		return member{}, newError("", "", fmt.Sprintf("type %s has no member '%s'", t, name), ErrMemberNotFound)
	}

	if !v.IsValid() {
		return member{declared: sf.Type}, nil
	}

	fv, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		// A nil embedded pointer on the promotion chain. The member itself
		// exists, so this is null propagation, not a lookup failure.
		return member{declared: sf.Type}, nil
	}
	if !fv.CanInterface() {
		return member{}, newError("", "", fmt.Sprintf("member '%s' of type %s is not accessible", name, t), ErrMemberNotFound)
	}
	return member{value: fv, declared: sf.Type}, nil
}

// findField locates an exported field by name. When fold is set and the
// exact-case lookup misses, a single case-insensitive match is accepted;
// ambiguous folded matches report not found.
func findField(t reflect.Type, name string, fold bool) (reflect.StructField, bool) {
	if sf, ok := t.FieldByName(name); ok && sf.PkgPath == "" {
		return sf, true
	}
	if !fold {
		return reflect.StructField{}, false
	}
	sf, ok := t.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	if !ok || sf.PkgPath != "" {
		return reflect.StructField{}, false
	}
	return sf, true
}

// lookupMapEntry treats entries of string-keyed maps as members, the
// property analog for decoded JSON and YAML graphs. The declared type of an
// entry is the map's element type.
func lookupMapEntry(v reflect.Value, t reflect.Type, name string, fold bool) (member, error) {
	if t.Key().Kind() != reflect.String {
		return member{}, newError("", "", fmt.Sprintf("type %s has no member '%s'", t, name), ErrMemberNotFound)
	}

	// Type-only lookup cannot check entry existence; report the element type
	// and let null propagation finish the walk.
	if !v.IsValid() {
		return member{declared: t.Elem()}, nil
	}

	if !v.IsNil() {
		key := reflect.ValueOf(name).Convert(t.Key())
		if mv := v.MapIndex(key); mv.IsValid() {
			return member{value: mv, declared: t.Elem()}, nil
		}
		if fold {
			if mv, ok := foldMapEntry(v, name); ok {
				return member{value: mv, declared: t.Elem()}, nil
			}
		}
	}

	return member{}, newError("", "", fmt.Sprintf("type %s has no member '%s'", t, name), ErrMemberNotFound)
}

// foldMapEntry scans map keys with case folding. Matching keys are tried in
// sorted order so the result is deterministic when several keys fold to the
// same name.
func foldMapEntry(v reflect.Value, name string) (reflect.Value, bool) {
	key, ok := foldMapKey(v, name)
	if !ok {
		return reflect.Value{}, false
	}
	return v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())), true
}

// foldMapKey returns the existing map key that name folds onto, preferring
// the smallest match for determinism.
func foldMapKey(v reflect.Value, name string) (string, bool) {
	var matches []string
	for _, key := range v.MapKeys() {
		if s := key.String(); strings.EqualFold(s, name) {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}
