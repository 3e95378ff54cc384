package reflection

import "reflect"

// Indirect unwraps pointer types to their base type. Non-pointer types come
// back unchanged.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// NullableElem unwraps one pointer level: (*int) reports (int, true), plain
// int reports (nil, false). This is the nullable-type analog for Go.
func NullableElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, false
	}
	return t.Elem(), true
}

// CollectionElem returns the element type of slices, arrays, maps, and
// channels. Strings index like sequences but are not collections here.
func CollectionElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return t.Elem(), true
	}
	return nil, false
}

// IsNilable reports whether values of t can hold nil
func IsNilable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return true
	}
	return false
}

// FuncShape reports the parameter and result counts of a function type.
// ok is false for non-function types.
func FuncShape(t reflect.Type) (numIn, numOut int, variadic, ok bool) {
	if t == nil || t.Kind() != reflect.Func {
		return 0, 0, false, false
	}
	return t.NumIn(), t.NumOut(), t.IsVariadic(), true
}

// IsClosure reports whether v is a callable func value
func IsClosure(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Func
}

// RuntimeType returns the dynamic type of v. ok is false for a nil
// interface, which has no dynamic type.
func RuntimeType(v any) (reflect.Type, bool) {
	if v == nil {
		return nil, false
	}
	return reflect.TypeOf(v), true
}
