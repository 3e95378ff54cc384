package reflection

import (
	"fmt"
	"reflect"
)

// GetAs resolves a property path and converts the value to T. A nil value at
// the end of the path yields the zero value of T without error; a value that
// is neither assertable nor kind-convertible to T fails with a type mismatch.
func GetAs[T any](root any, path string, opts ...*Options) (T, error) {
	var zero T
	res, err := getDefaultResolver().Resolve(root, path, opts...)
	if err != nil {
		return zero, err
	}
	return convertResult[T](res, path)
}

// GetString retrieves a string value at the specified path
func GetString(root any, path string, opts ...*Options) (string, error) {
	return GetAs[string](root, path, opts...)
}

// GetInt retrieves an int value at the specified path
func GetInt(root any, path string, opts ...*Options) (int, error) {
	return GetAs[int](root, path, opts...)
}

// GetFloat64 retrieves a float64 value at the specified path
func GetFloat64(root any, path string, opts ...*Options) (float64, error) {
	return GetAs[float64](root, path, opts...)
}

// GetBool retrieves a bool value at the specified path
func GetBool(root any, path string, opts ...*Options) (bool, error) {
	return GetAs[bool](root, path, opts...)
}

// GetWithDefault resolves a property path with a default fallback. The
// default comes back for any resolution failure and for nil values.
func GetWithDefault[T any](root any, path string, defaultValue T, opts ...*Options) T {
	res, err := getDefaultResolver().Resolve(root, path, opts...)
	if err != nil || res.Value == nil {
		return defaultValue
	}
	result, err := convertResult[T](res, path)
	if err != nil {
		return defaultValue
	}
	return result
}

// convertResult narrows a resolved value to T. Exact types assert directly;
// values whose kind matches T's kind, or whose kind and T's kind are both
// numeric, convert. Anything else is a type mismatch: converting between
// unrelated kinds silently (string to int, bool to string) hides bugs.
func convertResult[T any](res Result, path string) (T, error) {
	var zero T
	if res.Value == nil {
		return zero, nil
	}
	if v, ok := res.Value.(T); ok {
		return v, nil
	}

	target := reflect.TypeOf(&zero).Elem()
	rv := reflect.ValueOf(res.Value)
	if convertibleKinds(rv.Kind(), target.Kind()) && rv.Type().ConvertibleTo(target) {
		out, ok := rv.Convert(target).Interface().(T)
		if ok {
			return out, nil
		}
	}

	message := fmt.Sprintf("cannot convert value of type %s to %s", rv.Type(), target)
	return zero, newError("get", path, message, ErrTypeMismatch)
}

// convertibleKinds limits reflect conversion to same-kind pairs and numeric
// cross-kind pairs. Reflect would happily convert an int to a string as a
// code point, which is never what a property getter means.
func convertibleKinds(from, to reflect.Kind) bool {
	if from == to {
		return true
	}
	return isNumericKind(from) && isNumericKind(to)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
