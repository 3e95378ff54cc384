package internal

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// ConvertToken converts the raw text of an index token into a value of the
// target type. String kinds take the token verbatim, numeric and bool kinds
// parse with strconv, and any other type must implement
// encoding.TextUnmarshaler.
func ConvertToken(token string, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(token).Convert(target), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert '%s' to %s", token, target)
		}
		v := reflect.New(target).Elem()
		if v.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("value '%s' overflows %s", token, target)
		}
		v.SetInt(n)
		return v, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert '%s' to %s", token, target)
		}
		v := reflect.New(target).Elem()
		if v.OverflowUint(n) {
			return reflect.Value{}, fmt.Errorf("value '%s' overflows %s", token, target)
		}
		v.SetUint(n)
		return v, nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert '%s' to %s", token, target)
		}
		v := reflect.New(target).Elem()
		if v.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("value '%s' overflows %s", token, target)
		}
		v.SetFloat(f)
		return v, nil

	case reflect.Bool:
		b, err := strconv.ParseBool(token)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert '%s' to %s", token, target)
		}
		v := reflect.New(target).Elem()
		v.SetBool(b)
		return v, nil
	}

	// Fallback for struct-like keys such as uuid.UUID or decimal.Decimal.
	if pv := reflect.New(target); pv.Type().Implements(textUnmarshalerType) {
		if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(token)); err != nil {
			return reflect.Value{}, fmt.Errorf("cannot convert '%s' to %s: %w", token, target, err)
		}
		return pv.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot convert '%s' to %s", token, target)
}

// ParseSequenceIndex parses a native sequence index token. The token must be
// a base-10 integer; range checking against the sequence length is the
// caller's job.
func ParseSequenceIndex(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("cannot convert '%s' to int", token)
	}
	return n, nil
}
