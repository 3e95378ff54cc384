package reflection

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldInfo locates the exported struct field that fieldPtr points to inside
// the struct graph rooted at structPtr:
//
//	sf, err := reflection.FieldInfo(&order, &order.Customer.Name)
//
// Taking the address of the field makes the reference compile-checked, the
// role expression trees play elsewhere. The returned StructField is the
// field as declared on its owner struct. Nested structs are searched
// depth-first, through non-nil pointers.
func FieldInfo(structPtr, fieldPtr any) (reflect.StructField, error) {
	_, sf, err := fieldRef(structPtr, fieldPtr)
	return sf, err
}

// FieldPath returns the dotted property path of the field that fieldPtr
// points to, suitable for Resolve against the same root:
//
//	path, _ := reflection.FieldPath(&order, &order.Customer.Name) // "Customer.Name"
//
// Embedded fields appear explicitly in the path.
func FieldPath(structPtr, fieldPtr any) (string, error) {
	segs, _, err := fieldRef(structPtr, fieldPtr)
	if err != nil {
		return "", err
	}
	return strings.Join(segs, "."), nil
}

func fieldRef(structPtr, fieldPtr any) ([]string, reflect.StructField, error) {
	sv := reflect.ValueOf(structPtr)
	if structPtr == nil || sv.Kind() != reflect.Pointer || sv.IsNil() || sv.Elem().Kind() != reflect.Struct {
		return nil, reflect.StructField{}, newOperationError("field_ref", "structPtr must be a non-nil pointer to a struct", ErrNotAddressable)
	}
	fv := reflect.ValueOf(fieldPtr)
	if fieldPtr == nil || fv.Kind() != reflect.Pointer || fv.IsNil() {
		return nil, reflect.StructField{}, newOperationError("field_ref", "fieldPtr must be a non-nil pointer to a field of the struct", ErrNotAddressable)
	}

	segs, sf, ok := findFieldRef(sv.Elem(), fv.Pointer(), fv.Type().Elem(), nil)
	if !ok {
		message := fmt.Sprintf("type %s has no exported field of type %s at the given address", sv.Elem().Type(), fv.Type().Elem())
		return nil, reflect.StructField{}, newOperationError("field_ref", message, ErrMemberNotFound)
	}
	return segs, sf, nil
}

// findFieldRef walks exported fields depth-first, matching on address and
// type. The address check runs before descending, so an enclosing struct
// matches ahead of its first field when both types agree with the target.
func findFieldRef(v reflect.Value, addr uintptr, ft reflect.Type, segs []string) ([]string, reflect.StructField, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		fv := v.Field(i)
		if fv.CanAddr() && fv.Addr().Pointer() == addr && fv.Type() == ft {
			return append(segs, sf.Name), sf, true
		}

		sub := fv
		for sub.Kind() == reflect.Pointer && !sub.IsNil() {
			sub = sub.Elem()
		}
		if sub.Kind() == reflect.Struct && sub.CanAddr() {
			if found, fsf, ok := findFieldRef(sub, addr, ft, append(segs, sf.Name)); ok {
				return found, fsf, ok
			}
		}
	}
	return nil, reflect.StructField{}, false
}
