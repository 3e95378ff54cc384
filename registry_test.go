package reflection

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape interface {
	Area() float64
}

type square struct {
	Side float64
}

func (s square) Area() float64 { return s.Side * s.Side }

type circle struct {
	Radius float64
}

func (c *circle) Area() float64 { return 3 * c.Radius * c.Radius }

// TestRegistryRegister tests registration by sample value
func TestRegistryRegister(t *testing.T) {
	reg := NewTypeRegistry()

	name, err := reg.Register(square{})
	require.NoError(t, err)
	assert.Equal(t, "github.com/RushuiGuan/reflection.square", name)

	got, ok := reg.Lookup(name)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(square{}), got)

	t.Run("pointer samples register the base type", func(t *testing.T) {
		name, err := reg.Register(&circle{})
		require.NoError(t, err)

		got, ok := reg.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, reflect.TypeOf(circle{}), got)
	})

	t.Run("nil sample", func(t *testing.T) {
		_, err := reg.Register(nil)
		require.ErrorIs(t, err, ErrOperationFailed)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := reg.Register(square{})
		require.ErrorIs(t, err, ErrTypeRegistered)
	})
}

// TestRegistryRegisterName tests registration under explicit names
func TestRegistryRegisterName(t *testing.T) {
	reg := NewTypeRegistry()

	require.NoError(t, reg.RegisterName("sq", reflect.TypeOf(square{})))

	got, ok := reg.Lookup("sq")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(square{}), got)

	t.Run("empty name", func(t *testing.T) {
		err := reg.RegisterName("", reflect.TypeOf(square{}))
		require.ErrorIs(t, err, ErrOperationFailed)
	})

	t.Run("nil type", func(t *testing.T) {
		err := reg.RegisterName("x", nil)
		require.ErrorIs(t, err, ErrOperationFailed)
	})

	t.Run("taken name", func(t *testing.T) {
		err := reg.RegisterName("sq", reflect.TypeOf(circle{}))
		require.ErrorIs(t, err, ErrTypeRegistered)
		assert.ErrorContains(t, err, "'sq' is already registered")
	})
}

// TestRegistryTypes tests the sorted listing
func TestRegistryTypes(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.RegisterName("b", reflect.TypeOf(square{})))
	require.NoError(t, reg.RegisterName("a", reflect.TypeOf(circle{})))

	types := reg.Types()
	require.Len(t, types, 2)
	assert.Equal(t, reflect.TypeOf(circle{}), types[0])
	assert.Equal(t, reflect.TypeOf(square{}), types[1])
}

// TestRegistryImplementers tests interface discovery across receiver kinds
func TestRegistryImplementers(t *testing.T) {
	reg := NewTypeRegistry()
	_, err := reg.Register(square{})
	require.NoError(t, err)
	_, err = reg.Register(circle{})
	require.NoError(t, err)
	_, err = reg.Register(Address{})
	require.NoError(t, err)

	shapeType := reflect.TypeOf((*shape)(nil)).Elem()

	got, err := reg.Implementers(shapeType)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, reflect.TypeOf(circle{}), got[0])
	assert.Equal(t, reflect.TypeOf(square{}), got[1])

	t.Run("non-interface argument", func(t *testing.T) {
		_, err := reg.Implementers(reflect.TypeOf(42))
		require.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("nil argument", func(t *testing.T) {
		_, err := reg.Implementers(nil)
		require.ErrorIs(t, err, ErrTypeMismatch)
	})
}

// TestRegistryNewInstance tests zero-value construction by name
func TestRegistryNewInstance(t *testing.T) {
	reg := NewTypeRegistry()
	name, err := reg.Register(square{})
	require.NoError(t, err)

	v, err := reg.NewInstance(name)
	require.NoError(t, err)

	sq, ok := v.(*square)
	require.True(t, ok)
	assert.Zero(t, sq.Side)

	t.Run("unknown name", func(t *testing.T) {
		_, err := reg.NewInstance("nope")
		require.ErrorIs(t, err, ErrTypeNotRegistered)
	})
}

// TestTypeName tests the package-qualified naming rule
func TestTypeName(t *testing.T) {
	tests := []struct {
		name     string
		t        reflect.Type
		expected string
	}{
		{"named struct", reflect.TypeOf(Address{}), "github.com/RushuiGuan/reflection.Address"},
		{"builtin", reflect.TypeOf(42), "int"},
		{"unnamed composite", reflect.TypeOf([]int{}), "[]int"},
		{"nil type", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeName(tt.t))
		})
	}
}

// TestDefaultRegistry tests the package-level registry functions
func TestDefaultRegistry(t *testing.T) {
	require.NoError(t, RegisterTypeName("registry_test.invoice", reflect.TypeOf(invoice{})))

	got, ok := LookupType("registry_test.invoice")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(invoice{}), got)

	v, err := NewInstanceOf("registry_test.invoice")
	require.NoError(t, err)
	_, ok = v.(*invoice)
	assert.True(t, ok)
}
