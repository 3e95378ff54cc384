package reflection

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Address struct {
	Street string
	City   string
}

type Person struct {
	Name    string
	Age     int
	Address *Address
	Manager *Person
	Tags    []string
}

type Organization struct {
	Name   string
	Items  []string
	Dict   map[string]int
	People []*Person
	Groups map[string][]Person
}

func newTestOrg() *Organization {
	manager := &Person{
		Name: "Alice",
		Age:  42,
		Address: &Address{
			Street: "1 Main St",
			City:   "Springfield",
		},
	}
	return &Organization{
		Name:  "TechCorp",
		Items: []string{"first", "second", "third"},
		Dict:  map[string]int{"key1": 10, "key2": 20},
		People: []*Person{
			{Name: "Bob", Age: 30, Manager: manager, Tags: []string{"go", "sql"}},
			nil,
		},
		Groups: map[string][]Person{
			"team1": {
				{Name: "Carol", Age: 28},
				{Name: "Dan", Age: 33},
			},
		},
	}
}

// TestResolveMemberPaths tests dotted member access against typed graphs
func TestResolveMemberPaths(t *testing.T) {
	org := newTestOrg()

	tests := []struct {
		name      string
		path      string
		wantValue any
		wantType  reflect.Type
	}{
		{
			name:      "single member",
			path:      "Name",
			wantValue: "TechCorp",
			wantType:  reflect.TypeOf(""),
		},
		{
			name:      "nested through pointers",
			path:      "People[0].Manager.Address.City",
			wantValue: "Springfield",
			wantType:  reflect.TypeOf(""),
		},
		{
			name:      "declared type is the member type",
			path:      "People[0].Manager",
			wantValue: org.People[0].Manager,
			wantType:  reflect.TypeOf(&Person{}),
		},
		{
			name:      "member holding a map",
			path:      "Dict",
			wantValue: org.Dict,
			wantType:  reflect.TypeOf(map[string]int{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(org, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, res.Value)
			assert.Equal(t, tt.wantType, res.Type)
		})
	}
}

// TestResolveSpecScenarios tests the concrete resolution scenarios the
// resolver is contractually bound to
func TestResolveSpecScenarios(t *testing.T) {
	org := newTestOrg()

	t.Run("sequence element with element type", func(t *testing.T) {
		res, err := Resolve(org, "Items[1]")
		require.NoError(t, err)
		assert.Equal(t, "second", res.Value)
		assert.Equal(t, reflect.TypeOf(""), res.Type)
	})

	t.Run("map entry with element type", func(t *testing.T) {
		res, err := Resolve(org, "Dict[key1]")
		require.NoError(t, err)
		assert.Equal(t, 10, res.Value)
		assert.Equal(t, reflect.TypeOf(0), res.Type)
	})

	t.Run("nil element keeps resolving declared types", func(t *testing.T) {
		res, err := Resolve(org, "People[1].Name")
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, reflect.TypeOf(""), res.Type)
	})

	t.Run("chained indexers resolve left to right", func(t *testing.T) {
		res, err := Resolve(org, "Groups[team1][0].Name")
		require.NoError(t, err)
		assert.Equal(t, "Carol", res.Value)
		assert.Equal(t, reflect.TypeOf(""), res.Type)
	})

	t.Run("root indexing", func(t *testing.T) {
		res, err := Resolve([]string{"zero", "one"}, "[1]")
		require.NoError(t, err)
		assert.Equal(t, "one", res.Value)
	})

	t.Run("root indexing with chained member", func(t *testing.T) {
		res, err := Resolve(org.Groups, "[team1][1].Age")
		require.NoError(t, err)
		assert.Equal(t, 33, res.Value)
	})
}

// TestNullPropagation tests that nil values switch resolution to declared
// types instead of failing
func TestNullPropagation(t *testing.T) {
	org := newTestOrg()

	t.Run("nil pointer mid-path reports final type", func(t *testing.T) {
		res, err := Resolve(org, "People[1].Address.City")
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, reflect.TypeOf(""), res.Type)
	})

	t.Run("nil pointer at terminal reports its own type", func(t *testing.T) {
		res, err := Resolve(org, "People[0].Address")
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, reflect.TypeOf(&Address{}), res.Type)
	})

	t.Run("indexer past a nil resolves type-only", func(t *testing.T) {
		res, err := Resolve(org, "People[1].Tags[5]")
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, reflect.TypeOf(""), res.Type)
	})

	t.Run("missing member past a nil still fails", func(t *testing.T) {
		_, err := Resolve(org, "People[1].Salary")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMemberNotFound))
	})

	t.Run("bad token past a nil still fails", func(t *testing.T) {
		_, err := Resolve(org, "People[1].Tags[oops]")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidIndexFormat))
	})

	t.Run("nil map member", func(t *testing.T) {
		res, err := Resolve(&Organization{}, "Dict[key1]")
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, reflect.TypeOf(0), res.Type)
	})
}

// TestResolveSyntaxErrors tests malformed path rejection
func TestResolveSyntaxErrors(t *testing.T) {
	org := newTestOrg()

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "leading dot", path: ".Name"},
		{name: "double dot", path: "People..Name"},
		{name: "trailing dot", path: "Name."},
		{name: "trailing dot after bracket", path: "Items[0]."},
		{name: "unterminated bracket", path: "Items[0"},
		{name: "empty bracket", path: "Items[]"},
		{name: "text after closing bracket", path: "Items[0]Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(org, tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPathSyntax), "got %v", err)
		})
	}

	t.Run("dot before bracket is valid", func(t *testing.T) {
		// The split consumes the dot first, so "Items.[0]" reads as member
		// "Items" followed by a root-style index.
		res, err := Resolve(org, "Items.[0]")
		require.NoError(t, err)
		assert.Equal(t, "first", res.Value)
	})
}

// TestResolveIgnoreCase tests member-name folding at every depth
func TestResolveIgnoreCase(t *testing.T) {
	org := newTestOrg()

	variants := []string{
		"people[0].name",
		"PEOPLE[0].NAME",
		"People[0].Name",
	}

	t.Run("fold resolves all variants identically", func(t *testing.T) {
		for _, path := range variants {
			res, err := Resolve(org, path, IgnoreCase())
			require.NoError(t, err, "path %s", path)
			assert.Equal(t, "Bob", res.Value, "path %s", path)
		}
	})

	t.Run("exact mode rejects case mismatches", func(t *testing.T) {
		for _, path := range variants[:2] {
			_, err := Resolve(org, path)
			require.Error(t, err, "path %s", path)
			assert.True(t, errors.Is(err, ErrMemberNotFound))
		}
	})

	t.Run("config default folds", func(t *testing.T) {
		r := New(&Config{CaseInsensitive: true})
		res, err := r.Resolve(org, "people[0].manager.address.city")
		require.NoError(t, err)
		assert.Equal(t, "Springfield", res.Value)
	})

	t.Run("per-call override wins", func(t *testing.T) {
		r := New(&Config{CaseInsensitive: true})
		_, err := r.Resolve(org, "people[0].name", MatchCase())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMemberNotFound))
	})

	t.Run("map entries fold deterministically", func(t *testing.T) {
		data := map[string]int{"Alpha": 1, "alpha": 2}
		res, err := Resolve(data, "ALPHA", IgnoreCase())
		require.NoError(t, err)
		// Sorted fold order makes "Alpha" the stable winner.
		assert.Equal(t, 1, res.Value)
	})

	t.Run("bracket tokens never fold", func(t *testing.T) {
		_, err := Resolve(org, "Dict[KEY1]", IgnoreCase())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrKeyNotFound))
	})
}

// TestResolveErrors tests failure classification for well-formed paths
func TestResolveErrors(t *testing.T) {
	org := newTestOrg()

	t.Run("nil root", func(t *testing.T) {
		_, err := Resolve(nil, "Name")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNilRoot))
	})

	t.Run("member not found names the searched type", func(t *testing.T) {
		_, err := Resolve(org, "Missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMemberNotFound))
		assert.Contains(t, err.Error(), "Organization")
		assert.Contains(t, err.Error(), "Missing")
	})

	t.Run("member on scalar", func(t *testing.T) {
		_, err := Resolve(org, "Name.Length")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMemberNotFound))
	})

	t.Run("error carries operation and path", func(t *testing.T) {
		_, err := Resolve(org, "Items[99]")
		require.Error(t, err)
		var pe *PathError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "resolve", pe.Op)
		assert.Equal(t, "Items[99]", pe.Path)
	})
}

// TestResolveType tests resolution from an explicit declared type
func TestResolveType(t *testing.T) {
	t.Run("nil root resolves the whole path type-only", func(t *testing.T) {
		res, err := ResolveType(reflect.TypeOf(&Organization{}), nil, "People[0].Manager.Address.City")
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, reflect.TypeOf(""), res.Type)
	})

	t.Run("type-only still validates tokens", func(t *testing.T) {
		_, err := ResolveType(reflect.TypeOf(Organization{}), nil, "Items[oops]")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidIndexFormat))
	})

	t.Run("type-only misses members", func(t *testing.T) {
		_, err := ResolveType(reflect.TypeOf(Organization{}), nil, "Missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMemberNotFound))
	})

	t.Run("non-nil root resolves values", func(t *testing.T) {
		org := newTestOrg()
		res, err := ResolveType(reflect.TypeOf(org), org, "Items[2]")
		require.NoError(t, err)
		assert.Equal(t, "third", res.Value)
	})

	t.Run("root must be assignable to the declared type", func(t *testing.T) {
		_, err := ResolveType(reflect.TypeOf(Organization{}), "just a string", "Name")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("nil root type", func(t *testing.T) {
		_, err := ResolveType(nil, nil, "Name")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNilRoot))
	})

	t.Run("typed nil pointer root downgrades to type-only", func(t *testing.T) {
		var org *Organization
		res, err := ResolveType(reflect.TypeOf(org), org, "Name")
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, reflect.TypeOf(""), res.Type)
	})
}

// TestResolverLimits tests the path guards
func TestResolverLimits(t *testing.T) {
	org := newTestOrg()

	t.Run("path length", func(t *testing.T) {
		r := New(&Config{MaxPathLength: 10})
		_, err := r.Resolve(org, "People[0].Manager.Name")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSizeLimit))
	})

	t.Run("path depth", func(t *testing.T) {
		r := New(&Config{MaxPathDepth: 2})
		_, err := r.Resolve(org, "People[0].Manager.Name")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDepthLimit))
	})

	t.Run("per-call depth override", func(t *testing.T) {
		r := New()
		_, err := r.Resolve(org, "People[0].Manager.Name", &Options{MaxDepth: 2})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDepthLimit))

		_, err = r.Resolve(org, "People[0].Manager.Name", &Options{MaxDepth: 10})
		assert.NoError(t, err)
	})
}

// TestResolverStats tests the operation counters
func TestResolverStats(t *testing.T) {
	r := New()
	r.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	org := newTestOrg()

	_, _ = r.Resolve(org, "Name")
	_, _ = r.Resolve(org, "Missing")
	_, _ = r.Resolve(nil, "Name")

	stats := r.Stats()
	assert.Equal(t, int64(3), stats.Operations)
	assert.Equal(t, int64(2), stats.Errors)
}

func TestNewPanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		New(&Config{MaxPathLength: -1})
	})
}

func TestResolveDeepChainMatchesManualReads(t *testing.T) {
	org := newTestOrg()

	want := org.People[0].Manager.Address.Street
	res, err := Resolve(org, "People[0].Manager.Address.Street")
	require.NoError(t, err)
	assert.Equal(t, want, res.Value)

	res, err = Resolve(org, "Groups[team1][1].Name")
	require.NoError(t, err)
	assert.Equal(t, org.Groups["team1"][1].Name, res.Value)
}
