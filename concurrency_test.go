package reflection

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentResolves tests a shared resolver under parallel read load
func TestConcurrentResolves(t *testing.T) {
	r := New()
	r.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	org := newTestOrg()

	paths := []string{
		"Name",
		"Items[2]",
		"Dict[key1]",
		"People[0].Manager.Address.City",
		"Groups[team1][1].Age",
		"People[1].Name",
	}

	concurrency := 20
	iterations := 100

	var wg sync.WaitGroup
	errs := make(chan error, concurrency*iterations)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if _, err := r.Resolve(org, paths[(worker+j)%len(paths)]); err != nil {
					errs <- err
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent resolve error: %v", err)
	}

	stats := r.Stats()
	assert.Equal(t, int64(concurrency*iterations), stats.Operations)
	assert.Zero(t, stats.Errors)
}

// TestConcurrentMixedOperations tests resolution, flattening, and type-only
// walks interleaved on one resolver
func TestConcurrentMixedOperations(t *testing.T) {
	r := New()
	r.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	org := newTestOrg()
	orgType := reflect.TypeOf(Organization{})

	concurrency := 12
	iterations := 50

	var wg sync.WaitGroup
	errs := make(chan error, concurrency*iterations)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				var err error
				switch (worker + j) % 3 {
				case 0:
					_, err = r.Resolve(org, "People[0].Tags[1]")
				case 1:
					_, err = r.Flatten(org)
				default:
					_, err = r.ResolveType(orgType, nil, "Groups[team1][0].Name")
				}
				if err != nil {
					errs <- err
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent operation error: %v", err)
	}
}

// TestConcurrentRegistry tests parallel registration and discovery
func TestConcurrentRegistry(t *testing.T) {
	reg := NewTypeRegistry()
	shapeType := reflect.TypeOf((*shape)(nil)).Elem()

	concurrency := 10
	iterations := 20

	var wg sync.WaitGroup
	errs := make(chan error, concurrency*iterations)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				name := fmt.Sprintf("w%d.t%d", worker, j)
				if err := reg.RegisterName(name, reflect.TypeOf(square{})); err != nil {
					errs <- err
					continue
				}
				if _, ok := reg.Lookup(name); !ok {
					errs <- fmt.Errorf("name %s not found after registration", name)
				}
				if _, err := reg.Implementers(shapeType); err != nil {
					errs <- err
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent registry error: %v", err)
	}

	assert.Len(t, reg.Types(), concurrency*iterations)
}

// TestConcurrentDefaultResolverSwap tests swapping the package resolver while
// readers keep resolving
func TestConcurrentDefaultResolverSwap(t *testing.T) {
	original := getDefaultResolver()
	defer SetDefaultResolver(original)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	exact := New()
	exact.SetLogger(quiet)
	folded := New(&Config{CaseInsensitive: true})
	folded.SetLogger(quiet)

	org := newTestOrg()

	var wg sync.WaitGroup
	errs := make(chan error, 400)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if worker%2 == 0 {
					if worker%4 == 0 {
						SetDefaultResolver(exact)
					} else {
						SetDefaultResolver(folded)
					}
					continue
				}
				got, err := GetPropertyValue(org, "Name")
				if err != nil {
					errs <- err
					continue
				}
				if got != "TechCorp" {
					errs <- fmt.Errorf("unexpected value %v", got)
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent swap error: %v", err)
	}

	require.NotNil(t, getDefaultResolver())
}
