package filters

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

var errTestBoom = errors.New("boom")

// fakeProgramCache counts hits and misses so tests can assert reuse.
type fakeProgramCache struct {
	mu       sync.Mutex
	programs map[string]any
	hits     int
	misses   int
}

func newFakeProgramCache() *fakeProgramCache {
	return &fakeProgramCache{programs: map[string]any{}}
}

func (c *fakeProgramCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	program, ok := c.programs[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return program, ok
}

func (c *fakeProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs[key] = value
}

func TestExprEngineBindings(t *testing.T) {
	engine := NewExprEngine()
	path := ParsePath("encoder.weight")

	tests := []struct {
		name   string
		source string
		value  any
		want   bool
	}{
		{name: "path", source: `path == "encoder.weight"`, value: nil, want: true},
		{name: "keys", source: `"weight" in keys`, value: nil, want: true},
		{name: "value", source: `value == 42`, value: 42, want: true},
		{name: "tag", source: `tag == "trainable"`, value: param{tag: "trainable"}, want: true},
		{name: "tag absent", source: `tag == ""`, value: batchStat{}, want: true},
		{name: "kind", source: `kind == "filters.param"`, value: param{}, want: true},
		{name: "kind for nil", source: `kind == "nil"`, value: nil, want: true},
		{name: "miss", source: `tag == "frozen"`, value: param{tag: "trainable"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predicate, err := engine.CompilePredicate(tt.source)
			if err != nil {
				t.Fatalf("CompilePredicate(%q): %v", tt.source, err)
			}
			if got := predicate(path, tt.value); got != tt.want {
				t.Fatalf("%q = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestExprEngineRejectsEmptySource(t *testing.T) {
	if _, err := NewExprEngine().CompilePredicate(""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestExprEngineNonBoolIsNonMatch(t *testing.T) {
	predicate, err := NewExprEngine().CompilePredicate(`path`)
	if err != nil {
		t.Fatalf("CompilePredicate: %v", err)
	}
	if predicate(ParsePath("a"), nil) {
		t.Fatalf("string result must not count as a match")
	}
}

func TestExprEngineProgramCache(t *testing.T) {
	cache := newFakeProgramCache()
	engine := NewExprEngine(ExprWithProgramCache(cache))

	if _, err := engine.CompilePredicate(`tag == "x"`); err != nil {
		t.Fatalf("CompilePredicate: %v", err)
	}
	if _, err := engine.CompilePredicate(`tag == "x"`); err != nil {
		t.Fatalf("CompilePredicate: %v", err)
	}

	if cache.misses != 1 {
		t.Fatalf("expected one compile miss, got %d", cache.misses)
	}
	if cache.hits != 1 {
		t.Fatalf("expected the second compile to hit the cache, got %d hits", cache.hits)
	}
}

func TestExprEngineRegistryFunctions(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("hasPrefix", func(args ...any) (any, error) {
		value, _ := args[0].(string)
		prefix, _ := args[1].(string)
		return strings.HasPrefix(value, prefix), nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	engine := NewExprEngine(ExprWithFunctionRegistry(registry))
	// Registered names are lowercased.
	predicate, err := engine.CompilePredicate(`hasprefix(path, "encoder")`)
	if err != nil {
		t.Fatalf("CompilePredicate: %v", err)
	}

	if !predicate(ParsePath("encoder.weight"), nil) {
		t.Fatalf("expected registry function to match")
	}
	if predicate(ParsePath("head.weight"), nil) {
		t.Fatalf("unexpected match")
	}
}

func TestExprEngineRuntimeErrorIsNonMatch(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("boom", func(...any) (any, error) {
		return nil, errTestBoom
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	engine := NewExprEngine(ExprWithFunctionRegistry(registry))
	predicate, err := engine.CompilePredicate(`boom() == true`)
	if err != nil {
		t.Fatalf("CompilePredicate: %v", err)
	}
	if predicate(ParsePath("a"), nil) {
		t.Fatalf("a failing function must be a non-match")
	}
}

func TestPartitionerWiresCacheAndRegistry(t *testing.T) {
	cache := newFakeProgramCache()
	partitioner := New(
		WithProgramCache(cache),
		WithCustomFunction("isWeight", func(args ...any) (any, error) {
			path, _ := args[0].(string)
			return strings.HasSuffix(path, ".weight"), nil
		}),
	)

	state := FlatStateOf(map[string]any{
		"encoder.weight": 1,
		"encoder.bias":   2,
	})

	literal := Expr(`isweight(path)`)
	groups, err := partitioner.Partition(state, literal, Wildcard)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if groups[0].Len() != 1 || groups[1].Len() != 1 {
		t.Fatalf("unexpected group sizes %d/%d", groups[0].Len(), groups[1].Len())
	}

	// A second run with the same literal reuses the cached program.
	if _, err := partitioner.Partition(state, literal, Wildcard); err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if cache.hits == 0 {
		t.Fatalf("expected the second run to hit the program cache")
	}
}
