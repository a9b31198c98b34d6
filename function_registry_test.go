package filters

import "testing"

func TestFunctionRegistryRegisterAndCall(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("Double", func(args ...any) (any, error) {
		n, _ := args[0].(int)
		return n * 2, nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Lookup is case-insensitive.
	result, err := registry.Call("double", 21)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result != 42 {
		t.Fatalf("expected 42, got %v", result)
	}
}

func TestFunctionRegistryRejectsDuplicatesAndNil(t *testing.T) {
	registry := NewFunctionRegistry()
	noop := func(...any) (any, error) { return nil, nil }

	if err := registry.Register("fn", noop); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register("FN", noop); err == nil {
		t.Fatalf("expected duplicate error for case-folded name")
	}
	if err := registry.Register("", noop); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := registry.Register("nilfn", nil); err == nil {
		t.Fatalf("expected error for nil function")
	}
}

func TestFunctionRegistryCallUnknown(t *testing.T) {
	registry := NewFunctionRegistry()
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected error for unknown function")
	}
}

func TestFunctionRegistryCloneIsIndependent(t *testing.T) {
	registry := NewFunctionRegistry()
	noop := func(...any) (any, error) { return nil, nil }
	if err := registry.Register("fn", noop); err != nil {
		t.Fatalf("Register: %v", err)
	}

	clone := registry.Clone()
	if err := clone.Register("extra", noop); err != nil {
		t.Fatalf("Register on clone: %v", err)
	}

	if _, err := registry.Call("extra"); err == nil {
		t.Fatalf("clone registration leaked into the original")
	}
	if len(clone.Names()) != 2 || len(registry.Names()) != 1 {
		t.Fatalf("unexpected registry sizes %v / %v", clone.Names(), registry.Names())
	}
}

func TestFunctionRegistryNamesSorted(t *testing.T) {
	registry := NewFunctionRegistry()
	noop := func(...any) (any, error) { return nil, nil }
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(name, noop); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}

	names := registry.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected sorted names %v, got %v", want, names)
		}
	}
}
