//go:build js_eval

package filters

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEngine constructs an ExpressionEngine backed by goja.
func NewJSEngine(opts ...JSEngineOption) ExpressionEngine {
	cfg := applyJSEngineOptions(opts)
	return &jsEngine{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

// CompilePredicate compiles source once; the predicate spins up a fresh VM
// per entry so compiled predicates stay goroutine-safe. Runtime errors and
// non-bool results are non-matches.
func (e *jsEngine) CompilePredicate(source string) (Predicate, error) {
	if source == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return func(path Path, value any) bool {
		vm := goja.New()
		e.injectEnv(vm, path, value)
		result, err := vm.RunProgram(program)
		if err != nil {
			return false
		}
		matched, err := asBool(result.Export())
		if err != nil {
			return false
		}
		return matched
	}, nil
}

func (e *jsEngine) loadOrCompile(source string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapExpression(source), false)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(source, program)
	}
	return program, nil
}

func (e *jsEngine) injectEnv(vm *goja.Runtime, path Path, value any) {
	for key, binding := range predicateEnv(path, value) {
		vm.Set(key, binding)
	}
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
}

func (e *jsEngine) wrapExpression(source string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", source)
}

func jsEngineAvailable() bool {
	return true
}
