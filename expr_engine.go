package filters

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEngineOption configures an expr engine instance.
type ExprEngineOption func(*exprEngine)

// ExprWithProgramCache wires a ProgramCache into the expr engine.
func ExprWithProgramCache(cache ProgramCache) ExprEngineOption {
	return func(e *exprEngine) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr engine.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEngineOption {
	return func(e *exprEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprEngine compiles filter expressions using github.com/expr-lang/expr.
type exprEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEngine constructs an ExpressionEngine backed by expr-lang/expr.
// This is the engine the package-level compiler and a bare Partitioner
// resolve by default.
func NewExprEngine(opts ...ExprEngineOption) ExpressionEngine {
	e := &exprEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// CompilePredicate compiles source once and returns a predicate that runs
// the program per entry. A program that fails at runtime or yields a
// non-bool result is a non-match, never an error: predicates have no error
// channel and partial matches must not abort a partition scan.
func (e *exprEngine) CompilePredicate(source string) (Predicate, error) {
	if source == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return func(path Path, value any) bool {
		result, err := exprlang.Run(program, e.environment(path, value))
		if err != nil {
			return false
		}
		matched, err := asBool(result)
		if err != nil {
			return false
		}
		return matched
	}, nil
}

func (e *exprEngine) loadOrCompile(source string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		// The builtin keys() function would otherwise shadow the "keys"
		// binding supplied by predicateEnv at evaluation time.
		exprlang.DisableBuiltin("keys"),
	}
	for _, name := range e.registryNames() {
		fn := e.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(source, options...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(source, program)
	}
	return program, nil
}

func (e *exprEngine) environment(path Path, value any) map[string]any {
	env := predicateEnv(path, value)
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (e *exprEngine) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprEngine) registryFunction(name string) func(...any) (any, error) {
	if e == nil || e.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
