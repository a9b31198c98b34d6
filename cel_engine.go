package filters

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEngineOption configures the CEL engine.
type CELEngineOption func(*celEngine)

// CELWithProgramCache wires a ProgramCache into the CEL engine.
func CELWithProgramCache(cache ProgramCache) CELEngineOption {
	return func(e *celEngine) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL engine.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEngineOption {
	return func(e *celEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// maxCallArity caps how many overload arities are declared for call().
const maxCallArity = 8

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEngine constructs an ExpressionEngine backed by cel-go.
func NewCELEngine(opts ...CELEngineOption) ExpressionEngine {
	e := &celEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// CompilePredicate parses, checks and plans source once, returning a
// predicate that evaluates the program per entry. Runtime evaluation errors
// and non-bool results are non-matches.
func (e *celEngine) CompilePredicate(source string) (Predicate, error) {
	if source == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return func(path Path, value any) bool {
		out, _, err := program.program.Eval(e.activation(path, value))
		if err != nil {
			return false
		}
		matched, err := asBool(out.Value())
		if err != nil {
			return false
		}
		return matched
	}, nil
}

func (e *celEngine) loadOrCompile(source string) (*celProgram, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(source)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, err
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(source, bundle)
	}
	return bundle, nil
}

func (e *celEngine) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("path", celgo.StringType),
		celgo.Variable("keys", celgo.ListType(celgo.StringType)),
		celgo.Variable("value", celgo.DynType),
		celgo.Variable("tag", celgo.StringType),
		celgo.Variable("kind", celgo.StringType),
	}
	if e.registry != nil {
		// cel-go has no var-arg overloads; declare one overload per arity
		// sharing the same binding so call(name, args...) checks through.
		binding := celgo.FunctionBinding(e.callBinding())
		args := []*celgo.Type{celgo.StringType}
		overloads := make([]celgo.FunctionOpt, 0, maxCallArity)
		for i := 0; i < maxCallArity; i++ {
			overloads = append(overloads, celgo.Overload(
				fmt.Sprintf("call_dyn_%d", len(args)),
				append([]*celgo.Type(nil), args...),
				celgo.DynType,
				binding,
			))
			args = append(args, celgo.DynType)
		}
		opts = append(opts, celgo.Function("call", overloads...))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEngine) activation(path Path, value any) map[string]any {
	activation := predicateEnv(path, value)
	if e.registry != nil {
		activation["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
	}
	return activation
}

func (e *celEngine) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("filters: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("filters: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("filters: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
