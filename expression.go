package filters

import (
	"fmt"
	"sync"
)

// Expression is the filter literal for expression-string predicates. The
// source is compiled by an ExpressionEngine; the default engine is backed by
// expr-lang, with CEL and JS engines available as drop-in replacements.
type Expression struct {
	Source string
}

// Expr wraps source as an Expression literal.
func Expr(source string) Expression {
	return Expression{Source: source}
}

// ExpressionEngine compiles expression sources into predicates. Engines must
// be safe for concurrent use; compiled predicates must be pure.
type ExpressionEngine interface {
	CompilePredicate(source string) (Predicate, error)
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     ExpressionEngine
)

func defaultExpressionEngine() ExpressionEngine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewExprEngine()
	})
	return defaultEngine
}

// predicateEnv is the binding set every expression engine exposes to its
// programs: path (canonical string), keys ([]string segments), value, tag
// (empty when the value carries none), and kind (runtime type name). The
// type name binding is called "kind" because "type" collides with builtin
// functions in both expr-lang and CEL.
func predicateEnv(path Path, value any) map[string]any {
	keys := path.Keys()
	segments := make([]string, len(keys))
	for i, key := range keys {
		segments[i] = key.String()
	}
	tag := ""
	if tagged, ok := value.(Tagged); ok {
		tag = tagged.FilterTag()
	}
	typeName := "nil"
	if value != nil {
		typeName = fmt.Sprintf("%T", value)
	}
	return map[string]any{
		"path":  path.String(),
		"keys":  segments,
		"value": value,
		"tag":   tag,
		"kind":  typeName,
	}
}

func asBool(result any) (bool, error) {
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("expression must evaluate to bool, got %T", result)
	}
	return matched, nil
}
