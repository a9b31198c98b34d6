package filters

import (
	"fmt"
	"reflect"
)

type wildcard struct{}

// Wildcard is the match-all literal, equivalent to passing true or
// Everything(). It exists so a catch-all group reads as intent rather than a
// bare boolean.
var Wildcard = wildcard{}

// AnyOf is the disjunctive grouping literal: its members are compiled and
// combined with OR. Together with the AND interpretation of plain []any
// slices this mirrors the tuple=OR / list=AND convention of the filter DSL;
// the asymmetry is deliberate and local to this DSL.
type AnyOf []any

// AllOf is the conjunctive grouping literal: its members are compiled and
// combined with AND. A plain []any slice compiles the same way.
type AllOf []any

// ToPredicate compiles a filter literal into a canonical Predicate.
//
// Recognised literal shapes, in precedence order: an existing Predicate
// (returned unchanged), Wildcard or true (match all), nil or false (match
// none), a reflect.Type (type match), a string (tag match), AnyOf (OR of
// members), AllOf or []any (AND of members), and Expression (compiled by the
// default expression engine). Any other shape yields *InvalidFilterError.
func ToPredicate(literal any) (Predicate, error) {
	return compileLiteral(literal, defaultExpressionEngine())
}

func compileLiteral(literal any, engine ExpressionEngine) (Predicate, error) {
	if literal == nil {
		return Nothing(), nil
	}
	switch typed := literal.(type) {
	case Predicate:
		if typed == nil {
			return Nothing(), nil
		}
		return typed, nil
	case func(Path, any) bool:
		if typed == nil {
			return Nothing(), nil
		}
		return Predicate(typed), nil
	case wildcard:
		return Everything(), nil
	case bool:
		if typed {
			return Everything(), nil
		}
		return Nothing(), nil
	case reflect.Type:
		return OfReflectType(typed), nil
	case string:
		return WithTag(typed), nil
	case AnyOf:
		members, err := compileLiterals(typed, engine)
		if err != nil {
			return nil, err
		}
		return disjunction(members), nil
	case AllOf:
		members, err := compileLiterals(typed, engine)
		if err != nil {
			return nil, err
		}
		return conjunction(members), nil
	case []any:
		members, err := compileLiterals(typed, engine)
		if err != nil {
			return nil, err
		}
		return conjunction(members), nil
	case Expression:
		if engine == nil {
			return nil, invalidFilter(typed, fmt.Errorf("no expression engine configured"))
		}
		predicate, err := engine.CompilePredicate(typed.Source)
		if err != nil {
			return nil, invalidFilter(typed, err)
		}
		return predicate, nil
	default:
		return nil, invalidFilter(literal, fmt.Errorf("unrecognised literal shape"))
	}
}

func compileLiterals(literals []any, engine ExpressionEngine) ([]Predicate, error) {
	out := make([]Predicate, len(literals))
	for i, literal := range literals {
		predicate, err := compileLiteral(literal, engine)
		if err != nil {
			return nil, err
		}
		out[i] = predicate
	}
	return out, nil
}
