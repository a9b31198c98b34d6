package filters

import "reflect"

// Predicate is a pure membership test over a single flattened entry. It must
// not mutate its arguments and is safe to reuse across partitions and
// goroutines.
type Predicate func(path Path, value any) bool

// TypeCarrier exposes the declared type of a descriptor value. Wrapped or
// boxed state values implement it when their logical classification differs
// from the wrapper's own runtime type.
type TypeCarrier interface {
	DeclaredType() reflect.Type
}

// Tagged exposes the string tag used by WithTag. Values without the hook are
// simply never tag-matched.
type Tagged interface {
	FilterTag() string
}

// Everything matches every entry.
func Everything() Predicate {
	return func(Path, any) bool {
		return true
	}
}

// Nothing matches no entry.
func Nothing() Predicate {
	return func(Path, any) bool {
		return false
	}
}

// OfType matches entries whose value is a T, is assignable to T, or
// implements T when T is an interface; it also matches descriptor values
// whose declared type satisfies the same rules. Interface satisfaction is
// how a "subtype" relation is expressed here: declare the base as an
// interface and every implementation matches.
func OfType[T any]() Predicate {
	return OfReflectType(reflect.TypeOf((*T)(nil)).Elem())
}

// OfReflectType is the non-generic form of OfType for callers that already
// hold a reflect.Type, including the literal compiler.
func OfReflectType(target reflect.Type) Predicate {
	if target == nil {
		return Nothing()
	}
	return func(_ Path, value any) bool {
		if value == nil {
			return false
		}
		if typeMatches(reflect.TypeOf(value), target) {
			return true
		}
		if carrier, ok := value.(TypeCarrier); ok {
			return typeMatches(carrier.DeclaredType(), target)
		}
		return false
	}
}

func typeMatches(candidate, target reflect.Type) bool {
	if candidate == nil {
		return false
	}
	if candidate == target {
		return true
	}
	if target.Kind() == reflect.Interface {
		if candidate.Implements(target) {
			return true
		}
		return candidate.Kind() != reflect.Pointer &&
			reflect.PointerTo(candidate).Implements(target)
	}
	return candidate.AssignableTo(target)
}

// WithTag matches values whose FilterTag equals tag exactly. A value without
// the Tagged hook is a non-match, never an error.
func WithTag(tag string) Predicate {
	return func(_ Path, value any) bool {
		tagged, ok := value.(Tagged)
		if !ok {
			return false
		}
		return tagged.FilterTag() == tag
	}
}

// PathContains matches entries whose path includes key at any position.
func PathContains(key Key) Predicate {
	return func(path Path, _ any) bool {
		return path.Contains(key)
	}
}
