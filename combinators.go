package filters

// All compiles every literal and combines them conjunctively: the resulting
// predicate matches only when every member matches, short-circuiting on the
// first miss. With no arguments the result is vacuously true (Everything);
// callers wanting a fail-fast variant should validate argument counts
// themselves.
func All(literals ...any) (Predicate, error) {
	members, err := compileLiterals(literals, defaultExpressionEngine())
	if err != nil {
		return nil, err
	}
	return conjunction(members), nil
}

// Any compiles every literal and combines them disjunctively: the resulting
// predicate matches when at least one member matches, short-circuiting on
// the first hit. With no arguments the result is vacuously false (Nothing).
func Any(literals ...any) (Predicate, error) {
	members, err := compileLiterals(literals, defaultExpressionEngine())
	if err != nil {
		return nil, err
	}
	return disjunction(members), nil
}

// Not compiles literal and negates it.
func Not(literal any) (Predicate, error) {
	member, err := compileLiteral(literal, defaultExpressionEngine())
	if err != nil {
		return nil, err
	}
	return negate(member), nil
}

func conjunction(members []Predicate) Predicate {
	if len(members) == 0 {
		return Everything()
	}
	return func(path Path, value any) bool {
		for _, member := range members {
			if !member(path, value) {
				return false
			}
		}
		return true
	}
}

func disjunction(members []Predicate) Predicate {
	if len(members) == 0 {
		return Nothing()
	}
	return func(path Path, value any) bool {
		for _, member := range members {
			if member(path, value) {
				return true
			}
		}
		return false
	}
}

func negate(member Predicate) Predicate {
	return func(path Path, value any) bool {
		return !member(path, value)
	}
}
