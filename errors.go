package filters

import (
	"errors"
	"fmt"
)

// InvalidFilterError reports a literal that matches no compilation rule. It
// is raised at compile time, before any entry is scanned.
type InvalidFilterError struct {
	Literal any
	Err     error
}

func (e *InvalidFilterError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("filters: invalid filter %s: %v", describeLiteral(e.Literal), e.Err)
	}
	return fmt.Sprintf("filters: invalid filter %s", describeLiteral(e.Literal))
}

func (e *InvalidFilterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnmatchedError reports an entry that matched no compiled predicate. The
// partition call that produced it returned no groups.
type UnmatchedError struct {
	Path  Path
	Value any
}

func (e *UnmatchedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("filters: entry %q (%T) matched no filter", e.Path.String(), e.Value)
}

func describeLiteral(literal any) string {
	if literal == nil {
		return "<nil>"
	}
	switch typed := literal.(type) {
	case string:
		return fmt.Sprintf("%q", typed)
	default:
		return fmt.Sprintf("%T(%v)", literal, literal)
	}
}

// invalidFilter wraps err with literal metadata, preserving an existing
// InvalidFilterError so nested compilation keeps the innermost offender.
func invalidFilter(literal any, err error) error {
	var invalid *InvalidFilterError
	if errors.As(err, &invalid) {
		return err
	}
	return &InvalidFilterError{Literal: literal, Err: err}
}
