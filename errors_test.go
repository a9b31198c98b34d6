package filters

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestInvalidFilterErrorMessage(t *testing.T) {
	err := &InvalidFilterError{Literal: 3.14, Err: fmt.Errorf("unrecognised literal shape")}
	message := err.Error()

	if !strings.Contains(message, "invalid filter") {
		t.Fatalf("unexpected message %q", message)
	}
	if !strings.Contains(message, "float64") {
		t.Fatalf("expected literal type in message, got %q", message)
	}
	if !strings.Contains(message, "unrecognised literal shape") {
		t.Fatalf("expected cause in message, got %q", message)
	}
}

func TestInvalidFilterErrorQuotesStrings(t *testing.T) {
	err := &InvalidFilterError{Literal: "tag"}
	if !strings.Contains(err.Error(), `"tag"`) {
		t.Fatalf("expected quoted string literal, got %q", err.Error())
	}
}

func TestInvalidFilterErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := &InvalidFilterError{Literal: 1, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap to expose the cause")
	}
}

func TestInvalidFilterWrapPreservesInnermost(t *testing.T) {
	inner := &InvalidFilterError{Literal: 3.14}
	wrapped := invalidFilter(AnyOf{3.14}, inner)

	var got *InvalidFilterError
	if !errors.As(wrapped, &got) {
		t.Fatalf("expected *InvalidFilterError, got %T", wrapped)
	}
	if got != inner {
		t.Fatalf("wrap replaced the innermost error")
	}
}

func TestUnmatchedErrorMessage(t *testing.T) {
	err := &UnmatchedError{Path: ParsePath("head.bias"), Value: batchStat{}}
	message := err.Error()

	if !strings.Contains(message, `"head.bias"`) {
		t.Fatalf("expected path in message, got %q", message)
	}
	if !strings.Contains(message, "batchStat") {
		t.Fatalf("expected value type in message, got %q", message)
	}
}

func TestNilErrorReceivers(t *testing.T) {
	var invalid *InvalidFilterError
	if invalid.Error() != "<nil>" {
		t.Fatalf("unexpected nil message %q", invalid.Error())
	}
	if invalid.Unwrap() != nil {
		t.Fatalf("nil receiver should unwrap to nil")
	}

	var unmatched *UnmatchedError
	if unmatched.Error() != "<nil>" {
		t.Fatalf("unexpected nil message %q", unmatched.Error())
	}
}
