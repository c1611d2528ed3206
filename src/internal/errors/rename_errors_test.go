package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAnchorNotFound(t *testing.T) {
	err := NewAnchorNotFoundError("file:///a.go", 3, 7)
	if !IsAnchorNotFound(err) {
		t.Fatalf("expected anchor-not-found classification")
	}
	wrapped := WrapWithContext("resolve anchor", err)
	if !IsAnchorNotFound(wrapped) {
		t.Fatalf("wrapped error should still classify")
	}
	if IsAmbiguousDefinition(err) {
		t.Fatalf("should not classify as ambiguous definition")
	}
}

func TestAmbiguousDefinition(t *testing.T) {
	err := NewAmbiguousDefinitionError("pkg/Foo#", 2)
	if !IsAmbiguousDefinition(err) {
		t.Fatalf("expected ambiguous-definition classification")
	}
	if got := err.Error(); got != "expected exactly 1 definition for pkg/Foo#, found 2" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestTranslationErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("empty selector segment")
	err := NewTranslationError("pkg/Foo#", "native-to-foreign", cause)
	if !IsTranslationError(err) {
		t.Fatalf("expected translation classification")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should unwrap")
	}
}

func TestClassificationUnavailable(t *testing.T) {
	err := NewClassificationUnavailableError("file:///b.py", nil)
	if !IsClassificationUnavailable(err) {
		t.Fatalf("expected classification-unavailable")
	}
	if IsCancellation(err) {
		t.Fatalf("should not classify as cancellation")
	}
}

func TestIsCancellation(t *testing.T) {
	if !IsCancellation(context.Canceled) {
		t.Fatalf("context.Canceled should classify")
	}
	if !IsCancellation(fmt.Errorf("operation cancelled by client")) {
		t.Fatalf("message pattern should classify")
	}
	if IsCancellation(nil) {
		t.Fatalf("nil should not classify")
	}
}
