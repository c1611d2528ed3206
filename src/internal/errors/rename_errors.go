package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoRenamableName is the only hard, caller-visible rename failure: the
// requested position carries no name that could be renamed at all. Every
// other failure in the pipeline narrows the rename's scope instead.
var ErrNoRenamableName = errors.New("no renamable name at the requested position")

// AnchorNotFoundError reports that no canonical base-name anchor could be
// located for a requested position. Non-fatal: the rename continues on the
// index-only path.
type AnchorNotFoundError struct {
	URI    string `json:"uri"`
	Line   int32  `json:"line"`
	Column int32  `json:"column"`
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("no rename anchor at %s:%d:%d", e.URI, e.Line, e.Column)
}

// AmbiguousDefinitionError reports that identity resolution found zero or
// more than one definition for a symbol. The rename degrades to local-only.
type AmbiguousDefinitionError struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

func (e *AmbiguousDefinitionError) Error() string {
	return fmt.Sprintf("expected exactly 1 definition for %s, found %d", e.Symbol, e.Count)
}

// TranslationError reports a malformed result from the cross-language name
// translation capability. It drops the affected file's edits only.
type TranslationError struct {
	Symbol    string `json:"symbol"`
	Direction string `json:"direction"`
	Cause     error  `json:"cause,omitempty"`
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("name translation failed for %s (%s): %v", e.Symbol, e.Direction, e.Cause)
	}
	return fmt.Sprintf("name translation failed for %s (%s)", e.Symbol, e.Direction)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ClassificationUnavailableError reports that the rename-range classifier or
// the index backing it is absent or erroring for a file. The workspace rename
// falls back to the local single-file result.
type ClassificationUnavailableError struct {
	URI   string `json:"uri"`
	Cause error  `json:"cause,omitempty"`
}

func (e *ClassificationUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rename classification unavailable for %s: %v", e.URI, e.Cause)
	}
	return fmt.Sprintf("rename classification unavailable for %s", e.URI)
}

func (e *ClassificationUnavailableError) Unwrap() error {
	return e.Cause
}

// Error constructors

// NewAnchorNotFoundError creates an anchor resolution failure for a position
func NewAnchorNotFoundError(uri string, line, column int32) *AnchorNotFoundError {
	return &AnchorNotFoundError{URI: uri, Line: line, Column: column}
}

// NewAmbiguousDefinitionError creates an identity resolution failure
func NewAmbiguousDefinitionError(symbol string, count int) *AmbiguousDefinitionError {
	return &AmbiguousDefinitionError{Symbol: symbol, Count: count}
}

// NewTranslationError creates a translation failure with direction context
func NewTranslationError(symbol, direction string, cause error) *TranslationError {
	return &TranslationError{Symbol: symbol, Direction: direction, Cause: cause}
}

// NewClassificationUnavailableError creates a classifier availability failure
func NewClassificationUnavailableError(uri string, cause error) *ClassificationUnavailableError {
	return &ClassificationUnavailableError{URI: uri, Cause: cause}
}

// Error classification functions

// IsAnchorNotFound checks if the error is an anchor resolution failure
func IsAnchorNotFound(err error) bool {
	if err == nil {
		return false
	}

	var anchorErr *AnchorNotFoundError
	if errors.As(err, &anchorErr) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "no rename anchor") ||
		strings.Contains(errMsg, "anchor not found")
}

// IsAmbiguousDefinition checks if the error is an identity resolution failure
func IsAmbiguousDefinition(err error) bool {
	if err == nil {
		return false
	}

	var ambErr *AmbiguousDefinitionError
	if errors.As(err, &ambErr) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "exactly 1 definition") ||
		strings.Contains(errMsg, "ambiguous definition")
}

// IsTranslationError checks if the error is a cross-language translation failure
func IsTranslationError(err error) bool {
	if err == nil {
		return false
	}

	var trErr *TranslationError
	if errors.As(err, &trErr) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "translation")
}

// IsClassificationUnavailable checks if the error indicates an absent or
// failing classifier/index
func IsClassificationUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var clErr *ClassificationUnavailableError
	if errors.As(err, &clErr) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "classification unavailable") ||
		strings.Contains(errMsg, "index unavailable")
}

// IsCancellation checks if the error is a cancellation error
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "canceled") ||
		strings.Contains(errMsg, "cancelled") ||
		strings.Contains(errMsg, "context canceled")
}

// Error wrapping utilities

// WrapWithContext wraps an error with operation context
func WrapWithContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}
