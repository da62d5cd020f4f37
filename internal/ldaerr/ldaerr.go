// Package ldaerr defines the single error taxonomy shared by every
// translation-engine and tokenizer-pipeline component: InvalidInput,
// NotFound, Parse, Eval, Io, and InvariantViolation. Every returned error
// wraps one of the sentinels below so callers can branch with errors.Is,
// and the two evaluator-facing kinds (Parse, Eval) carry a source span via
// errors.As.
package ldaerr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error this module returns wraps exactly one of these.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrParse              = errors.New("parse error")
	ErrEval               = errors.New("evaluation error")
	ErrIO                 = errors.New("io error")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Span is a half-open [Start, End) byte range into a voting expression's
// source text, attached to parse/eval errors for diagnostics.
type Span struct {
	Start, End int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

// ParseError reports a malformed voting expression.
type ParseError struct {
	Source string
	Span   Span
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NewParseError builds a *ParseError anchored at span.
func NewParseError(source string, span Span, format string, args ...any) *ParseError {
	return &ParseError{Source: source, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// EvalError reports a failure evaluating a parsed voting expression:
// an unbound identifier, a type mismatch, or an arity mismatch.
type EvalError struct {
	Identifier string
	Span       Span
	Msg        string
}

func (e *EvalError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("eval error at %s (%q): %s", e.Span, e.Identifier, e.Msg)
	}
	return fmt.Sprintf("eval error at %s: %s", e.Span, e.Msg)
}

func (e *EvalError) Unwrap() error { return ErrEval }

// NewEvalError builds an *EvalError anchored at span, optionally naming the offending identifier.
func NewEvalError(identifier string, span Span, format string, args ...any) *EvalError {
	return &EvalError{Identifier: identifier, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing word, id, topic, or registered voting.
type NotFoundError struct {
	Kind string // "word", "id", "topic", "voting", ...
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.What)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError builds a *NotFoundError.
func NewNotFoundError(kind, what string) *NotFoundError {
	return &NotFoundError{Kind: kind, What: what}
}

// InvalidInputError reports a shape/type/value violation at a public boundary.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Msg)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Msg)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInputError builds an *InvalidInputError.
func NewInvalidInputError(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Wrapf wraps cause with ErrIO and a formatted message, for persistence/streaming failures.
func Wrapf(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w: %w", msg, ErrIO, cause)
}

// Invariantf reports a bug: an internal invariant that should never be violated.
func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvariantViolation)
}
