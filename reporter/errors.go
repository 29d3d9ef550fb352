// Package reporter implements the diagnostics contract used across the
// Duper core: errors carry a source position (§7), and a Handler decides,
// as errors are discovered, whether scanning should continue or abort.
// The error-kind set here is Duper-specific (no descriptor-redeclaration
// kinds); see the eight kinds §7 names.
package reporter

import (
	"errors"
	"fmt"

	duper "github.com/duperfmt/duper"
)

// ErrInvalidSource reports that a Duper source failed to parse. Parse
// does not return it; it reports the first error itself.
var ErrInvalidSource = errors.New("parse failed: invalid Duper source")

// ErrorWithPos is an error about a Duper document that carries the source
// position that caused it.
type ErrorWithPos interface {
	error
	GetPosition() duper.SourcePos
	Unwrap() error
}

// Error creates an ErrorWithPos wrapping err at pos.
func Error(pos duper.SourcePos, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates an ErrorWithPos from a fmt.Errorf-style message at pos.
func Errorf(pos duper.SourcePos, format string, args ...interface{}) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        duper.SourcePos
}

func (e errorWithSourcePos) Error() string {
	if e.pos == (duper.SourcePos{}) {
		// No position to report — e.g. an InternalError raised from
		// inside a running query pipeline, well past any source text.
		return e.underlying.Error()
	}
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

func (e errorWithSourcePos) GetPosition() duper.SourcePos { return e.pos }
func (e errorWithSourcePos) Unwrap() error                { return e.underlying }

var _ ErrorWithPos = errorWithSourcePos{}

// The §7 error kinds. Each is a distinct Go type so callers can
// errors.As() to the specific kind they care about; CastFailure and
// MissingPath are deliberately absent here because §7 says they are
// rendered inline by duperq rather than raised as errors.

// ParseError reports that the parser could not proceed at a position,
// along with the set of alternatives it was expecting.
type ParseError struct {
	Expected []string
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return "parse error"
	}
	return fmt.Sprintf("parse error, expected %s", joinOr(e.Expected))
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		s := items[0]
		for _, it := range items[1 : len(items)-1] {
			s += ", " + it
		}
		return s + " or " + items[len(items)-1]
	}
}

// DuplicateKeyError reports an object literal with a repeated key; the
// position is that of the second occurrence (§4.C.4).
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate object key %q", e.Key)
}

// InvalidEscapeError reports that an escape sequence failed to decode.
type InvalidEscapeError struct {
	Kind string // "byte" or "unicode"
	Hex  string
}

func (e *InvalidEscapeError) Error() string {
	return fmt.Sprintf("invalid %s escape: %s", e.Kind, e.Hex)
}

// OutOfRangeIntegerError reports an integer literal that overflows 64 bits.
type OutOfRangeIntegerError struct {
	Text string
}

func (e *OutOfRangeIntegerError) Error() string {
	return fmt.Sprintf("integer literal out of range: %s", e.Text)
}

// InvalidTemporalError reports a temporal literal that failed its
// sub-variant's validator.
type InvalidTemporalError struct {
	Variant string
	Text    string
}

func (e *InvalidTemporalError) Error() string {
	return fmt.Sprintf("invalid %s temporal literal: %s", e.Variant, e.Text)
}

// InvalidIdentifierError reports an identifier that violates §3.1.
type InvalidIdentifierError struct {
	Text string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier: %s", e.Text)
}

// QueryError reports a syntax error in a duperq query string.
type QueryError struct {
	Offset int
	Msg    string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error at offset %d: %s", e.Offset, e.Msg)
}

// InternalError wraps a recovered panic from within a query stage (§7):
// stages never panic outward, they convert the panic into this error.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

// Handler accumulates errors and warnings discovered while scanning a
// document, deferring the fail-fast-or-continue decision to a caller-
// supplied ErrorReporter: abort on the first error (the default, per
// §4.C.2 "the parser fails fast"), or collect every error a caller wants
// surfaced at once.
type ErrorReporter func(err ErrorWithPos) error

// Handler collects errors reported during a parse, invoking report to
// decide whether to continue.
type Handler struct {
	report   ErrorReporter
	warn     func(ErrorWithPos)
	errs     []ErrorWithPos
	warnings []ErrorWithPos
}

// NewHandler creates a Handler. If report is nil, the handler fails fast
// on the first error. If warn is nil, warnings are discarded.
func NewHandler(report ErrorReporter, warn func(ErrorWithPos)) *Handler {
	if report == nil {
		report = func(err ErrorWithPos) error { return err }
	}
	if warn == nil {
		warn = func(ErrorWithPos) {}
	}
	return &Handler{report: report, warn: warn}
}

// HandleError reports err through the configured ErrorReporter. A non-nil
// return means scanning must stop.
func (h *Handler) HandleError(err ErrorWithPos) error {
	h.errs = append(h.errs, err)
	return h.report(err)
}

// HandleWarning reports a non-fatal diagnostic.
func (h *Handler) HandleWarning(err ErrorWithPos) {
	h.warnings = append(h.warnings, err)
	h.warn(err)
}

// Errors returns every error reported so far, in report order.
func (h *Handler) Errors() []ErrorWithPos { return h.errs }

// Warnings returns every warning reported so far, in report order.
func (h *Handler) Warnings() []ErrorWithPos { return h.warnings }
