// Package compileerr is the wrapped-error type used for every diagnostic
// the compiler emits (grammar-load, table conflict, syntax, semantic),
// grounded on github.com/dekarrin/tunaq's internal/tqerrors: a short
// technical Error() string alongside a longer operator-facing message, so a
// caller can choose which one to show.
package compileerr

import (
	"errors"
	"fmt"
)

// Stage identifies which part of the pipeline raised a diagnostic.
type Stage int

const (
	StageGrammar Stage = iota
	StageTable
	StageSyntax
	StageSemantic
)

func (s Stage) String() string {
	switch s {
	case StageGrammar:
		return "grammar"
	case StageTable:
		return "table"
	case StageSyntax:
		return "syntax"
	case StageSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Severity grades a diagnostic as an error or a warning. It does not decide
// whether the pipeline halts: semantic errors carry SeverityError and are
// still collected while the parse continues, and skipped grammar lines are
// reported as SeverityWarning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Loc is the location a diagnostic is anchored to.
type Loc struct {
	Row int
	Col int
}

func (l Loc) String() string { return fmt.Sprintf("%d:%d", l.Row, l.Col) }

// compileError is the concrete error type: a short technical message for
// Error(), a longer Operator() message for human display, the stage and
// severity, and the source location (if any).
type compileError struct {
	technical string
	operator  string
	stage     Stage
	severity  Severity
	loc       Loc
	wrap      error
}

func (e *compileError) Error() string  { return e.technical }
func (e *compileError) Unwrap() error  { return e.wrap }
func (e *compileError) Stage() Stage   { return e.stage }
func (e *compileError) Loc() Loc       { return e.loc }
func (e *compileError) Severity() Severity { return e.severity }

// Operator returns the longer, human-facing description of the error.
func (e *compileError) Operator() string { return e.operator }

// New returns a new diagnostic with both a short technical message and a
// longer operator-facing one.
func New(stage Stage, severity Severity, loc Loc, technical, operatorFmt string, a ...interface{}) error {
	return &compileError{
		technical: technical,
		operator:  fmt.Sprintf(operatorFmt, a...),
		stage:     stage,
		severity:  severity,
		loc:       loc,
	}
}

// Wrap is like New but also records an underlying cause.
func Wrap(err error, stage Stage, severity Severity, loc Loc, technical, operatorFmt string, a ...interface{}) error {
	ce := New(stage, severity, loc, technical, operatorFmt, a...).(*compileError)
	ce.wrap = err
	return ce
}

// Operator returns the human-facing description of err if it is (or wraps)
// a compileError, otherwise err.Error().
func Operator(err error) string {
	var ce *compileError
	if errors.As(err, &ce) {
		return ce.operator
	}
	return err.Error()
}
