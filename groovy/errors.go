package groovy

import (
	"fmt"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

// IOReadError reports that the source text could not be read.
type IOReadError struct {
	Source string
	Err    error
}

func (e *IOReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Source, e.Err)
}

func (e *IOReadError) Unwrap() error {
	return e.Err
}

// UnsupportedConstructError is returned when a syntax tree node has no AST
// mapping.
type UnsupportedConstructError struct {
	Kind parser.NodeKind
	Text string
	Span ast.Span
}

func (e *UnsupportedConstructError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%d:%d: unsupported %s %q", e.Span.StartLine, e.Span.StartColumn, e.Kind, e.Text)
	}
	return fmt.Sprintf("%d:%d: unsupported %s", e.Span.StartLine, e.Span.StartColumn, e.Kind)
}

// StructuralViolationError is returned for constructs the grammar accepts
// but the language forbids, such as a tuple declaration without an
// initializer.
type StructuralViolationError struct {
	Message string
	Span    ast.Span
}

func (e *StructuralViolationError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.StartLine, e.Span.StartColumn, e.Message)
}

// InternalInvariantError signals a builder bug: a lookup that must succeed
// did not.
type InternalInvariantError struct {
	Message string
}

func (e *InternalInvariantError) Error() string {
	return "internal error: " + e.Message
}

// CompilationFailedError wraps the fatal error that stopped building a unit
// together with the diagnostics gathered up to that point.
type CompilationFailedError struct {
	Unit        string
	Cause       error
	Diagnostics []Diagnostic
}

func (e *CompilationFailedError) Error() string {
	return fmt.Sprintf("%s: compilation failed: %v", e.Unit, e.Cause)
}

func (e *CompilationFailedError) Unwrap() error {
	return e.Cause
}
