package groovy

import (
	"fmt"
	"sort"

	"github.com/dhamidi/groovyast/groovy/ast"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a recoverable problem found while parsing or building a
// unit. Positions are 1-based.
type Diagnostic struct {
	Message  string
	Line     int
	Column   int
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
}

// DefaultMaxDiagnostics caps the diagnostics kept for one unit.
const DefaultMaxDiagnostics = 100

type diagnosticBag struct {
	max     int
	items   []Diagnostic
	dropped int
}

func newDiagnosticBag(max int) *diagnosticBag {
	return &diagnosticBag{max: max}
}

func (b *diagnosticBag) add(d Diagnostic) {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return
	}
	b.items = append(b.items, d)
}

func (b *diagnosticBag) errorf(span ast.Span, format string, args ...any) {
	b.add(Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Line:     span.StartLine,
		Column:   span.StartColumn,
		Severity: SeverityError,
	})
}

// SyntaxError records a parser error. It makes the bag a
// parser.ErrorListener.
func (b *diagnosticBag) SyntaxError(_ string, line, column int, msg string) {
	b.add(Diagnostic{Message: msg, Line: line, Column: column, Severity: SeverityError})
}

// sorted returns the kept diagnostics ordered by position. Diagnostics at
// the same position keep the order they were reported in.
func (b *diagnosticBag) sorted() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	if b.dropped > 0 {
		out = append(out, Diagnostic{
			Message:  fmt.Sprintf("%d more diagnostics not shown", b.dropped),
			Severity: SeverityWarning,
		})
	}
	return out
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
