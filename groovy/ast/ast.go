// Package ast defines the abstract syntax tree produced for a Groovy
// compilation unit: the module, its classes and members, statements and
// expressions.
//
// Every node carries a Span. Spans are 1-based and the end column is
// exclusive. A node's span encloses the spans of all nodes reachable from it
// through Walk; synthesized nodes borrow the span of the construct they were
// derived from.
package ast

import "fmt"

type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}

// Encloses reports whether o lies within s. A zero span carries no location
// and is enclosed by anything.
func (s Span) Encloses(o Span) bool {
	if o.IsZero() {
		return true
	}
	if s.IsZero() {
		return false
	}
	if o.StartLine < s.StartLine || (o.StartLine == s.StartLine && o.StartColumn < s.StartColumn) {
		return false
	}
	if o.EndLine > s.EndLine || (o.EndLine == s.EndLine && o.EndColumn > s.EndColumn) {
		return false
	}
	return true
}

// Cover returns the smallest span enclosing all non-zero spans given.
func Cover(spans ...Span) Span {
	var out Span
	for _, s := range spans {
		if s.IsZero() {
			continue
		}
		if out.IsZero() {
			out = s
			continue
		}
		if s.StartLine < out.StartLine || (s.StartLine == out.StartLine && s.StartColumn < out.StartColumn) {
			out.StartLine, out.StartColumn = s.StartLine, s.StartColumn
		}
		if s.EndLine > out.EndLine || (s.EndLine == out.EndLine && s.EndColumn > out.EndColumn) {
			out.EndLine, out.EndColumn = s.EndLine, s.EndColumn
		}
	}
	return out
}

// Node is implemented by every AST node.
type Node interface {
	Span() Span
	SetSpan(Span)
}

// Located is embedded by every node to carry its source span.
type Located struct {
	Loc Span
}

func (l *Located) Span() Span {
	return l.Loc
}

func (l *Located) SetSpan(s Span) {
	l.Loc = s
}

// Expr is implemented by expression nodes only.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes only.
type Stmt interface {
	Node
	Labels() []string
	AddLabel(label string)
	stmtNode()
}

// StmtBase is embedded by every statement. Statement labels are kept on the
// labeled statement itself rather than in a wrapper node.
type StmtBase struct {
	Located
	StatementLabels []string
}

func (s *StmtBase) Labels() []string {
	return s.StatementLabels
}

func (s *StmtBase) AddLabel(label string) {
	s.StatementLabels = append(s.StatementLabels, label)
}

func (*StmtBase) stmtNode() {}
