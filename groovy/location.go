package groovy

import (
	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

func spanOf(n *parser.Node) ast.Span {
	if n == nil {
		return ast.Span{}
	}
	return spanFromParser(n.Span)
}

func spanFromParser(s parser.Span) ast.Span {
	return ast.Span{
		StartLine:   s.Start.Line,
		StartColumn: s.Start.Column,
		EndLine:     s.End.Line,
		EndColumn:   s.End.Column,
	}
}

// configure copies the span of a syntax node onto an AST node and returns
// the AST node.
func configure[T ast.Node](node T, from *parser.Node) T {
	node.SetSpan(spanOf(from))
	return node
}

// configureRange gives node the span from the start of first to the end of
// last.
func configureRange[T ast.Node](node T, first, last *parser.Node) T {
	node.SetSpan(rangeOf(first, last))
	return node
}

func rangeOf(first, last *parser.Node) ast.Span {
	a, b := spanOf(first), spanOf(last)
	return ast.Span{
		StartLine:   a.StartLine,
		StartColumn: a.StartColumn,
		EndLine:     b.EndLine,
		EndColumn:   b.EndColumn,
	}
}

// withSpan sets an explicit span.
func withSpan[T ast.Node](node T, span ast.Span) T {
	node.SetSpan(span)
	return node
}
