package parser

import "testing"

func lexKinds(input string) []TokenKind {
	lexer := NewLexer([]byte(input), "test.groovy")
	var got []TokenKind
	for {
		tok := lexer.NextToken()
		if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
			got = append(got, tok.Kind)
		}
		if tok.Kind == TokenEOF {
			return got
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"def x = 1", []TokenKind{TokenDef, TokenIdent, TokenAssign, TokenIntLiteral, TokenEOF}},
		{"3.14", []TokenKind{TokenFloatLiteral, TokenEOF}},
		{"1..2", []TokenKind{TokenIntLiteral, TokenRange, TokenIntLiteral, TokenEOF}},
		{"1..<2", []TokenKind{TokenIntLiteral, TokenRangeExclusive, TokenIntLiteral, TokenEOF}},
		{"x\ny", []TokenKind{TokenIdent, TokenNewline, TokenIdent, TokenEOF}},
		{"x\r\ny", []TokenKind{TokenIdent, TokenNewline, TokenIdent, TokenEOF}},
		{"x \\\n+ y", []TokenKind{TokenIdent, TokenPlus, TokenIdent, TokenEOF}},
		{"#!/usr/bin/env groovy\nx", []TokenKind{TokenNewline, TokenIdent, TokenEOF}},
		{"a >> b", []TokenKind{TokenIdent, TokenGT, TokenGT, TokenIdent, TokenEOF}},
		{"a >>> b", []TokenKind{TokenIdent, TokenGT, TokenGT, TokenGT, TokenIdent, TokenEOF}},
		{"a >>= b", []TokenKind{TokenIdent, TokenShrAssign, TokenIdent, TokenEOF}},
		{"a >>>= b", []TokenKind{TokenIdent, TokenUShrAssign, TokenIdent, TokenEOF}},
		{"a >= b", []TokenKind{TokenIdent, TokenGE, TokenIdent, TokenEOF}},
		{"List<List<String>>", []TokenKind{TokenIdent, TokenLT, TokenIdent, TokenLT, TokenIdent, TokenGT, TokenGT, TokenEOF}},
		{"a?.b", []TokenKind{TokenIdent, TokenSafeDot, TokenIdent, TokenEOF}},
		{"a*.b", []TokenKind{TokenIdent, TokenSpreadDot, TokenIdent, TokenEOF}},
		{"a.@b", []TokenKind{TokenIdent, TokenAttrDot, TokenIdent, TokenEOF}},
		{"a.&b", []TokenKind{TokenIdent, TokenMethodPointer, TokenIdent, TokenEOF}},
		{"a ?: b", []TokenKind{TokenIdent, TokenElvis, TokenIdent, TokenEOF}},
		{"a <=> b", []TokenKind{TokenIdent, TokenSpaceship, TokenIdent, TokenEOF}},
		{"a =~ b ==~ c", []TokenKind{TokenIdent, TokenRegexFind, TokenIdent, TokenRegexMatch, TokenIdent, TokenEOF}},
		{"a === b !== c", []TokenKind{TokenIdent, TokenIdentical, TokenIdent, TokenNotIdentical, TokenIdent, TokenEOF}},
		{"a ** b **= c", []TokenKind{TokenIdent, TokenPower, TokenIdent, TokenPowerAssign, TokenIdent, TokenEOF}},
		{"x -> x", []TokenKind{TokenIdent, TokenArrow, TokenIdent, TokenEOF}},
		{"a / b", []TokenKind{TokenIdent, TokenSlash, TokenIdent, TokenEOF}},
		{"x = /a+b/", []TokenKind{TokenIdent, TokenAssign, TokenStringLiteral, TokenEOF}},
		{"$/a$$b/$", []TokenKind{TokenStringLiteral, TokenEOF}},
		{"'$a'", []TokenKind{TokenStringLiteral, TokenEOF}},
		{`"""x"""`, []TokenKind{TokenStringLiteral, TokenEOF}},
		{`"a ${x} b"`, []TokenKind{TokenGStringBegin, TokenLBrace, TokenIdent, TokenRBrace, TokenGStringEnd, TokenEOF}},
		{`"$a.b"`, []TokenKind{TokenGStringBegin, TokenIdent, TokenDot, TokenIdent, TokenGStringEnd, TokenEOF}},
		{`"${a}${b}"`, []TokenKind{TokenGStringBegin, TokenLBrace, TokenIdent, TokenRBrace, TokenGStringPart, TokenLBrace, TokenIdent, TokenRBrace, TokenGStringEnd, TokenEOF}},
		{`"${ [a: {}] }"`, []TokenKind{TokenGStringBegin, TokenLBrace, TokenLBracket, TokenIdent, TokenColon, TokenLBrace, TokenRBrace, TokenRBracket, TokenRBrace, TokenGStringEnd, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := lexKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("def é = 1\n  x"), "test.groovy")
	var toks []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Kind != TokenWhitespace {
			toks = append(toks, tok)
		}
	}

	tests := []struct {
		literal string
		line    int
		column  int
	}{
		{"def", 1, 1},
		{"é", 1, 5},
		{"=", 1, 7},
		{"1", 1, 9},
		{"\n", 1, 10},
		{"x", 2, 3},
	}
	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(tests))
	}
	for i, tt := range tests {
		tok := toks[i]
		if tok.Literal != tt.literal {
			t.Errorf("token %d: literal %q, want %q", i, tok.Literal, tt.literal)
		}
		if tok.Span.Start.Line != tt.line || tok.Span.Start.Column != tt.column {
			t.Errorf("token %q: got %d:%d, want %d:%d", tok.Literal, tok.Span.Start.Line, tok.Span.Start.Column, tt.line, tt.column)
		}
	}
}

func TestLexerGStringLiterals(t *testing.T) {
	lexer := NewLexer([]byte(`"a ${x} b $y"`), "test.groovy")
	var literals []string
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		literals = append(literals, tok.Literal)
	}

	want := []string{`"a `, "${", "x", "}", " b ", "y", `"`}
	if len(literals) != len(want) {
		t.Fatalf("got %q, want %q", literals, want)
	}
	for i := range want {
		if literals[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, literals[i], want[i])
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"foo", true},
		{"_x1", true},
		{"$y", true},
		{"1x", false},
		{"", false},
		{"a-b", false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.input); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
