package parser

import (
	"errors"
	"fmt"
	"io"
)

// FastLookahead is the number of tokens a decision may inspect in
// PredictionFast mode before it is treated as ambiguous.
const FastLookahead = 8

type PredictionMode int

const (
	// PredictionFull lets speculative decisions scan as far as they need.
	PredictionFull PredictionMode = iota
	// PredictionFast bounds every speculative decision to FastLookahead
	// tokens.
	PredictionFast
)

func (m PredictionMode) String() string {
	if m == PredictionFast {
		return "fast"
	}
	return "full"
}

// ErrParseCancelled is returned by Finish when the error strategy gave up on
// the first syntax error or ambiguity.
var ErrParseCancelled = errors.New("parse cancelled")

type SyntaxError struct {
	Message   string
	Pos       Position
	Got       Token
	Ambiguity bool
}

func (e *SyntaxError) Error() string {
	if e.Pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// ErrorListener receives syntax errors reported by RecoveringErrorStrategy.
type ErrorListener interface {
	SyntaxError(file string, line, column int, msg string)
}

type ErrorListenerFunc func(file string, line, column int, msg string)

func (f ErrorListenerFunc) SyntaxError(file string, line, column int, msg string) {
	f(file, line, column, msg)
}

// ErrorStrategy decides what happens on a syntax error. A non-nil return
// aborts the parse and is returned from Finish.
type ErrorStrategy interface {
	Report(p *Parser, err *SyntaxError) error
}

// BailErrorStrategy cancels the parse on the first problem.
type BailErrorStrategy struct{}

func (BailErrorStrategy) Report(_ *Parser, err *SyntaxError) error {
	return fmt.Errorf("%w: %w", ErrParseCancelled, err)
}

// RecoveringErrorStrategy forwards syntax errors to the registered listeners
// and lets the parser resynchronize. Ambiguities are ignored.
type RecoveringErrorStrategy struct{}

func (RecoveringErrorStrategy) Report(p *Parser, err *SyntaxError) error {
	if err.Ambiguity {
		return nil
	}
	for _, l := range p.listeners {
		l.SyntaxError(err.Pos.File, err.Pos.Line, err.Pos.Column, err.Message)
	}
	return nil
}

type bailout struct {
	err error
}

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPredictionMode(m PredictionMode) Option {
	return func(p *Parser) {
		p.mode = m
	}
}

func WithErrorStrategy(s ErrorStrategy) Option {
	return func(p *Parser) {
		p.strategy = s
	}
}

func WithErrorListener(l ErrorListener) Option {
	return func(p *Parser) {
		p.listeners = append(p.listeners, l)
	}
}

type parseFunc func(*Parser) *Node

type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	lexer           *Lexer
	tokens          []Token
	comments        []Token
	pos             int
	far             int
	entry           parseFunc

	mode        PredictionMode
	strategy    ErrorStrategy
	listeners   []ErrorListener
	speculating int
	recovering  bool
	errCount    int
}

func (p *Parser) Comments() []Token {
	return p.comments
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseCompilationUnit, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseStandaloneExpression, opts)
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		reader:   r,
		entry:    entry,
		strategy: RecoveringErrorStrategy{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) SetPredictionMode(m PredictionMode) {
	p.mode = m
}

func (p *Parser) PredictionMode() PredictionMode {
	return p.mode
}

func (p *Parser) SetErrorStrategy(s ErrorStrategy) {
	p.strategy = s
}

func (p *Parser) AddErrorListener(l ErrorListener) {
	p.listeners = append(p.listeners, l)
}

func (p *Parser) RemoveErrorListeners() {
	p.listeners = nil
}

// ErrorCount returns the number of syntax errors reported by the last call
// to Finish.
func (p *Parser) ErrorCount() int {
	return p.errCount
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

// Finish parses the whole input and returns the root node. With
// BailErrorStrategy the first syntax error aborts the parse and the returned
// error wraps ErrParseCancelled.
func (p *Parser) Finish() (node *Node, err error) {
	if err := p.readAll(); err != nil {
		return nil, err
	}
	if p.tokens == nil {
		p.lexer = NewLexer(p.input, p.file)
		p.tokenize()
	}
	p.Reset()

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			node, err = nil, b.err
		}
	}()
	return p.entry(p), nil
}

// Reset rewinds the parser to the first token so the same input can be
// parsed again, typically after switching prediction mode or error strategy.
func (p *Parser) Reset() {
	p.pos = 0
	p.far = 0
	p.speculating = 0
	p.recovering = false
	p.errCount = 0
}

// tokenize drops whitespace and comments and the newlines that cannot end a
// statement: those inside parentheses or brackets, and runs of blank lines.
func (p *Parser) tokenize() {
	var nesting []TokenKind
	for {
		tok := p.lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		case TokenNewline:
			if n := len(nesting); n > 0 && nesting[n-1] != TokenLBrace {
				continue
			}
			if n := len(p.tokens); n == 0 || p.tokens[n-1].Kind == TokenNewline {
				continue
			}
		case TokenLParen, TokenLBracket, TokenLBrace:
			nesting = append(nesting, tok.Kind)
		case TokenRParen, TokenRBracket, TokenRBrace:
			if n := len(nesting); n > 0 {
				nesting = nesting[:n-1]
			}
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) eof() Token {
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return Token{Kind: TokenEOF}
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
		if p.pos > p.far {
			p.far = p.pos
		}
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		p.recovering = false
		return &tok
	}
	p.syntaxError(fmt.Sprintf("expected %s, got %s", describe(kind), describeToken(tok)), tok)
	return nil
}

func (p *Parser) expectIdentifier() *Token {
	if p.check(TokenIdent) || p.isSoftKeyword() {
		tok := p.advance()
		p.recovering = false
		return &tok
	}
	tok := p.peek()
	p.syntaxError("expected identifier, got "+describeToken(tok), tok)
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// isSoftKeyword reports whether the current token is a keyword that may still
// be used as a plain identifier.
func (p *Parser) isSoftKeyword() bool {
	return p.check(TokenTrait)
}

func (p *Parser) isIdentifierLike() bool {
	return p.check(TokenIdent) || p.isSoftKeyword()
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

// nls skips newline tokens.
func (p *Parser) nls() {
	for p.check(TokenNewline) {
		p.advance()
	}
}

// nlsInto skips newline tokens, recording them as layout children of n.
func (p *Parser) nlsInto(n *Node) {
	for p.check(TokenNewline) {
		tok := p.advance()
		n.AddChild(&Node{Kind: KindNewline, Token: &tok, Span: tok.Span})
	}
}

// sep consumes a statement separator. A closing brace or end of input also
// terminates a statement but is left in place.
func (p *Parser) sep() {
	switch p.peek().Kind {
	case TokenSemicolon, TokenNewline:
		for p.match(TokenSemicolon, TokenNewline) {
			p.advance()
		}
		p.recovering = false
	case TokenRBrace, TokenEOF:
	default:
		tok := p.peek()
		p.syntaxError("unexpected "+describeToken(tok), tok)
		p.recoverTo([]TokenKind{TokenNewline, TokenSemicolon, TokenRBrace})
		for p.match(TokenSemicolon, TokenNewline) {
			p.advance()
		}
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// startNodeAt starts a node whose span begins with first.
func (p *Parser) startNodeAt(kind NodeKind, first *Node) *Node {
	n := &Node{Kind: kind, Span: Span{Start: first.Span.Start}}
	n.AddChild(first)
	return n
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		end := p.tokens[p.pos-1].Span.End
		if end.Offset >= n.Span.Start.Offset {
			n.Span.End = end
		} else {
			n.Span.End = n.Span.Start
		}
	} else {
		n.Span.End = n.Span.Start
	}
	return n
}

func (p *Parser) tokenNode(kind NodeKind) *Node {
	tok := p.advance()
	p.recovering = false
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.syntaxError(msg, tok)
	p.recoverTo(recoverTo)
	return node
}

// recoverTo skips tokens until one of kinds at the current nesting depth, or
// an unbalanced closing bracket. The offending token is consumed unless it
// is itself a synchronization point.
func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) && !p.match(kinds...) && !p.match(TokenRParen, TokenRBracket, TokenRBrace) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	depth := 0
	for !p.check(TokenEOF) {
		if depth == 0 {
			for _, kind := range kinds {
				if p.check(kind) {
					return
				}
			}
		}
		switch p.peek().Kind {
		case TokenLParen, TokenLBracket, TokenLBrace:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// syntaxError hands a problem at tok to the error strategy. Errors raised
// while speculating are ignored, and only the first error of a run is
// reported until the parser consumes an expected token again.
func (p *Parser) syntaxError(msg string, tok Token) {
	if p.speculating > 0 {
		return
	}
	if p.recovering {
		return
	}
	p.recovering = true
	p.errCount++
	p.raise(&SyntaxError{Message: msg, Pos: tok.Span.Start, Got: tok})
}

func (p *Parser) raise(e *SyntaxError) {
	if p.strategy == nil {
		return
	}
	if err := p.strategy.Report(p, e); err != nil {
		panic(bailout{err: err})
	}
}

// speculate runs fn and restores the input position afterwards. In
// PredictionFast mode a decision that had to look further than FastLookahead
// tokens is raised as an ambiguity.
func (p *Parser) speculate(what string, fn func() bool) bool {
	save, outerFar, recovering := p.pos, p.far, p.recovering
	p.far = p.pos
	p.speculating++
	ok := fn()
	p.speculating--
	reach := p.far - save
	p.pos, p.recovering = save, recovering
	if outerFar > p.far {
		p.far = outerFar
	}
	if p.mode == PredictionFast && reach > FastLookahead && p.speculating == 0 {
		tok := p.peek()
		p.raise(&SyntaxError{
			Message:   fmt.Sprintf("%s needs %d tokens of lookahead", what, reach),
			Pos:       tok.Span.Start,
			Got:       tok,
			Ambiguity: true,
		})
	}
	return ok
}

func describe(kind TokenKind) string {
	switch kind {
	case TokenIdent, TokenEOF, TokenNewline:
		return kind.String()
	}
	return "'" + kind.String() + "'"
}

func describeToken(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of input"
	case TokenNewline:
		return "newline"
	case TokenError:
		return fmt.Sprintf("invalid input %q", tok.Literal)
	}
	return fmt.Sprintf("'%s'", tok.Literal)
}
