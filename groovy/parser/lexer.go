package parser

import (
	"unicode"
	"unicode/utf8"
)

type stringStyle int

const (
	styleSingle stringStyle = iota
	styleTripleSingle
	styleDouble
	styleTripleDouble
	styleSlashy
	styleDollarSlashy
)

type lexMode int

const (
	modeGString lexMode = iota
	modeDollar
	modeGStringPath
	modeEmbedded
)

// lexFrame is one level of string interpolation nesting. The lexer keeps a
// stack of them so that strings inside ${...} inside strings work.
type lexFrame struct {
	mode  lexMode
	style stringStyle
	depth int
}

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
	modes  []lexFrame
	last   TokenKind
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
		last:   TokenNewline,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else if ch < utf8.RuneSelf || utf8.RuneStart(ch) {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) top() *lexFrame {
	if len(l.modes) == 0 {
		return nil
	}
	return &l.modes[len(l.modes)-1]
}

func (l *Lexer) push(f lexFrame) {
	l.modes = append(l.modes, f)
}

func (l *Lexer) pop() {
	if len(l.modes) > 0 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	switch tok.Kind {
	case TokenWhitespace, TokenComment, TokenLineComment:
	default:
		l.last = tok.Kind
	}
	return tok
}

func (l *Lexer) nextToken() Token {
	startPos := l.Position()

	if f := l.top(); f != nil {
		switch f.mode {
		case modeGString:
			return l.scanStringBody(startPos, f.style, TokenGStringPart)
		case modeDollar:
			return l.scanDollar(startPos)
		case modeGStringPath:
			if tok, ok := l.scanPathElement(startPos); ok {
				return tok
			}
			l.pop()
			return l.scanStringBody(startPos, l.top().style, TokenGStringPart)
		}
	}

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '#' && l.pos == 0 && l.peekN(1) == '!' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if ch == '\n' {
		l.advance()
		return l.token(TokenNewline, startPos)
	}
	if ch == '\r' && l.peekN(1) == '\n' {
		l.advanceN(2)
		return l.token(TokenNewline, startPos)
	}
	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' {
		return l.scanWhitespace(startPos)
	}
	if ch == '\\' && (l.peekN(1) == '\n' || l.peekN(1) == '\r') {
		// explicit line continuation
		l.advance()
		if l.peek() == '\r' {
			l.advance()
		}
		l.advance()
		return l.token(TokenWhitespace, startPos)
	}

	if ch == '$' && l.peekN(1) == '/' {
		l.advanceN(2)
		return l.scanStringBody(startPos, styleDollarSlashy, TokenGStringBegin)
	}

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	switch ch {
	case '\'':
		if l.peekN(1) == '\'' && l.peekN(2) == '\'' {
			l.advanceN(3)
			return l.scanStringBody(startPos, styleTripleSingle, TokenGStringBegin)
		}
		l.advance()
		return l.scanStringBody(startPos, styleSingle, TokenGStringBegin)
	case '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.scanStringBody(startPos, styleTripleDouble, TokenGStringBegin)
		}
		l.advance()
		return l.scanStringBody(startPos, styleDouble, TokenGStringBegin)
	case '/':
		if l.slashyAllowed() {
			l.advance()
			return l.scanStringBody(startPos, styleSlashy, TokenGStringBegin)
		}
	}

	return l.scanOperator(startPos)
}

// slashyAllowed reports whether a '/' at the current position opens a slashy
// string rather than being a division operator. That depends only on the
// previous significant token.
func (l *Lexer) slashyAllowed() bool {
	switch l.last {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral,
		TokenGStringEnd, TokenTrue, TokenFalse, TokenNull, TokenThis, TokenSuper,
		TokenRParen, TokenRBracket, TokenRBrace, TokenIncrement, TokenDecrement:
		return false
	}
	return true
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\f' || (ch == '\r' && l.peekN(1) != '\n') {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' && !(l.peek() == '\r' && l.peekN(1) == '\n') {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		l.scanIntegerSuffix()
		return l.token(TokenIntLiteral, start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		for l.peek() == '0' || l.peek() == '1' || l.peek() == '_' {
			l.advance()
		}
		l.scanIntegerSuffix()
		return l.token(TokenIntLiteral, start)
	}

	isFloat := false
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	if (l.peek() == 'e' || l.peek() == 'E') &&
		(isDigit(l.peekN(1)) || ((l.peekN(1) == '+' || l.peekN(1) == '-') && isDigit(l.peekN(2)))) {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}

	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		isFloat = true
		l.advance()
	case 'g', 'G':
		l.advance()
	default:
		if !isFloat {
			l.scanIntegerSuffix()
		}
	}

	kind := TokenIntLiteral
	if isFloat {
		kind = TokenFloatLiteral
	}
	return l.token(kind, start)
}

func (l *Lexer) scanIntegerSuffix() {
	switch l.peek() {
	case 'l', 'L', 'i', 'I', 'g', 'G':
		if !isIdentPart(l.peekN(1)) {
			l.advance()
		}
	}
}

// scanStringBody scans string text up to the closing delimiter or the next
// interpolation. kind is TokenGStringBegin when the opening delimiter has just
// been consumed and TokenGStringPart when resuming after an interpolation.
func (l *Lexer) scanStringBody(start Position, style stringStyle, kind TokenKind) Token {
	interpolates := style != styleSingle && style != styleTripleSingle
	for {
		if l.pos >= len(l.input) {
			if kind == TokenGStringPart {
				l.pop()
			}
			return l.token(TokenError, start)
		}
		ch := l.peek()
		switch style {
		case styleSingle, styleDouble:
			if ch == '\n' {
				if kind == TokenGStringPart {
					l.pop()
				}
				return l.token(TokenError, start)
			}
		}
		if l.atCloser(style) {
			l.advanceN(closerLen(style))
			switch kind {
			case TokenGStringBegin:
				return l.token(TokenStringLiteral, start)
			default:
				l.pop()
				return l.token(TokenGStringEnd, start)
			}
		}
		if interpolates && ch == '$' && (l.peekN(1) == '{' || isPathStart(l.peekN(1))) {
			if kind == TokenGStringBegin {
				l.push(lexFrame{mode: modeGString, style: style})
			}
			l.push(lexFrame{mode: modeDollar})
			return l.token(kind, start)
		}
		l.skipStringChar(style)
	}
}

func (l *Lexer) atCloser(style stringStyle) bool {
	switch style {
	case styleSingle:
		return l.peek() == '\''
	case styleTripleSingle:
		return l.peek() == '\'' && l.peekN(1) == '\'' && l.peekN(2) == '\''
	case styleDouble:
		return l.peek() == '"'
	case styleTripleDouble:
		return l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"'
	case styleSlashy:
		return l.peek() == '/'
	case styleDollarSlashy:
		return l.peek() == '/' && l.peekN(1) == '$'
	}
	return false
}

func closerLen(style stringStyle) int {
	switch style {
	case styleTripleSingle, styleTripleDouble:
		return 3
	case styleDollarSlashy:
		return 2
	}
	return 1
}

func (l *Lexer) skipStringChar(style stringStyle) {
	ch := l.peek()
	switch style {
	case styleSlashy:
		if ch == '\\' && l.peekN(1) == '/' {
			l.advanceN(2)
			return
		}
	case styleDollarSlashy:
		if ch == '$' && (l.peekN(1) == '$' || l.peekN(1) == '/') {
			l.advanceN(2)
			return
		}
	default:
		if ch == '\\' && l.peekN(1) != 0 {
			l.advanceN(2)
			return
		}
	}
	l.advance()
}

// scanDollar consumes the '$' that starts an interpolation and switches to
// either embedded-expression or dotted-path mode.
func (l *Lexer) scanDollar(start Position) Token {
	l.advance()
	if l.peek() == '{' {
		l.advance()
		l.top().mode = modeEmbedded
		return l.token(TokenLBrace, start)
	}
	l.top().mode = modeGStringPath
	return l.scanPathIdent(l.Position())
}

func (l *Lexer) scanPathElement(start Position) (Token, bool) {
	if l.peek() == '.' && isPathStart(l.peekN(1)) && l.last != TokenDot {
		l.advance()
		return l.token(TokenDot, start), true
	}
	if l.last == TokenDot && isPathStart(l.peek()) {
		return l.scanPathIdent(start), true
	}
	return Token{}, false
}

func (l *Lexer) scanPathIdent(start Position) Token {
	for isIdentPart(l.peek()) && l.peek() != '$' {
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenIdent,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		if f := l.top(); f != nil && f.mode == modeEmbedded {
			f.depth++
		}
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		if f := l.top(); f != nil && f.mode == modeEmbedded {
			if f.depth == 0 {
				l.pop()
			} else {
				f.depth--
			}
		}
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case '~':
		l.advance()
		return l.token(TokenBitNot, start)

	case '?':
		switch l.peekN(1) {
		case '.':
			l.advanceN(2)
			return l.token(TokenSafeDot, start)
		case ':':
			l.advanceN(2)
			return l.token(TokenElvis, start)
		case '=':
			l.advanceN(2)
			return l.token(TokenElvisAssign, start)
		}
		l.advance()
		return l.token(TokenQuestion, start)

	case '.':
		if l.peekN(1) == '.' {
			if l.peekN(2) == '.' {
				l.advanceN(3)
				return l.token(TokenEllipsis, start)
			}
			if l.peekN(2) == '<' {
				l.advanceN(3)
				return l.token(TokenRangeExclusive, start)
			}
			l.advanceN(2)
			return l.token(TokenRange, start)
		}
		if l.peekN(1) == '@' {
			l.advanceN(2)
			return l.token(TokenAttrDot, start)
		}
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenMethodPointer, start)
		}
		l.advance()
		return l.token(TokenDot, start)

	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start)
		}
		l.advance()
		return l.token(TokenColon, start)

	case '=':
		if l.peekN(1) == '=' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenIdentical, start)
			}
			if l.peekN(2) == '~' {
				l.advanceN(3)
				return l.token(TokenRegexMatch, start)
			}
			l.advanceN(2)
			return l.token(TokenEQ, start)
		}
		if l.peekN(1) == '~' {
			l.advanceN(2)
			return l.token(TokenRegexFind, start)
		}
		l.advance()
		return l.token(TokenAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenNotIdentical, start)
			}
			l.advanceN(2)
			return l.token(TokenNE, start)
		}
		l.advance()
		return l.token(TokenNot, start)

	case '<':
		if l.peekN(1) == '<' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShlAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShl, start)
		}
		if l.peekN(1) == '=' {
			if l.peekN(2) == '>' {
				l.advanceN(3)
				return l.token(TokenSpaceship, start)
			}
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		l.advance()
		return l.token(TokenLT, start)

	case '>':
		// '>' is always emitted on its own so that nested generic closers
		// need no splitting; the parser reassembles shift operators.
		if l.peekN(1) == '>' && l.peekN(2) == '>' && l.peekN(3) == '=' {
			l.advanceN(4)
			return l.token(TokenUShrAssign, start)
		}
		if l.peekN(1) == '>' && l.peekN(2) == '=' {
			l.advanceN(3)
			return l.token(TokenShrAssign, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenAndAssign, start)
		}
		l.advance()
		return l.token(TokenBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOrAssign, start)
		}
		l.advance()
		return l.token(TokenBitOr, start)

	case '^':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenXorAssign, start)
		}
		l.advance()
		return l.token(TokenBitXor, start)

	case '+':
		if l.peekN(1) == '+' {
			l.advanceN(2)
			return l.token(TokenIncrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenPlusAssign, start)
		}
		l.advance()
		return l.token(TokenPlus, start)

	case '-':
		if l.peekN(1) == '-' {
			l.advanceN(2)
			return l.token(TokenDecrement, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenMinusAssign, start)
		}
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		l.advance()
		return l.token(TokenMinus, start)

	case '*':
		if l.peekN(1) == '*' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenPowerAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenPower, start)
		}
		if l.peekN(1) == '.' {
			l.advanceN(2)
			return l.token(TokenSpreadDot, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenStarAssign, start)
		}
		l.advance()
		return l.token(TokenStar, start)

	case '/':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenSlashAssign, start)
		}
		l.advance()
		return l.token(TokenSlash, start)

	case '%':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenPercentAssign, start)
		}
		l.advance()
		return l.token(TokenPercent, start)
	}

	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	if ch >= utf8.RuneSelf {
		return true
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentPart(ch byte) bool {
	return ch != 0 && (isIdentStart(ch) || isDigit(ch))
}

// isPathStart reports whether ch can begin an identifier referenced from a
// GString with the $name form.
func isPathStart(ch byte) bool {
	if ch >= utf8.RuneSelf {
		return true
	}
	return ch != '$' && isIdentStart(ch)
}

// IsIdentifier reports whether s is a valid Groovy identifier that is not a
// keyword.
func IsIdentifier(s string) bool {
	if s == "" || LookupKeyword(s) != TokenIdent {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
