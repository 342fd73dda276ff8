package parser

var exprSync = []TokenKind{TokenNewline, TokenSemicolon, TokenRBrace, TokenComma}

func (p *Parser) parseExpression() *Node {
	return p.parseAssignExpr()
}

func isAssignOperator(kind TokenKind) bool {
	switch kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign, TokenPercentAssign, TokenPowerAssign, TokenAndAssign,
		TokenOrAssign, TokenXorAssign, TokenShlAssign, TokenShrAssign,
		TokenUShrAssign, TokenElvisAssign:
		return true
	}
	return false
}

// parseAssignExpr parses right-associative assignment.
func (p *Parser) parseAssignExpr() *Node {
	left := p.parseTernaryExpr()
	if !isAssignOperator(p.peek().Kind) {
		return left
	}
	node := p.startNodeAt(KindAssignExpr, left)
	node.AddChild(p.tokenNode(KindOperator))
	p.nlsInto(node)
	node.AddChild(p.parseAssignExpr())
	return p.finishNode(node)
}

func (p *Parser) parseTernaryExpr() *Node {
	cond := p.parseBinaryExpr(levelOr)

	switch {
	case p.check(TokenQuestion):
		node := p.startNodeAt(KindTernaryExpr, cond)
		p.advance()
		p.nls()
		node.AddChild(p.parseTernaryExpr())
		p.nlsBefore(TokenColon)
		p.expect(TokenColon)
		p.nls()
		node.AddChild(p.parseTernaryExpr())
		return p.finishNode(node)
	case p.check(TokenElvis):
		node := p.startNodeAt(KindElvisExpr, cond)
		p.advance()
		p.nls()
		node.AddChild(p.parseTernaryExpr())
		return p.finishNode(node)
	}
	return cond
}

const (
	levelOr = iota
	levelAnd
	levelBitOr
	levelBitXor
	levelBitAnd
	levelEquality
	levelRelational
	levelShift
	levelAdditive
	levelMultiplicative
	levelUnary
)

var binaryLevels = [levelUnary][]TokenKind{
	levelOr:             {TokenOr},
	levelAnd:            {TokenAnd},
	levelBitOr:          {TokenBitOr},
	levelBitXor:         {TokenBitXor},
	levelBitAnd:         {TokenBitAnd},
	levelEquality:       {TokenEQ, TokenNE, TokenIdentical, TokenNotIdentical, TokenSpaceship, TokenRegexFind, TokenRegexMatch},
	levelRelational:     {TokenLT, TokenLE, TokenGT, TokenGE, TokenIn, TokenInstanceof, TokenAs},
	levelShift:          {TokenShl, TokenRange, TokenRangeExclusive},
	levelAdditive:       {TokenPlus, TokenMinus},
	levelMultiplicative: {TokenStar, TokenSlash, TokenPercent},
}

// adjacent reports whether the tokens at offsets i and j touch with no
// whitespace between them.
func (p *Parser) adjacent(i, j int) bool {
	return p.peekN(i).Span.End.Offset == p.peekN(j).Span.Start.Offset
}

// binaryOperator returns how many tokens form a binary operator of the given
// level at the current position, or 0. Right shifts arrive as runs of
// adjacent '>' tokens because the lexer never merges them.
func (p *Parser) binaryOperator(level int) int {
	switch level {
	case levelShift:
		if p.check(TokenGT) && p.peekN(1).Kind == TokenGT && p.adjacent(0, 1) {
			if p.peekN(2).Kind == TokenGT && p.adjacent(1, 2) {
				return 3
			}
			return 2
		}
	case levelRelational:
		if p.check(TokenNot) && p.adjacent(0, 1) {
			if next := p.peekN(1).Kind; next == TokenIn || next == TokenInstanceof {
				return 2
			}
		}
		if p.check(TokenGT) && p.peekN(1).Kind == TokenGT && p.adjacent(0, 1) {
			return 0
		}
	}
	if p.match(binaryLevels[level]...) {
		return 1
	}
	return 0
}

func (p *Parser) parseBinaryExpr(level int) *Node {
	if level == levelUnary {
		return p.parseUnaryAddExpr()
	}

	left := p.parseBinaryExpr(level + 1)
	for {
		n := p.binaryOperator(level)
		if n == 0 {
			return left
		}
		kind := KindBinaryExpr
		switch p.peekN(n - 1).Kind {
		case TokenInstanceof:
			kind = KindInstanceofExpr
		case TokenAs:
			kind = KindAsExpr
		}

		node := p.startNodeAt(kind, left)
		for i := 0; i < n; i++ {
			node.AddChild(p.tokenNode(KindOperator))
		}
		p.nlsInto(node)
		if kind == KindBinaryExpr {
			node.AddChild(p.parseBinaryExpr(level + 1))
		} else {
			node.AddChild(p.parseType())
		}
		left = p.finishNode(node)
	}
}

func (p *Parser) parseUnaryAddExpr() *Node {
	if p.match(TokenPlus, TokenMinus, TokenIncrement, TokenDecrement) {
		node := p.startNode(KindUnaryExpr)
		node.AddChild(p.tokenNode(KindOperator))
		node.AddChild(p.parseUnaryAddExpr())
		return p.finishNode(node)
	}
	return p.parsePowerExpr()
}

// parsePowerExpr parses left-associative '**'. It binds tighter than a
// leading sign, so -2 ** 2 negates the power.
func (p *Parser) parsePowerExpr() *Node {
	left := p.parseUnaryNotExpr()
	for p.check(TokenPower) {
		node := p.startNodeAt(KindBinaryExpr, left)
		node.AddChild(p.tokenNode(KindOperator))
		p.nlsInto(node)
		node.AddChild(p.parsePrefixOperand())
		left = p.finishNode(node)
	}
	return left
}

// parsePrefixOperand parses the operand of a prefix operator, which may
// itself start with a sign.
func (p *Parser) parsePrefixOperand() *Node {
	if p.match(TokenPlus, TokenMinus, TokenIncrement, TokenDecrement) {
		node := p.startNode(KindUnaryExpr)
		node.AddChild(p.tokenNode(KindOperator))
		node.AddChild(p.parsePrefixOperand())
		return p.finishNode(node)
	}
	return p.parseUnaryNotExpr()
}

func (p *Parser) parseUnaryNotExpr() *Node {
	if p.match(TokenNot, TokenBitNot) {
		node := p.startNode(KindUnaryExpr)
		node.AddChild(p.tokenNode(KindOperator))
		node.AddChild(p.parsePrefixOperand())
		return p.finishNode(node)
	}
	if p.check(TokenLParen) && p.isCast() {
		node := p.startNode(KindCastExpr)
		p.advance()
		node.AddChild(p.parseType())
		p.expect(TokenRParen)
		node.AddChild(p.parsePrefixOperand())
		return p.finishNode(node)
	}
	return p.parsePostfixExpr()
}

// isCast reports whether a parenthesized type followed by an operand starts
// here. A sign only starts the operand of a primitive cast, so (a) - b stays
// a subtraction.
func (p *Parser) isCast() bool {
	return p.speculate("cast", func() bool {
		p.advance()
		if !p.isTypeStart() || p.check(TokenAt) {
			return false
		}
		typ := p.parseType()
		if !p.check(TokenRParen) || !TypeLooksDeclared(typ) {
			return false
		}
		p.advance()
		switch p.peek().Kind {
		case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral,
			TokenGStringBegin, TokenTrue, TokenFalse, TokenNull, TokenThis,
			TokenSuper, TokenNew, TokenLParen, TokenNot, TokenBitNot:
			return true
		case TokenPlus, TokenMinus, TokenIncrement, TokenDecrement:
			first := typ.Children[0]
			return first.Kind == KindIdentifier && first.Token != nil && first.Token.Kind.IsPrimitive()
		}
		return false
	})
}

func isNavigation(kind TokenKind) bool {
	switch kind {
	case TokenDot, TokenSafeDot, TokenSpreadDot, TokenAttrDot, TokenMethodPointer, TokenColonColon:
		return true
	}
	return false
}

// parsePostfixExpr parses member access, calls, indexing, trailing closures
// and postfix increments. A member access may continue on the next line.
func (p *Parser) parsePostfixExpr() *Node {
	expr := p.parsePrimary()

	for {
		p.nlsBefore(TokenDot, TokenSafeDot, TokenSpreadDot, TokenAttrDot, TokenMethodPointer, TokenColonColon)

		switch kind := p.peek().Kind; {
		case kind == TokenMethodPointer || kind == TokenColonColon:
			node := p.startNodeAt(KindMethodPointer, expr)
			node.AddChild(p.tokenNode(KindOperator))
			p.nls()
			node.AddChild(p.parseMemberName())
			expr = p.finishNode(node)

		case isNavigation(kind):
			node := p.startNodeAt(KindPropertyExpr, expr)
			node.AddChild(p.tokenNode(KindOperator))
			p.nls()
			node.AddChild(p.parseMemberName())
			expr = p.finishNode(node)

		case kind == TokenLParen:
			if expr.Kind == KindLiteral || expr.Kind == KindError {
				return expr
			}
			node := p.startNodeAt(KindCallExpr, expr)
			node.AddChild(p.parseArguments())
			expr = p.finishNode(node)

		case kind == TokenLBracket:
			if expr.Kind == KindError {
				return expr
			}
			expr = p.parseIndex(expr)

		case kind == TokenLBrace:
			switch expr.Kind {
			case KindCallExpr:
				expr.AddChild(p.parseClosure())
				expr = p.finishNode(expr)
			case KindIdentifier, KindPropertyExpr:
				node := p.startNodeAt(KindCallExpr, expr)
				node.AddChild(p.parseClosure())
				expr = p.finishNode(node)
			default:
				return expr
			}

		case kind == TokenIncrement || kind == TokenDecrement:
			node := p.startNodeAt(KindPostfixExpr, expr)
			node.AddChild(p.tokenNode(KindOperator))
			expr = p.finishNode(node)

		default:
			return expr
		}
	}
}

// parseMemberName reads the name after a navigation operator: an
// identifier or keyword, a quoted name, or an interpolated name.
func (p *Parser) parseMemberName() *Node {
	switch kind := p.peek().Kind; {
	case kind == TokenStringLiteral:
		return p.tokenNode(KindLiteral)
	case kind == TokenGStringBegin:
		return p.parseGString()
	case kind == TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		return p.finishNode(node)
	case isNameToken(kind):
		return p.tokenNode(KindIdentifier)
	}
	return p.errorNode("expected member name, got "+describeToken(p.peek()), exprSync)
}

func (p *Parser) parseIndex(target *Node) *Node {
	node := p.startNodeAt(KindIndexExpr, target)
	p.expect(TokenLBracket)
	for !p.check(TokenRBracket) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseArgument())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRBracket)
	return p.finishNode(node)
}

// parseArguments parses a parenthesized argument list. The node's token is
// the opening parenthesis; command expressions build Arguments without one.
func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	node.Token = p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseArgument())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseArgument parses one element of an argument, index or collection
// list: a named entry, a spread, a spread map or a plain expression.
func (p *Parser) parseArgument() *Node {
	switch {
	case p.check(TokenStar) && p.peekN(1).Kind == TokenColon:
		node := p.startNode(KindSpreadMapExpr)
		p.advance()
		p.advance()
		node.AddChild(p.parseTernaryExpr())
		return p.finishNode(node)
	case p.check(TokenStar):
		node := p.startNode(KindSpreadExpr)
		p.advance()
		node.AddChild(p.parseTernaryExpr())
		return p.finishNode(node)
	case p.isMapEntryStart():
		node := p.startNode(KindMapEntry)
		node.AddChild(p.parseMapKey())
		p.expect(TokenColon)
		p.nls()
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	}
	return p.parseExpression()
}

func (p *Parser) isMapEntryStart() bool {
	switch kind := p.peek().Kind; {
	case kind == TokenIntLiteral, kind == TokenFloatLiteral, kind == TokenStringLiteral, isNameToken(kind):
		return p.peekN(1).Kind == TokenColon
	case kind == TokenGStringBegin, kind == TokenLParen:
		return p.speculate("map key", func() bool {
			p.parseMapKey()
			return p.check(TokenColon)
		})
	}
	return false
}

func (p *Parser) parseMapKey() *Node {
	switch kind := p.peek().Kind; {
	case kind == TokenIntLiteral, kind == TokenFloatLiteral, kind == TokenStringLiteral:
		return p.tokenNode(KindLiteral)
	case kind == TokenGStringBegin:
		return p.parseGString()
	case kind == TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		return p.finishNode(node)
	}
	return p.tokenNode(KindIdentifier)
}

func (p *Parser) parsePrimary() *Node {
	switch kind := p.peek().Kind; {
	case kind == TokenIdent || p.isSoftKeyword() || kind.IsPrimitive():
		return p.tokenNode(KindIdentifier)
	case kind == TokenIntLiteral, kind == TokenFloatLiteral, kind == TokenStringLiteral,
		kind == TokenTrue, kind == TokenFalse, kind == TokenNull:
		return p.tokenNode(KindLiteral)
	case kind == TokenGStringBegin:
		return p.parseGString()
	case kind == TokenThis:
		return p.tokenNode(KindThis)
	case kind == TokenSuper:
		return p.tokenNode(KindSuper)
	case kind == TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		return p.finishNode(node)
	case kind == TokenLBracket:
		return p.parseListOrMap()
	case kind == TokenLBrace:
		return p.parseClosure()
	case kind == TokenNew:
		return p.parseNew()
	}
	return p.errorNode("expected expression, got "+describeToken(p.peek()), exprSync)
}

// parseListOrMap parses [a, b], [k: v] and the empty map [:]. The first
// element decides between a list and a map.
func (p *Parser) parseListOrMap() *Node {
	node := p.startNode(KindListExpr)
	p.expect(TokenLBracket)

	if p.check(TokenColon) && p.peekN(1).Kind == TokenRBracket {
		node.Kind = KindMapExpr
		p.advance()
		p.advance()
		return p.finishNode(node)
	}

	first := true
	for !p.check(TokenRBracket) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		elem := p.parseArgument()
		if first && (elem.Kind == KindMapEntry || elem.Kind == KindSpreadMapExpr) {
			node.Kind = KindMapExpr
		}
		first = false
		node.AddChild(elem)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	p.expect(TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseClosure() *Node {
	node := p.startNode(KindClosureExpr)
	p.expect(TokenLBrace)
	p.nls()

	if p.isClosureParams() {
		node.AddChild(p.parseClosureParameters())
		p.expect(TokenArrow)
	}

	body := p.startNode(KindBlock)
	p.parseStatementsInto(body)
	p.expect(TokenRBrace)
	node.AddChild(p.finishNode(body))
	return p.finishNode(node)
}

// isClosureParams reports whether the tokens after an opening brace are a
// parameter list terminated by '->'. Only tokens that can occur in a
// parameter list are scanned.
func (p *Parser) isClosureParams() bool {
	if p.check(TokenArrow) {
		return true
	}
	return p.speculate("closure parameters", func() bool {
		for {
			kind := p.peek().Kind
			switch {
			case kind == TokenArrow:
				return true
			case kind == TokenIdent, kind.IsPrimitive(), kind.IsModifier(), p.isSoftKeyword():
			case kind == TokenComma, kind == TokenDot, kind == TokenLT, kind == TokenGT,
				kind == TokenQuestion, kind == TokenLBracket, kind == TokenRBracket,
				kind == TokenAt, kind == TokenEllipsis, kind == TokenBitAnd,
				kind == TokenExtends, kind == TokenSuper:
			default:
				return false
			}
			p.advance()
		}
	})
}

func (p *Parser) parseClosureParameters() *Node {
	node := p.startNode(KindParameters)
	for !p.check(TokenArrow) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

// parseGString parses an interpolated string: text segments alternating
// with $name.path references and ${...} blocks.
func (p *Parser) parseGString() *Node {
	node := p.startNode(KindGString)
	node.AddChild(p.tokenNode(KindGStringText))

	for {
		switch {
		case p.check(TokenLBrace):
			node.AddChild(p.parseGStringValue())
		case p.check(TokenIdent):
			path := p.startNode(KindGStringPath)
			path.AddChild(p.tokenNode(KindIdentifier))
			for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
				p.advance()
				path.AddChild(p.tokenNode(KindIdentifier))
			}
			node.AddChild(p.finishNode(path))
		default:
			node.AddChild(p.errorNode("malformed string interpolation", []TokenKind{TokenGStringPart, TokenGStringEnd, TokenNewline}))
		}

		switch p.peek().Kind {
		case TokenGStringPart:
			node.AddChild(p.tokenNode(KindGStringText))
			continue
		case TokenGStringEnd:
			node.AddChild(p.tokenNode(KindGStringText))
		default:
			tok := p.peek()
			p.syntaxError("unterminated string", tok)
		}
		return p.finishNode(node)
	}
}

func (p *Parser) parseGStringValue() *Node {
	node := p.startNode(KindGStringValue)
	p.expect(TokenLBrace)
	p.nls()

	if p.isClosureParams() {
		node.AddChild(p.parseClosureParameters())
		p.expect(TokenArrow)
	}

	body := p.startNode(KindBlock)
	p.parseStatementsInto(body)
	p.expect(TokenRBrace)
	node.AddChild(p.finishNode(body))
	return p.finishNode(node)
}

// parseNew parses object creation, anonymous classes and array creation.
func (p *Parser) parseNew() *Node {
	node := p.startNode(KindNewExpr)
	p.expect(TokenNew)
	typ := p.parseType()
	node.AddChild(typ)

	dims := false
	for _, c := range typ.Children {
		if c.Kind == KindOperator {
			dims = true
		}
	}

	if dims || p.check(TokenLBracket) {
		node.Kind = KindNewArrayExpr
		for p.check(TokenLBracket) {
			progress := p.mustProgress()
			if p.peekN(1).Kind == TokenRBracket {
				node.AddChild(p.tokenNode(KindOperator))
				p.advance()
			} else {
				p.advance()
				node.AddChild(p.parseExpression())
				p.expect(TokenRBracket)
			}
			if !progress() {
				break
			}
		}
		if p.check(TokenLBrace) {
			node.AddChild(p.parseArrayInit())
		}
		return p.finishNode(node)
	}

	node.AddChild(p.parseArguments())
	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody(false))
	}
	return p.finishNode(node)
}

func (p *Parser) parseArrayInit() *Node {
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)
	p.nls()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenLBrace) {
			node.AddChild(p.parseArrayInit())
		} else {
			node.AddChild(p.parseExpression())
		}
		p.nls()
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		p.nls()
		if !progress() {
			break
		}
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}
