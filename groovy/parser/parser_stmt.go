package parser

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)
	p.parseStatementsInto(node)
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseStatementsInto appends statements to node up to the closing brace,
// which is left in place.
func (p *Parser) parseStatementsInto(node *Node) {
	p.skipSeparators()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		p.sep()
		progress()
	}
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		return p.parseSwitchStmt()
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenBreak:
		return p.parseJumpStmt(KindBreakStmt)
	case TokenContinue:
		return p.parseJumpStmt(KindContinueStmt)
	case TokenThrow:
		return p.parseThrowStmt()
	case TokenTry:
		return p.parseTryStmt()
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenSynchronized:
		if p.peekN(1).Kind == TokenLParen {
			return p.parseSynchronizedStmt()
		}
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			return p.parseLabeledStmt()
		}
	case TokenRParen, TokenRBracket, TokenElse, TokenCatch, TokenFinally, TokenCase, TokenDefault:
		node := p.errorNode("unexpected "+describeToken(p.peek()), statementSync)
		if p.match(TokenRParen, TokenRBracket) {
			p.advance()
		}
		return node
	}

	if p.isTypeDeclStart() {
		node := p.startNode(KindLocalClassDecl)
		node.AddChild(p.parseTypeDecl(p.parseModifiers(false)))
		return p.finishNode(node)
	}
	if p.isLocalVarDecl() {
		return p.parseLocalVarDecl()
	}
	return p.parseExprStmt()
}

// parseStatementBody parses the statement controlled by if, for, while or
// do, which may start on the next line.
func (p *Parser) parseStatementBody() *Node {
	p.nls()
	return p.parseStatement()
}

// isLocalVarDecl reports whether a local variable declaration starts here.
// Without modifiers the type must clearly be a type, so that "foo bar" stays
// a command expression.
func (p *Parser) isLocalVarDecl() bool {
	kind := p.peek().Kind
	if kind != TokenAt && !kind.IsModifier() && !p.isTypeStart() {
		return false
	}
	return p.speculate("local variable declaration", func() bool {
		mods := p.parseModifiers(false)
		hasMods := len(mods.Children) > 0
		if hasMods && p.check(TokenLParen) {
			return true
		}
		if hasMods && p.isIdentifierLike() && isDeclaratorFollow(p.peekN(1).Kind) {
			return true
		}
		if !p.isTypeStart() {
			return false
		}
		typ := p.parseType()
		if !hasMods && !TypeLooksDeclared(typ) {
			return false
		}
		return p.isIdentifierLike() && (isDeclaratorFollow(p.peekN(1).Kind) || p.peekN(1).Kind == TokenRParen)
	})
}

func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers(false))

	if p.check(TokenLParen) {
		node.AddChild(p.parseTupleDeclarator())
		if p.check(TokenAssign) {
			p.advance()
			p.nls()
			node.AddChild(p.parseExpression())
		}
		return p.finishNode(node)
	}

	if !(p.isIdentifierLike() && isDeclaratorFollow(p.peekN(1).Kind)) {
		node.AddChild(p.parseType())
	}
	p.parseDeclarators(node)
	return p.finishNode(node)
}

func (p *Parser) parseTupleDeclarator() *Node {
	node := p.startNode(KindTupleDeclarator)
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
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
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	expr := p.parseExpression()
	if isCommandTarget(expr) && p.isCommandArgStart() {
		expr = p.parseCommandExpr(expr)
	}
	node.AddChild(expr)
	return p.finishNode(node)
}

func isCommandTarget(n *Node) bool {
	return n.Kind == KindIdentifier || n.Kind == KindPropertyExpr
}

func (p *Parser) isCommandArgStart() bool {
	switch p.peek().Kind {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral,
		TokenGStringBegin, TokenTrue, TokenFalse, TokenNull, TokenThis,
		TokenSuper, TokenNew:
		return true
	}
	return false
}

// parseCommandExpr turns "foo a, b" into a call of foo with the arguments
// that follow on the same line.
func (p *Parser) parseCommandExpr(target *Node) *Node {
	call := p.startNodeAt(KindCallExpr, target)
	args := p.startNode(KindArguments)
	for {
		progress := p.mustProgress()
		args.AddChild(p.parseArgument())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		p.nls()
		if !progress() {
			break
		}
	}
	call.AddChild(p.finishNode(args))
	return p.finishNode(call)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)
	node.AddChild(p.tokenNode(KindIdentifier))
	p.expect(TokenColon)
	p.nls()
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseParenCondition(node *Node) {
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	p.parseParenCondition(node)
	node.AddChild(p.parseStatementBody())

	if p.skipToElse() {
		p.expect(TokenElse)
		node.AddChild(p.parseStatementBody())
	}

	return p.finishNode(node)
}

// skipToElse consumes separators when they are followed by "else".
func (p *Parser) skipToElse() bool {
	i := 0
	for {
		switch p.peekN(i).Kind {
		case TokenNewline, TokenSemicolon:
			i++
			continue
		case TokenElse:
			for j := 0; j < i; j++ {
				p.advance()
			}
			return true
		}
		return false
	}
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.expect(TokenWhile)
	p.parseParenCondition(node)
	node.AddChild(p.parseStatementBody())
	return p.finishNode(node)
}

func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.expect(TokenDo)
	node.AddChild(p.parseStatementBody())
	p.nlsBefore(TokenWhile)
	p.expect(TokenWhile)
	p.parseParenCondition(node)
	return p.finishNode(node)
}

func (p *Parser) parseForStmt() *Node {
	node := p.startNode(KindForStmt)
	p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isForIn() {
		node.AddChild(p.parseForVariable())
		if p.check(TokenColon) {
			node.Kind = KindForEachStmt
		} else {
			node.Kind = KindForInStmt
		}
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenRParen)
		node.AddChild(p.parseStatementBody())
		return p.finishNode(node)
	}

	init := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			init.AddChild(p.parseLocalVarDecl())
		} else {
			p.parseExpressionList(init)
		}
	}
	node.AddChild(p.finishNode(init))
	p.expect(TokenSemicolon)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)

	update := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		p.parseExpressionList(update)
	}
	node.AddChild(p.finishNode(update))
	p.expect(TokenRParen)

	node.AddChild(p.parseStatementBody())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList(node *Node) {
	for {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}
}

// isForIn reports whether a for header is "x in xs" or "T x : xs" rather
// than the classic three-part form.
func (p *Parser) isForIn() bool {
	return p.speculate("for header", func() bool {
		p.parseModifiers(false)
		if p.isIdentifierLike() && (p.peekN(1).Kind == TokenIn || p.peekN(1).Kind == TokenColon) {
			return true
		}
		if !p.isTypeStart() {
			return false
		}
		p.parseType()
		return p.isIdentifierLike() && (p.peekN(1).Kind == TokenIn || p.peekN(1).Kind == TokenColon)
	})
}

func (p *Parser) parseForVariable() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers(false))
	if !(p.isIdentifierLike() && (p.peekN(1).Kind == TokenIn || p.peekN(1).Kind == TokenColon)) {
		node.AddChild(p.parseType())
	}
	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}
	return p.finishNode(node)
}

func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.expect(TokenSwitch)
	p.parseParenCondition(node)
	p.nls()
	p.expect(TokenLBrace)
	p.skipSeparators()

	for p.match(TokenCase, TokenDefault) {
		progress := p.mustProgress()
		node.AddChild(p.parseSwitchCase())
		if !progress() {
			break
		}
	}

	if !p.check(TokenRBrace) {
		node.AddChild(p.errorNode("expected case or default", []TokenKind{TokenRBrace}))
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)

	for p.match(TokenCase, TokenDefault) {
		label := p.startNode(KindSwitchLabel)
		tok := p.advance()
		label.Token = &tok
		if tok.Kind == TokenCase {
			label.AddChild(p.parseExpression())
		}
		p.expect(TokenColon)
		node.AddChild(p.finishNode(label))
		p.skipSeparators()
	}

	for !p.match(TokenCase, TokenDefault, TokenRBrace, TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		p.sep()
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) atStatementEnd() bool {
	return p.match(TokenNewline, TokenSemicolon, TokenRBrace, TokenEOF, TokenCase, TokenDefault)
}

func (p *Parser) parseReturnStmt() *Node {
	node := p.startNode(KindReturnStmt)
	p.expect(TokenReturn)
	if !p.atStatementEnd() {
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) parseJumpStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if p.check(TokenIdent) {
		node.AddChild(p.tokenNode(KindIdentifier))
	}
	return p.finishNode(node)
}

func (p *Parser) parseThrowStmt() *Node {
	node := p.startNode(KindThrowStmt)
	p.expect(TokenThrow)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.expect(TokenTry)

	if p.check(TokenLParen) {
		node.AddChild(p.parseResources())
	}

	p.nls()
	node.AddChild(p.parseBlock())

	for p.nlsBefore(TokenCatch); p.check(TokenCatch); p.nlsBefore(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}

	p.nlsBefore(TokenFinally)
	if p.check(TokenFinally) {
		fin := p.startNode(KindFinallyClause)
		p.advance()
		p.nls()
		fin.AddChild(p.parseBlock())
		node.AddChild(p.finishNode(fin))
	}

	return p.finishNode(node)
}

func (p *Parser) parseResources() *Node {
	node := p.startNode(KindResources)
	p.expect(TokenLParen)
	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.isLocalVarDecl() {
			node.AddChild(p.parseLocalVarDecl())
		} else {
			node.AddChild(p.parseExpression())
		}
		if !p.check(TokenSemicolon) {
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

func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.expect(TokenCatch)
	p.expect(TokenLParen)

	node.AddChild(p.parseModifiers(false))
	if !(p.isIdentifierLike() && p.peekN(1).Kind == TokenRParen) {
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseType())
			if !p.check(TokenBitOr) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}
	p.expect(TokenRParen)
	p.nls()
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseSynchronizedStmt() *Node {
	node := p.startNode(KindSynchronizedStmt)
	p.expect(TokenSynchronized)
	p.parseParenCondition(node)
	p.nls()
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.expect(TokenAssert)
	node.AddChild(p.parseExpression())
	if p.match(TokenColon, TokenComma) {
		p.advance()
		p.nls()
		node.AddChild(p.parseExpression())
	}
	return p.finishNode(node)
}
