package parser

import (
	"unicode"
	"unicode/utf8"
)

var (
	statementSync = []TokenKind{TokenNewline, TokenSemicolon, TokenRBrace}
	memberSync    = []TokenKind{TokenNewline, TokenSemicolon, TokenRBrace, TokenAt,
		TokenPublic, TokenPrivate, TokenProtected, TokenStatic, TokenDef,
		TokenClass, TokenInterface, TokenEnum, TokenTrait}
)

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)
	p.skipSeparators()

	if p.isPackageDecl() {
		node.AddChild(p.parsePackageDecl())
		p.sep()
	}

	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.match(TokenSemicolon, TokenNewline) {
			p.advance()
			continue
		}
		node.AddChild(p.parseTopLevel())
		// a stuck token has been skipped; keep going
		progress()
	}

	return p.finishNode(node)
}

func (p *Parser) parseTopLevel() *Node {
	switch {
	case p.check(TokenImport):
		n := p.parseImportDecl()
		p.sep()
		return n
	case p.isTypeDeclStart():
		return p.parseTypeDecl(p.parseModifiers(false))
	case p.isScriptMethodStart():
		return p.parseMethodDecl(p.parseModifiers(false))
	}
	n := p.parseStatement()
	p.sep()
	return n
}

func (p *Parser) parseStandaloneExpression() *Node {
	p.skipSeparators()
	n := p.parseExpression()
	p.skipSeparators()
	if !p.check(TokenEOF) {
		tok := p.peek()
		p.syntaxError("unexpected "+describeToken(tok), tok)
	}
	return n
}

func (p *Parser) skipSeparators() {
	for p.match(TokenSemicolon, TokenNewline) {
		p.advance()
	}
}

func (p *Parser) isPackageDecl() bool {
	if p.check(TokenPackage) {
		return true
	}
	if !p.check(TokenAt) {
		return false
	}
	return p.speculate("package declaration", func() bool {
		p.parseModifiers(false)
		return p.check(TokenPackage)
	})
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
		p.nls()
	}

	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName())

	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if p.check(TokenStatic) {
		node.AddChild(p.tokenNode(KindModifier))
	}

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenDot) && p.peekN(1).Kind == TokenStar {
		p.advance()
		node.AddChild(p.tokenNode(KindOperator))
	} else if p.check(TokenAs) {
		p.advance()
		if tok := p.expectIdentifier(); tok != nil {
			node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	} else {
		return p.errorNode("expected identifier", nil)
	}

	for p.check(TokenDot) && isNameToken(p.peekN(1).Kind) {
		p.advance()
		node.AddChild(p.tokenNode(KindIdentifier))
	}

	return p.finishNode(node)
}

// isNameToken reports whether kind can be one segment of a dotted name.
// Package names may collide with keywords such as "in" or "as".
func isNameToken(kind TokenKind) bool {
	return kind == TokenIdent || kind.IsKeyword()
}

// parseModifiers reads annotations and modifier keywords. "default" is only
// a modifier inside class bodies.
func (p *Parser) parseModifiers(classBody bool) *Node {
	node := p.startNode(KindModifiers)

	for {
		switch kind := p.peek().Kind; {
		case kind == TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
			p.nls()
		case kind.IsModifier():
			if kind == TokenSynchronized && p.peekN(1).Kind == TokenLParen {
				return p.finishNode(node)
			}
			node.AddChild(p.tokenNode(KindModifier))
			if p.check(TokenNewline) && p.peekN(1).Kind.IsModifier() {
				p.nls()
			}
		case kind == TokenDefault && classBody:
			node.AddChild(p.tokenNode(KindModifier))
		default:
			return p.finishNode(node)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())

	if p.check(TokenLParen) {
		p.advance()
		if !p.check(TokenRParen) {
			if isNameToken(p.peek().Kind) && p.peekN(1).Kind == TokenAssign {
				for {
					progress := p.mustProgress()
					node.AddChild(p.parseAnnotationElement())
					if !p.check(TokenComma) {
						break
					}
					p.advance()
					if !progress() {
						break
					}
				}
			} else {
				node.AddChild(p.parseAnnotationValue())
			}
		}
		p.expect(TokenRParen)
	}

	return p.finishNode(node)
}

func (p *Parser) parseAnnotationElement() *Node {
	node := p.startNode(KindAnnotationElement)
	node.AddChild(p.tokenNode(KindIdentifier))
	p.expect(TokenAssign)
	node.AddChild(p.parseAnnotationValue())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationValue() *Node {
	if p.check(TokenAt) {
		return p.parseAnnotation()
	}
	return p.parseTernaryExpr()
}

// isTypeDeclStart reports whether the upcoming tokens begin a class,
// interface, enum, trait or annotation type declaration.
func (p *Parser) isTypeDeclStart() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum, TokenTrait:
		return true
	case TokenAt:
	default:
		if !p.peek().Kind.IsModifier() {
			return false
		}
	}
	return p.speculate("type declaration", func() bool {
		p.parseModifiers(false)
		switch p.peek().Kind {
		case TokenClass, TokenInterface, TokenEnum, TokenTrait:
			return true
		case TokenAt:
			return p.peekN(1).Kind == TokenInterface
		}
		return false
	})
}

func (p *Parser) parseTypeDecl(modifiers *Node) *Node {
	var kind NodeKind
	switch p.peek().Kind {
	case TokenClass:
		kind = KindClassDecl
	case TokenInterface:
		kind = KindInterfaceDecl
	case TokenEnum:
		kind = KindEnumDecl
	case TokenTrait:
		kind = KindTraitDecl
	case TokenAt:
		kind = KindAnnotationDecl
		p.advance()
	default:
		return p.errorNode("expected class, interface, enum, trait or @interface", memberSync)
	}

	node := p.startNodeAt(kind, modifiers)
	p.advance()

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	p.nlsBefore(TokenExtends, TokenImplements, TokenLBrace)

	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeList(KindExtendsClause))
		p.nlsBefore(TokenImplements, TokenLBrace)
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeList(KindImplementsClause))
		p.nlsBefore(TokenLBrace)
	}

	node.AddChild(p.parseClassBody(kind == KindEnumDecl))
	return p.finishNode(node)
}

// nlsBefore skips newlines when the first token after them is one of kinds.
func (p *Parser) nlsBefore(kinds ...TokenKind) {
	if !p.check(TokenNewline) {
		return
	}
	next := p.peekN(1).Kind
	for _, k := range kinds {
		if next == k {
			p.nls()
			return
		}
	}
}

func (p *Parser) parseTypeList(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	for {
		progress := p.mustProgress()
		p.nls()
		node.AddChild(p.parseType())
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

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeParameter())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	p.expect(TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameter() *Node {
	node := p.startNode(KindTypeParameter)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenExtends) {
		p.advance()
		for {
			node.AddChild(p.parseType())
			if !p.check(TokenBitAnd) {
				break
			}
			p.advance()
		}
	}

	return p.finishNode(node)
}

// isTypeStart reports whether the current token can begin a type.
func (p *Parser) isTypeStart() bool {
	kind := p.peek().Kind
	return kind == TokenIdent || kind.IsPrimitive() || kind == TokenAt
}

func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch kind := p.peek().Kind; {
	case kind.IsPrimitive():
		node.AddChild(p.tokenNode(KindIdentifier))
	case kind == TokenIdent || p.isSoftKeyword():
		node.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
	default:
		return p.errorNode("expected type", []TokenKind{TokenIdent, TokenSemicolon, TokenRParen, TokenComma, TokenRBrace, TokenNewline})
	}

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		node.AddChild(p.tokenNode(KindOperator))
		p.advance()
	}

	return p.finishNode(node)
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)

	// diamond
	if p.check(TokenGT) {
		p.advance()
		return p.finishNode(node)
	}

	for {
		progress := p.mustProgress()
		if p.check(TokenQuestion) {
			node.AddChild(p.parseWildcard())
		} else {
			node.AddChild(p.parseType())
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	p.expect(TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	p.expect(TokenQuestion)

	if p.check(TokenExtends) || p.check(TokenSuper) {
		node.AddChild(p.tokenNode(KindOperator))
		node.AddChild(p.parseType())
	}

	return p.finishNode(node)
}

// TypeLooksDeclared reports whether a parsed type is unambiguously a type
// rather than a variable reference: a primitive, a generic or array type,
// or a name whose last segment starts with an upper-case letter.
func TypeLooksDeclared(t *Node) bool {
	if t == nil || t.Kind != KindType {
		return false
	}
	upper := false
	for _, c := range t.Children {
		switch c.Kind {
		case KindTypeArguments, KindOperator:
			return true
		case KindIdentifier:
			if c.Token != nil && c.Token.Kind.IsPrimitive() {
				return true
			}
		case KindQualifiedName:
			if len(c.Children) > 0 {
				r, _ := utf8.DecodeRuneInString(c.Children[len(c.Children)-1].TokenLiteral())
				upper = unicode.IsUpper(r)
			}
		}
	}
	return upper
}

func (p *Parser) parseClassBody(enum bool) *Node {
	node := p.startNode(KindClassBody)
	p.expect(TokenLBrace)
	p.skipSeparators()

	if enum {
		for p.isEnumConstantStart() {
			progress := p.mustProgress()
			node.AddChild(p.parseEnumConstant())
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
		p.skipSeparators()
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseClassMember())
		p.skipSeparators()
		progress()
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) isEnumConstantStart() bool {
	if p.check(TokenAt) {
		return p.speculate("enum constant", func() bool {
			for p.check(TokenAt) {
				p.parseAnnotation()
				p.nls()
			}
			return p.isEnumConstantName()
		})
	}
	return p.isEnumConstantName()
}

func (p *Parser) isEnumConstantName() bool {
	if !p.check(TokenIdent) {
		return false
	}
	switch p.peekN(1).Kind {
	case TokenLParen, TokenLBrace, TokenComma, TokenSemicolon, TokenNewline, TokenRBrace:
		return true
	}
	return false
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
		p.nls()
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLParen) {
		node.AddChild(p.parseArguments())
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody(false))
	}

	return p.finishNode(node)
}

func (p *Parser) parseClassMember() *Node {
	if p.check(TokenLBrace) || (p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace) {
		node := p.startNode(KindInitializerBlock)
		if p.check(TokenStatic) {
			node.AddChild(p.tokenNode(KindModifier))
		}
		node.AddChild(p.parseBlock())
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers(true)

	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum, TokenTrait:
		return p.parseTypeDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseTypeDecl(modifiers)
		}
	case TokenLT:
		return p.parseMethodDecl(modifiers)
	}

	if p.isMemberName() && p.peekN(1).Kind == TokenLParen {
		return p.parseMethodDecl(modifiers)
	}

	if p.isIdentifierLike() && isDeclaratorFollow(p.peekN(1).Kind) {
		return p.parseFieldDecl(modifiers, nil)
	}

	if !p.isTypeStart() {
		if len(modifiers.Children) > 0 {
			return p.errorNode("expected member declaration after modifiers", memberSync)
		}
		return p.errorNode("unexpected "+describeToken(p.peek())+" in class body", memberSync)
	}

	typ := p.parseType()
	if p.isMemberName() && p.peekN(1).Kind == TokenLParen {
		return p.parseMethodRest(p.startNodeAt(KindMethodDecl, modifiers), typ)
	}
	return p.parseFieldDecl(modifiers, typ)
}

// isMemberName reports whether the current token can name a method. Groovy
// accepts string literals as method names.
func (p *Parser) isMemberName() bool {
	return p.isIdentifierLike() || p.check(TokenStringLiteral)
}

func isDeclaratorFollow(kind TokenKind) bool {
	switch kind {
	case TokenAssign, TokenComma, TokenSemicolon, TokenNewline, TokenRBrace, TokenEOF:
		return true
	}
	return false
}

// isScriptMethodStart reports whether a top-level statement position holds a
// method declaration. Without modifiers the return type must clearly be a
// type, otherwise "foo bar(x)" would be read as a declaration instead of a
// command expression.
func (p *Parser) isScriptMethodStart() bool {
	kind := p.peek().Kind
	if kind != TokenAt && kind != TokenLT && !kind.IsModifier() && !p.isTypeStart() {
		return false
	}
	return p.speculate("method declaration", func() bool {
		mods := p.parseModifiers(false)
		hasMods := len(mods.Children) > 0
		if p.check(TokenLT) {
			p.parseTypeParameters()
			hasMods = true
		}
		if p.isMemberName() && p.peekN(1).Kind == TokenLParen {
			return hasMods
		}
		if !p.isTypeStart() {
			return false
		}
		typ := p.parseType()
		if !hasMods && !TypeLooksDeclared(typ) {
			return false
		}
		return p.isMemberName() && p.peekN(1).Kind == TokenLParen
	})
}

func (p *Parser) parseMethodDecl(modifiers *Node) *Node {
	node := p.startNodeAt(KindMethodDecl, modifiers)
	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	var typ *Node
	if !(p.isMemberName() && p.peekN(1).Kind == TokenLParen) {
		typ = p.parseType()
	}
	return p.parseMethodRest(node, typ)
}

func (p *Parser) parseMethodRest(node *Node, returnType *Node) *Node {
	node.AddChild(returnType)

	switch {
	case p.check(TokenStringLiteral):
		node.AddChild(p.tokenNode(KindLiteral))
	default:
		if tok := p.expectIdentifier(); tok != nil {
			node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		}
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenThrows) {
		node.AddChild(p.parseTypeList(KindThrowsList))
	}

	if p.check(TokenDefault) {
		p.advance()
		p.nls()
		node.AddChild(p.parseAnnotationValue())
		return p.finishNode(node)
	}

	p.nlsBefore(TokenLBrace)
	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	}

	return p.finishNode(node)
}

func (p *Parser) parseFieldDecl(modifiers *Node, typ *Node) *Node {
	node := p.startNodeAt(KindFieldDecl, modifiers)
	node.AddChild(typ)
	p.parseDeclarators(node)
	return p.finishNode(node)
}

func (p *Parser) parseDeclarators(node *Node) {
	for {
		progress := p.mustProgress()
		decl := p.startNode(KindVariableDeclarator)
		if tok := p.expectIdentifier(); tok != nil {
			decl.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		}
		if p.check(TokenAssign) {
			p.advance()
			p.nls()
			decl.AddChild(p.parseExpression())
		}
		node.AddChild(p.finishNode(decl))

		if !p.check(TokenComma) {
			break
		}
		p.advance()
		p.nls()
		if !progress() {
			break
		}
	}
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	if !p.check(TokenRParen) {
		for {
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
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseParameter reads a method, closure or catch parameter. The type is
// optional.
func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers(false))

	if !(p.isIdentifierLike() && isParameterFollow(p.peekN(1).Kind)) {
		node.AddChild(p.parseType())
	}

	if p.check(TokenEllipsis) {
		node.AddChild(p.tokenNode(KindOperator))
	}

	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenAssign) {
		p.advance()
		p.nls()
		node.AddChild(p.parseExpression())
	}

	return p.finishNode(node)
}

func isParameterFollow(kind TokenKind) bool {
	switch kind {
	case TokenComma, TokenRParen, TokenAssign, TokenArrow, TokenIn, TokenColon:
		return true
	}
	return false
}
