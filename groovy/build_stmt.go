package groovy

import (
	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

// buildStmts converts a list of statement nodes. One node may yield several
// statements (a multi-variable declaration) or none (a local class).
func (c *builderContext) buildStmts(nodes []*parser.Node) ([]ast.Stmt, error) {
	out := []ast.Stmt{}
	for _, n := range nodes {
		stmts, err := c.buildStmt(n)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

// buildBlock converts a Block node. A missing block is an empty one.
func (c *builderContext) buildBlock(n *parser.Node) (*ast.BlockStmt, error) {
	block := &ast.BlockStmt{Statements: []ast.Stmt{}}
	if n == nil {
		return block, nil
	}
	stmts, err := c.buildStmts(significant(n))
	if err != nil {
		return nil, err
	}
	block.Statements = stmts
	return configure(block, n), nil
}

// buildBody converts the single statement controlled by if, while, for and
// the like.
func (c *builderContext) buildBody(n *parser.Node) (ast.Stmt, error) {
	if n == nil {
		return &ast.EmptyStmt{}, nil
	}
	stmts, err := c.buildStmt(n)
	if err != nil {
		return nil, err
	}
	switch len(stmts) {
	case 0:
		return configure(&ast.EmptyStmt{}, n), nil
	case 1:
		return stmts[0], nil
	}
	return configure(&ast.BlockStmt{Statements: stmts}, n), nil
}

func (c *builderContext) buildStmt(n *parser.Node) ([]ast.Stmt, error) {
	var s ast.Stmt
	var err error
	switch n.Kind {
	case parser.KindError:
		// already reported by the parser
		return nil, nil
	case parser.KindLocalVarDecl:
		return c.buildLocalVarDecl(n)
	case parser.KindLabeledStmt:
		return c.buildLabeled(n)
	case parser.KindLocalClassDecl:
		for _, decl := range significant(n) {
			if isTypeDecl(decl) {
				if _, err := c.buildClassDecl(decl); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	case parser.KindBlock:
		s, err = c.buildBlock(n)
	case parser.KindEmptyStmt:
		s = configure(&ast.EmptyStmt{}, n)
	case parser.KindExprStmt:
		s, err = c.buildExprStmt(n)
	case parser.KindIfStmt:
		s, err = c.buildIf(n)
	case parser.KindWhileStmt:
		s, err = c.buildWhile(n)
	case parser.KindDoStmt:
		s, err = c.buildDoWhile(n)
	case parser.KindForStmt:
		s, err = c.buildFor(n)
	case parser.KindForInStmt, parser.KindForEachStmt:
		s, err = c.buildForIn(n)
	case parser.KindSwitchStmt:
		s, err = c.buildSwitch(n)
	case parser.KindReturnStmt:
		s, err = c.buildReturn(n)
	case parser.KindBreakStmt:
		s = configure(&ast.BreakStmt{Label: jumpLabel(n)}, n)
	case parser.KindContinueStmt:
		s = configure(&ast.ContinueStmt{Label: jumpLabel(n)}, n)
	case parser.KindThrowStmt:
		var e ast.Expr
		e, err = c.buildExpr(child(n, 0))
		s = configure(&ast.ThrowStmt{Expr: e}, n)
	case parser.KindTryStmt:
		s, err = c.buildTry(n)
	case parser.KindSynchronizedStmt:
		s, err = c.buildSynchronized(n)
	case parser.KindAssertStmt:
		s, err = c.buildAssert(n)
	default:
		return nil, &UnsupportedConstructError{Kind: n.Kind, Text: c.text(n), Span: spanOf(n)}
	}
	if err != nil {
		return nil, err
	}
	return []ast.Stmt{s}, nil
}

func jumpLabel(n *parser.Node) string {
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

func (c *builderContext) buildExprStmt(n *parser.Node) (ast.Stmt, error) {
	e, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	return configure(&ast.ExpressionStmt{Expr: e}, n), nil
}

func (c *builderContext) buildCondition(n *parser.Node) (*ast.BooleanExpr, error) {
	e, err := c.buildExpr(n)
	if err != nil {
		return nil, err
	}
	return booleanOf(e), nil
}

func (c *builderContext) buildIf(n *parser.Node) (ast.Stmt, error) {
	kids := significant(n)
	cond, err := c.buildCondition(child(n, 0))
	if err != nil {
		return nil, err
	}
	then, err := c.buildBody(child(n, 1))
	if err != nil {
		return nil, err
	}
	s := configure(&ast.IfStmt{Cond: cond, Then: then}, n)
	if len(kids) > 2 {
		els, err := c.buildBody(kids[2])
		if err != nil {
			return nil, err
		}
		s.Else = els
	}
	return s, nil
}

func (c *builderContext) buildWhile(n *parser.Node) (ast.Stmt, error) {
	cond, err := c.buildCondition(child(n, 0))
	if err != nil {
		return nil, err
	}
	body, err := c.buildBody(child(n, 1))
	if err != nil {
		return nil, err
	}
	return configure(&ast.WhileStmt{Cond: cond, Body: body}, n), nil
}

func (c *builderContext) buildDoWhile(n *parser.Node) (ast.Stmt, error) {
	body, err := c.buildBody(child(n, 0))
	if err != nil {
		return nil, err
	}
	cond, err := c.buildCondition(child(n, 1))
	if err != nil {
		return nil, err
	}
	return configure(&ast.DoWhileStmt{Body: body, Cond: cond}, n), nil
}

// buildFor converts a classic for loop. Its init, condition and update parts
// become a three-element ClosureListExpr with EmptyExpr for omitted parts.
func (c *builderContext) buildFor(n *parser.Node) (ast.Stmt, error) {
	parts := []ast.Expr{&ast.EmptyExpr{}, &ast.EmptyExpr{}, &ast.EmptyExpr{}}
	var body *parser.Node
	seenUpdate := false
	for _, k := range significant(n) {
		switch {
		case k.Kind == parser.KindForInit:
			e, err := c.buildForParts(k)
			if err != nil {
				return nil, err
			}
			parts[0] = e
		case k.Kind == parser.KindForUpdate:
			e, err := c.buildForParts(k)
			if err != nil {
				return nil, err
			}
			parts[2] = e
			seenUpdate = true
		case seenUpdate:
			body = k
		default:
			e, err := c.buildExpr(k)
			if err != nil {
				return nil, err
			}
			parts[1] = e
		}
	}
	loop := &ast.ClosureListExpr{Exprs: parts}
	var span ast.Span
	for _, p := range parts {
		span = ast.Cover(span, p.Span())
	}
	loop.SetSpan(span)

	b, err := c.buildBody(body)
	if err != nil {
		return nil, err
	}
	return configure(&ast.ForStmt{Collection: loop, Body: b}, n), nil
}

// buildForParts converts a for-loop init or update list. Several
// expressions are grouped in a nested ClosureListExpr.
func (c *builderContext) buildForParts(n *parser.Node) (ast.Expr, error) {
	var exprs []ast.Expr
	for _, k := range significant(n) {
		if k.Kind == parser.KindLocalVarDecl {
			decls, err := c.buildDeclarations(k)
			if err != nil {
				return nil, err
			}
			for _, d := range decls {
				exprs = append(exprs, d)
			}
			continue
		}
		e, err := c.buildExpr(k)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	switch len(exprs) {
	case 0:
		return &ast.EmptyExpr{}, nil
	case 1:
		return exprs[0], nil
	}
	var span ast.Span
	for _, e := range exprs {
		span = ast.Cover(span, e.Span())
	}
	return withSpan(&ast.ClosureListExpr{Exprs: exprs}, span), nil
}

// buildForIn converts "for (x in xs)" and "for (T x : xs)". The colon form
// requires a declared type.
func (c *builderContext) buildForIn(n *parser.Node) (ast.Stmt, error) {
	pn := child(n, 0)
	if pn == nil || pn.Kind != parser.KindParameter {
		return nil, &StructuralViolationError{Message: "for loop requires a loop variable", Span: spanOf(n)}
	}
	if n.Kind == parser.KindForEachStmt && pn.FirstChildOfKind(parser.KindType) == nil {
		return nil, &StructuralViolationError{Message: "Classic for statement require type to be declared.", Span: spanOf(n)}
	}
	param, err := c.buildParameter(pn)
	if err != nil {
		return nil, err
	}
	coll, err := c.buildExpr(child(n, 1))
	if err != nil {
		return nil, err
	}
	body, err := c.buildBody(child(n, 2))
	if err != nil {
		return nil, err
	}
	return configure(&ast.ForStmt{Variable: param, Collection: coll, Body: body}, n), nil
}

// buildSwitch converts a switch. Labels sharing a body fall through to the
// last of them, which alone carries the statements.
func (c *builderContext) buildSwitch(n *parser.Node) (ast.Stmt, error) {
	kids := significant(n)
	subject, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	s := configure(&ast.SwitchStmt{Expr: subject, Cases: []*ast.CaseStmt{}}, n)
	for _, group := range kids[1:] {
		if group.Kind != parser.KindSwitchCase {
			continue
		}
		labels := group.ChildrenOfKind(parser.KindSwitchLabel)
		var stmtNodes []*parser.Node
		for _, k := range significant(group) {
			if k.Kind != parser.KindSwitchLabel {
				stmtNodes = append(stmtNodes, k)
			}
		}
		stmts, err := c.buildStmts(stmtNodes)
		if err != nil {
			return nil, err
		}

		for i, label := range labels {
			body := configure(&ast.BlockStmt{Statements: []ast.Stmt{}}, label)
			span := spanOf(label)
			if i == len(labels)-1 {
				span = rangeOf(label, group)
				body = withSpan(&ast.BlockStmt{Statements: stmts}, span)
			}
			if label.TokenKind() == parser.TokenDefault {
				s.Default = body
				continue
			}
			e, err := c.buildExpr(child(label, 0))
			if err != nil {
				return nil, err
			}
			s.Cases = append(s.Cases, withSpan(&ast.CaseStmt{Expr: e, Body: body}, span))
		}
	}
	if s.Default == nil {
		s.Default = &ast.BlockStmt{Statements: []ast.Stmt{}}
	}
	return s, nil
}

func (c *builderContext) buildReturn(n *parser.Node) (ast.Stmt, error) {
	var e ast.Expr = configure(&ast.ConstantExpr{}, n)
	if value := child(n, 0); value != nil {
		var err error
		if e, err = c.buildExpr(value); err != nil {
			return nil, err
		}
	}
	return configure(&ast.ReturnStmt{Expr: e}, n), nil
}

func (c *builderContext) buildTry(n *parser.Node) (ast.Stmt, error) {
	s := configure(&ast.TryStmt{}, n)
	for _, k := range significant(n) {
		switch k.Kind {
		case parser.KindResources:
			res, err := c.buildResources(k)
			if err != nil {
				return nil, err
			}
			s.Resources = res
		case parser.KindBlock:
			body, err := c.buildBlock(k)
			if err != nil {
				return nil, err
			}
			s.Body = body
		case parser.KindCatchClause:
			catches, err := c.buildCatch(k)
			if err != nil {
				return nil, err
			}
			s.Catches = append(s.Catches, catches...)
		case parser.KindFinallyClause:
			fin, err := c.buildBlock(k.FirstChildOfKind(parser.KindBlock))
			if err != nil {
				return nil, err
			}
			s.Finally = fin
		}
	}
	return s, nil
}

func (c *builderContext) buildResources(n *parser.Node) ([]*ast.ExpressionStmt, error) {
	var out []*ast.ExpressionStmt
	for _, k := range significant(n) {
		if k.Kind == parser.KindLocalVarDecl {
			decls, err := c.buildDeclarations(k)
			if err != nil {
				return nil, err
			}
			for _, d := range decls {
				out = append(out, withSpan(&ast.ExpressionStmt{Expr: d}, d.Span()))
			}
			continue
		}
		e, err := c.buildExpr(k)
		if err != nil {
			return nil, err
		}
		out = append(out, configure(&ast.ExpressionStmt{Expr: e}, k))
	}
	return out, nil
}

// buildCatch returns one CatchStmt per caught type. All of them share the
// same body. An untyped catch catches Exception.
func (c *builderContext) buildCatch(n *parser.Node) ([]*ast.CatchStmt, error) {
	mods := n.FirstChildOfKind(parser.KindModifiers)
	ident := n.FirstChildOfKind(parser.KindIdentifier)
	body, err := c.buildBlock(n.FirstChildOfKind(parser.KindBlock))
	if err != nil {
		return nil, err
	}
	info := c.resolveModifiers(mods, 0)
	anns, err := c.buildAnnotations(mods)
	if err != nil {
		return nil, err
	}
	name := ""
	if ident != nil {
		name = ident.TokenLiteral()
	}

	types := n.ChildrenOfKind(parser.KindType)
	if len(types) == 0 {
		param := configure(&ast.Parameter{
			Name:        name,
			Type:        ast.MakeType(ast.ExceptionClassName),
			Modifiers:   info.bits,
			Annotations: anns,
		}, ident)
		return []*ast.CatchStmt{configure(&ast.CatchStmt{Variable: param, Body: body}, n)}, nil
	}
	var out []*ast.CatchStmt
	for _, t := range types {
		param := configureRange(&ast.Parameter{
			Name:        name,
			Type:        c.buildType(t),
			Modifiers:   info.bits,
			Annotations: anns,
		}, t, ident)
		if ident == nil {
			param.SetSpan(spanOf(t))
		}
		out = append(out, configure(&ast.CatchStmt{Variable: param, Body: body}, n))
	}
	return out, nil
}

func (c *builderContext) buildSynchronized(n *parser.Node) (ast.Stmt, error) {
	e, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	body, err := c.buildBlock(n.FirstChildOfKind(parser.KindBlock))
	if err != nil {
		return nil, err
	}
	return configure(&ast.SynchronizedStmt{Expr: e, Body: body}, n), nil
}

func (c *builderContext) buildAssert(n *parser.Node) (ast.Stmt, error) {
	cond, err := c.buildCondition(child(n, 0))
	if err != nil {
		return nil, err
	}
	s := configure(&ast.AssertStmt{Cond: cond}, n)
	if msg := child(n, 1); msg != nil {
		m, err := c.buildExpr(msg)
		if err != nil {
			return nil, err
		}
		s.Message = m
	}
	return s, nil
}

// buildLabeled collects a chain of labels and attaches them, outermost
// first, to every statement the labeled statement produces.
func (c *builderContext) buildLabeled(n *parser.Node) ([]ast.Stmt, error) {
	var labels []string
	for n != nil && n.Kind == parser.KindLabeledStmt {
		if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
			labels = append(labels, id.TokenLiteral())
		}
		n = child(n, 1)
	}
	if n == nil {
		return nil, nil
	}
	stmts, err := c.buildStmt(n)
	if err != nil {
		return nil, err
	}
	for _, s := range stmts {
		for _, l := range labels {
			s.AddLabel(l)
		}
	}
	return stmts, nil
}

func (c *builderContext) buildLocalVarDecl(n *parser.Node) ([]ast.Stmt, error) {
	decls, err := c.buildDeclarations(n)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Stmt, 0, len(decls))
	for _, d := range decls {
		out = append(out, withSpan(&ast.ExpressionStmt{Expr: d}, d.Span()))
	}
	return out, nil
}

// buildDeclarations returns one DeclarationExpr per declared variable, or a
// single one with a TupleExpr left side for "def (a, b) = ...".
func (c *builderContext) buildDeclarations(n *parser.Node) ([]*ast.DeclarationExpr, error) {
	mods := n.FirstChildOfKind(parser.KindModifiers)
	info := c.resolveModifiers(mods, 0)
	anns, err := c.buildAnnotations(mods)
	if err != nil {
		return nil, err
	}

	if tuple := n.FirstChildOfKind(parser.KindTupleDeclarator); tuple != nil {
		return c.buildTupleDeclaration(n, tuple, info, anns)
	}

	typ := n.FirstChildOfKind(parser.KindType)
	var out []*ast.DeclarationExpr
	for _, d := range n.ChildrenOfKind(parser.KindVariableDeclarator) {
		kids := significant(d)
		if len(kids) == 0 || kids[0].Kind != parser.KindIdentifier {
			continue
		}
		v := configure(&ast.VariableExpr{
			Name:      kids[0].TokenLiteral(),
			Type:      c.buildType(typ),
			Modifiers: info.bits & ast.Final,
		}, kids[0])
		var right ast.Expr = &ast.EmptyExpr{}
		if len(kids) > 1 {
			if right, err = c.buildExpr(kids[1]); err != nil {
				return nil, err
			}
		}
		out = append(out, configureRange(&ast.DeclarationExpr{Left: v, Right: right, Annotations: anns}, n, d))
	}
	return out, nil
}

func (c *builderContext) buildTupleDeclaration(n, tuple *parser.Node, info modifierInfo, anns []*ast.AnnotationNode) ([]*ast.DeclarationExpr, error) {
	init := n.Children[len(n.Children)-1]
	if init == tuple {
		return nil, &StructuralViolationError{
			Message: "tuple declaration requires an initializer",
			Span:    spanOf(n),
		}
	}
	left := configure(&ast.TupleExpr{}, tuple)
	for _, pn := range tuple.ChildrenOfKind(parser.KindParameter) {
		p, err := c.buildParameter(pn)
		if err != nil {
			return nil, err
		}
		v := withSpan(&ast.VariableExpr{
			Name:      p.Name,
			Type:      p.Type,
			Modifiers: (info.bits | p.Modifiers) & ast.Final,
		}, p.Span())
		left.Exprs = append(left.Exprs, v)
	}
	right, err := c.buildExpr(init)
	if err != nil {
		return nil, err
	}
	return []*ast.DeclarationExpr{configure(&ast.DeclarationExpr{Left: left, Right: right, Annotations: anns}, n)}, nil
}
