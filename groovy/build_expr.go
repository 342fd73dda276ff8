package groovy

import (
	"strings"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

type exprBuildFunc func(c *builderContext, n *parser.Node) (ast.Expr, error)

// exprBuilders has an entry for every node kind in the expression
// category.
var exprBuilders map[parser.NodeKind]exprBuildFunc

func init() {
	exprBuilders = map[parser.NodeKind]exprBuildFunc{
		parser.KindAssignExpr:     (*builderContext).buildAssign,
		parser.KindTernaryExpr:    (*builderContext).buildTernary,
		parser.KindElvisExpr:      (*builderContext).buildElvis,
		parser.KindBinaryExpr:     (*builderContext).buildBinary,
		parser.KindInstanceofExpr: (*builderContext).buildInstanceof,
		parser.KindAsExpr:         (*builderContext).buildAs,
		parser.KindUnaryExpr:      (*builderContext).buildUnary,
		parser.KindPostfixExpr:    (*builderContext).buildPostfix,
		parser.KindCastExpr:       (*builderContext).buildCast,
		parser.KindCallExpr:       (*builderContext).buildCall,
		parser.KindPropertyExpr:   (*builderContext).buildProperty,
		parser.KindMethodPointer:  (*builderContext).buildMethodPointer,
		parser.KindIndexExpr:      (*builderContext).buildIndex,
		parser.KindNewExpr:        (*builderContext).buildNew,
		parser.KindNewArrayExpr:   (*builderContext).buildNewArray,
		parser.KindArrayInit:      (*builderContext).buildBareArrayInit,
		parser.KindClosureExpr:    (*builderContext).buildClosure,
		parser.KindListExpr:       (*builderContext).buildList,
		parser.KindMapExpr:        (*builderContext).buildMap,
		parser.KindMapEntry:       (*builderContext).buildMapEntryExpr,
		parser.KindSpreadExpr:     (*builderContext).buildSpread,
		parser.KindSpreadMapExpr:  (*builderContext).buildSpreadMap,
		parser.KindParenExpr:      (*builderContext).buildParen,
		parser.KindLiteral:        (*builderContext).buildLiteral,
		parser.KindGString:        (*builderContext).buildGString,
		parser.KindIdentifier:     (*builderContext).buildIdentifier,
		parser.KindThis:           (*builderContext).buildThis,
		parser.KindSuper:          (*builderContext).buildSuper,
	}
}

// buildExpr converts an expression node. Error nodes left by the recovering
// parser become ast.InvalidExpr.
func (c *builderContext) buildExpr(n *parser.Node) (ast.Expr, error) {
	if n == nil {
		return &ast.InvalidExpr{Message: "missing expression"}, nil
	}
	if n.IsError() {
		return c.invalid(n), nil
	}
	build, ok := exprBuilders[n.Kind]
	if !ok {
		return nil, &UnsupportedConstructError{Kind: n.Kind, Text: c.text(n), Span: spanOf(n)}
	}
	return build(c, n)
}

func (c *builderContext) invalid(n *parser.Node) *ast.InvalidExpr {
	e := configure(&ast.InvalidExpr{Text: c.text(n)}, n)
	if n.Error != nil {
		e.Message = n.Error.Message
	}
	return e
}

// text returns the source text covered by n.
func (c *builderContext) text(n *parser.Node) string {
	if n == nil {
		return ""
	}
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	if start < 0 || end > len(c.source) || start > end {
		return n.TokenLiteral()
	}
	return string(c.source[start:end])
}

// child returns the i-th significant child of n, or nil.
func child(n *parser.Node, i int) *parser.Node {
	kids := significant(n)
	if i < len(kids) {
		return kids[i]
	}
	return nil
}

// operator joins the operator tokens of n. Shift operators arrive as runs of
// '>' tokens and negated operators as '!' followed by in or instanceof.
func operator(n *parser.Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Kind == parser.KindOperator {
			sb.WriteString(c.TokenLiteral())
		}
	}
	return sb.String()
}

// operands returns the non-operator children of n.
func operands(n *parser.Node) []*parser.Node {
	var out []*parser.Node
	for _, c := range significant(n) {
		if c.Kind != parser.KindOperator {
			out = append(out, c)
		}
	}
	return out
}

func (c *builderContext) buildOperands(n *parser.Node, want int) ([]ast.Expr, error) {
	ops := operands(n)
	out := make([]ast.Expr, want)
	for i := range out {
		var on *parser.Node
		if i < len(ops) {
			on = ops[i]
		}
		e, err := c.buildExpr(on)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (c *builderContext) buildAssign(n *parser.Node) (ast.Expr, error) {
	ops, err := c.buildOperands(n, 2)
	if err != nil {
		return nil, err
	}
	return configure(&ast.BinaryExpr{Left: ops[0], Operator: operator(n), Right: ops[1]}, n), nil
}

func booleanOf(e ast.Expr) *ast.BooleanExpr {
	return withSpan(&ast.BooleanExpr{Expr: e}, e.Span())
}

func (c *builderContext) buildTernary(n *parser.Node) (ast.Expr, error) {
	ops, err := c.buildOperands(n, 3)
	if err != nil {
		return nil, err
	}
	return configure(&ast.TernaryExpr{Cond: booleanOf(ops[0]), Then: ops[1], Else: ops[2]}, n), nil
}

func (c *builderContext) buildElvis(n *parser.Node) (ast.Expr, error) {
	ops, err := c.buildOperands(n, 2)
	if err != nil {
		return nil, err
	}
	return configure(&ast.ElvisExpr{Cond: ops[0], Else: ops[1]}, n), nil
}

func (c *builderContext) buildBinary(n *parser.Node) (ast.Expr, error) {
	ops, err := c.buildOperands(n, 2)
	if err != nil {
		return nil, err
	}
	switch op := operator(n); op {
	case "..", "..<":
		return configure(&ast.RangeExpr{From: ops[0], To: ops[1], Inclusive: op == ".."}, n), nil
	default:
		return configure(&ast.BinaryExpr{Left: ops[0], Operator: op, Right: ops[1]}, n), nil
	}
}

func (c *builderContext) buildInstanceof(n *parser.Node) (ast.Expr, error) {
	left, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	typ := c.buildType(n.FirstChildOfKind(parser.KindType))
	right := withSpan(&ast.ClassExpr{Type: typ}, typ.Span())
	return configure(&ast.BinaryExpr{Left: left, Operator: operator(n), Right: right}, n), nil
}

func (c *builderContext) buildAs(n *parser.Node) (ast.Expr, error) {
	expr, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	typ := c.buildType(n.FirstChildOfKind(parser.KindType))
	return configure(&ast.CastExpr{Type: typ, Expr: expr, Coerce: true}, n), nil
}

func isNumberLiteral(n *parser.Node) bool {
	if n == nil || n.Kind != parser.KindLiteral {
		return false
	}
	k := n.TokenKind()
	return k == parser.TokenIntLiteral || k == parser.TokenFloatLiteral
}

func (c *builderContext) buildUnary(n *parser.Node) (ast.Expr, error) {
	op := operator(n)
	operand := operands(n)
	var on *parser.Node
	if len(operand) > 0 {
		on = operand[0]
	}

	// A sign directly on a number literal is part of the literal, so that
	// -2147483648 is an int.
	if isNumberLiteral(on) && (op == "-" || op == "+") {
		text := on.TokenLiteral()
		if op == "-" {
			text = "-" + text
		}
		return c.numberConstant(n, on.TokenKind(), text), nil
	}

	expr, err := c.buildExpr(on)
	if err != nil {
		return nil, err
	}
	var out ast.Expr
	switch op {
	case "-":
		out = &ast.UnaryMinusExpr{Expr: expr}
	case "+":
		out = &ast.UnaryPlusExpr{Expr: expr}
	case "!":
		out = &ast.NotExpr{Expr: expr}
	case "~":
		out = &ast.BitwiseNegationExpr{Expr: expr}
	default:
		out = &ast.PrefixExpr{Operator: op, Expr: expr}
	}
	return configure(out, n), nil
}

func (c *builderContext) buildPostfix(n *parser.Node) (ast.Expr, error) {
	expr, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	return configure(&ast.PostfixExpr{Expr: expr, Operator: operator(n)}, n), nil
}

func (c *builderContext) buildCast(n *parser.Node) (ast.Expr, error) {
	typ := c.buildType(child(n, 0))
	expr, err := c.buildExpr(child(n, 1))
	if err != nil {
		return nil, err
	}
	return configure(&ast.CastExpr{Type: typ, Expr: expr}, n), nil
}

// buildCall converts a call: the callee followed by an optional argument
// list and any trailing closures.
func (c *builderContext) buildCall(n *parser.Node) (ast.Expr, error) {
	kids := significant(n)
	if len(kids) == 0 {
		return c.invalid(n), nil
	}
	callee := kids[0]
	var args *parser.Node
	var closures []*parser.Node
	for _, k := range kids[1:] {
		if k.Kind == parser.KindArguments {
			args = k
		} else {
			closures = append(closures, k)
		}
	}
	arguments, err := c.buildArguments(args, closures)
	if err != nil {
		return nil, err
	}

	switch callee.Kind {
	case parser.KindIdentifier:
		name := callee.TokenLiteral()
		this := configure(&ast.VariableExpr{Name: "this"}, callee)
		method := configure(&ast.ConstantExpr{Value: name}, callee)
		return configure(&ast.MethodCallExpr{
			Object:       this,
			Method:       method,
			Arguments:    arguments,
			ImplicitThis: true,
		}, n), nil

	case parser.KindThis, parser.KindSuper:
		return configure(&ast.ConstructorCallExpr{
			Special:   callee.TokenLiteral(),
			Arguments: arguments,
		}, n), nil

	case parser.KindPropertyExpr:
		obj, err := c.buildExpr(child(callee, 0))
		if err != nil {
			return nil, err
		}
		ck := significant(callee)
		method, err := c.buildMemberName(ck[len(ck)-1])
		if err != nil {
			return nil, err
		}
		op := operator(callee)
		return configure(&ast.MethodCallExpr{
			Object:    obj,
			Method:    method,
			Arguments: arguments,
			Safe:      op == "?.",
			Spread:    op == "*.",
		}, n), nil
	}

	obj, err := c.buildExpr(callee)
	if err != nil {
		return nil, err
	}
	call := withSpan(&ast.ConstantExpr{Value: "call"}, arguments.Span())
	return configure(&ast.MethodCallExpr{Object: obj, Method: call, Arguments: arguments}, n), nil
}

// buildArguments builds the argument expression of a call. Positional
// arguments give an ArgumentListExpr with any named arguments collected in
// a leading MapExpr; named arguments alone give a TupleExpr holding a
// NamedArgumentListExpr. Trailing closures are appended, and a closure next
// to named arguments turns the named list into a leading MapExpr.
func (c *builderContext) buildArguments(args *parser.Node, closures []*parser.Node) (ast.Expr, error) {
	var positional []ast.Expr
	var named []*ast.MapEntryExpr
	for _, a := range significant(args) {
		switch a.Kind {
		case parser.KindMapEntry:
			e, err := c.buildMapEntry(a)
			if err != nil {
				return nil, err
			}
			named = append(named, e)
		case parser.KindSpreadMapExpr:
			e, err := c.buildSpreadMapEntry(a)
			if err != nil {
				return nil, err
			}
			named = append(named, e)
		default:
			e, err := c.buildExpr(a)
			if err != nil {
				return nil, err
			}
			positional = append(positional, e)
		}
	}
	var trailing []ast.Expr
	for _, cl := range closures {
		e, err := c.buildExpr(cl)
		if err != nil {
			return nil, err
		}
		trailing = append(trailing, e)
	}

	span := spanOf(args)
	for _, t := range trailing {
		span = ast.Cover(span, t.Span())
	}

	namedSpan := func() ast.Span {
		var s ast.Span
		for _, e := range named {
			s = ast.Cover(s, e.Span())
		}
		return s
	}

	switch {
	case len(positional) > 0:
		exprs := positional
		if len(named) > 0 {
			m := withSpan(&ast.MapExpr{Entries: named}, namedSpan())
			exprs = append([]ast.Expr{m}, positional...)
		}
		return withSpan(&ast.ArgumentListExpr{Exprs: append(exprs, trailing...)}, span), nil
	case len(named) > 0:
		if len(trailing) > 0 {
			m := withSpan(&ast.MapExpr{Entries: named}, namedSpan())
			return withSpan(&ast.ArgumentListExpr{Exprs: append([]ast.Expr{m}, trailing...)}, span), nil
		}
		nl := withSpan(&ast.NamedArgumentListExpr{Entries: named}, namedSpan())
		return withSpan(&ast.TupleExpr{Exprs: []ast.Expr{nl}}, span), nil
	}
	return withSpan(&ast.ArgumentListExpr{Exprs: trailing}, span), nil
}

// buildMemberName converts the name after a navigation operator.
func (c *builderContext) buildMemberName(n *parser.Node) (ast.Expr, error) {
	switch n.Kind {
	case parser.KindIdentifier:
		return configure(&ast.ConstantExpr{Value: n.TokenLiteral()}, n), nil
	case parser.KindLiteral:
		text := n.TokenLiteral()
		return configure(&ast.ConstantExpr{Value: unquote(text, literalStyleOf(text))}, n), nil
	}
	return c.buildExpr(n)
}

func (c *builderContext) buildProperty(n *parser.Node) (ast.Expr, error) {
	obj, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	kids := significant(n)
	prop, err := c.buildMemberName(kids[len(kids)-1])
	if err != nil {
		return nil, err
	}
	op := operator(n)
	return configure(&ast.PropertyExpr{
		Object:    obj,
		Property:  prop,
		Safe:      op == "?.",
		Spread:    op == "*.",
		Attribute: op == ".@",
	}, n), nil
}

func (c *builderContext) buildMethodPointer(n *parser.Node) (ast.Expr, error) {
	obj, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	kids := significant(n)
	method, err := c.buildMemberName(kids[len(kids)-1])
	if err != nil {
		return nil, err
	}
	return configure(&ast.MethodPointerExpr{Expr: obj, Method: method, Reference: operator(n) == "::"}, n), nil
}

// buildIndex converts a subscript into a "[" binary expression. Several
// indices are wrapped in a list spanning just the indices; a lone spread
// index is wrapped in a one-element list.
func (c *builderContext) buildIndex(n *parser.Node) (ast.Expr, error) {
	kids := significant(n)
	if len(kids) == 0 {
		return c.invalid(n), nil
	}
	target, err := c.buildExpr(kids[0])
	if err != nil {
		return nil, err
	}
	var indices []ast.Expr
	for _, k := range kids[1:] {
		var e ast.Expr
		if k.Kind == parser.KindSpreadMapExpr {
			e, err = c.buildSpreadMapEntry(k)
		} else {
			e, err = c.buildExpr(k)
		}
		if err != nil {
			return nil, err
		}
		indices = append(indices, e)
	}

	var index ast.Expr
	switch {
	case len(indices) == 1:
		index = indices[0]
		if _, ok := index.(*ast.SpreadExpr); ok {
			index = withSpan(&ast.ListExpr{Exprs: indices}, index.Span())
		}
	default:
		var span ast.Span
		for _, e := range indices {
			span = ast.Cover(span, e.Span())
		}
		index = withSpan(&ast.ListExpr{Exprs: indices, Wrapped: true}, span)
	}
	return configure(&ast.BinaryExpr{Left: target, Operator: "[", Right: index}, n), nil
}

func (c *builderContext) buildNew(n *parser.Node) (ast.Expr, error) {
	typ := c.buildType(n.FirstChildOfKind(parser.KindType))
	arguments, err := c.buildArguments(n.FirstChildOfKind(parser.KindArguments), nil)
	if err != nil {
		return nil, err
	}
	call := configure(&ast.ConstructorCallExpr{Type: typ, Arguments: arguments}, n)
	if body := n.FirstChildOfKind(parser.KindClassBody); body != nil {
		name, err := c.buildAnonymousClass(typ, body, n)
		if err != nil {
			return nil, err
		}
		call.AnonymousClass = name
	}
	return call, nil
}

// buildNewArray converts "new T[n][]" and "new T[]{...}". Sizes holds one
// entry per dimension with EmptyExpr for dimensions left open.
func (c *builderContext) buildNewArray(n *parser.Node) (ast.Expr, error) {
	kids := significant(n)
	typ := c.buildType(n.FirstChildOfKind(parser.KindType))
	dims := typ.Dims
	var sizes []ast.Expr
	var init *parser.Node
	for _, k := range kids[1:] {
		switch k.Kind {
		case parser.KindOperator:
			dims++
			sizes = append(sizes, configure(&ast.EmptyExpr{}, k))
		case parser.KindArrayInit:
			init = k
		default:
			e, err := c.buildExpr(k)
			if err != nil {
				return nil, err
			}
			dims++
			sizes = append(sizes, e)
		}
	}

	base := *typ
	base.Dims = 0
	if init != nil {
		elem := base
		elem.Dims = dims - 1
		if elem.Dims < 0 {
			elem.Dims = 0
		}
		arr, err := c.buildArrayInit(init, &elem)
		if err != nil {
			return nil, err
		}
		arr.SetSpan(spanOf(n))
		return arr, nil
	}
	for i := len(sizes); i < dims; i++ {
		sizes = append(sizes, &ast.EmptyExpr{})
	}
	return configure(&ast.ArrayExpr{ElementType: &base, Sizes: sizes}, n), nil
}

func (c *builderContext) buildArrayInit(n *parser.Node, elem *ast.Type) (*ast.ArrayExpr, error) {
	arr := configure(&ast.ArrayExpr{ElementType: elem, Init: []ast.Expr{}}, n)
	for _, k := range significant(n) {
		if k.Kind == parser.KindArrayInit {
			inner := *elem
			if inner.Dims > 0 {
				inner.Dims--
			}
			e, err := c.buildArrayInit(k, &inner)
			if err != nil {
				return nil, err
			}
			arr.Init = append(arr.Init, e)
			continue
		}
		e, err := c.buildExpr(k)
		if err != nil {
			return nil, err
		}
		arr.Init = append(arr.Init, e)
	}
	return arr, nil
}

func (c *builderContext) buildBareArrayInit(n *parser.Node) (ast.Expr, error) {
	return c.buildArrayInit(n, ast.DynamicType())
}

// buildClosure converts a closure literal. A closure written without "->"
// has nil Parameters.
func (c *builderContext) buildClosure(n *parser.Node) (ast.Expr, error) {
	cl := configure(&ast.ClosureExpr{}, n)
	if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
		ps, err := c.buildParameters(params)
		if err != nil {
			return nil, err
		}
		cl.Parameters = ps
	}
	body, err := c.buildBlock(n.FirstChildOfKind(parser.KindBlock))
	if err != nil {
		return nil, err
	}
	cl.Code = body
	return cl, nil
}

func (c *builderContext) buildList(n *parser.Node) (ast.Expr, error) {
	l := configure(&ast.ListExpr{Exprs: []ast.Expr{}}, n)
	for _, k := range significant(n) {
		e, err := c.buildExpr(k)
		if err != nil {
			return nil, err
		}
		l.Exprs = append(l.Exprs, e)
	}
	return l, nil
}

func (c *builderContext) buildMap(n *parser.Node) (ast.Expr, error) {
	m := configure(&ast.MapExpr{Entries: []*ast.MapEntryExpr{}}, n)
	for _, k := range significant(n) {
		var e *ast.MapEntryExpr
		var err error
		switch k.Kind {
		case parser.KindMapEntry:
			e, err = c.buildMapEntry(k)
		case parser.KindSpreadMapExpr:
			e, err = c.buildSpreadMapEntry(k)
		default:
			var v ast.Expr
			v, err = c.buildExpr(k)
			if err == nil {
				e = withSpan(&ast.MapEntryExpr{Key: v, Value: v}, v.Span())
			}
		}
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

func (c *builderContext) buildMapEntry(n *parser.Node) (*ast.MapEntryExpr, error) {
	kids := significant(n)
	if len(kids) < 2 {
		inv := c.invalid(n)
		return configure(&ast.MapEntryExpr{Key: inv, Value: inv}, n), nil
	}
	var key ast.Expr
	var err error
	switch k := kids[0]; k.Kind {
	case parser.KindIdentifier:
		key = configure(&ast.ConstantExpr{Value: k.TokenLiteral()}, k)
	default:
		key, err = c.buildExpr(k)
		if err != nil {
			return nil, err
		}
	}
	value, err := c.buildExpr(kids[1])
	if err != nil {
		return nil, err
	}
	return configure(&ast.MapEntryExpr{Key: key, Value: value}, n), nil
}

func (c *builderContext) buildMapEntryExpr(n *parser.Node) (ast.Expr, error) {
	return c.buildMapEntry(n)
}

// buildSpreadMapEntry turns "*:m" into an entry whose key marks the spread.
func (c *builderContext) buildSpreadMapEntry(n *parser.Node) (*ast.MapEntryExpr, error) {
	v, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	key := configure(&ast.SpreadMapExpr{Expr: v}, n)
	return configure(&ast.MapEntryExpr{Key: key, Value: v}, n), nil
}

func (c *builderContext) buildSpread(n *parser.Node) (ast.Expr, error) {
	e, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	return configure(&ast.SpreadExpr{Expr: e}, n), nil
}

func (c *builderContext) buildSpreadMap(n *parser.Node) (ast.Expr, error) {
	e, err := c.buildExpr(child(n, 0))
	if err != nil {
		return nil, err
	}
	return configure(&ast.SpreadMapExpr{Expr: e}, n), nil
}

func (c *builderContext) buildParen(n *parser.Node) (ast.Expr, error) {
	return c.buildExpr(child(n, 0))
}

func (c *builderContext) buildLiteral(n *parser.Node) (ast.Expr, error) {
	switch kind := n.TokenKind(); kind {
	case parser.TokenIntLiteral, parser.TokenFloatLiteral:
		return c.numberConstant(n, kind, n.TokenLiteral()), nil
	case parser.TokenStringLiteral:
		text := n.TokenLiteral()
		return configure(&ast.ConstantExpr{Value: unquote(text, literalStyleOf(text))}, n), nil
	case parser.TokenTrue:
		return configure(&ast.ConstantExpr{Value: true}, n), nil
	case parser.TokenFalse:
		return configure(&ast.ConstantExpr{Value: false}, n), nil
	case parser.TokenNull:
		return configure(&ast.ConstantExpr{}, n), nil
	}
	return nil, &UnsupportedConstructError{Kind: n.Kind, Text: n.TokenLiteral(), Span: spanOf(n)}
}

// numberConstant types a numeric literal. A malformed number is reported
// and kept as an InvalidExpr.
func (c *builderContext) numberConstant(n *parser.Node, kind parser.TokenKind, text string) ast.Expr {
	var v any
	var err error
	if kind == parser.TokenFloatLiteral {
		v, err = parseDecimal(text)
	} else {
		v, err = parseInteger(text)
	}
	if err != nil {
		c.diags.errorf(spanOf(n), "%v", err)
		return configure(&ast.InvalidExpr{Text: text, Message: err.Error()}, n)
	}
	return configure(&ast.ConstantExpr{Value: v}, n)
}

// buildGString splits an interpolated string into its literal segments and
// values. There is always one more segment than values.
func (c *builderContext) buildGString(n *parser.Node) (ast.Expr, error) {
	g := configure(&ast.GStringExpr{Verbatim: c.text(n)}, n)
	kids := significant(n)
	if len(kids) == 0 {
		return g, nil
	}
	style := literalStyleOf(kids[0].TokenLiteral())

	var texts []*parser.Node
	for _, k := range kids {
		if k.Kind == parser.KindGStringText {
			texts = append(texts, k)
			continue
		}
		v, err := c.buildGStringValue(k)
		if err != nil {
			return nil, err
		}
		g.Values = append(g.Values, v)
	}
	terminated := len(texts) > 1 && texts[len(texts)-1].TokenKind() == parser.TokenGStringEnd
	for i, t := range texts {
		last := terminated && i == len(texts)-1
		s := gstringSegment(t.TokenLiteral(), style, i == 0, last)
		g.Strings = append(g.Strings, configure(&ast.ConstantExpr{Value: s}, t))
	}
	for len(g.Strings) < len(g.Values)+1 {
		g.Strings = append(g.Strings, &ast.ConstantExpr{Value: ""})
	}
	return g, nil
}

func (c *builderContext) buildGStringValue(n *parser.Node) (ast.Expr, error) {
	switch n.Kind {
	case parser.KindGStringPath:
		idents := n.ChildrenOfKind(parser.KindIdentifier)
		if len(idents) == 0 {
			return c.invalid(n), nil
		}
		var expr ast.Expr = configure(&ast.VariableExpr{Name: idents[0].TokenLiteral()}, idents[0])
		for _, id := range idents[1:] {
			prop := configure(&ast.ConstantExpr{Value: id.TokenLiteral()}, id)
			expr = configureRange(&ast.PropertyExpr{Object: expr, Property: prop}, idents[0], id)
		}
		return expr, nil

	case parser.KindGStringValue:
		block := n.FirstChildOfKind(parser.KindBlock)
		if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
			ps, err := c.buildParameters(params)
			if err != nil {
				return nil, err
			}
			code, err := c.buildBlock(block)
			if err != nil {
				return nil, err
			}
			return configure(&ast.ClosureExpr{Parameters: ps, Code: code}, n), nil
		}
		stmts := significant(block)
		switch {
		case len(stmts) == 0:
			return configure(&ast.ConstantExpr{}, n), nil
		case len(stmts) == 1 && stmts[0].Kind == parser.KindExprStmt:
			return c.buildExpr(child(stmts[0], 0))
		}
		code, err := c.buildBlock(block)
		if err != nil {
			return nil, err
		}
		closure := configure(&ast.ClosureExpr{Code: code}, n)
		return configure(&ast.MethodCallExpr{
			Object:    closure,
			Method:    configure(&ast.ConstantExpr{Value: "call"}, n),
			Arguments: configure(&ast.ArgumentListExpr{}, n),
		}, n), nil
	}
	return c.invalid(n), nil
}

func (c *builderContext) buildIdentifier(n *parser.Node) (ast.Expr, error) {
	return configure(&ast.VariableExpr{Name: n.TokenLiteral()}, n), nil
}

func (c *builderContext) buildThis(n *parser.Node) (ast.Expr, error) {
	return configure(&ast.VariableExpr{Name: "this"}, n), nil
}

func (c *builderContext) buildSuper(n *parser.Node) (ast.Expr, error) {
	return configure(&ast.VariableExpr{Name: "super"}, n), nil
}
