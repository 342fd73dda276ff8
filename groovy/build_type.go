package groovy

import (
	"strings"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

// significant returns the children of n without layout nodes.
func significant(n *parser.Node) []*parser.Node {
	if n == nil {
		return nil
	}
	out := make([]*parser.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind != parser.KindNewline {
			out = append(out, c)
		}
	}
	return out
}

func qualifiedName(n *parser.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind != parser.KindQualifiedName {
		return n.TokenLiteral()
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, c.TokenLiteral())
	}
	return strings.Join(parts, ".")
}

// buildType converts a Type node. A nil node is the implicit dynamic type.
func (c *builderContext) buildType(n *parser.Node) *ast.Type {
	if n == nil || n.Kind != parser.KindType {
		t := ast.DynamicType()
		if n != nil {
			t.SetSpan(spanOf(n))
		}
		return t
	}
	t := configure(&ast.Type{}, n)
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindIdentifier, parser.KindQualifiedName:
			t.Name = qualifiedName(child)
		case parser.KindTypeArguments:
			if len(child.Children) == 0 {
				t.Diamond = true
				continue
			}
			for _, arg := range child.Children {
				t.Generics = append(t.Generics, c.buildTypeArgument(arg))
			}
		case parser.KindOperator:
			t.Dims++
		}
	}
	return t
}

func (c *builderContext) buildTypeArgument(n *parser.Node) *ast.GenericsType {
	g := configure(&ast.GenericsType{}, n)
	if n.Kind != parser.KindWildcard {
		g.Type = c.buildType(n)
		g.Name = g.Type.Name
		return g
	}
	g.Wildcard = true
	g.Name = "?"
	kids := n.Children
	if len(kids) == 2 {
		bound := c.buildType(kids[1])
		if kids[0].TokenKind() == parser.TokenSuper {
			g.LowerBound = bound
		} else {
			g.UpperBounds = []*ast.Type{bound}
		}
	}
	return g
}

// buildTypeParameters converts a declaration's type parameter list.
func (c *builderContext) buildTypeParameters(n *parser.Node) []*ast.GenericsType {
	if n == nil {
		return nil
	}
	var out []*ast.GenericsType
	for _, tp := range n.ChildrenOfKind(parser.KindTypeParameter) {
		g := configure(&ast.GenericsType{Placeholder: true}, tp)
		for _, child := range tp.Children {
			switch child.Kind {
			case parser.KindIdentifier:
				g.Name = child.TokenLiteral()
			case parser.KindType:
				g.UpperBounds = append(g.UpperBounds, c.buildType(child))
			}
		}
		out = append(out, g)
	}
	return out
}

func (c *builderContext) buildTypeList(n *parser.Node) []*ast.Type {
	if n == nil {
		return nil
	}
	var out []*ast.Type
	for _, t := range n.ChildrenOfKind(parser.KindType) {
		out = append(out, c.buildType(t))
	}
	return out
}

// buildAnnotations converts the annotations among the children of n.
func (c *builderContext) buildAnnotations(n *parser.Node) ([]*ast.AnnotationNode, error) {
	if n == nil {
		return nil, nil
	}
	var out []*ast.AnnotationNode
	for _, a := range n.ChildrenOfKind(parser.KindAnnotation) {
		an, err := c.buildAnnotation(a)
		if err != nil {
			return nil, err
		}
		out = append(out, an)
	}
	return out, nil
}

func (c *builderContext) buildAnnotation(n *parser.Node) (*ast.AnnotationNode, error) {
	a := configure(&ast.AnnotationNode{}, n)
	kids := significant(n)
	if len(kids) == 0 {
		return a, nil
	}
	a.Type = configure(ast.MakeType(qualifiedName(kids[0])), kids[0])
	for _, child := range kids[1:] {
		if child.Kind == parser.KindAnnotationElement {
			parts := significant(child)
			if len(parts) < 2 {
				continue
			}
			v, err := c.buildAnnotationValue(parts[1])
			if err != nil {
				return nil, err
			}
			a.Members = append(a.Members, &ast.AnnotationMember{Name: parts[0].TokenLiteral(), Value: v})
			continue
		}
		v, err := c.buildAnnotationValue(child)
		if err != nil {
			return nil, err
		}
		a.Members = append(a.Members, &ast.AnnotationMember{Name: "value", Value: v})
	}
	return a, nil
}

func (c *builderContext) buildAnnotationValue(n *parser.Node) (ast.Expr, error) {
	if n.Kind == parser.KindAnnotation {
		an, err := c.buildAnnotation(n)
		if err != nil {
			return nil, err
		}
		return configure(&ast.AnnotationConstantExpr{Annotation: an}, n), nil
	}
	return c.buildExpr(n)
}

// buildParameter converts a method, closure, catch or loop parameter.
func (c *builderContext) buildParameter(n *parser.Node) (*ast.Parameter, error) {
	p := configure(&ast.Parameter{}, n)
	var typ *parser.Node
	varargs := false
	for _, child := range significant(n) {
		switch child.Kind {
		case parser.KindModifiers:
			p.Modifiers = c.resolveModifiers(child, 0).bits
			anns, err := c.buildAnnotations(child)
			if err != nil {
				return nil, err
			}
			p.Annotations = anns
		case parser.KindType:
			typ = child
		case parser.KindOperator:
			varargs = true
		case parser.KindIdentifier:
			p.Name = child.TokenLiteral()
		default:
			def, err := c.buildExpr(child)
			if err != nil {
				return nil, err
			}
			p.DefaultValue = def
		}
	}
	p.Type = c.buildType(typ)
	if varargs {
		p.Type = p.Type.MakeArray()
	}
	return p, nil
}

// buildParameters returns a non-nil slice for a present list, even an empty
// one.
func (c *builderContext) buildParameters(n *parser.Node) ([]*ast.Parameter, error) {
	if n == nil {
		return nil, nil
	}
	out := []*ast.Parameter{}
	for _, pn := range n.ChildrenOfKind(parser.KindParameter) {
		p, err := c.buildParameter(pn)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
