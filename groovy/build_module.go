package groovy

import (
	"strings"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

// buildModule converts a compilation unit. The package declaration is read
// first so that every class name below it is qualified.
func (c *builderContext) buildModule(root *parser.Node) (*ast.Module, error) {
	m := configure(&ast.Module{Name: c.unit, Statements: []ast.Stmt{}}, root)
	kids := significant(root)

	if pkg := root.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		p, err := c.buildPackage(pkg)
		if err != nil {
			return nil, err
		}
		m.Package = p
		c.packagePrefix = p.Name + "."
	}
	m.ScriptClassName = c.packagePrefix + c.scriptClass

	for _, k := range kids {
		switch {
		case k.Kind == parser.KindPackageDecl:
		case k.Kind == parser.KindImportDecl:
			m.Imports = append(m.Imports, c.buildImport(k))
		case isTypeDecl(k):
			if _, err := c.buildClassDecl(k); err != nil {
				return nil, err
			}
		case k.Kind == parser.KindMethodDecl:
			method, err := c.buildMethod(nil, k)
			if err != nil {
				return nil, err
			}
			m.Methods = append(m.Methods, method)
		default:
			stmts, err := c.buildStmt(k)
			if err != nil {
				return nil, err
			}
			m.Statements = append(m.Statements, stmts...)
		}
	}

	if len(m.Statements) == 0 && len(m.Methods) == 0 && len(c.classes) == 0 {
		ret := &ast.ReturnStmt{Expr: withSpan(&ast.ConstantExpr{}, m.Span())}
		m.Statements = append(m.Statements, withSpan(ret, m.Span()))
	}
	m.Classes = c.sortedClasses()
	return m, nil
}

func (c *builderContext) buildPackage(n *parser.Node) (*ast.PackageNode, error) {
	anns, err := c.buildAnnotations(n)
	if err != nil {
		return nil, err
	}
	return configure(&ast.PackageNode{
		Name:        qualifiedName(n.FirstChildOfKind(parser.KindQualifiedName)),
		Annotations: anns,
	}, n), nil
}

// buildImport converts the four import forms. A star import records the
// package (or, when static, the class) it imports from.
func (c *builderContext) buildImport(n *parser.Node) *ast.ImportNode {
	imp := configure(&ast.ImportNode{
		Static: hasModifierKeyword(n, parser.TokenStatic),
		Star:   n.FirstChildOfKind(parser.KindOperator) != nil,
	}, n)
	name := qualifiedName(n.FirstChildOfKind(parser.KindQualifiedName))
	alias := ""
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		alias = id.TokenLiteral()
	}

	switch {
	case imp.Star:
		imp.Type = name
	case imp.Static:
		imp.Type, imp.FieldName = splitLast(name)
		imp.Alias = alias
		if imp.Alias == "" {
			imp.Alias = imp.FieldName
		}
	default:
		imp.Type = name
		imp.Alias = alias
		if imp.Alias == "" {
			_, imp.Alias = splitLast(name)
		}
	}
	return imp
}

// splitLast splits a dotted name at its last dot.
func splitLast(name string) (string, string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}
