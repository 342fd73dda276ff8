package groovy

import (
	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

var classKinds = map[parser.NodeKind]ast.ClassKind{
	parser.KindClassDecl:      ast.ClassKindClass,
	parser.KindInterfaceDecl:  ast.ClassKindInterface,
	parser.KindEnumDecl:       ast.ClassKindEnum,
	parser.KindTraitDecl:      ast.ClassKindTrait,
	parser.KindAnnotationDecl: ast.ClassKindAnnotation,
}

func isTypeDecl(n *parser.Node) bool {
	_, ok := classKinds[n.Kind]
	return ok
}

// buildClassDecl converts a class, interface, enum, trait or annotation
// type declaration, together with everything declared in its body.
func (c *builderContext) buildClassDecl(n *parser.Node) (*ast.ClassNode, error) {
	kind := classKinds[n.Kind]
	mods := n.FirstChildOfKind(parser.KindModifiers)
	name := ""
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		name = id.TokenLiteral()
	}

	cls := configure(&ast.ClassNode{Name: c.qualify(name), Kind: kind}, n)
	info := c.resolveModifiers(mods, 0)
	cls.Modifiers = info.bits
	if !info.explicit {
		cls.Modifiers |= ast.Public
		cls.SyntheticPublic = true
	}
	anns, err := c.buildAnnotations(mods)
	if err != nil {
		return nil, err
	}
	cls.Annotations = anns
	cls.Generics = c.buildTypeParameters(n.FirstChildOfKind(parser.KindTypeParameters))

	switch kind {
	case ast.ClassKindInterface:
		cls.Modifiers |= ast.Interface | ast.Abstract
	case ast.ClassKindAnnotation:
		cls.Modifiers |= ast.Interface | ast.Abstract | ast.Annotation
	case ast.ClassKindEnum:
		cls.Modifiers |= ast.Enum | ast.Final
	case ast.ClassKindTrait:
		cls.Annotations = append(cls.Annotations, &ast.AnnotationNode{Type: ast.MakeType(ast.TraitMarkerName)})
	}

	extends := c.buildTypeList(n.FirstChildOfKind(parser.KindExtendsClause))
	switch {
	case kind == ast.ClassKindInterface:
		cls.Interfaces = extends
		cls.SuperClass = ast.MakeType(ast.ObjectClassName)
	case len(extends) > 0:
		cls.SuperClass = extends[0]
	case kind == ast.ClassKindEnum:
		cls.SuperClass = ast.MakeType(ast.EnumClassName)
	default:
		cls.SuperClass = ast.MakeType(ast.ObjectClassName)
	}
	cls.Interfaces = append(cls.Interfaces, c.buildTypeList(n.FirstChildOfKind(parser.KindImplementsClause))...)
	if kind == ast.ClassKindAnnotation {
		cls.Interfaces = append(cls.Interfaces, ast.MakeType(ast.AnnotationClassName))
	}
	if !cls.IsInterface() {
		cls.Mixins = []*ast.Type{}
	}

	if outer := c.currentClass(); outer != nil {
		cls.OuterClass = outer.Name
		outer.InnerClasses = append(outer.InnerClasses, cls.Name)
	}
	cls.Groovydoc = c.docs.find(n)

	c.collect(cls)
	defer c.enterClass(cls)()
	if err := c.buildClassBody(cls, n.FirstChildOfKind(parser.KindClassBody)); err != nil {
		return nil, err
	}
	return cls, nil
}

func (c *builderContext) buildClassBody(cls *ast.ClassNode, body *parser.Node) error {
	for _, member := range significant(body) {
		var err error
		switch {
		case member.Kind == parser.KindError:
			continue
		case member.Kind == parser.KindEnumConstant:
			err = c.buildEnumConstant(cls, member)
		case member.Kind == parser.KindInitializerBlock:
			err = c.buildInitializer(cls, member)
		case member.Kind == parser.KindMethodDecl:
			_, err = c.buildMethod(cls, member)
		case member.Kind == parser.KindFieldDecl:
			err = c.buildField(cls, member)
		case isTypeDecl(member):
			_, err = c.buildClassDecl(member)
		default:
			err = &UnsupportedConstructError{Kind: member.Kind, Text: c.text(member), Span: spanOf(member)}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// buildEnumConstant adds a constant as a public static final field of the
// enum. A single constructor argument is the initial value; several are
// wrapped in a list.
func (c *builderContext) buildEnumConstant(cls *ast.ClassNode, n *parser.Node) error {
	id := n.FirstChildOfKind(parser.KindIdentifier)
	if id == nil {
		return nil
	}
	anns, err := c.buildAnnotations(n)
	if err != nil {
		return err
	}
	f := configure(&ast.FieldNode{
		Name:        id.TokenLiteral(),
		Modifiers:   ast.Public | ast.Static | ast.Final | ast.Enum,
		Type:        ast.MakeType(cls.Name),
		Owner:       cls.Name,
		Annotations: anns,
		Groovydoc:   c.docs.find(n),
	}, n)

	if args := n.FirstChildOfKind(parser.KindArguments); args != nil {
		built, err := c.buildArguments(args, nil)
		if err != nil {
			return err
		}
		var exprs []ast.Expr
		switch a := built.(type) {
		case *ast.ArgumentListExpr:
			exprs = a.Exprs
		case *ast.TupleExpr:
			exprs = a.Exprs
		}
		switch len(exprs) {
		case 0:
		case 1:
			f.InitialValue = exprs[0]
		default:
			f.InitialValue = configure(&ast.ListExpr{Exprs: exprs, Wrapped: true}, args)
		}
	}
	cls.Fields = append(cls.Fields, f)

	if body := n.FirstChildOfKind(parser.KindClassBody); body != nil {
		if _, err := c.buildAnonymousClass(ast.MakeType(cls.Name), body, n); err != nil {
			return err
		}
	}
	return nil
}

// buildInitializer adds an initializer block. Static blocks are merged into
// the synthetic <clinit> method.
func (c *builderContext) buildInitializer(cls *ast.ClassNode, n *parser.Node) error {
	block, err := c.buildBlock(n.FirstChildOfKind(parser.KindBlock))
	if err != nil {
		return err
	}
	if !hasModifierKeyword(n, parser.TokenStatic) {
		block.SetSpan(spanOf(n))
		cls.Initializers = append(cls.Initializers, block)
		return nil
	}

	clinit := cls.StaticInitializer()
	if clinit == nil {
		clinit = &ast.MethodNode{
			Name:       "<clinit>",
			Modifiers:  ast.Static,
			Synthetic:  true,
			ReturnType: ast.MakeType("void"),
			Parameters: []*ast.Parameter{},
			Code:       &ast.BlockStmt{Statements: []ast.Stmt{}},
		}
		cls.Methods = append(cls.Methods, clinit)
	}
	code, ok := clinit.Code.(*ast.BlockStmt)
	if !ok {
		return &InternalInvariantError{Message: "static initializer of " + cls.Name + " has no block"}
	}
	code.Statements = append(code.Statements, block.Statements...)
	code.SetSpan(ast.Cover(code.Span(), spanOf(n)))
	clinit.SetSpan(code.Span())
	return nil
}

// buildMethod converts a method or constructor declaration. cls is nil for
// script-level methods.
func (c *builderContext) buildMethod(cls *ast.ClassNode, n *parser.Node) (*ast.MethodNode, error) {
	var (
		mods, typeNode, nameNode, params, throws, block, defaultValue *parser.Node
		typeParams                                                    *parser.Node
	)
	for _, k := range significant(n) {
		switch {
		case k.Kind == parser.KindModifiers:
			mods = k
		case k.Kind == parser.KindTypeParameters:
			typeParams = k
		case k.Kind == parser.KindType && nameNode == nil:
			typeNode = k
		case (k.Kind == parser.KindIdentifier || k.Kind == parser.KindLiteral) && params == nil:
			nameNode = k
		case k.Kind == parser.KindParameters:
			params = k
		case k.Kind == parser.KindThrowsList:
			throws = k
		case k.Kind == parser.KindBlock:
			block = k
		case params != nil:
			defaultValue = k
		}
	}

	name := ""
	if nameNode != nil {
		name = nameNode.TokenLiteral()
		if nameNode.Kind == parser.KindLiteral {
			name = unquote(name, literalStyleOf(name))
		}
	}
	if cls != nil && cls.Kind == ast.ClassKindTrait && block == nil && !hasModifierKeyword(mods, parser.TokenAbstract) {
		return nil, &StructuralViolationError{
			Message: "You defined a method without body. Try adding a body, or declare it abstract.",
			Span:    spanOf(n),
		}
	}

	info := c.resolveModifiers(mods, ast.Public)
	annotationDecl := cls != nil && cls.Modifiers.Has(ast.Annotation)
	hasReturnType := typeNode != nil

	anns, err := c.buildAnnotations(mods)
	if err != nil {
		return nil, err
	}
	parameters, err := c.buildParameters(params)
	if err != nil {
		return nil, err
	}
	if parameters == nil {
		parameters = []*ast.Parameter{}
	}

	m := configure(&ast.MethodNode{
		Name:            name,
		Modifiers:       info.bits,
		SyntheticPublic: isSyntheticPublic(annotationDecl, info, hasReturnType),
		ReturnType:      c.buildType(typeNode),
		Parameters:      parameters,
		Exceptions:      c.buildTypeList(throws),
		Generics:        c.buildTypeParameters(typeParams),
		Annotations:     anns,
		Groovydoc:       c.docs.find(n),
	}, n)
	if cls != nil && cls.IsInterface() {
		m.Modifiers |= ast.Abstract
	}

	innerClasses, err := c.buildMethodBody(m, defaultValue, block)
	if err != nil {
		return nil, err
	}
	for _, inner := range innerClasses {
		if cls == nil || inner.OuterClass == cls.Name || inner.Anonymous {
			inner.EnclosingMethod = name
		}
	}

	switch {
	case cls == nil:
		m.AnnotationDefault = true
	case isConstructor(cls, nameNode, typeNode, block, mods):
		m.Constructor = true
		m.ReturnType = nil
		cls.Constructors = append(cls.Constructors, m)
	default:
		cls.Methods = append(cls.Methods, m)
	}
	return m, nil
}

// buildMethodBody builds the code of m, either an annotation default value
// or a block, and returns the classes declared inside it.
func (c *builderContext) buildMethodBody(m *ast.MethodNode, defaultValue, block *parser.Node) (inner []*ast.ClassNode, err error) {
	done := c.enterMethod()
	defer func() { inner = done() }()

	switch {
	case defaultValue != nil:
		v, err := c.buildAnnotationValue(defaultValue)
		if err != nil {
			return nil, err
		}
		m.Code = withSpan(&ast.ExpressionStmt{Expr: v}, v.Span())
		m.AnnotationDefault = true
	case block != nil:
		code, err := c.buildBlock(block)
		if err != nil {
			return nil, err
		}
		m.Code = code
	}
	return nil, nil
}

// isConstructor reports whether a method declaration is a constructor: no
// return type, a body, the class's own name and at most a visibility
// modifier.
func isConstructor(cls *ast.ClassNode, nameNode, typeNode, block, mods *parser.Node) bool {
	if nameNode == nil || nameNode.Kind != parser.KindIdentifier || typeNode != nil || block == nil {
		return false
	}
	if nameNode.TokenLiteral() != cls.SimpleName() {
		return false
	}
	if mods == nil {
		return true
	}
	keywords := mods.ChildrenOfKind(parser.KindModifier)
	switch len(keywords) {
	case 0:
		return true
	case 1:
		_, ok := visibilityBits[keywords[0].TokenKind()]
		return ok
	}
	return false
}

// buildField converts a field declaration. In a class, a field without
// visibility becomes a property backed by a private synthetic field.
// Interface fields are public static final constants.
func (c *builderContext) buildField(cls *ast.ClassNode, n *parser.Node) error {
	mods := n.FirstChildOfKind(parser.KindModifiers)
	info := c.resolveModifiers(mods, 0)
	anns, err := c.buildAnnotations(mods)
	if err != nil {
		return err
	}
	typ := n.FirstChildOfKind(parser.KindType)
	iface := cls.IsInterface()
	bits := info.bits
	if iface {
		if kw := visibilityKeyword(mods); kw != nil && kw.TokenKind() != parser.TokenPublic {
			c.diags.errorf(spanOf(kw), "The field is in an interface and cannot be %s", kw.TokenLiteral())
		}
		bits = bits&^ast.VisibilityMask | ast.Static | ast.Final | ast.Public
	}
	doc := c.docs.find(n)

	decls := n.ChildrenOfKind(parser.KindVariableDeclarator)
	for _, d := range decls {
		kids := significant(d)
		if len(kids) == 0 || kids[0].Kind != parser.KindIdentifier {
			continue
		}
		name := kids[0].TokenLiteral()
		t := c.buildType(typ)
		var initial ast.Expr
		if len(kids) > 1 {
			if initial, err = c.buildExpr(kids[1]); err != nil {
				return err
			}
		} else if iface {
			if v, ok := primitiveDefault(t); ok {
				initial = &ast.ConstantExpr{Value: v}
			}
		}
		span := spanOf(n)
		if len(decls) > 1 {
			span = rangeOf(n, d)
		}

		f := withSpan(&ast.FieldNode{
			Name:         name,
			Modifiers:    bits,
			Type:         t,
			InitialValue: initial,
			Owner:        cls.Name,
			Annotations:  anns,
			Groovydoc:    doc,
		}, span)
		cls.Fields = append(cls.Fields, f)
		if iface || info.explicit {
			continue
		}
		f.Modifiers = bits | ast.Private
		f.Synthetic = true
		cls.Properties = append(cls.Properties, withSpan(&ast.PropertyNode{
			Name:      name,
			Modifiers: bits | ast.Public,
			Field:     f,
		}, span))
	}
	return nil
}

// primitiveDefault returns the value an interface constant of a primitive
// type holds when declared without an initializer.
func primitiveDefault(t *ast.Type) (any, bool) {
	if !t.IsPrimitive() {
		return nil, false
	}
	switch t.Name {
	case "int", "short", "byte", "char":
		return int32(0), true
	case "long":
		return int64(0), true
	case "float":
		return float32(0), true
	case "double":
		return float64(0), true
	case "boolean":
		return false, true
	}
	return nil, false
}

// buildAnonymousClass creates the class for a "new T() {...}" expression or
// an enum constant body and returns its generated name.
func (c *builderContext) buildAnonymousClass(super *ast.Type, body, at *parser.Node) (string, error) {
	sup := *super
	name := c.nextAnonymousName()
	cls := configure(&ast.ClassNode{
		Name:       name,
		Kind:       ast.ClassKindClass,
		Modifiers:  ast.Public,
		SuperClass: &sup,
		Mixins:     []*ast.Type{},
		OuterClass: c.outerName(),
		Anonymous:  true,
	}, at)
	if outer := c.currentClass(); outer != nil {
		outer.InnerClasses = append(outer.InnerClasses, name)
	}
	c.collect(cls)
	defer c.enterClass(cls)()
	if err := c.buildClassBody(cls, body); err != nil {
		return "", err
	}
	return name, nil
}
