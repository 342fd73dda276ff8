package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. Nested classes are not
// children of their outer class; they are reached through Module.Classes.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns true, Inspect continues into the children of node, followed
// by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Children returns the direct children of n in source order. Nil children
// are skipped.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}
	addAnnotations := func(as []*AnnotationNode) {
		for _, a := range as {
			add(a)
		}
	}
	addTypes := func(ts []*Type) {
		for _, t := range ts {
			add(t)
		}
	}
	addGenerics := func(gs []*GenericsType) {
		for _, g := range gs {
			add(g)
		}
	}
	addExprs := func(es []Expr) {
		for _, e := range es {
			add(e)
		}
	}
	addParams := func(ps []*Parameter) {
		for _, p := range ps {
			add(p)
		}
	}
	addEntries := func(es []*MapEntryExpr) {
		for _, e := range es {
			add(e)
		}
	}

	switch n := n.(type) {
	case *Module:
		add(n.Package)
		for _, i := range n.Imports {
			add(i)
		}
		for _, s := range n.Statements {
			add(s)
		}
		for _, m := range n.Methods {
			add(m)
		}
		for _, c := range n.Classes {
			add(c)
		}
	case *PackageNode:
		addAnnotations(n.Annotations)
	case *ImportNode:
		addAnnotations(n.Annotations)
	case *ClassNode:
		addAnnotations(n.Annotations)
		addGenerics(n.Generics)
		add(n.SuperClass)
		addTypes(n.Interfaces)
		for _, f := range n.Fields {
			add(f)
		}
		for _, p := range n.Properties {
			add(p)
		}
		for _, c := range n.Constructors {
			add(c)
		}
		for _, m := range n.Methods {
			add(m)
		}
		for _, b := range n.Initializers {
			add(b)
		}
	case *MethodNode:
		addAnnotations(n.Annotations)
		addGenerics(n.Generics)
		add(n.ReturnType)
		addParams(n.Parameters)
		addTypes(n.Exceptions)
		add(n.Code)
	case *FieldNode:
		addAnnotations(n.Annotations)
		add(n.Type, n.InitialValue)
	case *PropertyNode:
		// the backing field is walked through ClassNode.Fields
	case *Parameter:
		addAnnotations(n.Annotations)
		add(n.Type, n.DefaultValue)
	case *Type:
		addGenerics(n.Generics)
	case *GenericsType:
		add(n.Type)
		addTypes(n.UpperBounds)
		add(n.LowerBound)
	case *AnnotationNode:
		add(n.Type)
		for _, m := range n.Members {
			add(m.Value)
		}

	case *BlockStmt:
		for _, s := range n.Statements {
			add(s)
		}
	case *EmptyStmt:
	case *ExpressionStmt:
		add(n.Expr)
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *WhileStmt:
		add(n.Cond, n.Body)
	case *DoWhileStmt:
		add(n.Body, n.Cond)
	case *ForStmt:
		add(n.Variable, n.Collection, n.Body)
	case *SwitchStmt:
		add(n.Expr)
		for _, c := range n.Cases {
			add(c)
		}
		add(n.Default)
	case *CaseStmt:
		add(n.Expr, n.Body)
	case *TryStmt:
		for _, r := range n.Resources {
			add(r)
		}
		add(n.Body)
		for _, c := range n.Catches {
			add(c)
		}
		add(n.Finally)
	case *CatchStmt:
		add(n.Variable, n.Body)
	case *ThrowStmt:
		add(n.Expr)
	case *ReturnStmt:
		add(n.Expr)
	case *BreakStmt, *ContinueStmt:
	case *AssertStmt:
		add(n.Cond, n.Message)
	case *SynchronizedStmt:
		add(n.Expr, n.Body)

	case *ConstantExpr, *VariableExpr, *EmptyExpr, *InvalidExpr:
	case *ClassExpr:
		add(n.Type)
	case *DeclarationExpr:
		addAnnotations(n.Annotations)
		add(n.Left, n.Right)
	case *BinaryExpr:
		add(n.Left, n.Right)
	case *BooleanExpr:
		add(n.Expr)
	case *NotExpr:
		add(n.Expr)
	case *UnaryMinusExpr:
		add(n.Expr)
	case *UnaryPlusExpr:
		add(n.Expr)
	case *BitwiseNegationExpr:
		add(n.Expr)
	case *PrefixExpr:
		add(n.Expr)
	case *PostfixExpr:
		add(n.Expr)
	case *TernaryExpr:
		add(n.Cond, n.Then, n.Else)
	case *ElvisExpr:
		add(n.Cond, n.Else)
	case *CastExpr:
		if n.Coerce {
			add(n.Expr, n.Type)
		} else {
			add(n.Type, n.Expr)
		}
	case *PropertyExpr:
		add(n.Object, n.Property)
	case *MethodCallExpr:
		add(n.Object, n.Method, n.Arguments)
	case *ConstructorCallExpr:
		add(n.Type, n.Arguments)
	case *MethodPointerExpr:
		add(n.Expr, n.Method)
	case *ClosureExpr:
		addParams(n.Parameters)
		add(n.Code)
	case *ListExpr:
		addExprs(n.Exprs)
	case *MapExpr:
		addEntries(n.Entries)
	case *MapEntryExpr:
		add(n.Key, n.Value)
	case *NamedArgumentListExpr:
		addEntries(n.Entries)
	case *ArgumentListExpr:
		addExprs(n.Exprs)
	case *TupleExpr:
		addExprs(n.Exprs)
	case *RangeExpr:
		add(n.From, n.To)
	case *SpreadExpr:
		add(n.Expr)
	case *SpreadMapExpr:
		add(n.Expr)
	case *GStringExpr:
		for i, s := range n.Strings {
			add(s)
			if i < len(n.Values) {
				add(n.Values[i])
			}
		}
	case *ArrayExpr:
		add(n.ElementType)
		addExprs(n.Sizes)
		addExprs(n.Init)
	case *ClosureListExpr:
		addExprs(n.Exprs)
	case *AnnotationConstantExpr:
		add(n.Annotation)
	}
	return out
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *PackageNode:
		return n == nil
	case *Type:
		return n == nil
	case *Parameter:
		return n == nil
	case *BlockStmt:
		return n == nil
	case *BooleanExpr:
		return n == nil
	case *GenericsType:
		return n == nil
	case *AnnotationNode:
		return n == nil
	case *ConstantExpr:
		return n == nil
	}
	return false
}
