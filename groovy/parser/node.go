package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	// Compilation unit level
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl

	// Type declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindTraitDecl
	KindAnnotationDecl
	KindClassBody
	KindEnumConstant

	// Members
	KindFieldDecl
	KindVariableDeclarator
	KindMethodDecl
	KindInitializerBlock

	// Types and modifiers
	KindModifiers
	KindModifier
	KindAnnotation
	KindAnnotationElement
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindWildcard
	KindExtendsClause
	KindImplementsClause
	KindThrowsList
	KindParameters
	KindParameter
	KindQualifiedName

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindForInStmt
	KindForEachStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindSwitchLabel
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindTryStmt
	KindResources
	KindCatchClause
	KindFinallyClause
	KindSynchronizedStmt
	KindAssertStmt
	KindLabeledStmt
	KindLocalVarDecl
	KindTupleDeclarator
	KindLocalClassDecl

	// Expressions
	KindAssignExpr
	KindTernaryExpr
	KindElvisExpr
	KindBinaryExpr
	KindInstanceofExpr
	KindAsExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindCallExpr
	KindArguments
	KindPropertyExpr
	KindMethodPointer
	KindIndexExpr
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindClosureExpr
	KindListExpr
	KindMapExpr
	KindMapEntry
	KindSpreadExpr
	KindSpreadMapExpr
	KindParenExpr
	KindLiteral
	KindGString
	KindGStringText
	KindGStringPath
	KindGStringValue
	KindIdentifier
	KindThis
	KindSuper

	// Layout
	KindOperator
	KindNewline
)

var nodeKindNames = map[NodeKind]string{
	KindError:              "Error",
	KindCompilationUnit:    "CompilationUnit",
	KindPackageDecl:        "PackageDecl",
	KindImportDecl:         "ImportDecl",
	KindClassDecl:          "ClassDecl",
	KindInterfaceDecl:      "InterfaceDecl",
	KindEnumDecl:           "EnumDecl",
	KindTraitDecl:          "TraitDecl",
	KindAnnotationDecl:     "AnnotationDecl",
	KindClassBody:          "ClassBody",
	KindEnumConstant:       "EnumConstant",
	KindFieldDecl:          "FieldDecl",
	KindVariableDeclarator: "VariableDeclarator",
	KindMethodDecl:         "MethodDecl",
	KindInitializerBlock:   "InitializerBlock",
	KindModifiers:          "Modifiers",
	KindModifier:           "Modifier",
	KindAnnotation:         "Annotation",
	KindAnnotationElement:  "AnnotationElement",
	KindTypeParameters:     "TypeParameters",
	KindTypeParameter:      "TypeParameter",
	KindTypeArguments:      "TypeArguments",
	KindType:               "Type",
	KindWildcard:           "Wildcard",
	KindExtendsClause:      "ExtendsClause",
	KindImplementsClause:   "ImplementsClause",
	KindThrowsList:         "ThrowsList",
	KindParameters:         "Parameters",
	KindParameter:          "Parameter",
	KindQualifiedName:      "QualifiedName",
	KindBlock:              "Block",
	KindEmptyStmt:          "EmptyStmt",
	KindExprStmt:           "ExprStmt",
	KindIfStmt:             "IfStmt",
	KindForStmt:            "ForStmt",
	KindForInit:            "ForInit",
	KindForUpdate:          "ForUpdate",
	KindForInStmt:          "ForInStmt",
	KindForEachStmt:        "ForEachStmt",
	KindWhileStmt:          "WhileStmt",
	KindDoStmt:             "DoStmt",
	KindSwitchStmt:         "SwitchStmt",
	KindSwitchCase:         "SwitchCase",
	KindSwitchLabel:        "SwitchLabel",
	KindReturnStmt:         "ReturnStmt",
	KindBreakStmt:          "BreakStmt",
	KindContinueStmt:       "ContinueStmt",
	KindThrowStmt:          "ThrowStmt",
	KindTryStmt:            "TryStmt",
	KindResources:          "Resources",
	KindCatchClause:        "CatchClause",
	KindFinallyClause:      "FinallyClause",
	KindSynchronizedStmt:   "SynchronizedStmt",
	KindAssertStmt:         "AssertStmt",
	KindLabeledStmt:        "LabeledStmt",
	KindLocalVarDecl:       "LocalVarDecl",
	KindTupleDeclarator:    "TupleDeclarator",
	KindLocalClassDecl:     "LocalClassDecl",
	KindAssignExpr:         "AssignExpr",
	KindTernaryExpr:        "TernaryExpr",
	KindElvisExpr:          "ElvisExpr",
	KindBinaryExpr:         "BinaryExpr",
	KindInstanceofExpr:     "InstanceofExpr",
	KindAsExpr:             "AsExpr",
	KindUnaryExpr:          "UnaryExpr",
	KindPostfixExpr:        "PostfixExpr",
	KindCastExpr:           "CastExpr",
	KindCallExpr:           "CallExpr",
	KindArguments:          "Arguments",
	KindPropertyExpr:       "PropertyExpr",
	KindMethodPointer:      "MethodPointer",
	KindIndexExpr:          "IndexExpr",
	KindNewExpr:            "NewExpr",
	KindNewArrayExpr:       "NewArrayExpr",
	KindArrayInit:          "ArrayInit",
	KindClosureExpr:        "ClosureExpr",
	KindListExpr:           "ListExpr",
	KindMapExpr:            "MapExpr",
	KindMapEntry:           "MapEntry",
	KindSpreadExpr:         "SpreadExpr",
	KindSpreadMapExpr:      "SpreadMapExpr",
	KindParenExpr:          "ParenExpr",
	KindLiteral:            "Literal",
	KindGString:            "GString",
	KindGStringText:        "GStringText",
	KindGStringPath:        "GStringPath",
	KindGStringValue:       "GStringValue",
	KindIdentifier:         "Identifier",
	KindThis:               "This",
	KindSuper:              "Super",
	KindOperator:           "Operator",
	KindNewline:            "Newline",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// AllKinds returns every defined node kind in declaration order.
func AllKinds() []NodeKind {
	kinds := make([]NodeKind, 0, len(nodeKindNames))
	for k := KindError; k <= KindNewline; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Category groups node kinds by the builder stage that consumes them.
type Category int

const (
	CategoryError Category = iota
	CategoryUnit
	CategoryDeclaration
	CategoryType
	CategoryStatement
	CategoryExpression
	CategoryPart
)

func (c Category) String() string {
	switch c {
	case CategoryError:
		return "error"
	case CategoryUnit:
		return "unit"
	case CategoryDeclaration:
		return "declaration"
	case CategoryType:
		return "type"
	case CategoryStatement:
		return "statement"
	case CategoryExpression:
		return "expression"
	case CategoryPart:
		return "part"
	}
	return "unknown"
}

// Category reports which builder stage handles nodes of kind k. Every kind
// is listed in exactly one case.
func (k NodeKind) Category() Category {
	switch k {
	case KindError:
		return CategoryError
	case KindCompilationUnit, KindPackageDecl, KindImportDecl:
		return CategoryUnit
	case KindClassDecl, KindInterfaceDecl, KindEnumDecl, KindTraitDecl,
		KindAnnotationDecl, KindClassBody, KindEnumConstant, KindFieldDecl,
		KindVariableDeclarator, KindMethodDecl, KindInitializerBlock,
		KindParameters, KindParameter, KindTypeParameters, KindTypeParameter,
		KindTupleDeclarator:
		return CategoryDeclaration
	case KindType, KindTypeArguments, KindWildcard, KindExtendsClause,
		KindImplementsClause, KindThrowsList, KindQualifiedName:
		return CategoryType
	case KindBlock, KindEmptyStmt, KindExprStmt, KindIfStmt, KindForStmt,
		KindForInStmt, KindForEachStmt, KindWhileStmt, KindDoStmt,
		KindSwitchStmt, KindReturnStmt, KindBreakStmt, KindContinueStmt,
		KindThrowStmt, KindTryStmt, KindSynchronizedStmt, KindAssertStmt,
		KindLabeledStmt, KindLocalVarDecl, KindLocalClassDecl:
		return CategoryStatement
	case KindAssignExpr, KindTernaryExpr, KindElvisExpr, KindBinaryExpr,
		KindInstanceofExpr, KindAsExpr, KindUnaryExpr, KindPostfixExpr,
		KindCastExpr, KindCallExpr, KindPropertyExpr, KindMethodPointer,
		KindIndexExpr, KindNewExpr, KindNewArrayExpr, KindArrayInit,
		KindClosureExpr, KindListExpr, KindMapExpr, KindMapEntry,
		KindSpreadExpr, KindSpreadMapExpr, KindParenExpr, KindLiteral,
		KindGString, KindIdentifier, KindThis, KindSuper:
		return CategoryExpression
	case KindModifiers, KindModifier, KindAnnotation, KindAnnotationElement,
		KindForInit, KindForUpdate, KindSwitchCase, KindSwitchLabel,
		KindResources, KindCatchClause, KindFinallyClause, KindArguments,
		KindGStringText, KindGStringPath, KindGStringValue, KindOperator,
		KindNewline:
		return CategoryPart
	}
	return CategoryError
}

type Error struct {
	Message  string
	Expected []TokenKind
	Got      *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// TokenKind returns the kind of the node's token, or TokenEOF when the node
// carries none.
func (n *Node) TokenKind() TokenKind {
	if n.Token != nil {
		return n.Token.Kind
	}
	return TokenEOF
}

// Errors collects every error node in the subtree rooted at n.
func (n *Node) Errors() []*Node {
	var errs []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsError() {
			errs = append(errs, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return errs
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	n.writeIndent(&sb, indent, showPositions)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
