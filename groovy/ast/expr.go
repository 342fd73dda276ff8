package ast

import (
	"math/big"
	"strings"
)

// ExprBase is embedded by every expression.
type ExprBase struct {
	Located
}

func (*ExprBase) exprNode() {}

// ConstantExpr holds a literal value. Value is one of int32, int64,
// *big.Int, float32, float64, Decimal, string, bool or nil.
type ConstantExpr struct {
	ExprBase
	Value any
}

// Decimal is an arbitrary precision decimal number with the scale it was
// written with, so 1.50 and 1.5 stay distinguishable.
type Decimal struct {
	Rat   *big.Rat
	Scale int
}

func (d Decimal) String() string {
	if d.Rat == nil {
		return "0"
	}
	if d.Scale <= 0 {
		return d.Rat.FloatString(0)
	}
	return d.Rat.FloatString(d.Scale)
}

type VariableExpr struct {
	ExprBase
	Name string
	// Type is the declared type for variables introduced by a declaration.
	// It is not walked: its span belongs to the declaration.
	Type      *Type
	Modifiers Modifiers
}

func (v *VariableExpr) IsThis() bool  { return v.Name == "this" }
func (v *VariableExpr) IsSuper() bool { return v.Name == "super" }

type ClassExpr struct {
	ExprBase
	Type *Type
}

// DeclarationExpr declares one local variable, or several at once when Left
// is a TupleExpr.
type DeclarationExpr struct {
	ExprBase
	Left        Expr
	Right       Expr
	Annotations []*AnnotationNode
}

type BinaryExpr struct {
	ExprBase
	Left     Expr
	Operator string
	Right    Expr
}

// BooleanExpr marks an expression used as a condition.
type BooleanExpr struct {
	ExprBase
	Expr Expr
}

type NotExpr struct {
	ExprBase
	Expr Expr
}

type UnaryMinusExpr struct {
	ExprBase
	Expr Expr
}

type UnaryPlusExpr struct {
	ExprBase
	Expr Expr
}

type BitwiseNegationExpr struct {
	ExprBase
	Expr Expr
}

type PrefixExpr struct {
	ExprBase
	Operator string
	Expr     Expr
}

type PostfixExpr struct {
	ExprBase
	Expr     Expr
	Operator string
}

type TernaryExpr struct {
	ExprBase
	Cond *BooleanExpr
	Then Expr
	Else Expr
}

type ElvisExpr struct {
	ExprBase
	Cond Expr
	Else Expr
}

// CastExpr is "(T) x", or "x as T" when Coerce is set.
type CastExpr struct {
	ExprBase
	Type   *Type
	Expr   Expr
	Coerce bool
}

// PropertyExpr is a property access. Attribute marks ".@" field access.
type PropertyExpr struct {
	ExprBase
	Object    Expr
	Property  Expr
	Safe      bool
	Spread    bool
	Attribute bool
}

// PropertyName returns the property name when it is a constant.
func (p *PropertyExpr) PropertyName() string {
	if c, ok := p.Property.(*ConstantExpr); ok {
		if s, ok := c.Value.(string); ok {
			return s
		}
	}
	return ""
}

type MethodCallExpr struct {
	ExprBase
	Object    Expr
	Method    Expr
	Arguments Expr
	Safe      bool
	Spread    bool
	// ImplicitThis is set for calls written without a receiver.
	ImplicitThis bool
}

// MethodName returns the called method name when it is a constant.
func (m *MethodCallExpr) MethodName() string {
	if c, ok := m.Method.(*ConstantExpr); ok {
		if s, ok := c.Value.(string); ok {
			return s
		}
	}
	return ""
}

type ConstructorCallExpr struct {
	ExprBase
	Type      *Type
	Arguments Expr
	// Special is "this" or "super" for explicit constructor invocations.
	Special string
	// AnonymousClass is the name of the class created for a "new T() {}"
	// body.
	AnonymousClass string
}

// MethodPointerExpr is "obj.&name", or "obj::name" when Reference is set.
type MethodPointerExpr struct {
	ExprBase
	Expr      Expr
	Method    Expr
	Reference bool
}

// ClosureExpr is a closure literal. Parameters is nil when the closure
// declares no parameter list and takes the implicit "it", and empty when it
// was written with a bare "->".
type ClosureExpr struct {
	ExprBase
	Parameters []*Parameter
	Code       *BlockStmt
}

func (c *ClosureExpr) IsParameterSpecified() bool {
	return c.Parameters != nil
}

// ListExpr is a list literal. Wrapped marks lists synthesized to carry
// several values, such as multi-index subscripts.
type ListExpr struct {
	ExprBase
	Exprs   []Expr
	Wrapped bool
}

type MapExpr struct {
	ExprBase
	Entries []*MapEntryExpr
}

type MapEntryExpr struct {
	ExprBase
	Key   Expr
	Value Expr
}

// NamedArgumentListExpr holds the named arguments of a call that has no
// positional arguments.
type NamedArgumentListExpr struct {
	ExprBase
	Entries []*MapEntryExpr
}

type ArgumentListExpr struct {
	ExprBase
	Exprs []Expr
}

type TupleExpr struct {
	ExprBase
	Exprs []Expr
}

type RangeExpr struct {
	ExprBase
	From      Expr
	To        Expr
	Inclusive bool
}

type SpreadExpr struct {
	ExprBase
	Expr Expr
}

type SpreadMapExpr struct {
	ExprBase
	Expr Expr
}

// GStringExpr is an interpolated string. Strings has exactly one element
// more than Values; the two interleave starting with Strings[0].
type GStringExpr struct {
	ExprBase
	Verbatim string
	Strings  []*ConstantExpr
	Values   []Expr
}

// Text returns the string with every value rendered as ${...}.
func (g *GStringExpr) Text() string {
	var sb strings.Builder
	for i, s := range g.Strings {
		if v, ok := s.Value.(string); ok {
			sb.WriteString(v)
		}
		if i < len(g.Values) {
			sb.WriteString("${...}")
		}
	}
	return sb.String()
}

// ArrayExpr creates an array. Sizes has one entry per dimension, EmptyExpr
// where the size was left open; Init holds the initializer elements.
type ArrayExpr struct {
	ExprBase
	ElementType *Type
	Sizes       []Expr
	Init        []Expr
}

type ClosureListExpr struct {
	ExprBase
	Exprs []Expr
}

// EmptyExpr stands for an omitted expression such as a missing for-loop
// condition.
type EmptyExpr struct {
	ExprBase
}

type AnnotationConstantExpr struct {
	ExprBase
	Annotation *AnnotationNode
}

// InvalidExpr replaces an expression the parser could not recognize.
type InvalidExpr struct {
	ExprBase
	Text    string
	Message string
}

// NewConstant returns a constant with the given value and span.
func NewConstant(value any, span Span) *ConstantExpr {
	c := &ConstantExpr{Value: value}
	c.SetSpan(span)
	return c
}
