package ast

import "strings"

const (
	ObjectClassName     = "java.lang.Object"
	AnnotationClassName = "java.lang.annotation.Annotation"
	EnumClassName       = "java.lang.Enum"
	ExceptionClassName  = "java.lang.Exception"
	TraitMarkerName     = "groovy.transform.Trait"
)

var primitiveNames = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// Type is a reference to a class or primitive type as written in source.
// Names are not resolved against imports.
type Type struct {
	Located
	Name     string
	Generics []*GenericsType
	// Diamond is set for "new Foo<>()".
	Diamond bool
	Dims    int
	// Dynamic marks the implicit Object type of untyped and def
	// declarations.
	Dynamic bool
}

// DynamicType returns a fresh implicit Object type.
func DynamicType() *Type {
	return &Type{Name: ObjectClassName, Dynamic: true}
}

func MakeType(name string) *Type {
	return &Type{Name: name}
}

func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

func (t *Type) IsPrimitive() bool {
	return t != nil && t.Dims == 0 && primitiveNames[t.Name]
}

// MakeArray returns a copy of t with one more array dimension.
func (t *Type) MakeArray() *Type {
	c := *t
	c.Dims++
	return &c
}

func (t *Type) String() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	if t.Dynamic {
		sb.WriteString("def")
	} else {
		sb.WriteString(t.Name)
	}
	if t.Diamond {
		sb.WriteString("<>")
	} else if len(t.Generics) > 0 {
		sb.WriteString("<")
		for i, g := range t.Generics {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(g.String())
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.Dims; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// GenericsType is either a type parameter declaration (Placeholder), a
// wildcard, or a concrete type argument.
type GenericsType struct {
	Located
	Name        string
	Type        *Type
	Placeholder bool
	Wildcard    bool
	UpperBounds []*Type
	LowerBound  *Type
}

func (g *GenericsType) String() string {
	var sb strings.Builder
	switch {
	case g.Wildcard:
		sb.WriteString("?")
	case g.Placeholder:
		sb.WriteString(g.Name)
	default:
		sb.WriteString(g.Type.String())
	}
	if len(g.UpperBounds) > 0 {
		sb.WriteString(" extends ")
		for i, b := range g.UpperBounds {
			if i > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(b.String())
		}
	}
	if g.LowerBound != nil {
		sb.WriteString(" super ")
		sb.WriteString(g.LowerBound.String())
	}
	return sb.String()
}

type AnnotationNode struct {
	Located
	Type    *Type
	Members []*AnnotationMember
}

type AnnotationMember struct {
	Name  string
	Value Expr
}

// Member returns the value of the named member, or nil.
func (a *AnnotationNode) Member(name string) Expr {
	for _, m := range a.Members {
		if m.Name == name {
			return m.Value
		}
	}
	return nil
}
