package ast

import "strings"

// Module is the AST of one compilation unit. Top-level statements and
// methods make up the script body; Classes holds every class declared in
// the unit, nested and anonymous ones included, in their final order.
type Module struct {
	Located
	// Name is the source name the unit was loaded from.
	Name            string
	ScriptClassName string
	Package         *PackageNode
	Imports         []*ImportNode
	Statements      []Stmt
	Methods         []*MethodNode
	Classes         []*ClassNode
}

// PackageName returns the declared package or "".
func (m *Module) PackageName() string {
	if m.Package == nil {
		return ""
	}
	return m.Package.Name
}

// Class returns the class with the given qualified name, or nil.
func (m *Module) Class(name string) *ClassNode {
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type PackageNode struct {
	Located
	Name        string
	Annotations []*AnnotationNode
}

type ImportNode struct {
	Located
	// Type is the imported class for single-type and static imports, and
	// the package (or class, for static star imports) for star imports.
	Type  string
	Alias string
	// FieldName is the imported member of a static import.
	FieldName   string
	Static      bool
	Star        bool
	Annotations []*AnnotationNode
}

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindTrait      ClassKind = "trait"
)

type ClassNode struct {
	Located
	// Name is the binary name: package qualified, with "$" separating
	// nested and anonymous classes from their outer class.
	Name            string
	Kind            ClassKind
	Modifiers       Modifiers
	SyntheticPublic bool
	SuperClass      *Type
	Interfaces      []*Type
	// Mixins is nil for interfaces and non-nil for every other kind.
	Mixins        []*Type
	Generics      []*GenericsType
	Annotations   []*AnnotationNode
	Fields        []*FieldNode
	Properties    []*PropertyNode
	Methods       []*MethodNode
	Constructors  []*MethodNode
	Initializers  []*BlockStmt
	OuterClass    string
	InnerClasses  []string
	Anonymous     bool
	// EnclosingMethod names the method whose body declares this class.
	EnclosingMethod string
	Groovydoc       string
}

// SimpleName returns the last segment of the class name.
func (c *ClassNode) SimpleName() string {
	name := c.Name
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (c *ClassNode) IsInterface() bool {
	return c.Modifiers.Has(Interface)
}

func (c *ClassNode) IsEnum() bool {
	return c.Modifiers.Has(Enum)
}

func (c *ClassNode) HasAnnotation(name string) bool {
	for _, a := range c.Annotations {
		if a.Type != nil && a.Type.Name == name {
			return true
		}
	}
	return false
}

func (c *ClassNode) Field(name string) *FieldNode {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (c *ClassNode) Property(name string) *PropertyNode {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Method returns the first method with the given name, or nil.
func (c *ClassNode) Method(name string) *MethodNode {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// StaticInitializer returns the synthetic <clinit> method, or nil.
func (c *ClassNode) StaticInitializer() *MethodNode {
	return c.Method("<clinit>")
}

type MethodNode struct {
	Located
	Name            string
	Modifiers       Modifiers
	SyntheticPublic bool
	// Synthetic marks methods the builder created, such as <clinit>.
	Synthetic   bool
	ReturnType  *Type
	Parameters  []*Parameter
	Exceptions  []*Type
	Generics    []*GenericsType
	Annotations []*AnnotationNode
	// Code is nil for abstract and annotation member methods.
	Code        Stmt
	Constructor bool
	// AnnotationDefault is set for annotation members declaring a default
	// and for script methods. Code then holds the default value.
	AnnotationDefault bool
	Groovydoc         string
}

func (m *MethodNode) IsAbstract() bool {
	return m.Modifiers.Has(Abstract)
}

type FieldNode struct {
	Located
	Name         string
	Modifiers    Modifiers
	Type         *Type
	InitialValue Expr
	Owner        string
	Synthetic    bool
	Annotations  []*AnnotationNode
	Groovydoc    string
}

// PropertyNode is a field declared without visibility in a class. Its
// backing Field is private.
type PropertyNode struct {
	Located
	Name      string
	Modifiers Modifiers
	Field     *FieldNode
}

type Parameter struct {
	Located
	Name         string
	Type         *Type
	Modifiers    Modifiers
	DefaultValue Expr
	Annotations  []*AnnotationNode
}
