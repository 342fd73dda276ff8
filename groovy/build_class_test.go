package groovy

import (
	"testing"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassHeader(t *testing.T) {
	m := buildClean(t, "package p\nclass A<T> extends B implements C, D {}")
	a := m.Class("p.A")
	require.NotNil(t, a)
	assert.Equal(t, ast.ClassKindClass, a.Kind)
	assert.Equal(t, "B", a.SuperClass.Name)
	require.Len(t, a.Interfaces, 2)
	assert.Equal(t, "D", a.Interfaces[1].Name)
	require.Len(t, a.Generics, 1)
	assert.True(t, a.Modifiers.Has(ast.Public))
	assert.True(t, a.SyntheticPublic)
	assert.NotNil(t, a.Mixins)

	m = buildClean(t, "private class P {}")
	assert.False(t, m.Class("P").SyntheticPublic)
	assert.True(t, m.Class("P").Modifiers.Has(ast.Private))
}

func TestInterfaceEnumTraitAnnotation(t *testing.T) {
	src := `interface I extends J { void run() }
enum Color { RED, GREEN }
trait Flying { def fly() { 'flying' } }
@interface Marker { String value() default 'x' }`
	m := buildClean(t, src)

	i := m.Class("I")
	require.NotNil(t, i)
	assert.True(t, i.IsInterface())
	assert.True(t, i.Modifiers.Has(ast.Abstract))
	assert.Equal(t, ast.ObjectClassName, i.SuperClass.Name)
	require.Len(t, i.Interfaces, 1)
	assert.Equal(t, "J", i.Interfaces[0].Name)
	assert.Nil(t, i.Mixins)
	run := i.Method("run")
	require.NotNil(t, run)
	assert.True(t, run.IsAbstract())
	assert.Nil(t, run.Code)

	color := m.Class("Color")
	assert.True(t, color.IsEnum())
	assert.True(t, color.Modifiers.Has(ast.Final))
	assert.Equal(t, ast.EnumClassName, color.SuperClass.Name)
	red := color.Field("RED")
	require.NotNil(t, red)
	assert.Equal(t, ast.Public|ast.Static|ast.Final|ast.Enum, red.Modifiers)
	assert.Equal(t, "Color", red.Type.Name)

	flying := m.Class("Flying")
	assert.True(t, flying.HasAnnotation(ast.TraitMarkerName))
	assert.False(t, flying.IsInterface())

	marker := m.Class("Marker")
	assert.True(t, marker.Modifiers.Has(ast.Annotation))
	require.NotEmpty(t, marker.Interfaces)
	assert.Equal(t, ast.AnnotationClassName, marker.Interfaces[len(marker.Interfaces)-1].Name)
	value := marker.Method("value")
	require.NotNil(t, value)
	assert.True(t, value.AnnotationDefault)
	assert.Equal(t, "x", value.Code.(*ast.ExpressionStmt).Expr.(*ast.ConstantExpr).Value)
	assert.True(t, value.SyntheticPublic)
}

func TestClassOrder(t *testing.T) {
	m := buildClean(t, "class Z {\n  class Inner {}\n}\ninterface A {}\nclass B {}")
	var names []string
	for _, c := range m.Classes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Z", "Z$Inner", "A", "B"}, names)
	assert.Equal(t, "Z", m.Class("Z$Inner").OuterClass)
	assert.Equal(t, []string{"Z$Inner"}, m.Class("Z").InnerClasses)

	m = buildClean(t, "interface A {}; enum E { X }; class B {}")
	names = nil
	for _, c := range m.Classes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"B", "A", "E"}, names, "on one line, classes come before interfaces and enums")
}

func TestEnumConstantArguments(t *testing.T) {
	src := `enum Planet {
  MERCURY(1),
  VENUS(2, 3),
  EARTH { def hello() { 'hi' } }
  Planet(a, b = 0) {}
}`
	m := buildClean(t, src)
	p := m.Class("Planet")
	require.NotNil(t, p)

	assert.Equal(t, int32(1), p.Field("MERCURY").InitialValue.(*ast.ConstantExpr).Value)
	list, ok := p.Field("VENUS").InitialValue.(*ast.ListExpr)
	require.True(t, ok)
	assert.True(t, list.Wrapped)
	assert.Len(t, list.Exprs, 2)
	assert.Nil(t, p.Field("EARTH").InitialValue)

	earth := m.Class("Planet$1")
	require.NotNil(t, earth)
	assert.True(t, earth.Anonymous)
	assert.Equal(t, "Planet", earth.SuperClass.Name)
	require.Len(t, p.Constructors, 1)
}

func TestFieldsAndProperties(t *testing.T) {
	src := `class A {
  def name
  private int count = 1
  static final String K = 'k'
}`
	m := buildClean(t, src)
	a := m.Class("A")

	prop := a.Property("name")
	require.NotNil(t, prop)
	assert.True(t, prop.Modifiers.Has(ast.Public))
	assert.Same(t, a.Field("name"), prop.Field)
	assert.True(t, prop.Field.Synthetic)
	assert.True(t, prop.Field.Modifiers.Has(ast.Private))
	assert.True(t, prop.Field.Type.Dynamic)

	count := a.Field("count")
	require.NotNil(t, count)
	assert.Nil(t, a.Property("count"))
	assert.False(t, count.Synthetic)
	assert.Equal(t, int32(1), count.InitialValue.(*ast.ConstantExpr).Value)

	k := a.Property("K")
	require.NotNil(t, k, "static final without visibility is still a property")
	assert.True(t, k.Modifiers.Has(ast.Static|ast.Final))
	assert.Equal(t, "A", a.Field("K").Owner)
}

func TestInterfaceConstants(t *testing.T) {
	m := buildClean(t, "interface I {\n  int X\n  String NAME = 'n'\n}")
	i := m.Class("I")
	x := i.Field("X")
	require.NotNil(t, x)
	assert.Equal(t, ast.Public|ast.Static|ast.Final, x.Modifiers)
	assert.Equal(t, int32(0), x.InitialValue.(*ast.ConstantExpr).Value)
	assert.Empty(t, i.Properties)
	assert.Equal(t, "n", i.Field("NAME").InitialValue.(*ast.ConstantExpr).Value)
}

func TestInterfaceFieldVisibility(t *testing.T) {
	res := buildSource(t, "interface I {\n  private int X = 1\n  public int Y = 2\n}")
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "cannot be private")
	assert.Equal(t, 2, res.Diagnostics[0].Line)

	i := res.Module.Class("I")
	for _, name := range []string{"X", "Y"} {
		f := i.Field(name)
		require.NotNil(t, f, name)
		assert.Equal(t, ast.Public|ast.Static|ast.Final, f.Modifiers, name)
	}
}

func TestMethodsAndConstructors(t *testing.T) {
	src := `class A {
  A() {}
  public A(int x) { this() }
  def A2() {}
  protected String greet(String who, int... times) throws IOException { "hi" }
  static <T> T id(T t) { t }
  def 'quoted name'() {}
}`
	m := buildClean(t, src)
	a := m.Class("A")
	require.Len(t, a.Constructors, 2)
	for _, c := range a.Constructors {
		assert.True(t, c.Constructor)
		assert.Nil(t, c.ReturnType)
	}
	body := a.Constructors[1].Code.(*ast.BlockStmt)
	call := body.Statements[0].(*ast.ExpressionStmt).Expr.(*ast.ConstructorCallExpr)
	assert.Equal(t, "this", call.Special)

	greet := a.Method("greet")
	require.NotNil(t, greet)
	assert.True(t, greet.Modifiers.Has(ast.Protected))
	assert.False(t, greet.SyntheticPublic)
	assert.Equal(t, "String", greet.ReturnType.Name)
	require.Len(t, greet.Parameters, 2)
	assert.Equal(t, 1, greet.Parameters[1].Type.Dims, "varargs become an array")
	require.Len(t, greet.Exceptions, 1)

	id := a.Method("id")
	require.NotNil(t, id)
	require.Len(t, id.Generics, 1)
	assert.True(t, id.Modifiers.Has(ast.Static|ast.Public))
	assert.True(t, id.SyntheticPublic)

	assert.NotNil(t, a.Method("A2"))
	assert.NotNil(t, a.Method("quoted name"))
}

func TestInitializers(t *testing.T) {
	src := `class A {
  static { println 1 }
  { println 2 }
  static { println 3 }
}`
	m := buildClean(t, src)
	a := m.Class("A")
	require.Len(t, a.Initializers, 1)

	clinit := a.StaticInitializer()
	require.NotNil(t, clinit)
	assert.True(t, clinit.Synthetic)
	assert.True(t, clinit.Modifiers.Has(ast.Static))
	assert.Len(t, clinit.Code.(*ast.BlockStmt).Statements, 2, "static blocks are merged")
}

func TestScriptMethods(t *testing.T) {
	m := buildClean(t, "def foo(a) { a }\nfoo(1)")
	require.Len(t, m.Methods, 1)
	foo := m.Methods[0]
	assert.Equal(t, "foo", foo.Name)
	assert.True(t, foo.AnnotationDefault)
	require.Len(t, foo.Parameters, 1)
	assert.Len(t, m.Statements, 1)
}

func TestTraitMethodWithoutBody(t *testing.T) {
	failed := buildFailure(t, "trait T { void f() }")
	var violation *StructuralViolationError
	require.ErrorAs(t, failed, &violation)
	assert.Contains(t, violation.Message, "without body")

	m := buildClean(t, "trait T { abstract void f() }")
	assert.True(t, m.Class("T").Method("f").IsAbstract())
}

func TestImportsAndPackage(t *testing.T) {
	src := `@Deprecated
package a.b
import java.util.List
import java.util.Map as M
import static java.lang.Math.max
import static java.lang.Math.min as minimum
import java.io.*
import static java.util.Collections.*`
	m := buildClean(t, src)
	require.NotNil(t, m.Package)
	assert.Equal(t, "a.b", m.Package.Name)
	require.Len(t, m.Package.Annotations, 1)
	require.Len(t, m.Imports, 6)

	tests := []struct {
		typ, alias, field string
		static, star      bool
	}{
		{"java.util.List", "List", "", false, false},
		{"java.util.Map", "M", "", false, false},
		{"java.lang.Math", "max", "max", true, false},
		{"java.lang.Math", "minimum", "min", true, false},
		{"java.io", "", "", false, true},
		{"java.util.Collections", "", "", true, true},
	}
	for i, tt := range tests {
		imp := m.Imports[i]
		assert.Equal(t, tt.typ, imp.Type, "import %d", i)
		assert.Equal(t, tt.alias, imp.Alias, "import %d", i)
		assert.Equal(t, tt.field, imp.FieldName, "import %d", i)
		assert.Equal(t, tt.static, imp.Static, "import %d", i)
		assert.Equal(t, tt.star, imp.Star, "import %d", i)
	}
}

func TestGroovydoc(t *testing.T) {
	src := "/** A greeter. */\nclass G {\n  /** Says hi. */\n  def hi() {}\n}"
	m := buildClean(t, src)
	assert.Contains(t, m.Class("G").Groovydoc, "A greeter.")
	assert.Contains(t, m.Class("G").Method("hi").Groovydoc, "Says hi.")
}
