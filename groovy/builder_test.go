package groovy

import (
	"errors"
	"io"
	"math/big"
	"os"
	"strings"
	"testing"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSource(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()
	res, err := NewBuilder(StringSource{Path: "Script.groovy", Text: src}, opts...).BuildAST()
	require.NoError(t, err)
	require.NotNil(t, res.Module)
	return res
}

// buildClean builds src and fails the test on any diagnostic.
func buildClean(t *testing.T, src string) *ast.Module {
	t.Helper()
	res := buildSource(t, src)
	require.Empty(t, res.Diagnostics, "source:\n%s", src)
	return res.Module
}

func buildFailure(t *testing.T, src string) *CompilationFailedError {
	t.Helper()
	_, err := NewBuilder(StringSource{Path: "Script.groovy", Text: src}).BuildAST()
	require.Error(t, err)
	var failed *CompilationFailedError
	require.True(t, errors.As(err, &failed), "got %T: %v", err, err)
	return failed
}

func firstStmtExpr(t *testing.T, m *ast.Module) ast.Expr {
	t.Helper()
	require.NotEmpty(t, m.Statements)
	stmt, ok := m.Statements[0].(*ast.ExpressionStmt)
	require.True(t, ok, "got %T", m.Statements[0])
	return stmt.Expr
}

func declInit(t *testing.T, m *ast.Module) ast.Expr {
	t.Helper()
	decl, ok := firstStmtExpr(t, m).(*ast.DeclarationExpr)
	require.True(t, ok, "got %T", firstStmtExpr(t, m))
	return decl.Right
}

var astComparers = cmp.Options{
	cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	}),
	cmp.Comparer(func(a, b *big.Rat) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	}),
}

func TestEveryExpressionKindHasABuilder(t *testing.T) {
	for _, kind := range parser.AllKinds() {
		if kind.Category() != parser.CategoryExpression {
			continue
		}
		assert.Contains(t, exprBuilders, kind, "no builder for %v", kind)
	}
}

func TestEmptyUnitReturnsNull(t *testing.T) {
	for _, src := range []string{"", "\n\n", "// only a comment\n"} {
		m := buildClean(t, src)
		require.Len(t, m.Statements, 1, "source %q", src)
		ret, ok := m.Statements[0].(*ast.ReturnStmt)
		require.True(t, ok, "got %T", m.Statements[0])
		c, ok := ret.Expr.(*ast.ConstantExpr)
		require.True(t, ok)
		assert.Nil(t, c.Value)
		assert.Empty(t, m.Classes)
	}
}

func TestMethodOnlyUnitHasNoStatements(t *testing.T) {
	m := buildClean(t, "def f() { 1 }")
	assert.Empty(t, m.Statements)
	require.Len(t, m.Methods, 1)
	assert.Equal(t, "f", m.Methods[0].Name)
}

func TestClassOnlyUnitHasNoStatements(t *testing.T) {
	m := buildClean(t, "class A {}")
	assert.Empty(t, m.Statements)
	require.Len(t, m.Classes, 1)
	assert.Equal(t, "A", m.Classes[0].Name)
}

func TestScriptClassName(t *testing.T) {
	res := buildSource(t, "package a.b\nprintln 1")
	assert.Equal(t, "a.b.Script", res.Module.ScriptClassName)
	assert.Equal(t, "a.b", res.Module.PackageName())
	assert.Equal(t, "Script.groovy", res.Module.Name)

	assert.Equal(t, "my_script", scriptClassName("dir/my-script.groovy"))
	assert.Equal(t, "_1st", scriptClassName("1st.groovy"))
}

func TestMultipleDeclarators(t *testing.T) {
	m := buildClean(t, "int a = 1, b = 2")
	require.Len(t, m.Statements, 2)
	for i, name := range []string{"a", "b"} {
		stmt := m.Statements[i].(*ast.ExpressionStmt)
		decl := stmt.Expr.(*ast.DeclarationExpr)
		v := decl.Left.(*ast.VariableExpr)
		assert.Equal(t, name, v.Name)
		assert.Equal(t, "int", v.Type.Name)
		assert.Equal(t, int32(i+1), decl.Right.(*ast.ConstantExpr).Value)
		assert.Equal(t, 1, decl.Span().StartColumn, "%s starts at the declaration", name)
	}
}

func TestDeclarationWithoutInitializer(t *testing.T) {
	m := buildClean(t, "final String s")
	decl := firstStmtExpr(t, m).(*ast.DeclarationExpr)
	assert.IsType(t, &ast.EmptyExpr{}, decl.Right)
	v := decl.Left.(*ast.VariableExpr)
	assert.True(t, v.Modifiers.Has(ast.Final))
}

func TestTupleDeclaration(t *testing.T) {
	m := buildClean(t, "def (a, int b) = [1, 2]")
	decl := firstStmtExpr(t, m).(*ast.DeclarationExpr)
	tuple, ok := decl.Left.(*ast.TupleExpr)
	require.True(t, ok, "got %T", decl.Left)
	require.Len(t, tuple.Exprs, 2)
	assert.True(t, tuple.Exprs[0].(*ast.VariableExpr).Type.Dynamic)
	assert.Equal(t, "int", tuple.Exprs[1].(*ast.VariableExpr).Type.Name)
	assert.IsType(t, &ast.ListExpr{}, decl.Right)
}

func TestTupleDeclarationRequiresInitializer(t *testing.T) {
	failed := buildFailure(t, "def (a, b)")
	var violation *StructuralViolationError
	require.True(t, errors.As(failed, &violation), "got %v", failed.Cause)
	assert.Contains(t, violation.Message, "initializer")
}

func TestRepeatedModifierIsReported(t *testing.T) {
	res := buildSource(t, "class A {\n  static static void f() {}\n}")
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "Cannot repeat modifier: static")
	assert.Equal(t, 2, res.Diagnostics[0].Line)
	assert.True(t, res.HasErrors())

	f := res.Module.Class("A").Method("f")
	require.NotNil(t, f)
	assert.True(t, f.Modifiers.Has(ast.Static))
}

func TestDuplicateVisibilityIsReported(t *testing.T) {
	res := buildSource(t, "class A {\n  public private int x\n}")
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "access scope has already been defined")

	x := res.Module.Class("A").Field("x")
	require.NotNil(t, x)
	assert.True(t, x.Modifiers.Has(ast.Public))
	assert.False(t, x.Modifiers.Has(ast.Private))
}

func TestMaxDiagnostics(t *testing.T) {
	src := "class A {\n" + strings.Repeat("  static static int x\n", 5) + "}"
	res := buildSource(t, src, WithMaxDiagnostics(2))
	require.Len(t, res.Diagnostics, 3)
	last := res.Diagnostics[2]
	assert.Equal(t, SeverityWarning, last.Severity)
	assert.Contains(t, last.Message, "3 more")
}

func TestAnonymousClassNames(t *testing.T) {
	src := `class Outer {
  def a = new Object() {
    def inner = new Object() {}
  }
  def b = new Object() {}
}`
	m := buildClean(t, src)

	var names []string
	for _, c := range m.Classes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Outer", "Outer$1", "Outer$2", "Outer$3"}, names)

	assert.Equal(t, "Outer", m.Class("Outer$1").OuterClass)
	assert.Equal(t, "Outer$1", m.Class("Outer$2").OuterClass)
	assert.Equal(t, "Outer", m.Class("Outer$3").OuterClass)
	assert.True(t, m.Class("Outer$2").Anonymous)
	assert.Equal(t, []string{"Outer$1", "Outer$3"}, m.Class("Outer").InnerClasses)
	assert.Equal(t, ast.ObjectClassName, m.Class("Outer$1").SuperClass.Name)

	a := m.Class("Outer").Field("a")
	require.NotNil(t, a)
	call, ok := a.InitialValue.(*ast.ConstructorCallExpr)
	require.True(t, ok, "got %T", a.InitialValue)
	assert.Equal(t, "Outer$1", call.AnonymousClass)
}

func TestScriptAnonymousClassIsNamedAfterScript(t *testing.T) {
	m := buildClean(t, "def r = new Runnable() { void run() {} }")
	require.Len(t, m.Classes, 1)
	assert.Equal(t, "Script$1", m.Classes[0].Name)
	assert.Equal(t, "Script", m.Classes[0].OuterClass)
}

func TestEnclosingMethod(t *testing.T) {
	m := buildClean(t, "class A {\n  void f() {\n    def x = new Object() {}\n  }\n}")
	inner := m.Class("A$1")
	require.NotNil(t, inner)
	assert.Equal(t, "f", inner.EnclosingMethod)
}

func TestShiftAndNestedGenerics(t *testing.T) {
	m := buildClean(t, "def x = 1 >> 2\nList<List<String>> y = null")
	bin, ok := declInit(t, m).(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ">>", bin.Operator)

	decl := m.Statements[1].(*ast.ExpressionStmt).Expr.(*ast.DeclarationExpr)
	typ := decl.Left.(*ast.VariableExpr).Type
	assert.Equal(t, "List<List<String>>", typ.String())
}

func TestTwoTierFallsBackToFullPrediction(t *testing.T) {
	src := "Map<String, List<Map<String, Integer>>> m = [:]\nprintln m"

	twoTier := buildSource(t, src)
	assert.Equal(t, parser.PredictionFull, twoTier.Tier)
	assert.Empty(t, twoTier.Diagnostics)

	full := buildSource(t, src, WithStrategy(StrategyFullOnly))
	assert.Equal(t, parser.PredictionFull, full.Tier)

	if diff := cmp.Diff(full.Module, twoTier.Module, astComparers); diff != "" {
		t.Errorf("two-tier module differs from full prediction (-full +two-tier):\n%s", diff)
	}
}

func TestTwoTierKeepsFastResult(t *testing.T) {
	res := buildSource(t, "def x = [1, 2].collect { it * 2 }")
	assert.Equal(t, parser.PredictionFast, res.Tier)
}

func TestSyntaxErrorsBecomeDiagnostics(t *testing.T) {
	res := buildSource(t, "x = )\nprintln 'after'")
	require.NotEmpty(t, res.Diagnostics)
	assert.True(t, res.HasErrors())
	assert.Equal(t, 1, res.Diagnostics[0].Line)
	assert.NotEmpty(t, res.Module.Statements)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyTwoTier, StrategyFastOnly, StrategyFullOnly} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyTwoTier, got)

	_, err = ParseStrategy("slow")
	assert.Error(t, err)
}

type failingSource struct{}

func (failingSource) Name() string { return "missing.groovy" }

func (failingSource) Open() (io.ReadCloser, error) { return nil, os.ErrNotExist }

func TestUnreadableSource(t *testing.T) {
	_, err := NewBuilder(failingSource{}).BuildAST()
	var failed *CompilationFailedError
	require.True(t, errors.As(err, &failed), "got %T", err)
	assert.Equal(t, "missing.groovy", failed.Unit)
	var ioErr *IOReadError
	require.True(t, errors.As(err, &ioErr), "got %v", err)
	assert.Equal(t, "missing.groovy", ioErr.Source)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSpansNest(t *testing.T) {
	src := `package demo

import java.util.List

class Point {
  int x, y
  Point(int x, int y) {
    this.x = x
    this.y = y
  }
  def scale(n) {
    return new Point(x * n, y * n)
  }
}

def pts = [new Point(1, 2), new Point(3, 4)]
for (p in pts) {
  if (p.x > 1) {
    println "big ${p.x} and $p.y"
  } else {
    continue
  }
}
switch (pts.size()) {
  case 1:
  case 2:
    println 'few'
    break
  default:
    println 'many'
}
try {
  pts[0].scale(2)
} catch (IllegalStateException | IllegalArgumentException e) {
  throw e
}
`
	m := buildClean(t, src)
	var stack []ast.Node
	count := 0
	ast.Inspect(m, func(n ast.Node) bool {
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		count++
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			if !parent.Span().Encloses(n.Span()) {
				t.Errorf("%T %v does not enclose %T %v", parent, parent.Span(), n, n.Span())
			}
		}
		stack = append(stack, n)
		return true
	})
	assert.Greater(t, count, 50)
	for _, c := range m.Classes {
		assert.True(t, m.Span().Encloses(c.Span()), "class %s", c.Name)
	}
}

func TestByteOrderMarkIsDropped(t *testing.T) {
	m := buildClean(t, "\xef\xbb\xbfclass A {}")
	a := m.Class("A")
	require.NotNil(t, a)
	assert.Equal(t, 1, a.Span().StartColumn)
}

func TestNestingStacksUnwindOnFatalError(t *testing.T) {
	src := `class Outer {
  def f() {
    new Runnable() {
      void run() {
        for (s : xs) {}
      }
    }
  }
}`
	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile("Outer.groovy"), parser.WithComments())
	root, err := p.Finish()
	require.NoError(t, err)

	c := newBuilderContext("Outer.groovy", newDiagnosticBag(DefaultMaxDiagnostics))
	c.source = []byte(src)
	c.docs = newGroovydocFinder(p.Comments())
	_, err = c.buildModule(root)

	var violation *StructuralViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 5, violation.Span.StartLine)
	assert.Empty(t, c.classStack)
	assert.Empty(t, c.methodInnerClasses)
}
