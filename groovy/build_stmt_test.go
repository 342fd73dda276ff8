package groovy

import (
	"testing"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIfElse(t *testing.T) {
	m := buildClean(t, "if (a) b()\nelse c()")
	s := m.Statements[0].(*ast.IfStmt)
	assert.IsType(t, &ast.VariableExpr{}, s.Cond.Expr)
	assert.IsType(t, &ast.ExpressionStmt{}, s.Then)
	assert.NotNil(t, s.Else)

	m = buildClean(t, "if (a) { b() }")
	s = m.Statements[0].(*ast.IfStmt)
	assert.Nil(t, s.Else)
	assert.IsType(t, &ast.BlockStmt{}, s.Then)
}

func TestLoops(t *testing.T) {
	m := buildClean(t, "while (x < 3) { x++ }\ndo { x-- } while (x > 0)")
	w := m.Statements[0].(*ast.WhileStmt)
	assert.Equal(t, "<", w.Cond.Expr.(*ast.BinaryExpr).Operator)
	d := m.Statements[1].(*ast.DoWhileStmt)
	assert.Equal(t, ">", d.Cond.Expr.(*ast.BinaryExpr).Operator)
}

func TestClassicFor(t *testing.T) {
	m := buildClean(t, "for (int i = 0; i < 10; i++) { println i }")
	f := m.Statements[0].(*ast.ForStmt)
	assert.True(t, f.IsClassic())
	parts := f.Collection.(*ast.ClosureListExpr)
	require.Len(t, parts.Exprs, 3)
	assert.IsType(t, &ast.DeclarationExpr{}, parts.Exprs[0])
	assert.IsType(t, &ast.BinaryExpr{}, parts.Exprs[1])
	assert.IsType(t, &ast.PostfixExpr{}, parts.Exprs[2])

	m = buildClean(t, "for (;;) { break }")
	parts = m.Statements[0].(*ast.ForStmt).Collection.(*ast.ClosureListExpr)
	for _, e := range parts.Exprs {
		assert.IsType(t, &ast.EmptyExpr{}, e)
	}

	m = buildClean(t, "for (i = 0, j = 1; i < j; i++, j--) {}")
	parts = m.Statements[0].(*ast.ForStmt).Collection.(*ast.ClosureListExpr)
	init, ok := parts.Exprs[0].(*ast.ClosureListExpr)
	require.True(t, ok, "got %T", parts.Exprs[0])
	assert.Len(t, init.Exprs, 2)
	update, ok := parts.Exprs[2].(*ast.ClosureListExpr)
	require.True(t, ok, "got %T", parts.Exprs[2])
	assert.Len(t, update.Exprs, 2)
}

func TestForIn(t *testing.T) {
	m := buildClean(t, "for (x in xs) println x\nfor (String s : names) {}")
	f := m.Statements[0].(*ast.ForStmt)
	assert.False(t, f.IsClassic())
	assert.Equal(t, "x", f.Variable.Name)
	assert.True(t, f.Variable.Type.Dynamic)

	f = m.Statements[1].(*ast.ForStmt)
	assert.Equal(t, "String", f.Variable.Type.Name)
}

func TestColonLoopRequiresType(t *testing.T) {
	failed := buildFailure(t, "for (s : names) {}")
	var violation *StructuralViolationError
	require.ErrorAs(t, failed, &violation)
	assert.Equal(t, "Classic for statement require type to be declared.", violation.Message)
}

func TestSwitchFallthrough(t *testing.T) {
	m := buildClean(t, "switch (x) {\n  case 1:\n  case 2:\n    a()\n    break\n  default:\n    b()\n}")
	s := m.Statements[0].(*ast.SwitchStmt)
	require.Len(t, s.Cases, 2)
	assert.Empty(t, s.Cases[0].Body.Statements, "first label falls through")
	assert.Len(t, s.Cases[1].Body.Statements, 2)
	require.NotNil(t, s.Default)
	assert.Len(t, s.Default.Statements, 1)

	m = buildClean(t, "switch (x) { case 1: a() }")
	def := m.Statements[0].(*ast.SwitchStmt).Default
	require.NotNil(t, def, "a missing default is an empty block")
	assert.Empty(t, def.Statements)
	assert.True(t, def.Span().IsZero())
}

func TestReturn(t *testing.T) {
	m := buildClean(t, "def f() { return }\ndef g() { return 1 }")
	ret := m.Methods[0].Code.(*ast.BlockStmt).Statements[0].(*ast.ReturnStmt)
	assert.Nil(t, ret.Expr.(*ast.ConstantExpr).Value)
	ret = m.Methods[1].Code.(*ast.BlockStmt).Statements[0].(*ast.ReturnStmt)
	assert.Equal(t, int32(1), ret.Expr.(*ast.ConstantExpr).Value)
}

func TestTryCatchFinally(t *testing.T) {
	m := buildClean(t, "try { a() } catch (IOException | RuntimeException e) { b() } catch (e) { c() } finally { d() }")
	s := m.Statements[0].(*ast.TryStmt)
	require.Len(t, s.Catches, 3)
	assert.Equal(t, "IOException", s.Catches[0].Variable.Type.Name)
	assert.Equal(t, "RuntimeException", s.Catches[1].Variable.Type.Name)
	assert.Same(t, s.Catches[0].Body, s.Catches[1].Body, "a multi-catch shares its body")
	assert.Equal(t, "e", s.Catches[1].Variable.Name)
	assert.Equal(t, ast.ExceptionClassName, s.Catches[2].Variable.Type.Name)
	assert.NotNil(t, s.Finally)
}

func TestTryWithResources(t *testing.T) {
	m := buildClean(t, "try (def r = open()) { r.read() }")
	s := m.Statements[0].(*ast.TryStmt)
	require.Len(t, s.Resources, 1)
	assert.IsType(t, &ast.DeclarationExpr{}, s.Resources[0].Expr)
	assert.Empty(t, s.Catches)
}

func TestLabels(t *testing.T) {
	m := buildClean(t, "outer: inner: for (x in xs) { continue outer }")
	f := m.Statements[0].(*ast.ForStmt)
	assert.Equal(t, []string{"outer", "inner"}, f.Labels())
	cont := f.Body.(*ast.BlockStmt).Statements[0].(*ast.ContinueStmt)
	assert.Equal(t, "outer", cont.Label)
}

func TestAssertThrowSynchronized(t *testing.T) {
	m := buildClean(t, "assert x == 1 : 'message'\nthrow new RuntimeException()\nsynchronized (lock) { x++ }")
	a := m.Statements[0].(*ast.AssertStmt)
	assert.Equal(t, "==", a.Cond.Expr.(*ast.BinaryExpr).Operator)
	assert.Equal(t, "message", a.Message.(*ast.ConstantExpr).Value)
	assert.IsType(t, &ast.ConstructorCallExpr{}, m.Statements[1].(*ast.ThrowStmt).Expr)
	assert.IsType(t, &ast.SynchronizedStmt{}, m.Statements[2])
}

func TestLocalClassIsCollected(t *testing.T) {
	m := buildClean(t, "def f() {\n  class B {}\n  new B()\n}")
	require.Len(t, m.Classes, 1)
	assert.Equal(t, "B", m.Classes[0].Name)
	assert.Equal(t, "f", m.Classes[0].EnclosingMethod)
	body := m.Methods[0].Code.(*ast.BlockStmt)
	assert.Len(t, body.Statements, 1, "the class declaration yields no statement")
}
