package parser

import (
	"errors"
	"strings"
	"testing"
)

func parseUnit(t *testing.T, input string) *Node {
	t.Helper()
	p := ParseCompilationUnit(strings.NewReader(input), WithFile("test.groovy"))
	node, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if errs := node.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected error nodes in %q:\n%s", input, node)
	}
	return node
}

func parseExpr(t *testing.T, input string) *Node {
	t.Helper()
	p := ParseExpression(strings.NewReader(input))
	node, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return node
}

// stmt returns the expression of the first top-level expression statement.
func firstExpr(t *testing.T, unit *Node) *Node {
	t.Helper()
	for _, c := range unit.Children {
		if c.Kind == KindExprStmt {
			return c.Children[0]
		}
	}
	t.Fatalf("no expression statement in\n%s", unit)
	return nil
}

func countKind(n *Node, kind NodeKind) int {
	count := 0
	if n.Kind == kind {
		count++
	}
	for _, c := range n.Children {
		count += countKind(c, kind)
	}
	return count
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
	}{
		{"42", KindLiteral},
		{"'abc'", KindLiteral},
		{"x", KindIdentifier},
		{"x + y", KindBinaryExpr},
		{"x * y + z", KindBinaryExpr},
		{"-x", KindUnaryExpr},
		{"!x", KindUnaryExpr},
		{"x++", KindPostfixExpr},
		{"a ? b : c", KindTernaryExpr},
		{"a ?: b", KindElvisExpr},
		{"x = 5", KindAssignExpr},
		{"x += 5", KindAssignExpr},
		{"(x)", KindParenExpr},
		{"obj.field", KindPropertyExpr},
		{"obj?.field", KindPropertyExpr},
		{"obj*.field", KindPropertyExpr},
		{"obj.@field", KindPropertyExpr},
		{"obj.'quoted name'", KindPropertyExpr},
		{"obj.method()", KindCallExpr},
		{"obj.&method", KindMethodPointer},
		{"obj::method", KindMethodPointer},
		{"arr[0]", KindIndexExpr},
		{"new Foo()", KindNewExpr},
		{"new Foo() { def x }", KindNewExpr},
		{"new int[10]", KindNewArrayExpr},
		{"new int[] {1, 2}", KindNewArrayExpr},
		{"x instanceof Foo", KindInstanceofExpr},
		{"x as String", KindAsExpr},
		{"(int) x", KindCastExpr},
		{"(String) x", KindCastExpr},
		{"[1, 2]", KindListExpr},
		{"[]", KindListExpr},
		{"[a: 1]", KindMapExpr},
		{"[*: m]", KindMapExpr},
		{"[:]", KindMapExpr},
		{"{ it }", KindClosureExpr},
		{"{ a, b -> a + b }", KindClosureExpr},
		{"{ -> 1 }", KindClosureExpr},
		{`"a ${b}"`, KindGString},
		{"1..10", KindBinaryExpr},
		{"a <=> b", KindBinaryExpr},
		{"a =~ /x/", KindBinaryExpr},
		{"a ** b", KindBinaryExpr},
		{"x in [1]", KindBinaryExpr},
		{"a !in b", KindBinaryExpr},
		{"foo { it }", KindCallExpr},
		{"foo(1) { it }", KindCallExpr},
		{"this", KindThis},
		{"super.foo()", KindCallExpr},
		{"int.class", KindPropertyExpr},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseExpr(t, tt.input)
			if node.Kind != tt.kind {
				t.Errorf("got %v, want %v\n%s", node.Kind, tt.kind, node)
			}
			if errs := node.Errors(); len(errs) > 0 {
				t.Errorf("unexpected errors:\n%s", node)
			}
		})
	}
}

func TestShiftOperatorsAreAssembledFromAdjacentGT(t *testing.T) {
	tests := []struct {
		input     string
		operators int
	}{
		{"1 > 2", 1},
		{"1 >> 2", 2},
		{"1 >>> 2", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseExpr(t, tt.input)
			if node.Kind != KindBinaryExpr {
				t.Fatalf("got %v, want BinaryExpr", node.Kind)
			}
			if got := len(node.ChildrenOfKind(KindOperator)); got != tt.operators {
				t.Errorf("got %d operators, want %d", got, tt.operators)
			}
			if got := countKind(node, KindBinaryExpr); got != 1 {
				t.Errorf("got %d binary expressions, want 1", got)
			}
		})
	}
}

func TestNestedGenericClosers(t *testing.T) {
	unit := parseUnit(t, "List<List<String>> x = null")
	decl := unit.Children[0]
	if decl.Kind != KindLocalVarDecl {
		t.Fatalf("got %v, want LocalVarDecl\n%s", decl.Kind, unit)
	}
	if got := countKind(unit, KindBinaryExpr); got != 0 {
		t.Errorf("got %d binary expressions, want none", got)
	}
	if got := countKind(unit, KindTypeArguments); got != 2 {
		t.Errorf("got %d type argument lists, want 2", got)
	}
}

func TestPrecedence(t *testing.T) {
	// a + b * c: the multiplication is the right operand
	node := parseExpr(t, "a + b * c")
	right := node.Children[len(node.Children)-1]
	if right.Kind != KindBinaryExpr || right.ChildrenOfKind(KindOperator)[0].TokenLiteral() != "*" {
		t.Errorf("unexpected tree:\n%s", node)
	}

	// -2 ** 2 negates the power
	node = parseExpr(t, "-2 ** 2")
	if node.Kind != KindUnaryExpr || node.Children[1].Kind != KindBinaryExpr {
		t.Errorf("unexpected tree:\n%s", node)
	}

	// a = b = c is right associative
	node = parseExpr(t, "a = b = c")
	if node.Children[len(node.Children)-1].Kind != KindAssignExpr {
		t.Errorf("unexpected tree:\n%s", node)
	}

	// a / b / c is left associative division, not a slashy string
	node = parseExpr(t, "a / b / c")
	if node.Kind != KindBinaryExpr || node.Children[0].Kind != KindBinaryExpr {
		t.Errorf("unexpected tree:\n%s", node)
	}
}

func TestParseCompilationUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []NodeKind
	}{
		{"empty", "", nil},
		{"package and import", "package a.b\nimport java.util.List\nimport static java.lang.Math.*\nimport java.util.Map as M",
			[]NodeKind{KindPackageDecl, KindImportDecl, KindImportDecl, KindImportDecl}},
		{"class", "class Foo {}", []NodeKind{KindClassDecl}},
		{"class extends implements", "class Foo extends Bar implements Baz, Qux {}", []NodeKind{KindClassDecl}},
		{"interface", "interface Foo { void run() }", []NodeKind{KindInterfaceDecl}},
		{"enum", "enum Color { RED, GREEN, BLUE }", []NodeKind{KindEnumDecl}},
		{"trait", "trait Flying { def fly() { 'flying' } }", []NodeKind{KindTraitDecl}},
		{"annotation type", "@interface Marker { String value() default 'x' }", []NodeKind{KindAnnotationDecl}},
		{"annotated class", "@Deprecated\nclass Foo {}", []NodeKind{KindClassDecl}},
		{"script method", "def foo(a) { a }\nfoo(1)", []NodeKind{KindMethodDecl, KindExprStmt}},
		{"typed script method", "String greet(String name) { \"hi $name\" }", []NodeKind{KindMethodDecl}},
		{"declarations", "def x = 1\nint y = 2; String z", []NodeKind{KindLocalVarDecl, KindLocalVarDecl, KindLocalVarDecl}},
		{"tuple declaration", "def (a, b) = [1, 2]", []NodeKind{KindLocalVarDecl}},
		{"command expression", "println 'hi'", []NodeKind{KindExprStmt}},
		{"if else", "if (a) b()\nelse c()", []NodeKind{KindIfStmt}},
		{"if else on new lines", "if (a) {\n}\nelse {\n}", []NodeKind{KindIfStmt}},
		{"for classic", "for (int i = 0; i < 10; i++) { println i }", []NodeKind{KindForStmt}},
		{"for in", "for (x in xs) println x", []NodeKind{KindForInStmt}},
		{"for each", "for (String s : xs) {}", []NodeKind{KindForEachStmt}},
		{"while", "while (true) { break }", []NodeKind{KindWhileStmt}},
		{"do while", "do { x++ } while (x < 3)", []NodeKind{KindDoStmt}},
		{"switch", "switch (x) { case 1: case 2: a(); break; default: b() }", []NodeKind{KindSwitchStmt}},
		{"try", "try { a() } catch (IOException | RuntimeException e) { b() } finally { c() }", []NodeKind{KindTryStmt}},
		{"labeled", "outer: for (x in xs) { continue outer }", []NodeKind{KindLabeledStmt}},
		{"assert", "assert x == 1 : 'message'", []NodeKind{KindAssertStmt}},
		{"throw return", "throw new RuntimeException()\nreturn", []NodeKind{KindThrowStmt, KindReturnStmt}},
		{"synchronized", "synchronized (lock) { x++ }", []NodeKind{KindSynchronizedStmt}},
		{"local class", "class A {}\ndef f() { class B {} }", []NodeKind{KindClassDecl, KindMethodDecl}},
		{"multi-line chain", "list\n  .findAll { it }\n  .each { println it }", []NodeKind{KindExprStmt}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseUnit(t, tt.input)
			if unit.Kind != KindCompilationUnit {
				t.Fatalf("got %v, want CompilationUnit", unit.Kind)
			}
			if len(unit.Children) != len(tt.kinds) {
				t.Fatalf("got %d children, want %d\n%s", len(unit.Children), len(tt.kinds), unit)
			}
			for i, kind := range tt.kinds {
				if unit.Children[i].Kind != kind {
					t.Errorf("child %d: got %v, want %v", i, unit.Children[i].Kind, kind)
				}
			}
		})
	}
}

func TestCommandExpressionVersusDeclaration(t *testing.T) {
	unit := parseUnit(t, "foo bar")
	call := firstExpr(t, unit)
	if call.Kind != KindCallExpr {
		t.Fatalf("got %v, want CallExpr", call.Kind)
	}
	args := call.FirstChildOfKind(KindArguments)
	if args == nil || args.Token != nil {
		t.Errorf("command arguments should carry no parenthesis token:\n%s", unit)
	}

	unit = parseUnit(t, "Foo bar")
	if unit.Children[0].Kind != KindLocalVarDecl {
		t.Errorf("got %v, want LocalVarDecl", unit.Children[0].Kind)
	}
}

func TestSwitchCaseGrouping(t *testing.T) {
	unit := parseUnit(t, "switch (x) { case 1: case 2: a(); break; default: b() }")
	sw := unit.Children[0]
	cases := sw.ChildrenOfKind(KindSwitchCase)
	if len(cases) != 2 {
		t.Fatalf("got %d cases, want 2\n%s", len(cases), sw)
	}
	if got := len(cases[0].ChildrenOfKind(KindSwitchLabel)); got != 2 {
		t.Errorf("first case: got %d labels, want 2", got)
	}
	if got := len(cases[0].Children) - 2; got != 2 {
		t.Errorf("first case: got %d statements, want 2", got)
	}
	label := cases[1].Children[0]
	if label.TokenKind() != TokenDefault {
		t.Errorf("second case: got %v, want default", label.TokenKind())
	}
}

func TestGStringParts(t *testing.T) {
	node := parseExpr(t, `"a ${b} $c.d e"`)
	want := []NodeKind{KindGStringText, KindGStringValue, KindGStringText, KindGStringPath, KindGStringText}
	if len(node.Children) != len(want) {
		t.Fatalf("got %d parts, want %d\n%s", len(node.Children), len(want), node)
	}
	for i, kind := range want {
		if node.Children[i].Kind != kind {
			t.Errorf("part %d: got %v, want %v", i, node.Children[i].Kind, kind)
		}
	}
	if got := len(node.Children[3].Children); got != 2 {
		t.Errorf("path: got %d names, want 2", got)
	}
}

func TestNodeSpans(t *testing.T) {
	node := parseExpr(t, "foo.bar(1)")
	if node.Span.Start.Column != 1 || node.Span.End.Column != 11 {
		t.Errorf("call span: got %s-%s, want 1:1-1:11", node.Span.Start, node.Span.End)
	}

	unit := parseUnit(t, "def x = 1\n\nx++")
	post := firstExpr(t, unit)
	if post.Span.Start.Line != 3 || post.Span.Start.Column != 1 || post.Span.End.Column != 4 {
		t.Errorf("postfix span: got %s-%s, want 3:1-3:4", post.Span.Start, post.Span.End)
	}
}

func TestFastPredictionBailsOnLongLookahead(t *testing.T) {
	input := "Map<String, List<Map<String, Integer>>> m = [:]"

	p := ParseCompilationUnit(strings.NewReader(input),
		WithPredictionMode(PredictionFast),
		WithErrorStrategy(BailErrorStrategy{}))
	_, err := p.Finish()
	if !errors.Is(err, ErrParseCancelled) {
		t.Fatalf("got %v, want ErrParseCancelled", err)
	}
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) || !syntaxErr.Ambiguity {
		t.Errorf("got %v, want an ambiguity", err)
	}

	p.Reset()
	p.SetPredictionMode(PredictionFull)
	p.SetErrorStrategy(RecoveringErrorStrategy{})
	unit, err := p.Finish()
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if p.ErrorCount() != 0 {
		t.Errorf("fallback reported %d errors", p.ErrorCount())
	}
	if unit.Children[0].Kind != KindLocalVarDecl {
		t.Errorf("got %v, want LocalVarDecl\n%s", unit.Children[0].Kind, unit)
	}
}

func TestFastPredictionAcceptsShortDecisions(t *testing.T) {
	input := "List<List<String>> x = []\ndef y = 1 >> 2\nprintln x"
	p := ParseCompilationUnit(strings.NewReader(input),
		WithPredictionMode(PredictionFast),
		WithErrorStrategy(BailErrorStrategy{}))
	if _, err := p.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestBailOnSyntaxError(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader("x = )"), WithErrorStrategy(BailErrorStrategy{}))
	node, err := p.Finish()
	if !errors.Is(err, ErrParseCancelled) {
		t.Fatalf("got %v, want ErrParseCancelled", err)
	}
	if node != nil {
		t.Errorf("expected no tree after bailing")
	}
}

func TestRecoveringListener(t *testing.T) {
	type report struct {
		line, column int
		msg          string
	}
	var reports []report
	listener := ErrorListenerFunc(func(file string, line, column int, msg string) {
		reports = append(reports, report{line, column, msg})
	})

	p := ParseCompilationUnit(strings.NewReader("x = )\ny = 2"),
		WithFile("test.groovy"),
		WithErrorListener(listener))
	unit, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1: %v", len(reports), reports)
	}
	if reports[0].line != 1 || reports[0].column != 5 {
		t.Errorf("got %d:%d, want 1:5", reports[0].line, reports[0].column)
	}
	if !strings.Contains(reports[0].msg, "expected expression") {
		t.Errorf("unexpected message %q", reports[0].msg)
	}
	if p.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", p.ErrorCount())
	}

	// parsing resumes on the next line
	last := unit.Children[len(unit.Children)-1]
	if last.Kind != KindExprStmt || last.Children[0].Kind != KindAssignExpr {
		t.Errorf("unexpected tree:\n%s", unit)
	}
}

func TestResetReparsesSameTree(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader("class A { def f() { [1, 2].each { println it } } }"))
	first, err := p.Finish()
	if err != nil {
		t.Fatal(err)
	}
	p.Reset()
	second, err := p.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if first.StringWithPositions() != second.StringWithPositions() {
		t.Errorf("trees differ:\n%s\n%s", first, second)
	}
}
