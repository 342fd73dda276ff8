package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEveryKindHasNameAndCategory(t *testing.T) {
	for _, kind := range AllKinds() {
		if kind.String() == "Unknown" {
			t.Errorf("kind %d has no name", int(kind))
		}
		if kind != KindError && kind.Category() == CategoryError {
			t.Errorf("%v has no category", kind)
		}
	}
}

func TestNodeHelpers(t *testing.T) {
	unit := parseUnit(t, "class A { int x; int y }")
	class := unit.FirstChildOfKind(KindClassDecl)
	if class == nil {
		t.Fatalf("no class in\n%s", unit)
	}
	body := class.FirstChildOfKind(KindClassBody)
	if got := len(body.ChildrenOfKind(KindFieldDecl)); got != 2 {
		t.Errorf("got %d fields, want 2", got)
	}
	if name := class.FirstChildOfKind(KindIdentifier); name.TokenLiteral() != "A" {
		t.Errorf("got name %q, want A", name.TokenLiteral())
	}
	if class.TokenKind() != TokenEOF {
		t.Errorf("class node should carry no token")
	}

	var n *Node
	body.AddChild(n)
	if got := len(body.Children); got != 2 {
		t.Errorf("AddChild(nil) changed children: %d", got)
	}
}

func TestNodeJSON(t *testing.T) {
	node := parseExpr(t, "a +\n b")
	data, err := json.Marshal(node)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"kind":"BinaryExpr"`) || !strings.Contains(s, `"token":"+"`) {
		t.Errorf("unexpected JSON %s", s)
	}
	if strings.Contains(s, "Newline") {
		t.Errorf("newline layout nodes should be omitted: %s", s)
	}
}
