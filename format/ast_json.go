package format

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/dhamidi/groovyast/groovy/ast"
)

// ASTJSONEncoder writes the whole syntax tree of a module as indented JSON.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(m *ast.Module) error {
	text, err := e.MarshalText(m)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(m *ast.Module) ([]byte, error) {
	return json.MarshalIndent(Tree(m), "", "  ")
}

// TreeNode is the generic, serializable form of an AST node.
type TreeNode struct {
	Kind     string            `json:"kind" msgpack:"kind"`
	Span     *TreeSpan         `json:"span,omitempty" msgpack:"span,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
	Children []*TreeNode       `json:"children,omitempty" msgpack:"children,omitempty"`
}

type TreeSpan struct {
	Start TreePosition `json:"start" msgpack:"start"`
	End   TreePosition `json:"end" msgpack:"end"`
}

type TreePosition struct {
	Line   int `json:"line" msgpack:"line"`
	Column int `json:"column" msgpack:"column"`
}

// Tree converts n and everything reachable from it through ast.Children.
func Tree(n ast.Node) *TreeNode {
	tn := &TreeNode{Kind: kindOf(n)}

	if s := n.Span(); !s.IsZero() {
		tn.Span = &TreeSpan{
			Start: TreePosition{Line: s.StartLine, Column: s.StartColumn},
			End:   TreePosition{Line: s.EndLine, Column: s.EndColumn},
		}
	}

	attrs := attrsOf(n)
	if st, ok := n.(ast.Stmt); ok && len(st.Labels()) > 0 {
		attrs.set("labels", strings.Join(st.Labels(), ","))
	}
	if len(attrs) > 0 {
		tn.Attrs = attrs
	}

	children := ast.Children(n)
	if len(children) > 0 {
		tn.Children = make([]*TreeNode, len(children))
		for i, child := range children {
			tn.Children[i] = Tree(child)
		}
	}
	return tn
}

// kindOf names a node after its Go type: "MethodCallExpr", "IfStmt".
func kindOf(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

type attrMap map[string]string

func (a attrMap) set(key, value string) {
	if value != "" {
		a[key] = value
	}
}

func (a attrMap) flag(key string, on bool) {
	if on {
		a[key] = "true"
	}
}

func (a attrMap) mods(m ast.Modifiers) {
	a.set("modifiers", m.String())
}

func attrsOf(n ast.Node) attrMap {
	a := attrMap{}
	switch n := n.(type) {
	case *ast.Module:
		a.set("name", n.Name)
		a.set("scriptClass", n.ScriptClassName)
	case *ast.PackageNode:
		a.set("name", n.Name)
	case *ast.ImportNode:
		a.set("type", n.Type)
		a.set("alias", n.Alias)
		a.set("field", n.FieldName)
		a.flag("static", n.Static)
		a.flag("star", n.Star)
	case *ast.ClassNode:
		a.set("name", n.Name)
		a.set("kind", string(n.Kind))
		a.mods(n.Modifiers)
		a.set("outer", n.OuterClass)
		a.set("enclosingMethod", n.EnclosingMethod)
		a.flag("anonymous", n.Anonymous)
		a.flag("syntheticPublic", n.SyntheticPublic)
	case *ast.MethodNode:
		a.set("name", n.Name)
		a.mods(n.Modifiers)
		a.flag("constructor", n.Constructor)
		a.flag("synthetic", n.Synthetic)
		a.flag("syntheticPublic", n.SyntheticPublic)
		a.flag("annotationDefault", n.AnnotationDefault)
	case *ast.FieldNode:
		a.set("name", n.Name)
		a.mods(n.Modifiers)
		a.set("type", n.Type.String())
		a.flag("synthetic", n.Synthetic)
	case *ast.PropertyNode:
		a.set("name", n.Name)
		a.mods(n.Modifiers)
	case *ast.Parameter:
		a.set("name", n.Name)
		a.mods(n.Modifiers)
	case *ast.Type:
		a.set("name", n.String())
		a.flag("dynamic", n.Dynamic)
	case *ast.GenericsType:
		a.set("name", n.String())
	case *ast.AnnotationNode:
		var names []string
		for _, m := range n.Members {
			names = append(names, m.Name)
		}
		a.set("members", strings.Join(names, ","))

	case *ast.BreakStmt:
		a.set("label", n.Label)
	case *ast.ContinueStmt:
		a.set("label", n.Label)

	case *ast.ConstantExpr:
		a.set("type", constantType(n.Value))
		a["value"] = constantText(n.Value)
	case *ast.VariableExpr:
		a.set("name", n.Name)
		if n.Type != nil {
			a.set("type", n.Type.String())
		}
		a.mods(n.Modifiers)
	case *ast.BinaryExpr:
		a.set("operator", n.Operator)
	case *ast.PrefixExpr:
		a.set("operator", n.Operator)
	case *ast.PostfixExpr:
		a.set("operator", n.Operator)
	case *ast.CastExpr:
		a.flag("coerce", n.Coerce)
	case *ast.PropertyExpr:
		a.flag("safe", n.Safe)
		a.flag("spread", n.Spread)
		a.flag("attribute", n.Attribute)
	case *ast.MethodCallExpr:
		a.flag("safe", n.Safe)
		a.flag("spread", n.Spread)
		a.flag("implicitThis", n.ImplicitThis)
	case *ast.ConstructorCallExpr:
		a.set("special", n.Special)
		a.set("anonymousClass", n.AnonymousClass)
	case *ast.MethodPointerExpr:
		a.flag("reference", n.Reference)
	case *ast.ClosureExpr:
		a.flag("parameters", n.IsParameterSpecified())
	case *ast.ListExpr:
		a.flag("wrapped", n.Wrapped)
	case *ast.RangeExpr:
		a.flag("inclusive", n.Inclusive)
	case *ast.GStringExpr:
		a.set("verbatim", n.Verbatim)
	case *ast.InvalidExpr:
		a.set("text", n.Text)
		a.set("message", n.Message)
	}
	return a
}

func constantType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case int32:
		return "int"
	case int64:
		return "long"
	case *big.Int:
		return "BigInteger"
	case float32:
		return "float"
	case float64:
		return "double"
	case ast.Decimal:
		return "BigDecimal"
	case string:
		return "String"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}

func constantText(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}
