package format

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/groovyast/groovy/ast"
)

// LineEncoder writes one tab-separated line per class, field and method,
// suited to grep and cut.
type LineEncoder struct {
	w      io.Writer
	module *ast.Module
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(m *ast.Module) error {
	e.module = m
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	m := e.module

	fmt.Fprintf(&sb, "script\t%s\t%d\n", m.ScriptClassName, len(m.Statements))
	for _, method := range m.Methods {
		writeMethodLine(&sb, method)
	}

	for _, c := range m.Classes {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", c.Kind, c.Name, modifiersStr(c.Modifiers&^(ast.Interface|ast.Annotation|ast.Enum)))
		for _, f := range c.Fields {
			fmt.Fprintf(&sb, "field\t%s\t%s\t%s\n",
				f.Name,
				f.Type.String(),
				modifiersStr(f.Modifiers),
			)
		}
		for _, method := range c.Constructors {
			writeMethodLine(&sb, method)
		}
		for _, method := range c.Methods {
			writeMethodLine(&sb, method)
		}
	}

	return []byte(sb.String()), nil
}

func writeMethodLine(sb *strings.Builder, m *ast.MethodNode) {
	kind := "method"
	if m.Constructor {
		kind = "constructor"
	}
	returnType := m.ReturnType.String()
	if returnType == "" {
		returnType = "-"
	}
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\t%s\n",
		kind,
		m.Name,
		returnType,
		parametersStr(m.Parameters),
		modifiersStr(m.Modifiers),
	)
}

func modifiersStr(m ast.Modifiers) string {
	if m == 0 {
		return "-"
	}
	return strings.ReplaceAll(m.String(), " ", ",")
}

func parametersStr(params []*ast.Parameter) string {
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		parts = append(parts, p.Type.String())
	}
	return strings.Join(parts, ",")
}

// TreeEncoder writes the syntax tree as indented text, one node per line:
//
//	MethodCallExpr 3:1-3:12 implicitThis="true"
//	  VariableExpr name="this"
type TreeEncoder struct {
	w      io.Writer
	Indent string
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w, Indent: "  "}
}

func (e *TreeEncoder) Encode(m *ast.Module) error {
	var sb strings.Builder
	e.writeNode(&sb, Tree(m), 0)
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, tn *TreeNode, depth int) {
	sb.WriteString(strings.Repeat(e.Indent, depth))
	sb.WriteString(tn.Kind)
	if tn.Span != nil {
		fmt.Fprintf(sb, " %d:%d-%d:%d", tn.Span.Start.Line, tn.Span.Start.Column, tn.Span.End.Line, tn.Span.End.Column)
	}
	keys := make([]string, 0, len(tn.Attrs))
	for k := range tn.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, tn.Attrs[k])
	}
	sb.WriteByte('\n')
	for _, child := range tn.Children {
		e.writeNode(sb, child, depth+1)
	}
}
