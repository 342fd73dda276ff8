package format

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/dhamidi/groovyast/groovy/ast"
)

// JSONEncoder writes a declaration summary of a module: its imports,
// classes and their members, without method bodies.
type JSONEncoder struct {
	w      io.Writer
	module *ast.Module
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(m *ast.Module) error {
	e.module = m
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildModuleData(), "", "  ")
}

type jsonModule struct {
	Name        string       `json:"name"`
	Package     string       `json:"package,omitempty"`
	ScriptClass string       `json:"scriptClass"`
	Imports     []string     `json:"imports,omitempty"`
	Statements  int          `json:"statements"`
	Methods     []jsonMethod `json:"methods,omitempty"`
	Classes     []jsonClass  `json:"classes,omitempty"`
}

type jsonClass struct {
	Name       string       `json:"name"`
	SimpleName string       `json:"simpleName"`
	Kind       string       `json:"kind"`
	SuperClass string       `json:"superClass,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty"`
	Modifiers  []string     `json:"modifiers,omitempty"`
	Outer      string       `json:"outer,omitempty"`
	Anonymous  bool         `json:"anonymous,omitempty"`
	Line       int          `json:"line"`
	Fields     []jsonField  `json:"fields,omitempty"`
	Properties []string     `json:"properties,omitempty"`
	Methods    []jsonMethod `json:"methods,omitempty"`
}

type jsonField struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
	Line      int      `json:"line"`
}

type jsonMethod struct {
	Name       string          `json:"name"`
	ReturnType string          `json:"returnType,omitempty"`
	Parameters []jsonParameter `json:"parameters,omitempty"`
	Modifiers  []string        `json:"modifiers,omitempty"`
	Line       int             `json:"line"`
}

type jsonParameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (e *JSONEncoder) buildModuleData() jsonModule {
	m := e.module
	data := jsonModule{
		Name:        m.Name,
		Package:     m.PackageName(),
		ScriptClass: m.ScriptClassName,
		Statements:  len(m.Statements),
		Methods:     buildMethods(m.Methods),
	}
	for _, imp := range m.Imports {
		data.Imports = append(data.Imports, importString(imp))
	}
	for _, c := range m.Classes {
		data.Classes = append(data.Classes, buildClass(c))
	}
	return data
}

func buildClass(c *ast.ClassNode) jsonClass {
	data := jsonClass{
		Name:       c.Name,
		SimpleName: c.SimpleName(),
		Kind:       string(c.Kind),
		SuperClass: c.SuperClass.String(),
		Modifiers:  modifierList(c.Modifiers &^ (ast.Interface | ast.Annotation | ast.Enum)),
		Outer:      c.OuterClass,
		Anonymous:  c.Anonymous,
		Line:       c.Span().StartLine,
		Methods:    buildMethods(append(append([]*ast.MethodNode{}, c.Constructors...), c.Methods...)),
	}
	for _, i := range c.Interfaces {
		data.Interfaces = append(data.Interfaces, i.String())
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:      f.Name,
			Type:      f.Type.String(),
			Modifiers: modifierList(f.Modifiers),
			Line:      f.Span().StartLine,
		})
	}
	for _, p := range c.Properties {
		data.Properties = append(data.Properties, p.Name)
	}
	return data
}

func buildMethods(methods []*ast.MethodNode) []jsonMethod {
	var result []jsonMethod
	for _, m := range methods {
		jm := jsonMethod{
			Name:       m.Name,
			ReturnType: m.ReturnType.String(),
			Modifiers:  modifierList(m.Modifiers),
			Line:       m.Span().StartLine,
		}
		for _, p := range m.Parameters {
			jm.Parameters = append(jm.Parameters, jsonParameter{Name: p.Name, Type: p.Type.String()})
		}
		result = append(result, jm)
	}
	return result
}

func modifierList(m ast.Modifiers) []string {
	if m == 0 {
		return nil
	}
	return strings.Fields(m.String())
}

func importString(imp *ast.ImportNode) string {
	var sb strings.Builder
	if imp.Static {
		sb.WriteString("static ")
	}
	sb.WriteString(imp.Type)
	switch {
	case imp.Star:
		sb.WriteString(".*")
	case imp.FieldName != "":
		sb.WriteString(".")
		sb.WriteString(imp.FieldName)
	}
	if imp.Alias != "" && !imp.Star && imp.Alias != lastSegment(imp.Type) && imp.Alias != imp.FieldName {
		sb.WriteString(" as ")
		sb.WriteString(imp.Alias)
	}
	return sb.String()
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
