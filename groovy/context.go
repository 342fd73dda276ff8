package groovy

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/dhamidi/groovyast/groovy/ast"
)

// builderContext is the mutable state of one BuildAST call.
type builderContext struct {
	unit          string
	source        []byte
	scriptClass   string
	packagePrefix string

	diags *diagnosticBag
	docs  *groovydocFinder

	// classStack holds the classes whose bodies are being built, outermost
	// first.
	classStack []*ast.ClassNode
	// methodInnerClasses collects, per method body being built, the classes
	// declared inside it.
	methodInnerClasses [][]*ast.ClassNode
	anonymousSeq       map[string]int

	classes   []*ast.ClassNode
	sortLines map[*ast.ClassNode]int
}

func newBuilderContext(unit string, diags *diagnosticBag) *builderContext {
	return &builderContext{
		unit:         unit,
		scriptClass:  scriptClassName(unit),
		diags:        diags,
		anonymousSeq: make(map[string]int),
		sortLines:    make(map[*ast.ClassNode]int),
	}
}

// currentClass returns the innermost class being built, or nil at script
// level.
func (c *builderContext) currentClass() *ast.ClassNode {
	if len(c.classStack) == 0 {
		return nil
	}
	return c.classStack[len(c.classStack)-1]
}

// enterClass pushes cls and returns the matching pop. Callers defer the
// result so the stack unwinds on every return path.
func (c *builderContext) enterClass(cls *ast.ClassNode) func() {
	c.classStack = append(c.classStack, cls)
	depth := len(c.classStack)
	return func() {
		c.classStack = c.classStack[:depth-1]
	}
}

// enterMethod starts collecting classes declared in a method body. The
// returned function stops collecting and hands back what was found.
func (c *builderContext) enterMethod() func() []*ast.ClassNode {
	c.methodInnerClasses = append(c.methodInnerClasses, nil)
	depth := len(c.methodInnerClasses)
	return func() []*ast.ClassNode {
		inner := c.methodInnerClasses[depth-1]
		c.methodInnerClasses = c.methodInnerClasses[:depth-1]
		return inner
	}
}

// collect registers a class of the unit. The sort line is the start line
// of its outermost enclosing class.
func (c *builderContext) collect(cls *ast.ClassNode) {
	line := cls.Span().StartLine
	if len(c.classStack) > 0 {
		line = c.sortLines[c.classStack[0]]
	}
	c.sortLines[cls] = line
	c.classes = append(c.classes, cls)
	if n := len(c.methodInnerClasses); n > 0 {
		c.methodInnerClasses[n-1] = append(c.methodInnerClasses[n-1], cls)
	}
}

// qualify returns the binary name for a class declared with the given simple
// name at the current nesting level.
func (c *builderContext) qualify(name string) string {
	if outer := c.currentClass(); outer != nil {
		return outer.Name + "$" + name
	}
	return c.packagePrefix + name
}

// outerName is the class an anonymous class is created in: the innermost
// class being built, or the script class.
func (c *builderContext) outerName() string {
	if outer := c.currentClass(); outer != nil {
		return outer.Name
	}
	return c.packagePrefix + c.scriptClass
}

var anonymousSuffix = regexp.MustCompile(`\$\d`)

// nextAnonymousName names a new anonymous class after the outermost
// non-anonymous ancestor of the current class. The sequence is shared by
// every anonymous class below that ancestor.
func (c *builderContext) nextAnonymousName() string {
	ancestor := c.outerName()
	if loc := anonymousSuffix.FindStringIndex(ancestor); loc != nil {
		ancestor = ancestor[:loc[0]]
	}
	c.anonymousSeq[ancestor]++
	return ancestor + "$" + strconv.Itoa(c.anonymousSeq[ancestor])
}

func (c *builderContext) classSortKey(cls *ast.ClassNode) string {
	flag := "0"
	if cls.IsInterface() || cls.IsEnum() {
		flag = "1"
	}
	return fmt.Sprintf("%010d@%s@%s", c.sortLines[cls], flag, cls.Name)
}

// sortedClasses returns the collected classes in emission order.
func (c *builderContext) sortedClasses() []*ast.ClassNode {
	out := make([]*ast.ClassNode, len(c.classes))
	copy(out, c.classes)
	sort.SliceStable(out, func(i, j int) bool {
		return c.classSortKey(out[i]) < c.classSortKey(out[j])
	})
	return out
}
