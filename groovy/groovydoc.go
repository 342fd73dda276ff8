package groovy

import (
	"sort"
	"strings"

	"github.com/dhamidi/groovyast/groovy/parser"
)

// maxGroovydocGap is how many lines of annotations and modifiers may sit
// between a doc comment and the declaration it documents.
const maxGroovydocGap = 8

// groovydocFinder matches /** */ comments to the declarations they precede.
type groovydocFinder struct {
	comments []parser.Token // sorted by start offset
	used     map[int]bool
}

func newGroovydocFinder(comments []parser.Token) *groovydocFinder {
	var docs []parser.Token
	for _, c := range comments {
		if c.Kind == parser.TokenComment && strings.HasPrefix(c.Literal, "/**") && c.Literal != "/**/" {
			docs = append(docs, c)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Span.Start.Offset < docs[j].Span.Start.Offset
	})
	return &groovydocFinder{comments: docs, used: make(map[int]bool)}
}

// find returns the closest unused doc comment ending before node starts.
// Each comment is handed out once.
func (f *groovydocFinder) find(node *parser.Node) string {
	if f == nil || node == nil || len(f.comments) == 0 {
		return ""
	}
	start := node.Span.Start
	best := -1
	for i, c := range f.comments {
		if c.Span.End.Offset > start.Offset {
			break
		}
		if f.used[i] || start.Line-c.Span.End.Line > maxGroovydocGap {
			continue
		}
		best = i
	}
	if best < 0 {
		return ""
	}
	f.used[best] = true
	return f.comments[best].Literal
}
