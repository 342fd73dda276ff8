// Package format renders built modules and their diagnostics.
package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/groovyast/groovy/ast"
)

type Encoder interface {
	Encode(m *ast.Module) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"json":    func(w io.Writer) Encoder { return NewASTJSONEncoder(w) },
	"msgpack": func(w io.Writer) Encoder { return NewMsgpackEncoder(w) },
	"tree":    func(w io.Writer) Encoder { return NewTreeEncoder(w) },
	"summary": func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"line":    func(w io.Writer) Encoder { return NewLineEncoder(w) },
}

// Names lists the accepted output format names.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Known(name string) bool {
	_, ok := encoders[name]
	return ok
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", name, Names())
	}
	return mk(w), nil
}
