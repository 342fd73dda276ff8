package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/groovyast/groovy"
	"github.com/fatih/color"
)

// DiagnosticPrinter writes diagnostics as
//
//	path:line:column: severity: message
//
// followed by the offending source line and a caret, when the source text
// is known.
type DiagnosticPrinter struct {
	w        io.Writer
	errorC   *color.Color
	warningC *color.Color
	pathC    *color.Color
	caretC   *color.Color
}

func NewDiagnosticPrinter(w io.Writer, useColor bool) *DiagnosticPrinter {
	p := &DiagnosticPrinter{
		w:        w,
		errorC:   color.New(color.FgRed, color.Bold),
		warningC: color.New(color.FgYellow, color.Bold),
		pathC:    color.New(color.Bold),
		caretC:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.errorC, p.warningC, p.pathC, p.caretC} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print writes diags for one unit. source may be nil.
func (p *DiagnosticPrinter) Print(unit string, source []byte, diags []groovy.Diagnostic) error {
	var lines [][]byte
	if source != nil {
		lines = bytes.Split(source, []byte("\n"))
	}

	var sb strings.Builder
	for _, d := range diags {
		loc := unit
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d:%d", unit, d.Line, d.Column)
		}
		sev := p.errorC
		if d.Severity == groovy.SeverityWarning {
			sev = p.warningC
		}
		fmt.Fprintf(&sb, "%s: %s: %s\n", p.pathC.Sprint(loc), sev.Sprint(d.Severity), d.Message)

		if d.Line < 1 || d.Line > len(lines) {
			continue
		}
		line := strings.TrimRight(string(lines[d.Line-1]), "\r")
		fmt.Fprintf(&sb, "  %s\n", line)
		fmt.Fprintf(&sb, "  %s%s\n", caretIndent(line, d.Column), p.caretC.Sprint("^"))
	}
	_, err := io.WriteString(p.w, sb.String())
	return err
}

// caretIndent returns the whitespace that puts a caret under column,
// keeping tabs so the caret lines up in a terminal.
func caretIndent(line string, column int) string {
	var sb strings.Builder
	for i, r := range []rune(line) {
		if i >= column-1 {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
