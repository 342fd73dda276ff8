package groovy

import (
	"strconv"
	"strings"
)

// StringStyle is the quoting form of a string literal.
type StringStyle int

const (
	StyleSingle StringStyle = iota
	StyleDouble
	StyleTripleSingle
	StyleTripleDouble
	StyleSlashy
	StyleDollarSlashy
)

func (s StringStyle) String() string {
	switch s {
	case StyleSingle:
		return "single"
	case StyleDouble:
		return "double"
	case StyleTripleSingle:
		return "triple-single"
	case StyleTripleDouble:
		return "triple-double"
	case StyleSlashy:
		return "slashy"
	case StyleDollarSlashy:
		return "dollar-slashy"
	}
	return "unknown"
}

func (s StringStyle) opener() string {
	switch s {
	case StyleSingle:
		return "'"
	case StyleDouble:
		return `"`
	case StyleTripleSingle:
		return "'''"
	case StyleTripleDouble:
		return `"""`
	case StyleSlashy:
		return "/"
	case StyleDollarSlashy:
		return "$/"
	}
	return ""
}

func (s StringStyle) closer() string {
	if s == StyleDollarSlashy {
		return "/$"
	}
	return s.opener()
}

func (s StringStyle) multiline() bool {
	return s == StyleTripleSingle || s == StyleTripleDouble || s == StyleDollarSlashy
}

// literalStyleOf classifies a string literal by its opening delimiter.
func literalStyleOf(text string) StringStyle {
	switch {
	case strings.HasPrefix(text, "'''"):
		return StyleTripleSingle
	case strings.HasPrefix(text, `"""`):
		return StyleTripleDouble
	case strings.HasPrefix(text, "$/"):
		return StyleDollarSlashy
	case strings.HasPrefix(text, "'"):
		return StyleSingle
	case strings.HasPrefix(text, `"`):
		return StyleDouble
	case strings.HasPrefix(text, "/"):
		return StyleSlashy
	}
	return StyleDouble
}

// unquote returns the value of a complete, uninterpolated string literal.
func unquote(text string, style StringStyle) string {
	if style.multiline() {
		text = removeCR(text)
	}
	open, close := style.opener(), style.closer()
	if len(text) < len(open)+len(close) {
		return ""
	}
	text = text[len(open) : len(text)-len(close)]
	return replaceEscapesFor(text, style)
}

// gstringSegment returns the value of one literal segment of an
// interpolated string. The first segment still carries the opening
// delimiter and the last one the closing delimiter.
func gstringSegment(text string, style StringStyle, first, last bool) string {
	text = removeCR(text)
	if first {
		text = strings.TrimPrefix(text, style.opener())
	}
	if last {
		text = strings.TrimSuffix(text, style.closer())
	}
	return replaceEscapesFor(text, style)
}

func replaceEscapesFor(text string, style StringStyle) string {
	switch style {
	case StyleSlashy:
		return replaceSlashyEscapes(text)
	case StyleDollarSlashy:
		return replaceDollarSlashyEscapes(text)
	}
	return replaceEscapes(text)
}

func removeCR(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

var standardEscapeRune = map[byte]string{
	'b':  "\b",
	't':  "\t",
	'n':  "\n",
	'f':  "\f",
	'r':  "\r",
	'"':  `"`,
	'\'': "'",
	'\\': `\`,
	'$':  "$",
}

// replaceEscapes decodes the escapes of quoted strings in one left to right
// scan: line continuations, unicode, octal, then the standard escapes.
// Text produced by an escape is never decoded again. Unknown escapes are
// kept as written.
func replaceEscapes(text string) string {
	if strings.IndexByte(text, '\\') < 0 {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] != '\\' || i+1 == len(text) {
			sb.WriteByte(text[i])
			i++
			continue
		}
		next := text[i+1]
		switch {
		case next == '\n':
			i += 2
		case next == '\r' && i+2 < len(text) && text[i+2] == '\n':
			i += 3
		case next == 'u':
			if r, n, ok := hexEscapeAt(text, i); ok {
				sb.WriteRune(r)
				i += n
				continue
			}
			sb.WriteByte('\\')
			i++
		case isOctalDigit(next):
			r, n := octalEscapeAt(text, i)
			sb.WriteRune(r)
			i += n
		default:
			if repl, ok := standardEscapeRune[next]; ok {
				sb.WriteString(repl)
				i += 2
				continue
			}
			sb.WriteByte('\\')
			i++
		}
	}
	return sb.String()
}

// hexEscapeAt decodes a \uXXXX escape starting at text[i].
func hexEscapeAt(text string, i int) (rune, int, bool) {
	if i+6 > len(text) || text[i+1] != 'u' {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(text[i+2:i+6], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), 6, true
}

// octalEscapeAt decodes an octal escape starting at text[i]. Three digits
// are taken only when the first is at most 3, so the value fits a byte.
func octalEscapeAt(text string, i int) (rune, int) {
	limit := 2
	if text[i+1] <= '3' {
		limit = 3
	}
	j := i + 1
	for j < len(text) && j-(i+1) < limit && isOctalDigit(text[j]) {
		j++
	}
	v, _ := strconv.ParseUint(text[i+1:j], 8, 32)
	return rune(v), j - i
}

func isOctalDigit(b byte) bool {
	return '0' <= b && b <= '7'
}

// replaceSlashyEscapes handles /.../ strings, where only unicode escapes and
// an escaped slash are recognized.
func replaceSlashyEscapes(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '\\' && i+1 < len(text) {
			if r, n, ok := hexEscapeAt(text, i); ok {
				sb.WriteRune(r)
				i += n
				continue
			}
			if text[i+1] == '/' {
				sb.WriteByte('/')
				i += 2
				continue
			}
		}
		sb.WriteByte(text[i])
		i++
	}
	return sb.String()
}

// replaceDollarSlashyEscapes handles $/.../$ strings, where "$$" stands for
// a single dollar.
func replaceDollarSlashyEscapes(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] == '\\' {
			if r, n, ok := hexEscapeAt(text, i); ok {
				sb.WriteRune(r)
				i += n
				continue
			}
		}
		if text[i] == '$' && i+1 < len(text) && text[i+1] == '$' {
			sb.WriteByte('$')
			i += 2
			continue
		}
		sb.WriteByte(text[i])
		i++
	}
	return sb.String()
}
