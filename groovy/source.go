package groovy

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Source supplies the text of one compilation unit.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Name() string {
	return s.Path
}

func (s FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// StringSource is an in-memory unit, used by tests and the language server.
type StringSource struct {
	Path string
	Text string
}

func (s StringSource) Name() string {
	if s.Path == "" {
		return "script.groovy"
	}
	return s.Path
}

func (s StringSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.Text)), nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// loadText reads the whole unit once. A leading byte order mark is dropped.
func loadText(src Source) ([]byte, error) {
	r, err := src.Open()
	if err != nil {
		return nil, &IOReadError{Source: src.Name(), Err: err}
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOReadError{Source: src.Name(), Err: err}
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

// scriptClassName derives the class name a script unit compiles to from its
// file name.
func scriptClassName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "script"
	}
	var sb strings.Builder
	for i, r := range base {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
