package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/groovyast/project"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStdin(t *testing.T) {
	cmd := newParseCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader("class A {\n  int n\n}"))
	cmd.SetArgs([]string{"--format", "line", "-"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "script\tstdin\t0\nclass\tA\tpublic\nfield\tn\tint\tprivate\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestParseReportsDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Broken.groovy")
	require.NoError(t, os.WriteFile(path, []byte("x = )\n"), 0o644))

	cmd := newParseCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--color=false", "--format", "tree", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files have errors")
	assert.Contains(t, errOut.String(), path+":1:")
	assert.True(t, strings.HasPrefix(out.String(), "Module "), "a best-effort tree is still written")
}

func TestParseCST(t *testing.T) {
	cmd := newParseCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader("x = 1 + 2\ny = 3"))
	cmd.SetArgs([]string{"--cst", "-"})

	require.NoError(t, cmd.Execute())
	var root map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &root))
	assert.Equal(t, "CompilationUnit", root["kind"])
	assert.Contains(t, out.String(), `"kind": "BinaryExpr"`)
	assert.NotContains(t, out.String(), "Newline")
	assert.Empty(t, errOut.String())
}

func TestParseRejectsUnknownFormat(t *testing.T) {
	cmd := newParseCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "-"})
	cmd.SetIn(strings.NewReader(""))
	assert.Error(t, cmd.Execute())
}

func TestCheck(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"A.groovy":         "class A {}",
		"sub/B.groovy":     "class B { def f() { 1 } }",
		"build/Gen.groovy": "class {",
	}
	for name, text := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}

	cmd := newCheckCmd()
	var errOut bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--progress=false", "--color=false", root})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "2 files ok")

	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "C.groovy"), []byte("for (s : xs) {}"), 0o644))
	cmd = newCheckCmd()
	errOut.Reset()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--progress=false", "--color=false", "-j", "2", root})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 files have errors")
	assert.Contains(t, errOut.String(), filepath.Join("sub", "C.groovy")+":1:")
	assert.Contains(t, errOut.String(), "error: Classic for statement require type to be declared.")
}

func TestSettingsOverrideConfig(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, project.ManifestName)
	require.NoError(t, os.WriteFile(manifest, []byte("[output]\nformat = \"tree\"\n[parse]\njobs = 8\n"), 0o644))
	proj, err := project.LoadFrom(root)
	require.NoError(t, err)

	var s settings
	cmd := &cobra.Command{Use: "test"}
	s.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--strategy", "full", "-j", "2", "--color=false"}))
	require.NoError(t, s.apply(cmd, proj))

	assert.Equal(t, "tree", proj.Config.Output.Format, "unset flags keep the file value")
	assert.Equal(t, "full", proj.Config.Parse.Strategy)
	assert.Equal(t, 2, proj.Config.Parse.Jobs)
	assert.False(t, proj.Config.Output.Color)

	require.NoError(t, cmd.Flags().Parse([]string{"--strategy", "slow"}))
	assert.Error(t, s.apply(cmd, proj))
}
