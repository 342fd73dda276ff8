package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFromFindsManifestInParent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[parse]
strategy = "full"
jobs = 3

[output]
format = "tree"
`)
	sub := filepath.Join(root, "src", "main")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	p, err := LoadFrom(sub)
	require.NoError(t, err)
	assert.Equal(t, root, p.RootDir)
	assert.Equal(t, filepath.Join(root, ManifestName), p.Manifest)
	assert.Equal(t, "full", p.Config.Parse.Strategy)
	assert.Equal(t, 3, p.Config.Workers())
	assert.Equal(t, "tree", p.Config.Output.Format)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Sources, p.Config.Sources, "tables left out keep their defaults")
	assert.Equal(t, defaults.Parse.MaxDiagnostics, p.Config.Parse.MaxDiagnostics)
	assert.True(t, p.Config.Output.Color)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[parse]\nstrategie = \"fast\"\n", "unknown keys: parse.strategie"},
		{"bad strategy", "[parse]\nstrategy = \"slow\"\n", "[parse].strategy"},
		{"negative jobs", "[parse]\njobs = -1\n", "[parse].jobs"},
		{"bad format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"bad pattern", "[sources]\ninclude = [\"[a\"]\n", "bad pattern"},
		{"not toml", "[parse\n", ManifestName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.BuilderOptions(), 2)
	assert.Positive(t, cfg.Workers())
}

func TestSourceFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"build.gradle",
		"src/A.groovy",
		"src/nested/B.groovy",
		"src/C.java",
		"build/generated/D.groovy",
		"README.md",
	} {
		writeFile(t, filepath.Join(root, name), "")
	}

	p := &Project{RootDir: root, Config: DefaultConfig()}
	files, err := p.SourceFiles()
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, filepath.ToSlash(p.Rel(f)))
	}
	assert.Equal(t, []string{"build.gradle", "src/A.groovy", "src/nested/B.groovy"}, rel)

	p.Config.Sources.Exclude = append(p.Config.Sources.Exclude, "src/nested/**")
	files, err = p.SourceFiles()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestRelOutsideRoot(t *testing.T) {
	p := &Project{RootDir: filepath.Join(string(filepath.Separator), "a", "b")}
	outside := filepath.Join(string(filepath.Separator), "c", "d.groovy")
	assert.Equal(t, outside, p.Rel(outside))
	assert.Equal(t, "x.groovy", p.Rel(filepath.Join(p.RootDir, "x.groovy")))
}
