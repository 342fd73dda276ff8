package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dhamidi/groovyast/groovy"
	"github.com/dhamidi/groovyast/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T, files map[string]string) *project.Project {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return &project.Project{RootDir: root, Config: project.DefaultConfig()}
}

func TestBuildAllKeepsOrder(t *testing.T) {
	var sources []groovy.Source
	for _, text := range []string{"class A {}", "x = )", "class C {}", "for (s : xs) {}"} {
		sources = append(sources, groovy.StringSource{Path: text, Text: text})
	}

	var calls atomic.Int32
	infos, err := BuildAll(context.Background(), sources, 2, nil, func(*FileInfo) { calls.Add(1) })
	require.NoError(t, err)
	require.Len(t, infos, 4)
	assert.EqualValues(t, 4, calls.Load())

	for i, info := range infos {
		assert.Equal(t, sources[i].Name(), info.Path)
	}
	assert.NotNil(t, infos[0].Module.Class("A"))
	assert.False(t, infos[0].Failed())

	assert.True(t, infos[1].Failed(), "syntax errors fail the unit")
	assert.Nil(t, infos[1].Err)
	assert.NotNil(t, infos[1].Module)

	assert.NotNil(t, infos[2].Module.Class("C"))

	require.Error(t, infos[3].Err, "a fatal error stays with its unit")
	assert.Nil(t, infos[3].Module)
	problems := infos[3].Problems()
	require.NotEmpty(t, problems)
	last := problems[len(problems)-1]
	assert.Equal(t, "Classic for statement require type to be declared.", last.Message)
	assert.Equal(t, 1, last.Line)
}

func TestBuildAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildAll(ctx, []groovy.Source{groovy.StringSource{Text: "1"}}, 1, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildAllEmpty(t *testing.T) {
	infos, err := BuildAll(context.Background(), nil, 0, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestBuildMissingFile(t *testing.T) {
	info := Build(groovy.FileSource{Path: filepath.Join(t.TempDir(), "missing.groovy")})
	var ioErr *groovy.IOReadError
	require.ErrorAs(t, info.Err, &ioErr)
	assert.True(t, info.Failed())
	assert.Len(t, info.Problems(), 1)
}

func TestScanAll(t *testing.T) {
	p := newProject(t, map[string]string{
		"src/Main.groovy":       "class Main { static void main(String[] args) { println 'hi' } }",
		"src/util/Util.groovy":  "class Util {}",
		"build/Gen.groovy":      "class Gen {}",
		"settings.gradle":       "rootProject.name = 'demo'",
		"src/NotGroovy.java.md": "",
	})
	c := New(p)

	infos, err := c.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.NotNil(t, c.FindClass("Main"))
	assert.NotNil(t, c.FindClass("Util"))
	assert.Nil(t, c.FindClass("Gen"), "build/ is excluded")

	files := c.Files()
	require.Len(t, files, 3)
	assert.True(t, files[0].Path < files[1].Path && files[1].Path < files[2].Path)
}

func TestUpdateAndRemoveFile(t *testing.T) {
	c := New(newProject(t, nil))
	path := filepath.Join(c.RootDir(), "A.groovy")

	info := c.UpdateFile(path, []byte("class A {}"))
	assert.False(t, info.Failed())
	assert.Equal(t, []byte("class A {}"), info.Content)
	assert.Same(t, info, c.GetFile(path))

	info = c.UpdateFile(path, []byte("class A {"))
	assert.True(t, info.Failed())

	c.RemoveFile(path)
	assert.Nil(t, c.GetFile(path))
}

func TestFileWatcher(t *testing.T) {
	p := newProject(t, map[string]string{"A.groovy": "class A {}"})
	c := New(p)
	w := NewFileWatcher(c, time.Hour)

	var changed []string
	var removed []string
	w.OnChange = func(info *FileInfo) { changed = append(changed, filepath.Base(info.Path)) }
	w.OnRemove = func(path string) { removed = append(removed, filepath.Base(path)) }

	require.NoError(t, w.scan())
	assert.Equal(t, []string{"A.groovy"}, changed)

	require.NoError(t, w.scan())
	assert.Len(t, changed, 1, "unchanged files are not rebuilt")

	a := filepath.Join(p.RootDir, "A.groovy")
	require.NoError(t, os.WriteFile(a, []byte("class A { int x }"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(a, later, later))
	require.NoError(t, w.scan())
	assert.Equal(t, []string{"A.groovy", "A.groovy"}, changed)
	assert.NotNil(t, c.FindClass("A").Field("x"))

	require.NoError(t, os.Remove(a))
	require.NoError(t, w.scan())
	assert.Equal(t, []string{"A.groovy"}, removed)
	assert.Nil(t, c.GetFile(a))
}

func TestFileWatcherRunStops(t *testing.T) {
	c := New(newProject(t, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewFileWatcher(c, 10*time.Millisecond).Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
