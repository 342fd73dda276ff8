// Package codebase builds the Groovy units of a project and keeps their
// ASTs and diagnostics current as files change.
package codebase

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/dhamidi/groovyast/groovy"
	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
	"github.com/dhamidi/groovyast/project"
	"github.com/tliron/commonlog"
)

type Codebase struct {
	mu      sync.RWMutex
	project *project.Project
	files   map[string]*FileInfo
	log     commonlog.Logger
}

// FileInfo is the outcome of building one unit. Module is nil when Err is
// set.
type FileInfo struct {
	Path        string
	Content     []byte
	Module      *ast.Module
	Diagnostics []groovy.Diagnostic
	Tier        parser.PredictionMode
	Err         error
}

// Problems returns the diagnostics of the unit, including one for the
// error that stopped its build.
func (f *FileInfo) Problems() []groovy.Diagnostic {
	if f.Err == nil {
		return f.Diagnostics
	}
	return append(append([]groovy.Diagnostic{}, f.Diagnostics...), diagnosticOf(f.Err))
}

// Failed reports whether the unit has an error diagnostic or did not build.
func (f *FileInfo) Failed() bool {
	return f.Err != nil || groovy.HasErrors(f.Diagnostics)
}

func New(p *project.Project) *Codebase {
	return &Codebase{
		project: p,
		files:   make(map[string]*FileInfo),
		log:     commonlog.GetLogger("groovyast.codebase"),
	}
}

func (c *Codebase) RootDir() string {
	return c.project.RootDir
}

func (c *Codebase) Project() *project.Project {
	return c.project
}

// ScanAll builds every source file of the project and replaces the known
// files with the results.
func (c *Codebase) ScanAll(ctx context.Context) ([]*FileInfo, error) {
	paths, err := c.project.SourceFiles()
	if err != nil {
		return nil, err
	}
	infos, err := BuildAll(ctx, FileSources(paths), c.project.Config.Workers(), c.project.Config.BuilderOptions(), nil)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]*FileInfo, len(infos))
	for _, info := range infos {
		c.files[info.Path] = info
	}
	c.log.Infof("built %d units under %s", len(infos), c.project.RootDir)
	return infos, nil
}

func (c *Codebase) ScanFile(path string) (*FileInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.UpdateFile(path, content), nil
}

// UpdateFile rebuilds path from content, which may differ from the file on
// disk while an editor holds unsaved changes.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := Build(groovy.StringSource{Path: path, Text: string(content)}, c.project.Config.BuilderOptions()...)
	info.Content = content

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the known units ordered by path.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// FindClass looks name up across every built unit.
func (c *Codebase) FindClass(name string) *ast.ClassNode {
	for _, f := range c.Files() {
		if f.Module == nil {
			continue
		}
		if cls := f.Module.Class(name); cls != nil {
			return cls
		}
	}
	return nil
}

// diagnosticOf places a build error at the position it carries, if any.
func diagnosticOf(err error) groovy.Diagnostic {
	d := groovy.Diagnostic{Message: err.Error(), Severity: groovy.SeverityError}
	var failed *groovy.CompilationFailedError
	if errors.As(err, &failed) {
		d.Message = failed.Cause.Error()
	}
	var structural *groovy.StructuralViolationError
	var unsupported *groovy.UnsupportedConstructError
	switch {
	case errors.As(err, &structural):
		d.Message = structural.Message
		d.Line, d.Column = structural.Span.StartLine, structural.Span.StartColumn
	case errors.As(err, &unsupported):
		d.Line, d.Column = unsupported.Span.StartLine, unsupported.Span.StartColumn
	}
	return d
}
