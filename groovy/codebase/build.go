package codebase

import (
	"context"
	"errors"
	"runtime"

	"github.com/dhamidi/groovyast/groovy"
	"golang.org/x/sync/errgroup"
)

// FileSources wraps paths as builder sources.
func FileSources(paths []string) []groovy.Source {
	out := make([]groovy.Source, len(paths))
	for i, p := range paths {
		out[i] = groovy.FileSource{Path: p}
	}
	return out
}

// Build builds one unit. Errors end up in FileInfo.Err.
func Build(src groovy.Source, opts ...groovy.Option) *FileInfo {
	info := &FileInfo{Path: src.Name()}
	res, err := groovy.NewBuilder(src, opts...).BuildAST()
	if err != nil {
		info.Err = err
		var failed *groovy.CompilationFailedError
		if errors.As(err, &failed) {
			info.Diagnostics = failed.Diagnostics
		}
		return info
	}
	info.Module = res.Module
	info.Diagnostics = res.Diagnostics
	info.Tier = res.Tier
	return info
}

// BuildAll builds sources with one Builder each, at most jobs at a time.
// Results are in the order of sources. A unit that fails to build does not
// stop the others; BuildAll only fails when ctx is done. done, if not nil,
// is called after each unit, possibly from several goroutines at once.
func BuildAll(ctx context.Context, sources []groovy.Source, jobs int, opts []groovy.Option, done func(*FileInfo)) ([]*FileInfo, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*FileInfo, len(sources))
	if len(sources) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(sources)))

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info := Build(src, opts...)
			results[i] = info
			if done != nil {
				done(info)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
