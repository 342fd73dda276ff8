package codebase

import (
	"context"
	"os"
	"time"
)

// FileWatcher polls the project's source files and rebuilds those whose
// modification time moved forward.
type FileWatcher struct {
	codebase     *Codebase
	pollInterval time.Duration
	modTimes     map[string]time.Time

	// OnChange is called with every rebuilt unit.
	OnChange func(*FileInfo)
	// OnRemove is called with the path of every unit that disappeared.
	OnRemove func(path string)
}

func NewFileWatcher(c *Codebase, pollInterval time.Duration) *FileWatcher {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
	}
}

// Run scans once, then on every tick until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	if err := w.scan(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.scan(); err != nil {
				w.codebase.log.Errorf("watch: %s", err)
			}
		}
	}
}

func (w *FileWatcher) scan() error {
	paths, err := w.codebase.project.SourceFiles()
	if err != nil {
		return err
	}

	current := make(map[string]bool, len(paths))
	for _, path := range paths {
		current[path] = true
		st, err := os.Stat(path)
		if err != nil {
			continue
		}
		lastMod, known := w.modTimes[path]
		if known && !st.ModTime().After(lastMod) {
			continue
		}
		w.modTimes[path] = st.ModTime()
		info, err := w.codebase.ScanFile(path)
		if err != nil {
			continue
		}
		if w.OnChange != nil {
			w.OnChange(info)
		}
	}

	for path := range w.modTimes {
		if current[path] {
			continue
		}
		delete(w.modTimes, path)
		w.codebase.RemoveFile(path)
		if w.OnRemove != nil {
			w.OnRemove(path)
		}
	}
	return nil
}
