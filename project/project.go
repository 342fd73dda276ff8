package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/dhamidi/groovyast/format"
	"github.com/dhamidi/groovyast/groovy"
)

// ManifestName is the file that marks a project root.
const ManifestName = "groovyast.toml"

// Project is a tree of Groovy sources rooted at the directory holding
// groovyast.toml, or at the start directory when there is none.
type Project struct {
	RootDir string
	// Manifest is the path of groovyast.toml, or "" when the defaults are
	// in effect.
	Manifest string
	Config   Config
}

type Config struct {
	Sources SourcesConfig `toml:"sources"`
	Parse   ParseConfig   `toml:"parse"`
	Output  OutputConfig  `toml:"output"`
}

type SourcesConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type ParseConfig struct {
	Strategy       string `toml:"strategy"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	// Jobs bounds the units built at once; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  bool   `toml:"color"`
}

func DefaultConfig() Config {
	return Config{
		Sources: SourcesConfig{
			Include: []string{"**/*.groovy", "**/*.gradle"},
			Exclude: []string{"**/build/**", "**/.git/**"},
		},
		Parse: ParseConfig{
			Strategy:       "two-tier",
			MaxDiagnostics: groovy.DefaultMaxDiagnostics,
		},
		Output: OutputConfig{
			Format: "json",
			Color:  true,
		},
	}
}

// Load looks for a project around the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom finds groovyast.toml in dir or one of its parents and loads it.
// Without a manifest the project is rooted at dir with DefaultConfig.
func LoadFrom(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	manifest, ok, err := FindManifest(abs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Project{RootDir: abs, Config: DefaultConfig()}, nil
	}
	cfg, err := LoadConfig(manifest)
	if err != nil {
		return nil, err
	}
	return &Project{RootDir: filepath.Dir(manifest), Manifest: manifest, Config: cfg}, nil
}

// FindManifest walks up from startDir to the file system root.
func FindManifest(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", startDir, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadConfig decodes path over DefaultConfig. Keys the file leaves out keep
// their default; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := groovy.ParseStrategy(c.Parse.Strategy); err != nil {
		return fmt.Errorf("[parse].strategy: %w", err)
	}
	if c.Parse.MaxDiagnostics < 0 {
		return fmt.Errorf("[parse].max_diagnostics must not be negative")
	}
	if c.Parse.Jobs < 0 {
		return fmt.Errorf("[parse].jobs must not be negative")
	}
	if !format.Known(c.Output.Format) {
		return fmt.Errorf("[output].format: unknown format %q (want one of %v)", c.Output.Format, format.Names())
	}
	for _, p := range append(append([]string{}, c.Sources.Include...), c.Sources.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("[sources]: bad pattern %q", p)
		}
	}
	return nil
}

// BuilderOptions turns the [parse] table into builder options.
func (c Config) BuilderOptions() []groovy.Option {
	strategy, err := groovy.ParseStrategy(c.Parse.Strategy)
	if err != nil {
		strategy = groovy.StrategyTwoTier
	}
	return []groovy.Option{
		groovy.WithStrategy(strategy),
		groovy.WithMaxDiagnostics(c.Parse.MaxDiagnostics),
	}
}

// Workers returns the number of units to build at once.
func (c Config) Workers() int {
	if c.Parse.Jobs > 0 {
		return c.Parse.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// SourceFiles returns the files under the project root matching an include
// pattern and no exclude pattern, sorted. Patterns are matched against
// slash-separated paths relative to the root.
func (p *Project) SourceFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(p.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && p.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if p.included(rel) && !p.excluded(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.RootDir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (p *Project) included(rel string) bool {
	return matchAny(p.Config.Sources.Include, rel)
}

func (p *Project) excluded(rel string) bool {
	return matchAny(p.Config.Sources.Exclude, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// Rel returns path relative to the project root when it lies inside it.
func (p *Project) Rel(path string) string {
	rel, err := filepath.Rel(p.RootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
