package main

import (
	"github.com/dhamidi/groovyast/project"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// settings holds the flags shared by parse and check. Flags the user did
// not set fall back to groovyast.toml.
type settings struct {
	format         string
	strategy       string
	maxDiagnostics int
	jobs           int
	color          bool
}

func (s *settings) register(cmd *cobra.Command) {
	defaults := project.DefaultConfig()
	cmd.Flags().StringVarP(&s.format, "format", "f", defaults.Output.Format, "output format (json, msgpack, tree, summary, line)")
	cmd.Flags().StringVar(&s.strategy, "strategy", defaults.Parse.Strategy, "parse strategy (two-tier, fast, full)")
	cmd.Flags().IntVar(&s.maxDiagnostics, "max-diagnostics", defaults.Parse.MaxDiagnostics, "diagnostics kept per file, 0 for all")
	cmd.Flags().IntVarP(&s.jobs, "jobs", "j", defaults.Parse.Jobs, "files built at once, 0 for one per CPU")
	cmd.Flags().BoolVar(&s.color, "color", defaults.Output.Color, "color diagnostics")
}

// apply overrides the project configuration with the flags that were set.
func (s *settings) apply(cmd *cobra.Command, p *project.Project) error {
	cfg := &p.Config
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = s.format
	}
	if flags.Changed("strategy") {
		cfg.Parse.Strategy = s.strategy
	}
	if flags.Changed("max-diagnostics") {
		cfg.Parse.MaxDiagnostics = s.maxDiagnostics
	}
	if flags.Changed("jobs") {
		cfg.Parse.Jobs = s.jobs
	}
	if flags.Changed("color") {
		cfg.Output.Color = s.color
	} else if color.NoColor {
		cfg.Output.Color = false
	}
	return cfg.Validate()
}
