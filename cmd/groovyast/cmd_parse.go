package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/groovyast/format"
	"github.com/dhamidi/groovyast/groovy"
	"github.com/dhamidi/groovyast/groovy/codebase"
	"github.com/dhamidi/groovyast/project"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var s settings
	var cst bool

	cmd := &cobra.Command{
		Use:   "parse <file>...",
		Short: "Build the AST of Groovy files and dump it",
		Long: `Build the AST of each file and write it to standard output.
Diagnostics go to standard error. Use "-" to read standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load()
			if err != nil {
				return err
			}
			if err := s.apply(cmd, proj); err != nil {
				return err
			}
			cfg := proj.Config

			encoder, err := format.New(cfg.Output.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			printer := format.NewDiagnosticPrinter(cmd.ErrOrStderr(), cfg.Output.Color)

			failed := 0
			for _, arg := range args {
				src, text, err := openSource(arg, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if cst {
					ok, err := dumpCST(cmd.OutOrStdout(), printer, src, text, cfg.BuilderOptions())
					if err != nil {
						return err
					}
					if !ok {
						failed++
					}
					continue
				}
				info := codebase.Build(src, cfg.BuilderOptions()...)
				if problems := info.Problems(); len(problems) > 0 {
					printer.Print(src.Name(), text, problems)
				}
				if info.Failed() {
					failed++
				}
				if info.Module == nil {
					continue
				}
				if err := encoder.Encode(info.Module); err != nil {
					return fmt.Errorf("encode %s: %w", src.Name(), err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files have errors", failed, len(args))
			}
			return nil
		},
	}

	s.register(cmd)
	cmd.Flags().BoolVar(&cst, "cst", false, "write the concrete syntax tree as JSON instead of the AST")
	return cmd
}

// dumpCST writes the syntax tree of src as indented JSON. It reports
// whether the unit parsed without errors.
func dumpCST(out io.Writer, printer *format.DiagnosticPrinter, src groovy.Source, text []byte, opts []groovy.Option) (bool, error) {
	root, diags, err := groovy.NewBuilder(src, opts...).ParseCST()
	if err != nil {
		var failed *groovy.CompilationFailedError
		if errors.As(err, &failed) {
			diags = append(failed.Diagnostics, groovy.Diagnostic{Message: failed.Cause.Error(), Severity: groovy.SeverityError})
		}
		printer.Print(src.Name(), text, diags)
		return false, nil
	}
	if len(diags) > 0 {
		printer.Print(src.Name(), text, diags)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return false, fmt.Errorf("encode %s: %w", src.Name(), err)
	}
	return !groovy.HasErrors(diags), nil
}

// openSource reads arg up front so diagnostics can quote the source.
func openSource(arg string, stdin io.Reader) (groovy.Source, []byte, error) {
	if arg == "-" {
		text, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		return groovy.StringSource{Path: "stdin.groovy", Text: string(text)}, text, nil
	}
	text, err := os.ReadFile(arg)
	if err != nil {
		return nil, nil, err
	}
	return groovy.StringSource{Path: arg, Text: string(text)}, text, nil
}
