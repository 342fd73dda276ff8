package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dhamidi/groovyast/format"
	"github.com/dhamidi/groovyast/groovy/codebase"
	"github.com/dhamidi/groovyast/project"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var s settings
	var watch bool
	var showProgress bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Build every Groovy file of a project and report diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			proj, err := project.LoadFrom(dir)
			if err != nil {
				return err
			}
			if err := s.apply(cmd, proj); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			printer := format.NewDiagnosticPrinter(cmd.ErrOrStderr(), proj.Config.Output.Color)
			cb := codebase.New(proj)
			if watch {
				return watchProject(ctx, cb, printer, interval, cmd.ErrOrStderr())
			}
			return checkProject(ctx, proj, printer, showProgress, cmd.ErrOrStderr())
		},
	}

	s.register(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and recheck files as they change")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval for --watch")
	cmd.Flags().BoolVar(&showProgress, "progress", true, "show a progress bar")

	return cmd
}

func checkProject(ctx context.Context, proj *project.Project, printer *format.DiagnosticPrinter, showProgress bool, out io.Writer) error {
	paths, err := proj.SourceFiles()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintf(out, "no source files under %s\n", proj.RootDir)
		return nil
	}

	var done func(*codebase.FileInfo)
	if showProgress && len(paths) > 1 {
		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(out),
			progressbar.OptionEnableColorCodes(proj.Config.Output.Color),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Building[reset]"),
			progressbar.OptionClearOnFinish(),
		)
		done = func(*codebase.FileInfo) { bar.Add(1) }
		defer bar.Finish()
	}

	infos, err := codebase.BuildAll(ctx, codebase.FileSources(paths), proj.Config.Workers(), proj.Config.BuilderOptions(), done)
	if err != nil {
		return err
	}

	failed := 0
	for _, info := range infos {
		if info.Failed() {
			failed++
		}
		printProblems(printer, proj, info)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files have errors", failed, len(infos))
	}
	fmt.Fprintf(out, "%d files ok\n", len(infos))
	return nil
}

func watchProject(ctx context.Context, cb *codebase.Codebase, printer *format.DiagnosticPrinter, interval time.Duration, out io.Writer) error {
	w := codebase.NewFileWatcher(cb, interval)
	w.OnChange = func(info *codebase.FileInfo) {
		if !info.Failed() {
			fmt.Fprintf(out, "%s: ok\n", cb.Project().Rel(info.Path))
		}
		printProblems(printer, cb.Project(), info)
	}
	w.OnRemove = func(path string) {
		fmt.Fprintf(out, "%s: removed\n", cb.Project().Rel(path))
	}
	return w.Run(ctx)
}

func printProblems(printer *format.DiagnosticPrinter, proj *project.Project, info *codebase.FileInfo) {
	problems := info.Problems()
	if len(problems) == 0 {
		return
	}
	text := info.Content
	if text == nil {
		text, _ = os.ReadFile(info.Path)
	}
	printer.Print(proj.Rel(info.Path), text, problems)
}
