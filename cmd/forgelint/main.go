// Command forgelint audits GitHub Actions workflows for supply chain
// weaknesses, locally or straight from a repository on GitHub.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/forgesec/forgelint/internal/config"
	"github.com/forgesec/forgelint/internal/logger"
	"github.com/forgesec/forgelint/internal/remote"
	"github.com/forgesec/forgelint/pkg/core"
	"github.com/forgesec/forgelint/pkg/format"
)

var version = "dev"

// errFindings signals that linting worked but reported findings, so the
// process should exit nonzero without printing an extra error.
var errFindings = errors.New("findings reported")

func main() {
	err := newRootCommand().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errFindings):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "forgelint: %v\n", err)
		os.Exit(2)
	}
}

type options struct {
	format  string
	noColor bool
	debug   bool
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "forgelint",
		Short:         "Static security auditor for GitHub Actions workflows",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&opts.format, "format", "", "output format: text or sarif")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newLintCommand(&opts))
	cmd.AddCommand(newRemoteCommand(&opts))

	return cmd
}

func newLintCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [workflow files...]",
		Short: "Lint local workflow files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, linter, err := setup(opts)
			if err != nil {
				return err
			}

			findings, lintErr := linter.LintFiles(args)
			// Findings from healthy files are still reported when some
			// files failed; the failure decides the exit status.
			if err := report(cfg, opts, findings); err != nil && !errors.Is(err, errFindings) {
				return err
			}
			if lintErr != nil {
				return lintErr
			}
			if len(findings) > 0 {
				return errFindings
			}
			return nil
		},
	}
}

func newRemoteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remote owner/repo",
		Short: "Lint the workflows of a repository on GitHub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, linter, err := setup(opts)
			if err != nil {
				return err
			}

			owner, repo, err := remote.SplitRepo(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			fetcher := remote.NewFetcher(ctx, cfg.GithubToken)
			workflows, err := fetcher.FetchWorkflows(ctx, owner, repo)
			if err != nil {
				return err
			}

			var findings []*core.Finding
			var errs []error
			for _, w := range workflows {
				fs, err := linter.LintData(w.Path, w.Content)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				findings = append(findings, fs...)
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			return report(cfg, opts, findings)
		},
	}
}

func setup(opts *options) (*config.Config, *core.Linter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(opts.debug || cfg.Debug)
	if err != nil {
		return nil, nil, err
	}

	return cfg, core.NewLinter(core.WithLogger(log)), nil
}

func report(cfg *config.Config, opts *options, findings []*core.Finding) error {
	name := opts.format
	if name == "" {
		name = cfg.Format
	}
	if opts.noColor || cfg.NoColor != "" {
		color.NoColor = true
	}

	formatter, err := newFormatter(name, colorable.NewColorableStdout())
	if err != nil {
		return err
	}
	if err := formatter.Write(findings); err != nil {
		return err
	}

	if len(findings) > 0 {
		return errFindings
	}
	return nil
}

type formatter interface {
	Write(findings []*core.Finding) error
}

func newFormatter(name string, w io.Writer) (formatter, error) {
	switch name {
	case "text":
		return format.NewTextFormatter(w), nil
	case "sarif":
		sf := format.NewSarifFormatter(w)
		sf.ToolVersion = version
		return sf, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
