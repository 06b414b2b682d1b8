package core

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/forgesec/forgelint/pkg/ast"
)

// RuleFactory creates the rule set for one workflow. Rules carry per-job
// state, so every workflow gets fresh instances; the registries behind them
// are process-wide and read-only, which is what makes concurrent linting
// safe without locking.
type RuleFactory func() []Rule

// DefaultRules returns the rules the linter runs when none are configured.
func DefaultRules() []Rule {
	return []Rule{
		NewCachePoisoningRule(),
	}
}

// Linter drives rules over parsed workflows.
type Linter struct {
	log   *zap.SugaredLogger
	rules RuleFactory
}

// LinterOption configures a Linter.
type LinterOption func(*Linter)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(log *zap.SugaredLogger) LinterOption {
	return func(l *Linter) {
		l.log = log
	}
}

// WithRules replaces the default rule set.
func WithRules(factory RuleFactory) LinterOption {
	return func(l *Linter) {
		l.rules = factory
	}
}

// NewLinter creates a linter with the default rule set and a no-op logger.
func NewLinter(opts ...LinterOption) *Linter {
	l := &Linter{
		log:   zap.NewNop().Sugar(),
		rules: DefaultRules,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LintWorkflow runs all rules over one workflow and returns their findings.
// Jobs and steps are visited in declaration order, so findings for a job
// come out in step order.
func (l *Linter) LintWorkflow(w *ast.Workflow) []*Finding {
	rules := l.rules()

	for _, rule := range rules {
		if err := rule.VisitWorkflowPre(w); err != nil {
			l.log.Debugw("rule failed on workflow", "rule", rule.Name(), "error", err)
		}
	}

	for _, job := range w.Jobs {
		for _, rule := range rules {
			if err := rule.VisitJobPre(job); err != nil {
				l.log.Debugw("rule failed on job", "rule", rule.Name(), "error", err)
			}
		}
		for _, step := range job.Steps {
			for _, rule := range rules {
				if err := rule.VisitStep(step); err != nil {
					l.log.Debugw("rule failed on step", "rule", rule.Name(), "error", err)
				}
			}
		}
		for _, rule := range rules {
			if err := rule.VisitJobPost(job); err != nil {
				l.log.Debugw("rule failed on job", "rule", rule.Name(), "error", err)
			}
		}
	}

	for _, rule := range rules {
		if err := rule.VisitWorkflowPost(w); err != nil {
			l.log.Debugw("rule failed on workflow", "rule", rule.Name(), "error", err)
		}
	}

	var findings []*Finding
	for _, rule := range rules {
		findings = append(findings, rule.Findings()...)
	}
	for _, f := range findings {
		f.Path = w.Path
	}

	l.log.Debugw("linted workflow", "path", w.Path, "findings", len(findings))
	return findings
}

// LintData parses and lints workflow content under the given path name.
func (l *Linter) LintData(path string, data []byte) ([]*Finding, error) {
	w, err := ast.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	w.Path = path
	return l.LintWorkflow(w), nil
}

// LintFile parses and lints one workflow file.
func (l *Linter) LintFile(path string) ([]*Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return l.LintData(path, data)
}

// LintFiles lints files concurrently. Findings come back grouped in input
// order regardless of completion order. A file that fails to parse does not
// stop the others; its error is joined into the returned error alongside
// the findings of the files that succeeded.
func (l *Linter) LintFiles(paths []string) ([]*Finding, error) {
	results := make([][]*Finding, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i], errs[i] = l.LintFile(path)
			return nil
		})
	}
	// The group never carries an error itself; per-file failures are kept
	// in errs so one bad file cannot cancel the rest.
	_ = g.Wait()

	var findings []*Finding
	for _, r := range results {
		findings = append(findings, r...)
	}
	return findings, errors.Join(errs...)
}
