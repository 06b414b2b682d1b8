package core

import "github.com/forgesec/forgelint/pkg/ast"

// Rule is a single detection rule driven over a workflow by the linter.
// Rules may keep state between visits; the linter creates a fresh instance
// per workflow and visits jobs and steps in declaration order.
type Rule interface {
	Name() string
	Description() string

	VisitWorkflowPre(node *ast.Workflow) error
	VisitWorkflowPost(node *ast.Workflow) error
	VisitJobPre(node *ast.Job) error
	VisitJobPost(node *ast.Job) error
	VisitStep(node *ast.Step) error

	Findings() []*Finding
}

// BaseRule implements the bookkeeping shared by all rules. Embed it and
// override the visit methods the rule cares about.
type BaseRule struct {
	RuleName string
	RuleDesc string
	findings []*Finding
}

func (r *BaseRule) Name() string {
	return r.RuleName
}

func (r *BaseRule) Description() string {
	return r.RuleDesc
}

// Report records a finding, stamping it with the rule's name.
func (r *BaseRule) Report(f *Finding) {
	f.RuleName = r.RuleName
	r.findings = append(r.findings, f)
}

// Findings returns all findings reported so far, in report order.
func (r *BaseRule) Findings() []*Finding {
	return r.findings
}

func (r *BaseRule) VisitWorkflowPre(node *ast.Workflow) error {
	return nil
}

func (r *BaseRule) VisitWorkflowPost(node *ast.Workflow) error {
	return nil
}

func (r *BaseRule) VisitJobPre(node *ast.Job) error {
	return nil
}

func (r *BaseRule) VisitJobPost(node *ast.Job) error {
	return nil
}

func (r *BaseRule) VisitStep(node *ast.Step) error {
	return nil
}
