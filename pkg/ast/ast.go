// Package ast defines the syntax tree for GitHub Actions workflow files.
// Every scalar keeps its source position so that rules can anchor findings
// to the exact field they reason about.
package ast

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Position is a location in a workflow file, 1-based.
type Position struct {
	Line int
	Col  int
}

func (p *Position) String() string {
	return fmt.Sprintf("line:%d,col:%d", p.Line, p.Col)
}

// String is a string scalar together with its position in the file.
type String struct {
	Value string
	Pos   *Position
	// Literal is true when the scalar was written in literal block style.
	Literal bool
}

// Input is a single entry of a step's "with" mapping.
type Input struct {
	Name  *String
	Value *String
}

// Event is a workflow trigger declared under "on".
type Event interface {
	// EventName returns the name of the webhook or pseudo event, such as
	// "push" or "schedule".
	EventName() string
	// EventPos returns the position where the event is declared.
	EventPos() *Position
}

// WebhookEvent is a trigger named after a webhook event, optionally
// restricted by activity types and ref/path filters.
type WebhookEvent struct {
	Hook           *String
	Types          []*String
	Branches       []*String
	BranchesIgnore []*String
	Tags           []*String
	TagsIgnore     []*String
	Paths          []*String
	PathsIgnore    []*String
	// Mapped is true when the event was declared as a key of the "on"
	// mapping rather than as a bare name or a list entry.
	Mapped bool
	Pos    *Position
}

func (e *WebhookEvent) EventName() string {
	return e.Hook.Value
}

func (e *WebhookEvent) EventPos() *Position {
	return e.Pos
}

// ScheduledEvent is the "schedule" trigger with its cron entries.
type ScheduledEvent struct {
	Cron []*String
	Pos  *Position
}

func (e *ScheduledEvent) EventName() string {
	return "schedule"
}

func (e *ScheduledEvent) EventPos() *Position {
	return e.Pos
}

// ExecKind distinguishes the two ways a step can execute.
type ExecKind int

const (
	// ExecKindAction is a step that invokes a reusable action via "uses".
	ExecKindAction ExecKind = iota
	// ExecKindRun is a step that runs an inline script via "run".
	ExecKindRun
)

// Exec is how a step executes, either an action invocation or an inline
// script.
type Exec interface {
	Kind() ExecKind
}

// ExecAction is a step body invoking a reusable action.
type ExecAction struct {
	// Uses is the action reference, e.g. "actions/checkout@v4".
	Uses *String
	// Inputs maps input names to the values declared under "with".
	Inputs map[string]*Input
}

func (e *ExecAction) Kind() ExecKind {
	return ExecKindAction
}

// ExecRun is a step body running an inline script.
type ExecRun struct {
	Run   *String
	Shell *String
}

func (e *ExecRun) Kind() ExecKind {
	return ExecKindRun
}

// Step is one unit of work within a job.
type Step struct {
	ID   *String
	Name *String
	If   *String
	Exec Exec
	Pos  *Position
	// BaseNode is the underlying YAML mapping node of the step.
	BaseNode *yaml.Node
}

// String returns a short human-readable identifier for the step, preferring
// the declared name.
func (s *Step) String() string {
	switch {
	case s.Name != nil && s.Name.Value != "":
		return s.Name.Value
	case s.ID != nil && s.ID.Value != "":
		return s.ID.Value
	default:
		return fmt.Sprintf("step at %s", s.Pos)
	}
}

// Job is one execution unit of a workflow with its ordered steps.
type Job struct {
	ID     *String
	Name   *String
	If     *String
	RunsOn *String
	Steps  []*Step
	Pos    *Position
}

// Workflow is a parsed workflow file. Jobs keep their declaration order.
type Workflow struct {
	Name *String
	On   []Event
	Jobs []*Job
	Pos  *Position
	// Path is the file the workflow was parsed from, when known.
	Path string
}
