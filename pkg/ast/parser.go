package ast

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError is a workflow syntax problem with its source position.
type ParseError struct {
	Message string
	Pos     *Position
}

func (e *ParseError) Error() string {
	if e.Pos == nil {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Message)
}

func parseErrorf(n *yaml.Node, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     posOf(n),
	}
}

// Parse parses workflow YAML into its syntax tree. Unknown keys are ignored
// so that the model stays forward compatible with new workflow syntax.
func Parse(input []byte) (*Workflow, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(input, &root); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("could not parse workflow YAML: %v", err)}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &ParseError{Message: "workflow file is empty"}
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, parseErrorf(doc, "workflow must be a mapping at the top level")
	}

	w := &Workflow{Pos: posOf(doc)}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "name":
			w.Name = str(val)
		case "on", "true": // YAML 1.1 parses a bare "on" key as a boolean
			on, err := parseOn(val)
			if err != nil {
				return nil, err
			}
			w.On = on
		case "jobs":
			jobs, err := parseJobs(val)
			if err != nil {
				return nil, err
			}
			w.Jobs = jobs
		}
	}

	if len(w.On) == 0 {
		return nil, parseErrorf(doc, "workflow does not declare any trigger under \"on\"")
	}
	if len(w.Jobs) == 0 {
		return nil, parseErrorf(doc, "workflow does not declare any job")
	}

	return w, nil
}

func parseOn(n *yaml.Node) ([]Event, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []Event{webhook(n)}, nil
	case yaml.SequenceNode:
		events := make([]Event, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, parseErrorf(c, "event in trigger list must be a name")
			}
			events = append(events, webhook(c))
		}
		return events, nil
	case yaml.MappingNode:
		var events []Event
		for i := 0; i+1 < len(n.Content); i += 2 {
			ev, err := parseEvent(n.Content[i], n.Content[i+1])
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
		return events, nil
	default:
		return nil, parseErrorf(n, "\"on\" must be an event name, a list of event names, or a mapping")
	}
}

func parseEvent(key, val *yaml.Node) (Event, error) {
	if key.Value == "schedule" {
		return parseSchedule(val)
	}

	ev := &WebhookEvent{Hook: str(key), Mapped: true, Pos: posOf(key)}
	if isNull(val) {
		return ev, nil
	}
	if val.Kind != yaml.MappingNode {
		return nil, parseErrorf(val, "configuration of %q event must be a mapping", key.Value)
	}

	for i := 0; i+1 < len(val.Content); i += 2 {
		k, v := val.Content[i], val.Content[i+1]
		list, err := stringList(k, v)
		if err != nil {
			return nil, err
		}
		switch k.Value {
		case "types":
			ev.Types = list
		case "branches":
			ev.Branches = list
		case "branches-ignore":
			ev.BranchesIgnore = list
		case "tags":
			ev.Tags = list
		case "tags-ignore":
			ev.TagsIgnore = list
		case "paths":
			ev.Paths = list
		case "paths-ignore":
			ev.PathsIgnore = list
		}
	}

	return ev, nil
}

func parseSchedule(n *yaml.Node) (*ScheduledEvent, error) {
	ev := &ScheduledEvent{Pos: posOf(n)}
	if n.Kind != yaml.SequenceNode {
		return nil, parseErrorf(n, "\"schedule\" must be a list of cron entries")
	}
	for _, c := range n.Content {
		if c.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i+1 < len(c.Content); i += 2 {
			if c.Content[i].Value == "cron" {
				ev.Cron = append(ev.Cron, str(c.Content[i+1]))
			}
		}
	}
	return ev, nil
}

func parseJobs(n *yaml.Node) ([]*Job, error) {
	if n.Kind != yaml.MappingNode {
		return nil, parseErrorf(n, "\"jobs\" must be a mapping of job IDs")
	}

	jobs := make([]*Job, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		job, err := parseJob(n.Content[i], n.Content[i+1])
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func parseJob(key, val *yaml.Node) (*Job, error) {
	if val.Kind != yaml.MappingNode {
		return nil, parseErrorf(val, "job %q must be a mapping", key.Value)
	}

	job := &Job{ID: str(key), Pos: posOf(key)}
	for i := 0; i+1 < len(val.Content); i += 2 {
		k, v := val.Content[i], val.Content[i+1]
		switch k.Value {
		case "name":
			job.Name = str(v)
		case "if":
			job.If = str(v)
		case "runs-on":
			if v.Kind == yaml.ScalarNode {
				job.RunsOn = str(v)
			}
		case "steps":
			if v.Kind != yaml.SequenceNode {
				return nil, parseErrorf(v, "steps of job %q must be a list", key.Value)
			}
			for _, s := range v.Content {
				step, err := parseStep(s)
				if err != nil {
					return nil, err
				}
				job.Steps = append(job.Steps, step)
			}
		}
	}

	return job, nil
}

func parseStep(n *yaml.Node) (*Step, error) {
	if n.Kind != yaml.MappingNode {
		return nil, parseErrorf(n, "step must be a mapping")
	}

	step := &Step{Pos: posOf(n), BaseNode: n}
	var uses, run, shell *String
	var with map[string]*Input

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case "id":
			step.ID = str(v)
		case "name":
			step.Name = str(v)
		case "if":
			step.If = str(v)
		case "uses":
			uses = str(v)
		case "run":
			run = str(v)
		case "shell":
			shell = str(v)
		case "with":
			if v.Kind != yaml.MappingNode {
				return nil, parseErrorf(v, "\"with\" must be a mapping of input names")
			}
			with = make(map[string]*Input, len(v.Content)/2)
			for j := 0; j+1 < len(v.Content); j += 2 {
				ik, iv := v.Content[j], v.Content[j+1]
				with[ik.Value] = &Input{Name: str(ik), Value: str(iv)}
			}
		}
	}

	switch {
	case uses != nil && run != nil:
		return nil, parseErrorf(n, "step cannot have both \"run\" and \"uses\"")
	case uses != nil:
		if with == nil {
			with = map[string]*Input{}
		}
		step.Exec = &ExecAction{Uses: uses, Inputs: with}
	case run != nil:
		step.Exec = &ExecRun{Run: run, Shell: shell}
	default:
		return nil, parseErrorf(n, "step must have either \"run\" or \"uses\"")
	}

	return step, nil
}

func stringList(key, n *yaml.Node) ([]*String, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []*String{str(n)}, nil
	case yaml.SequenceNode:
		list := make([]*String, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, parseErrorf(c, "%q filter entries must be strings", key.Value)
			}
			list = append(list, str(c))
		}
		return list, nil
	default:
		return nil, parseErrorf(n, "%q filter must be a string or a list of strings", key.Value)
	}
}

func webhook(n *yaml.Node) *WebhookEvent {
	return &WebhookEvent{Hook: str(n), Pos: posOf(n)}
}

func str(n *yaml.Node) *String {
	return &String{
		Value:   n.Value,
		Pos:     posOf(n),
		Literal: n.Style == yaml.LiteralStyle,
	}
}

func posOf(n *yaml.Node) *Position {
	return &Position{Line: n.Line, Col: n.Column}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && (n.Tag == "!!null" || strings.TrimSpace(n.Value) == "")
}
