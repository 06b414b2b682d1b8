package ast

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
name: Release
on:
  release:
    types: [published]
  push:
    tags:
      - "v*"
    branches-ignore:
      - wip/*
jobs:
  build:
    name: Build
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - name: Setup Go
        uses: actions/setup-go@v5
        with:
          go-version: "1.24"
          cache: "false"
      - name: Build
        run: go build ./...
  publish:
    runs-on: ubuntu-latest
    steps:
      - uses: goreleaser/goreleaser-action@v6
`

	w, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if w.Name == nil || w.Name.Value != "Release" {
		t.Errorf("workflow name = %v, want Release", w.Name)
	}

	if len(w.On) != 2 {
		t.Fatalf("len(On) = %d, want 2", len(w.On))
	}
	release, ok := w.On[0].(*WebhookEvent)
	if !ok || release.EventName() != "release" {
		t.Fatalf("On[0] = %v, want release webhook", w.On[0])
	}
	if len(release.Types) != 1 || release.Types[0].Value != "published" {
		t.Errorf("release types = %v, want [published]", release.Types)
	}
	push, ok := w.On[1].(*WebhookEvent)
	if !ok || push.EventName() != "push" {
		t.Fatalf("On[1] = %v, want push webhook", w.On[1])
	}
	if len(push.Tags) != 1 || push.Tags[0].Value != "v*" {
		t.Errorf("push tags = %v, want [v*]", push.Tags)
	}
	if len(push.BranchesIgnore) != 1 || push.BranchesIgnore[0].Value != "wip/*" {
		t.Errorf("push branches-ignore = %v, want [wip/*]", push.BranchesIgnore)
	}

	if len(w.Jobs) != 2 {
		t.Fatalf("len(Jobs) = %d, want 2", len(w.Jobs))
	}
	if w.Jobs[0].ID.Value != "build" || w.Jobs[1].ID.Value != "publish" {
		t.Errorf("job order = %q, %q, want build, publish", w.Jobs[0].ID.Value, w.Jobs[1].ID.Value)
	}

	build := w.Jobs[0]
	if build.Name.Value != "Build" {
		t.Errorf("job name = %q, want Build", build.Name.Value)
	}
	if build.RunsOn == nil || build.RunsOn.Value != "ubuntu-latest" {
		t.Errorf("runs-on = %v, want ubuntu-latest", build.RunsOn)
	}
	if len(build.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(build.Steps))
	}

	checkout, ok := build.Steps[0].Exec.(*ExecAction)
	if !ok {
		t.Fatalf("step 0 exec = %T, want *ExecAction", build.Steps[0].Exec)
	}
	if checkout.Uses.Value != "actions/checkout@v4" {
		t.Errorf("step 0 uses = %q", checkout.Uses.Value)
	}
	if len(checkout.Inputs) != 0 {
		t.Errorf("step 0 inputs = %v, want none", checkout.Inputs)
	}

	setup, ok := build.Steps[1].Exec.(*ExecAction)
	if !ok {
		t.Fatalf("step 1 exec = %T, want *ExecAction", build.Steps[1].Exec)
	}
	cache := setup.Inputs["cache"]
	if cache == nil || cache.Value.Value != "false" {
		t.Fatalf("cache input = %v, want false", cache)
	}
	if cache.Value.Pos == nil || cache.Value.Pos.Line == 0 {
		t.Error("cache input value has no position")
	}

	run, ok := build.Steps[2].Exec.(*ExecRun)
	if !ok {
		t.Fatalf("step 2 exec = %T, want *ExecRun", build.Steps[2].Exec)
	}
	if run.Run.Value != "go build ./..." {
		t.Errorf("step 2 run = %q", run.Run.Value)
	}
	if run.Kind() != ExecKindRun || setup.Kind() != ExecKindAction {
		t.Error("exec kinds are wrong")
	}
}

func TestParseOnShapes(t *testing.T) {
	tests := []struct {
		name  string
		on    string
		want  []string
		count int
	}{
		{name: "bare scalar", on: "on: push", want: []string{"push"}},
		{name: "list", on: "on: [push, release]", want: []string{"push", "release"}},
		{name: "mapping with null config", on: "on:\n  workflow_dispatch:\n  release:\n    types: [published]", want: []string{"workflow_dispatch", "release"}},
		{name: "schedule", on: "on:\n  schedule:\n    - cron: \"0 0 * * *\"", want: []string{"schedule"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.on + "\njobs:\n  a:\n    steps:\n      - run: true\n"
			w, err := Parse([]byte(input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(w.On) != len(tt.want) {
				t.Fatalf("len(On) = %d, want %d", len(w.On), len(tt.want))
			}
			for i, name := range tt.want {
				if w.On[i].EventName() != name {
					t.Errorf("On[%d] = %q, want %q", i, w.On[i].EventName(), name)
				}
			}
		})
	}
}

func TestParseOnDeclarationShape(t *testing.T) {
	tests := []struct {
		name   string
		on     string
		mapped bool
	}{
		{name: "bare scalar", on: "on: release"},
		{name: "list entry", on: "on: [release]"},
		{name: "mapping key with null config", on: "on:\n  release:", mapped: true},
		{name: "mapping key with config", on: "on:\n  release:\n    types: [published]", mapped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.on + "\njobs:\n  a:\n    steps:\n      - run: true\n"
			w, err := Parse([]byte(input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			ev, ok := w.On[0].(*WebhookEvent)
			if !ok {
				t.Fatalf("On[0] = %T, want *WebhookEvent", w.On[0])
			}
			if ev.Mapped != tt.mapped {
				t.Errorf("Mapped = %v, want %v", ev.Mapped, tt.mapped)
			}
		})
	}
}

func TestParseScheduleCron(t *testing.T) {
	input := `
on:
  schedule:
    - cron: "0 0 * * *"
    - cron: "30 5 * * 1"
jobs:
  nightly:
    steps:
      - run: make nightly
`
	w, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	ev, ok := w.On[0].(*ScheduledEvent)
	if !ok {
		t.Fatalf("On[0] = %T, want *ScheduledEvent", w.On[0])
	}
	if len(ev.Cron) != 2 || ev.Cron[0].Value != "0 0 * * *" || ev.Cron[1].Value != "30 5 * * 1" {
		t.Errorf("cron entries = %v", ev.Cron)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty file",
			input: "",
			want:  "empty",
		},
		{
			name:  "not a mapping",
			input: "- a\n- b\n",
			want:  "mapping at the top level",
		},
		{
			name:  "missing trigger",
			input: "jobs:\n  a:\n    steps:\n      - run: true\n",
			want:  "does not declare any trigger",
		},
		{
			name:  "missing jobs",
			input: "on: push\n",
			want:  "does not declare any job",
		},
		{
			name:  "step with run and uses",
			input: "on: push\njobs:\n  a:\n    steps:\n      - uses: actions/checkout@v4\n        run: true\n",
			want:  "both \"run\" and \"uses\"",
		},
		{
			name:  "step with neither run nor uses",
			input: "on: push\njobs:\n  a:\n    steps:\n      - name: nothing\n",
			want:  "either \"run\" or \"uses\"",
		},
		{
			name:  "broken yaml",
			input: "on: [push\n",
			want:  "could not parse workflow YAML",
		},
		{
			name:  "steps not a list",
			input: "on: push\njobs:\n  a:\n    steps: none\n",
			want:  "must be a list",
		},
		{
			name:  "jobs not a mapping",
			input: "on: push\njobs: [a, b]\n",
			want:  "must be a mapping of job IDs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	input := `on:
  release:
jobs:
  build:
    steps:
      - uses: actions/cache@v4
`
	w, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if pos := w.On[0].EventPos(); pos.Line != 2 || pos.Col != 3 {
		t.Errorf("event position = %v, want 2:3", pos)
	}
	step := w.Jobs[0].Steps[0]
	if step.Pos.Line != 6 {
		t.Errorf("step position line = %d, want 6", step.Pos.Line)
	}
	action := step.Exec.(*ExecAction)
	if action.Uses.Pos.Line != 6 {
		t.Errorf("uses position line = %d, want 6", action.Uses.Pos.Line)
	}
}

func TestStepString(t *testing.T) {
	named := &Step{Name: &String{Value: "Build it"}, ID: &String{Value: "build"}}
	if named.String() != "Build it" {
		t.Errorf("String() = %q, want name", named.String())
	}

	withID := &Step{ID: &String{Value: "build"}}
	if withID.String() != "build" {
		t.Errorf("String() = %q, want id", withID.String())
	}

	anon := &Step{Pos: &Position{Line: 7, Col: 3}}
	if anon.String() != "step at line:7,col:3" {
		t.Errorf("String() = %q", anon.String())
	}
}
