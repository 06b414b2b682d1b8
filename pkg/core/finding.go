package core

import (
	"fmt"
	"strings"

	"github.com/forgesec/forgelint/pkg/ast"
)

// Severity is the impact of a finding when the reported weakness is real.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Confidence is how certain the rule is that the finding is real.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Location is one anchored annotation of a finding. Key names the YAML field
// the annotation refers to, e.g. "on", "uses" or "with".
type Location struct {
	Pos        *ast.Position
	Key        string
	Annotation string
	// Primary marks the location the finding is mainly about.
	Primary bool
}

// Finding is a report of one potential weakness. A finding always carries at
// least one location; rules that reason about a relation between two places
// in the workflow anchor both.
type Finding struct {
	RuleName    string
	Description string
	Severity    Severity
	Confidence  Confidence
	// Path is the workflow file the finding belongs to, filled in by the
	// linter once the file is known.
	Path      string
	Locations []*Location
}

// PrimaryLocation returns the primary anchor, falling back to the first one.
func (f *Finding) PrimaryLocation() *Location {
	for _, loc := range f.Locations {
		if loc.Primary {
			return loc
		}
	}
	if len(f.Locations) > 0 {
		return f.Locations[0]
	}
	return nil
}

// String renders the finding in a single line for logs and tests.
func (f *Finding) String() string {
	var b strings.Builder
	loc := f.PrimaryLocation()
	if loc != nil && loc.Pos != nil {
		fmt.Fprintf(&b, "%d:%d: ", loc.Pos.Line, loc.Pos.Col)
	}
	fmt.Fprintf(&b, "%s [%s]", f.Description, f.RuleName)
	return b.String()
}
