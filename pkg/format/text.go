// Package format renders findings for human and machine consumers.
package format

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/forgesec/forgelint/pkg/core"
)

var (
	pathColor       = color.New(color.FgCyan)
	severityColor   = color.New(color.FgRed, color.Bold)
	ruleColor       = color.New(color.FgYellow)
	annotationColor = color.New(color.Faint)
)

// TextFormatter writes findings as human-readable lines, one block per
// finding with every anchored location underneath.
type TextFormatter struct {
	w io.Writer
}

// NewTextFormatter creates a text formatter writing to w. Color is
// controlled globally through color.NoColor, which honors NO_COLOR and
// non-terminal outputs on its own.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{w: w}
}

// Write renders all findings. Findings are printed in the order given, which
// the linter guarantees to be input file order.
func (f *TextFormatter) Write(findings []*core.Finding) error {
	for _, finding := range findings {
		if err := f.writeFinding(finding); err != nil {
			return err
		}
	}
	if len(findings) > 0 {
		fmt.Fprintf(f.w, "%d finding(s)\n", len(findings))
	}
	return nil
}

func (f *TextFormatter) writeFinding(finding *core.Finding) error {
	loc := finding.PrimaryLocation()

	pathColor.Fprint(f.w, finding.Path)
	if loc != nil && loc.Pos != nil {
		pathColor.Fprintf(f.w, ":%d:%d", loc.Pos.Line, loc.Pos.Col)
	}
	fmt.Fprint(f.w, ": ")
	severityColor.Fprint(f.w, string(finding.Severity))
	fmt.Fprintf(f.w, ": %s ", finding.Description)
	ruleColor.Fprintf(f.w, "[%s]\n", finding.RuleName)

	for _, l := range finding.Locations {
		if l.Pos != nil {
			fmt.Fprintf(f.w, "  %d:%d", l.Pos.Line, l.Pos.Col)
		} else {
			fmt.Fprint(f.w, "  -")
		}
		if l.Key != "" {
			fmt.Fprintf(f.w, " (%s)", l.Key)
		}
		fmt.Fprint(f.w, ": ")
		annotationColor.Fprint(f.w, l.Annotation)
		fmt.Fprintln(f.w)
	}

	_, err := fmt.Fprintln(f.w)
	return err
}
