package format

import (
	"fmt"
	"io"

	"github.com/haya14busa/go-sarif/sarif"

	"github.com/forgesec/forgelint/pkg/core"
)

// SarifFormatter writes findings as a SARIF 2.1.0 document so results can be
// uploaded to code scanning backends.
type SarifFormatter struct {
	w io.Writer
	// ToolVersion is recorded in the driver metadata when set.
	ToolVersion string
}

// NewSarifFormatter creates a SARIF formatter writing to w.
func NewSarifFormatter(w io.Writer) *SarifFormatter {
	return &SarifFormatter{w: w}
}

// Write renders all findings into one run. The primary location becomes the
// result location; the other anchors become related locations with their
// annotations as messages.
func (f *SarifFormatter) Write(findings []*core.Finding) error {
	results := make([]sarif.Result, 0, len(findings))
	// Rule descriptors are collected in first-seen order so the document
	// is stable across runs.
	var rules []sarif.ReportingDescriptor
	seen := map[string]bool{}

	for _, finding := range findings {
		if !seen[finding.RuleName] {
			seen[finding.RuleName] = true
			rules = append(rules, sarif.ReportingDescriptor{
				ID: finding.RuleName,
				ShortDescription: &sarif.MultiformatMessageString{
					Text: finding.Description,
				},
			})
		}
		results = append(results, f.result(finding))
	}

	driver := sarif.ToolComponent{
		Name:           "forgelint",
		InformationURI: sp("https://github.com/forgesec/forgelint"),
		Rules:          rules,
	}
	if f.ToolVersion != "" {
		driver.Version = sp(f.ToolVersion)
	}

	doc := sarif.Sarif{
		Schema:  sp("https://json.schemastore.org/sarif-2.1.0.json"),
		Version: sarif.Version("2.1.0"),
		Runs: []sarif.Run{
			{
				Tool:    sarif.Tool{Driver: driver},
				Results: results,
			},
		},
	}

	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("could not marshal SARIF document: %w", err)
	}
	_, err = f.w.Write(append(data, '\n'))
	return err
}

func (f *SarifFormatter) result(finding *core.Finding) sarif.Result {
	level := sarif.Level("note")
	switch finding.Severity {
	case core.SeverityHigh:
		level = sarif.Level("error")
	case core.SeverityMedium:
		level = sarif.Level("warning")
	}

	result := sarif.Result{
		RuleID: sp(finding.RuleName),
		Level:  &level,
		Message: sarif.Message{
			Text: sp(finding.Description),
		},
	}

	if primary := finding.PrimaryLocation(); primary != nil {
		result.Locations = []sarif.Location{location(finding.Path, primary)}
	}
	for _, loc := range finding.Locations {
		if loc.Primary {
			continue
		}
		result.RelatedLocations = append(result.RelatedLocations, location(finding.Path, loc))
	}

	return result
}

func location(path string, loc *core.Location) sarif.Location {
	out := sarif.Location{
		PhysicalLocation: &sarif.PhysicalLocation{
			ArtifactLocation: &sarif.ArtifactLocation{URI: sp(path)},
		},
	}
	if loc.Pos != nil {
		out.PhysicalLocation.Region = &sarif.Region{
			StartLine:   ip(int64(loc.Pos.Line)),
			StartColumn: ip(int64(loc.Pos.Col)),
		}
	}
	if loc.Annotation != "" {
		out.Message = &sarif.Message{Text: sp(loc.Annotation)}
	}
	return out
}

func sp(s string) *string {
	return &s
}

func ip(i int64) *int64 {
	return &i
}
