package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/pricing"
	"github.com/aretw0/intake/pkg/steps"
)

// ViewMarkdown renders one wizard step as markdown.
func ViewMarkdown(v *domain.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %d/%d · %s\n\n", v.Step, v.TotalSteps, v.Title)

	if len(v.Fields) == 0 {
		b.WriteString("_Nothing to fill in on this step._\n\n")
	}
	for _, f := range v.Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		value := steps.FormatValue(f.Value)
		if value == "" {
			value = "_empty_"
		}
		fmt.Fprintf(&b, "- **%s** `%s` (%s): %s\n", label, f.Path, f.Kind, value)
		if len(f.Options) > 0 {
			fmt.Fprintf(&b, "  - options: %s\n", strings.Join(f.Options, ", "))
		}
	}
	b.WriteString("\n")

	if v.Summary != "" {
		b.WriteString("---\n\n")
		b.WriteString(v.Summary)
	}

	switch v.Submission {
	case domain.SubmissionFailed:
		fmt.Fprintf(&b, "> Submission failed: %s\n\n", v.LastError)
	case domain.SubmissionSubmitting:
		b.WriteString("> Submitting...\n\n")
	case domain.SubmissionSucceeded:
		fmt.Fprintf(&b, "> Project `%s` created.\n\n", v.ProjectID)
	}
	if len(v.Missing) > 0 {
		fmt.Fprintf(&b, "Required before submit: %s\n\n", strings.Join(v.Missing, ", "))
	}
	b.WriteString(affordances(v))
	return b.String()
}

func affordances(v *domain.View) string {
	var cmds []string
	if v.CanPrevious {
		cmds = append(cmds, "`back`")
	}
	if v.CanNext {
		cmds = append(cmds, "`next`")
	}
	if v.CanSubmit {
		cmds = append(cmds, "`submit`")
	}
	if len(cmds) == 0 {
		return ""
	}
	return "Available: " + strings.Join(cmds, " ") + "\n"
}

// EstimateMarkdown renders a price breakdown as a markdown table.
func EstimateMarkdown(e pricing.Estimate) string {
	var b strings.Builder
	b.WriteString("| Item | Price |\n|---|---:|\n")
	rows := []struct {
		name  string
		value float64
	}{
		{"Base", e.Base},
		{"Pages", e.Pages},
		{"Features", e.Features},
		{"Add-ons", e.Addons},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %.2f %s |\n", r.name, r.value, e.Currency)
	}
	fmt.Fprintf(&b, "| **Total** | **%.2f %s** |\n", e.Total, e.Currency)
	return b.String()
}
