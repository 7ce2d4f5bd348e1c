package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/steps"
)

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	VisitedSteps []int
	CurrentStep  int
}

// GenerateMermaid produces a Mermaid flowchart of a layout's steps.
// It applies semantic styling:
// - First step: ((Circle))
// - Final step: [[Subroutine]], followed by the submit edge
// - Default: [Rectangle]
// Fields owned by a project type hang off their step as dotted branches.
// Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(doc steps.LayoutDoc, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range doc.Steps {
		id := stepID(s.Number)

		opener, closer := "[", "]"
		switch s.Number {
		case 1:
			opener, closer = "((", "))"
		case doc.TotalSteps:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%d. %s\"%s\n", id, opener, s.Number, s.Key, closer)

		if s.Number < doc.TotalSteps {
			fmt.Fprintf(&sb, "    %s --> %s\n", id, stepID(s.Number+1))
		} else {
			required := strings.Join(doc.Required, ", ")
			fmt.Fprintf(&sb, "    %s -- \"submit (%s)\" --> project[/\"project\"/]\n", id, required)
		}

		for _, branch := range variants(s) {
			branchID := fmt.Sprintf("%s_%s", id, sanitizeMermaidID(branch.projectType))
			fmt.Fprintf(&sb, "    %s -. \"%s = %s\" .-> %s[\"%d fields\"]\n",
				id, doc.Goal, branch.projectType, branchID, branch.fields)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, n := range overlay.VisitedSteps {
			if n < 1 || n > doc.TotalSteps || seen[n] || n == overlay.CurrentStep {
				continue
			}
			seen[n] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", stepID(n))
		}
		if overlay.CurrentStep >= 1 && overlay.CurrentStep <= doc.TotalSteps {
			fmt.Fprintf(&sb, "    class %s current;\n", stepID(overlay.CurrentStep))
		}
	}

	return sb.String()
}

type branch struct {
	projectType string
	fields      int
}

// variants counts the owned fields of a step per project type, in first-seen order.
func variants(s steps.StepDoc) []branch {
	var out []branch
	index := make(map[string]int)
	for _, f := range s.Fields {
		if f.ProjectType == "" {
			continue
		}
		i, ok := index[f.ProjectType]
		if !ok {
			i = len(out)
			index[f.ProjectType] = i
			out = append(out, branch{projectType: f.ProjectType})
		}
		out[i].fields++
	}
	return out
}

func stepID(n int) string {
	return fmt.Sprintf("step%d", n)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
