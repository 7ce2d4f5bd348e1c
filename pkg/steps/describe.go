package steps

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/schema"
)

// LayoutDoc is the serializable description of a layout.
type LayoutDoc struct {
	Name       string    `json:"name" yaml:"name"`
	TotalSteps int       `json:"total_steps" yaml:"total_steps"`
	Goal       string    `json:"goal" yaml:"goal"`
	Required   []string  `json:"required" yaml:"required"`
	Steps      []StepDoc `json:"steps" yaml:"steps"`

	// Schema maps every path to its type name, for clients that post raw values.
	Schema schema.Schema `json:"schema" yaml:"schema"`
}

// StepDoc describes one step.
type StepDoc struct {
	Number int        `json:"number" yaml:"number"`
	Key    string     `json:"key" yaml:"key"`
	Fields []FieldDoc `json:"fields" yaml:"fields"`
}

// FieldDoc describes one field.
type FieldDoc struct {
	Path        string   `json:"path" yaml:"path"`
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	ProjectType string   `json:"project_type,omitempty" yaml:"project_type,omitempty"`
}

// Describe returns the layout as plain data.
func (l *Layout) Describe() LayoutDoc {
	doc := LayoutDoc{
		Name:       l.Name,
		TotalSteps: l.TotalSteps(),
		Goal:       l.GoalPath,
		Required:   l.Required,
		Schema:     l.Schema(),
	}
	for _, s := range l.Steps {
		sd := StepDoc{Number: s.Number, Key: s.Key}
		for _, f := range s.Fields {
			sd.Fields = append(sd.Fields, FieldDoc{
				Path:        f.Path,
				Type:        f.Type.Name(),
				Label:       f.Label(),
				Options:     f.Options,
				ProjectType: string(f.Variant),
			})
		}
		doc.Steps = append(doc.Steps, sd)
	}
	return doc
}

// Summary renders the non-empty answers as markdown, one section per step.
// translate maps label and title keys to display text.
func (l *Layout) Summary(a *domain.Answers, translate func(string) string) string {
	if translate == nil {
		translate = func(k string) string { return k }
	}
	var b strings.Builder
	for _, s := range l.Steps {
		var lines []string
		for _, f := range l.Visible(s.Number, a.ProjectType) {
			v := FormatValue(f.Get(a))
			if v == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("- **%s**: %s", translate(f.Label()), v))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %d. %s\n\n%s\n\n", s.Number, translate(s.TitleKey()), strings.Join(lines, "\n"))
	}
	return b.String()
}

// FormatValue renders a field value for display. Empty values render as "".
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return "yes"
		}
		return ""
	case []string:
		return strings.Join(t, ", ")
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
