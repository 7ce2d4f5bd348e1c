package steps

import (
	"fmt"
	"sort"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/schema"
)

// DefaultLayout is used when a session does not name one.
const DefaultLayout = "classic"

// Step is one page of the wizard.
type Step struct {
	Number int
	Key    string
	Fields []*Field
}

// TitleKey returns the translation key of the step title.
func (s *Step) TitleKey() string {
	return "step." + s.Key
}

// Layout is an ordered step schema.
type Layout struct {
	Name     string
	Steps    []*Step
	Required []string

	// GoalPath is the field whose value tags the submission ("goal" or "projectType").
	GoalPath string

	// DetailsStep is the step showing per-project-type fields, or 0.
	DetailsStep int

	fields map[string]*Field
	order  []string
}

func newLayout(name, goalPath string, required []string, steps ...*Step) *Layout {
	l := &Layout{
		Name:     name,
		Steps:    steps,
		Required: required,
		GoalPath: goalPath,
		fields:   make(map[string]*Field),
	}
	for i, s := range steps {
		s.Number = i + 1
		for _, f := range s.Fields {
			if _, dup := l.fields[f.Path]; dup {
				panic(fmt.Sprintf("steps: layout %s declares %s twice", name, f.Path))
			}
			f.Step = s.Number
			l.fields[f.Path] = f
			l.order = append(l.order, f.Path)
			if f.Variant != "" {
				l.DetailsStep = s.Number
			}
		}
	}
	for _, p := range append([]string{goalPath}, required...) {
		if _, ok := l.fields[p]; !ok {
			panic(fmt.Sprintf("steps: layout %s references undeclared field %s", name, p))
		}
	}
	return l
}

func step(key string, fields ...*Field) *Step {
	return &Step{Key: key, Fields: fields}
}

// TotalSteps returns N.
func (l *Layout) TotalSteps() int {
	return len(l.Steps)
}

// Step returns the 1-indexed step n.
func (l *Layout) Step(n int) (*Step, error) {
	if n < 1 || n > len(l.Steps) {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidStep, n, len(l.Steps))
	}
	return l.Steps[n-1], nil
}

// Field resolves a dotted path to its declared field.
func (l *Layout) Field(path string) (*Field, error) {
	f, ok := l.fields[path]
	if !ok {
		return nil, &domain.FieldPathError{Path: path}
	}
	return f, nil
}

// Paths lists every declared path in step order.
func (l *Layout) Paths() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Visible returns the fields of step n shown for the given project type.
// Details fields only appear for the type that owns them.
func (l *Layout) Visible(n int, t domain.ProjectType) []*Field {
	s, err := l.Step(n)
	if err != nil {
		return nil
	}
	var out []*Field
	for _, f := range s.Fields {
		if f.Variant == "" || f.Variant == t {
			out = append(out, f)
		}
	}
	return out
}

// Values flattens the answers into path/value pairs.
func (l *Layout) Values(a *domain.Answers) map[string]any {
	out := make(map[string]any, len(l.order))
	for _, p := range l.order {
		out[p] = l.fields[p].Get(a)
	}
	return out
}

// Missing returns the required paths that are still empty.
func (l *Layout) Missing(a *domain.Answers) []string {
	values := make(map[string]any, len(l.Required))
	for _, p := range l.Required {
		values[p] = l.fields[p].Get(a)
	}
	return schema.Missing(values, l.Required...)
}

// Goal returns the value of the goal tag field.
func (l *Layout) Goal(a *domain.Answers) string {
	v, _ := l.fields[l.GoalPath].Get(a).(string)
	return v
}

// Schema returns the type of every declared path.
func (l *Layout) Schema() schema.Schema {
	out := make(schema.Schema, len(l.fields))
	for p, f := range l.fields {
		out[p] = f.Type
	}
	return out
}

var registry = map[string]*Layout{}

func register(l *Layout) *Layout {
	registry[l.Name] = l
	return l
}

// Lookup returns the named layout. An empty name selects DefaultLayout.
func Lookup(name string) (*Layout, error) {
	if name == "" {
		name = DefaultLayout
	}
	l, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownLayout, name)
	}
	return l, nil
}

// Names lists the registered layouts.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
