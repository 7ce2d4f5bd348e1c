package steps

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/schema"
)

// Kind is the value shape of a field.
type Kind string

const (
	KindText   Kind = "text"
	KindFlag   Kind = "flag"
	KindChoice Kind = "choice"
	KindSet    Kind = "set"
)

// Field is a single editable leaf of the answer record.
type Field struct {
	Path    string
	Kind    Kind
	Type    schema.Type
	Step    int
	Options []string

	// Variant is the project type owning the field; empty for shared fields.
	Variant domain.ProjectType

	get    func(*domain.Answers) any
	set    func(*domain.Answers, any) error
	toggle func(*domain.Answers, string) error
}

// Label returns the translation key of the field label.
func (f *Field) Label() string {
	return "field." + f.Path
}

// Get reads the current value. Unallocated variants read as the zero value.
func (f *Field) Get(a *domain.Answers) any {
	return f.get(a)
}

// Set decodes raw into the field type, validates it and writes it into a.
// A nil raw value clears the field.
func (f *Field) Set(a *domain.Answers, raw any) error {
	return f.set(a, raw)
}

// Toggle adds item to a set field if absent, removes it otherwise.
func (f *Field) Toggle(a *domain.Answers, item string) error {
	if f.toggle == nil {
		return fmt.Errorf("%w: %s is not a set field", domain.ErrInvalidValue, f.Path)
	}
	return f.toggle(a, item)
}

// ref resolves a leaf inside the answers. When alloc is false and the leaf
// lives in an unallocated variant, it returns nil.
type ref[T any] func(a *domain.Answers, alloc bool) *T

func bind[T any](f *Field, r ref[T]) *Field {
	f.get = func(a *domain.Answers) any {
		if p := r(a, false); p != nil {
			return *p
		}
		var zero T
		return zero
	}
	f.set = func(a *domain.Answers, raw any) error {
		v, err := decode[T](raw)
		if err != nil {
			return invalidValue(f.Path, raw, err)
		}
		if err := f.Type.Validate(v); err != nil {
			return invalidValue(f.Path, raw, err)
		}
		*r(a, true) = v
		return nil
	}
	return f
}

func decode[T any](raw any) (T, error) {
	var out T
	if raw == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "json",
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(raw); err != nil {
		return out, err
	}
	return out, nil
}

func invalidValue(path string, raw any, err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidValue, &schema.ValidationError{
		Key:    path,
		Reason: err.Error(),
		Value:  raw,
	})
}

func text(path string, r ref[string]) *Field {
	return bind(&Field{Path: path, Kind: KindText, Type: schema.Text()}, r)
}

func flag(path string, r ref[bool]) *Field {
	return bind(&Field{Path: path, Kind: KindFlag, Type: schema.Flag()}, r)
}

func choice(path string, r ref[string], options ...string) *Field {
	return bind(&Field{Path: path, Kind: KindChoice, Type: schema.Choice(options...), Options: options}, r)
}

func set(path string, r ref[[]string], options ...string) *Field {
	typ := schema.Set(options...).(*schema.SetType)
	f := bind(&Field{Path: path, Kind: KindSet, Type: typ, Options: options}, r)
	f.toggle = func(a *domain.Answers, item string) error {
		if err := typ.ValidateMember(item); err != nil {
			return invalidValue(path, item, err)
		}
		p := r(a, true)
		*p = domain.ToggleMember(*p, item)
		return nil
	}
	return f
}

// owned marks the field as belonging to a project-details variant.
func owned(t domain.ProjectType, f *Field) *Field {
	f.Variant = t
	return f
}
