package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "text", "set(a|b)").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// TextType validates free text values.
type TextType struct{}

func (t *TextType) Name() string { return "text" }

func (t *TextType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// FlagType validates boolean values.
type FlagType struct{}

func (t *FlagType) Name() string { return "flag" }

func (t *FlagType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// ChoiceType validates a single string among declared options.
// The empty string is always accepted (nothing selected).
type ChoiceType struct {
	options []string
}

func (t *ChoiceType) Name() string {
	return fmt.Sprintf("choice(%s)", strings.Join(t.options, "|"))
}

func (t *ChoiceType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if s == "" || len(t.options) == 0 || contains(t.options, s) {
		return nil
	}
	return fmt.Errorf("%q is not one of %v", s, t.options)
}

// Options returns the declared options.
func (t *ChoiceType) Options() []string { return t.options }

// SetType validates a list of distinct strings among declared options.
type SetType struct {
	options []string
}

func (t *SetType) Name() string {
	return fmt.Sprintf("set(%s)", strings.Join(t.options, "|"))
}

func (t *SetType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected list, got %T", value)
	}

	seen := make(map[string]struct{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, ok := rv.Index(i).Interface().(string)
		if !ok {
			return fmt.Errorf("element %d: expected string, got %T", i, rv.Index(i).Interface())
		}
		if err := t.ValidateMember(elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if _, dup := seen[elem]; dup {
			return fmt.Errorf("element %d: duplicate member %q", i, elem)
		}
		seen[elem] = struct{}{}
	}
	return nil
}

// ValidateMember checks a single candidate member.
func (t *SetType) ValidateMember(item string) error {
	if item == "" {
		return fmt.Errorf("empty member")
	}
	if len(t.options) == 0 || contains(t.options, item) {
		return nil
	}
	return fmt.Errorf("%q is not one of %v", item, t.options)
}

// Options returns the declared options.
func (t *SetType) Options() []string { return t.options }

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// Text creates a free text validator.
func Text() Type { return &TextType{} }

// Flag creates a boolean validator.
func Flag() Type { return &FlagType{} }

// Choice creates a single-choice validator. With no options any string is accepted.
func Choice(options ...string) Type { return &ChoiceType{options: options} }

// Set creates a set validator. With no options any non-empty string member is accepted.
func Set(options ...string) Type { return &SetType{options: options} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// Options returns the declared options of a choice or set type, or nil.
func Options(t Type) []string {
	switch v := t.(type) {
	case *ChoiceType:
		return v.options
	case *SetType:
		return v.options
	}
	return nil
}

// IsEmpty reports whether a value counts as "not filled in".
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case []string:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map {
		return rv.Len() == 0
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
