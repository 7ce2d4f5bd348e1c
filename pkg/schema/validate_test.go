package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		"name":              Text(),
		"needsReadyContent": Flag(),
		"fonts":             Choice("default", "modern"),
		"sections":          Set("home", "about"),
	}
}

func TestValidate_Success(t *testing.T) {
	data := map[string]any{
		"name":              "Acme",
		"needsReadyContent": true,
		"fonts":             "modern",
		"sections":          []string{"home"},
	}

	assert.NoError(t, Validate(testSchema(), data))
}

func TestValidate_PartialDataIsFine(t *testing.T) {
	assert.NoError(t, Validate(testSchema(), map[string]any{"name": "Acme"}))
	assert.NoError(t, Validate(testSchema(), nil))
}

func TestValidate_UndeclaredAndWrongType(t *testing.T) {
	data := map[string]any{
		"name":    42,
		"website": "acme.test",
	}

	err := Validate(testSchema(), data)
	require.Error(t, err)

	errs := ValidationErrors(err)
	require.Len(t, errs, 2)

	// Keys are validated in sorted order.
	first := errs[0].(*ValidationError)
	assert.Equal(t, "name", first.Key)
	assert.False(t, first.Undeclared())

	second := errs[1].(*ValidationError)
	assert.Equal(t, "website", second.Key)
	assert.True(t, second.Undeclared())
}

func TestValidateFields_Missing(t *testing.T) {
	err := ValidateFields(testSchema(), map[string]any{}, "name")
	require.Error(t, err)

	errs := ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, ReasonRequired, errs[0].(*ValidationError).Reason)
}

func TestMissing(t *testing.T) {
	data := map[string]any{
		"name":        "Acme",
		"description": "  ",
	}
	assert.Equal(t, []string{"description", "goal"}, Missing(data, "name", "description", "goal"))
	assert.Empty(t, Missing(data, "name"))
}

func TestAggregateError_Message(t *testing.T) {
	single := &AggregateError{Errors: []error{&ValidationError{Key: "a", Reason: "required"}}}
	assert.Equal(t, `field "a": required`, single.Error())

	multi := &AggregateError{Errors: []error{
		&ValidationError{Key: "a", Reason: "required"},
		&ValidationError{Key: "b", Reason: "bad", Value: 3},
	}}
	assert.Contains(t, multi.Error(), "2 validation errors")
	assert.Contains(t, multi.Error(), `field "b": bad (got int)`)
}
