package schema

import "sort"

// Schema is a map of field paths to their expected types.
// Example: {"name": Text(), "sections": Set("home", "about")}
type Schema map[string]Type

// Validate checks every entry of data against the schema.
// Keys not declared in the schema are reported as errors; declared keys absent
// from data are fine (answers are filled in progressively).
func Validate(schema Schema, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return ValidateFields(schema, data, keys...)
}

// ValidateFields validates only specific fields from data against the schema.
// Missing fields are treated as an error.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error

	for _, fieldName := range fields {
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: ReasonUndeclared,
			})
			continue
		}

		value, fieldExists := data[fieldName]
		if !fieldExists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: ReasonRequired,
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// Missing returns, in the given order, the fields whose value in data is empty.
func Missing(data map[string]any, fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if IsEmpty(data[f]) {
			missing = append(missing, f)
		}
	}
	return missing
}
