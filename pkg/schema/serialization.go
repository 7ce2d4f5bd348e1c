package schema

import (
	"encoding/json"
	"fmt"
)

// Names maps every path to the name of its type, e.g. "set(home|about)".
func (s Schema) Names() (map[string]string, error) {
	out := make(map[string]string, len(s))
	for path, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("schema: %s has no type", path)
		}
		out[path] = typ.Name()
	}
	return out, nil
}

// MarshalJSON writes the schema as an object of path to type name.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	names, err := s.Names()
	if err != nil {
		return nil, err
	}
	return json.Marshal(names)
}

// MarshalYAML writes the schema as a mapping of path to type name.
func (s Schema) MarshalYAML() (any, error) {
	if s == nil {
		return nil, nil
	}
	return s.Names()
}
