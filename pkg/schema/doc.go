// Package schema provides the value type system used by the wizard's field tables.
//
// Every answer leaf has one of four shapes: free text, a boolean flag, a single
// choice among declared options, or a set of declared options (checkbox group).
// Schemas map dotted field paths to types, enabling validation of answers that
// arrive as loosely typed data (JSON bodies, MCP arguments, imported drafts).
//
// Basic usage:
//
//	s := schema.Schema{
//	    "name":                        schema.Text(),
//	    "needsReadyContent":           schema.Flag(),
//	    "fonts":                       schema.Choice("default", "modern"),
//	    "ecommerceDetails.categories": schema.Set("fashion", "electronics"),
//	}
//
//	data := map[string]any{
//	    "name":  "Acme Store",
//	    "fonts": "modern",
//	}
//
//	if err := schema.ValidateFields(s, data, "name", "fonts"); err != nil {
//	    // Handle validation errors
//	}
//
// A Schema serializes to JSON and YAML as a map of paths to type names
// ("text", "flag", "choice(a|b)", "set(a|b)").
//
// This package has no dependencies beyond the Go standard library.
package schema
