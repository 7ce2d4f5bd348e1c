package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/intake/internal/presentation/graph"
	"github.com/aretw0/intake/pkg/steps"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [layout]",
	Short: "Print the steps and fields of a layout",
	Long: `Prints every step of a layout with its fields, kinds and options.
Without a layout name, all layouts are printed. The mermaid format draws the
step flow, including the project-type branches of the details step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		names := steps.Names()
		if len(args) == 1 {
			names = args
		}
		docs := make([]steps.LayoutDoc, 0, len(names))
		for _, name := range names {
			l, err := steps.Lookup(name)
			if err != nil {
				return err
			}
			docs = append(docs, l.Describe())
		}
		return writeSchema(cmd.OutOrStdout(), format, docs)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml, json or mermaid")
}

func writeSchema(w io.Writer, format string, docs []steps.LayoutDoc) error {
	var out any = docs
	if len(docs) == 1 {
		out = docs[0]
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "mermaid":
		for _, doc := range docs {
			if _, err := io.WriteString(w, graph.GenerateMermaid(doc, nil)); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (yaml, json or mermaid)", format)
}
