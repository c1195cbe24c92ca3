package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipdocs/internal/schema"
)

// schemasCmd lists the registered document schemas
var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List registered document types and their field schemas",
	RunE:  runSchemas,
}

func runSchemas(cmd *cobra.Command, args []string) error {
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	for _, dt := range registry.Types() {
		fields, err := registry.SchemaFor(dt)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(string(dt)))
		for _, f := range fields {
			marker := " "
			if f.Required {
				marker = "*"
			}
			line := fmt.Sprintf("  %s %-22s %s", marker, f.Name, f.Kind)
			if f.Constraint.Kind != schema.ConstraintNone && f.Constraint.Kind != "" {
				line += "  (" + f.Constraint.Describe() + ")"
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
	return nil
}
