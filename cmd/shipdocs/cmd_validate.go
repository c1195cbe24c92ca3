package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipdocs/internal/annotation"
	"shipdocs/internal/validate"
)

var validateDetailed bool

// validateCmd audits the full annotation store
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit every annotation record against its schema",
	Long: `Re-validates the full annotation store independently of any
annotation session, so it can run after manual edits to a record or as a
CI-style gate. Exits non-zero when any record carries violations.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateDetailed, "detailed", false, "show every violation per record")
}

func runValidate(cmd *cobra.Command, args []string) error {
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	store, err := annotation.NewStore(cfg.GroundTruthDir)
	if err != nil {
		return err
	}

	report, err := validate.NewEngine(registry, store, logger).ValidateAll(cmd.Context())
	if err != nil {
		return err
	}

	valid := report.ValidIDs()
	invalid := report.InvalidIDs()

	fmt.Printf("records:  %d\n", len(report))
	fmt.Printf("valid:    %d\n", len(valid))
	fmt.Printf("invalid:  %d\n", len(invalid))

	if len(invalid) == 0 {
		fmt.Println()
		fmt.Println(okStyle.Render("✓ all annotation records are valid"))
		fmt.Println("\nNext: shipdocs split")
		return nil
	}

	fmt.Println()
	for _, id := range invalid {
		fmt.Println(warnStyle.Render("✗ " + id))
		if validateDetailed {
			for _, v := range report[id] {
				fmt.Printf("    • %s\n", v)
			}
		}
	}
	if !validateDetailed {
		fmt.Println("\nRun with --detailed for per-record violations")
	}
	return fmt.Errorf("%d annotation record(s) have violations", len(invalid))
}
