package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shipdocs/internal/annotation"
	"shipdocs/internal/schema"
	"shipdocs/internal/split"
	"shipdocs/internal/validate"
)

var (
	splitTrain      float64
	splitValidation float64
	splitTest       float64
	splitSeed       int64
	splitManifest   string
)

// splitCmd partitions the validated records
var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Partition validated records into train/validation/test sets",
	Long: `Cuts a deterministic, stratified train/validation/test partition
over every record that passes validation. The assignment is a pure
function of the validated record set, the ratios and the seed; re-running
with identical inputs reproduces the identical split. Records themselves
are never rewritten; the manifest only assigns partition labels.`,
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().Float64Var(&splitTrain, "train", 0, "training set ratio (default from config)")
	splitCmd.Flags().Float64Var(&splitValidation, "validation", 0, "validation set ratio (default from config)")
	splitCmd.Flags().Float64Var(&splitTest, "test", 0, "test set ratio (default from config)")
	splitCmd.Flags().Int64Var(&splitSeed, "seed", 0, "shuffle seed (default from config)")
	splitCmd.Flags().StringVar(&splitManifest, "manifest", "", "manifest output path (default from config)")
}

func runSplit(cmd *cobra.Command, args []string) error {
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	store, err := annotation.NewStore(cfg.GroundTruthDir)
	if err != nil {
		return err
	}

	ratios := cfg.Split.Ratios
	if cmd.Flags().Changed("train") || cmd.Flags().Changed("validation") || cmd.Flags().Changed("test") {
		ratios = split.Ratios{Train: splitTrain, Validation: splitValidation, Test: splitTest}
	}
	seed := cfg.Split.Seed
	if cmd.Flags().Changed("seed") {
		seed = splitSeed
	}
	manifestPath := cfg.Split.ManifestPath
	if splitManifest != "" {
		manifestPath = splitManifest
	}

	// Ratios are rejected before any validation or assignment work.
	if err := ratios.Validate(); err != nil {
		return err
	}

	report, err := validate.NewEngine(registry, store, logger).ValidateAll(cmd.Context())
	if err != nil {
		return err
	}
	if invalid := report.InvalidIDs(); len(invalid) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("⚠ excluding %d invalid record(s); run `shipdocs validate --detailed`", len(invalid))))
	}

	groups := make(map[schema.DocumentType][]string)
	for _, id := range report.ValidIDs() {
		rec, err := store.Load(id)
		if err != nil {
			return err
		}
		groups[rec.DocumentType] = append(groups[rec.DocumentType], id)
	}
	if len(groups) == 0 {
		return fmt.Errorf("no valid annotation records to split in %s", cfg.GroundTruthDir)
	}

	assignment, err := split.Split(groups, ratios, seed)
	if err != nil {
		return err
	}

	manifest := split.NewManifest(assignment, ratios, seed)
	if err := split.WriteManifest(manifestPath, manifest); err != nil {
		return err
	}

	logger.Info("split manifest written",
		zap.String("path", manifestPath),
		zap.Int64("seed", seed),
		zap.Int("records", len(assignment)))

	fmt.Println(okStyle.Render("✓ split complete"))
	for _, p := range split.Partitions {
		fmt.Printf("  %-11s %d\n", string(p)+":", manifest.Counts[p])
	}
	fmt.Printf("\nManifest: %s\n", manifestPath)
	fmt.Println("Next: shipdocs report")
	return nil
}
