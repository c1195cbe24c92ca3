package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"shipdocs/internal/annotation"
	"shipdocs/internal/report"
	"shipdocs/internal/split"
)

var (
	reportOutput   string
	reportManifest string
)

// reportCmd generates the data quality report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the data quality report",
	Long: `Aggregates completeness, duplicate-value and distribution
statistics over the full annotation set, broken down per partition when a
split manifest exists. Writes a markdown report and renders it.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "markdown report path (default from config)")
	reportCmd.Flags().StringVar(&reportManifest, "manifest", "", "split manifest to break partitions down by (default from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	store, err := annotation.NewStore(cfg.GroundTruthDir)
	if err != nil {
		return err
	}

	records, err := store.LoadAll()
	if err != nil {
		return err
	}

	// A split manifest is optional; the summary has the same shape
	// either way, just without per-partition tables.
	manifestPath := cfg.Split.ManifestPath
	if reportManifest != "" {
		manifestPath = reportManifest
	}
	var assignment split.Assignment
	if m, err := split.ReadManifest(manifestPath); err == nil {
		assignment = m.Assignment()
	} else if reportManifest != "" {
		return err
	}

	summary := report.NewReporter(registry, cfg.Quality.UniqueFields).
		Summarize(records, assignment)
	markdown := report.Markdown(summary, time.Now())

	output := cfg.Quality.ReportPath
	if reportOutput != "" {
		output = reportOutput
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(output, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", output, err)
	}

	rendered, err := glamour.Render(markdown, "auto")
	if err != nil {
		// Rendering is cosmetic; fall back to the raw markdown.
		rendered = markdown
	}
	fmt.Print(rendered)
	fmt.Println(okStyle.Render("✓ report saved: " + output))
	return nil
}
