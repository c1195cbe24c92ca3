package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"shipdocs/internal/annotation"
	"shipdocs/internal/inventory"
	"shipdocs/internal/session"
)

var (
	annotateForce     bool
	annotateAnnotator string
	annotateDataDir   string
)

var okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

// annotateCmd runs an interactive annotation session
var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Interactively annotate unprocessed source documents",
	Long: `Walks every source document that has no complete annotation record
yet, in sorted identifier order, prompting field by field against the
document type's schema. Progress is saved after every field, so the
session can be paused (/pause or Ctrl-D) and resumed at any time.`,
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().BoolVar(&annotateForce, "force", false, "re-open documents whose records are already complete")
	annotateCmd.Flags().StringVar(&annotateAnnotator, "annotator", "manual", "annotator name recorded in each record")
	annotateCmd.Flags().StringVar(&annotateDataDir, "data-dir", "", "override the source document directory")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	store, err := annotation.NewStore(cfg.GroundTruthDir)
	if err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if annotateDataDir != "" {
		dataDir = annotateDataDir
	}

	sess := session.New(registry, store,
		inventory.NewDirProvider(dataDir),
		session.NewTerminalSource(os.Stdin, os.Stdout),
		session.Options{
			Force:     annotateForce,
			Annotator: annotateAnnotator,
			Logger:    logger,
		})

	summary, err := sess.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	if summary.Remaining > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("⏸ paused: %d document(s) remaining, resume with `shipdocs annotate`",
			summary.Remaining)))
	} else {
		fmt.Println(okStyle.Render("✓ annotation session complete"))
	}
	fmt.Printf("  annotated this run:  %d\n", summary.Annotated)
	fmt.Printf("  already complete:    %d\n", summary.AlreadyComplete)
	if summary.Remaining == 0 {
		fmt.Println("\nNext: shipdocs validate, then shipdocs split")
	}
	return nil
}
