package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"citer/internal/pipeline"
)

var validateJSON string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <document>",
	Short: "Check citation integrity of a cited document",
	Long: `Validate cross-checks a document's citation markers against its
reference section without any network access. It reports:
- dangling citations (marker with no reference entry)
- orphan references (entry never cited in the body)
- duplicate reference numbers
- non-contiguous numbering

A document with no markers and no reference section is valid. The exit
status is non-zero when any issue is found.

Example:
  citer validate cited.md
  citer validate cited.md --json audit.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateJSON, "json", "", "write findings as JSON to this path")
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc := args[0]

	cfg := buildConfig()
	p := pipeline.New(cfg)

	report, err := p.Validate(doc)
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	if validateJSON != "" {
		if err := p.Renderer().WriteJSON(report, validateJSON); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", validateJSON)
		}
	}

	fmt.Printf("Coverage: %.1f%% (%d of %d sentences)\n",
		report.Coverage.Percent, report.Coverage.CitedSentences, report.Coverage.Sentences)

	if len(report.Validation) == 0 {
		fmt.Println("✓ Citation integrity: clean")
		return nil
	}

	fmt.Printf("✗ %d issue(s) found:\n", len(report.Validation))
	for _, v := range report.Validation {
		fmt.Printf("  - %s\n", v.Error())
	}
	return fmt.Errorf("%d citation issue(s)", len(report.Validation))
}
