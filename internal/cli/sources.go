package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"citer/internal/pipeline"
)

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Summarize the source registry built from workspace findings",
	Long: `Sources loads the findings files in the research workspace and prints
registry statistics: source count, quote counts, and the credibility
distribution. Useful for checking what a cite run will have to work
with.

Example:
  citer sources
  citer sources --workspace ./research_workspace`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	p := pipeline.New(cfg)

	summary, warnings, err := p.Sources()
	if err != nil {
		return fmt.Errorf("sources failed: %w", err)
	}

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	p.Renderer().PrintSourceSummary(summary)
	return nil
}
