package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"citer/internal/pipeline"
)

var (
	citeOut        string
	citeJSON       string
	minCredibility float64
	noFooter       bool
)

// citeCmd represents the cite command
var citeCmd = &cobra.Command{
	Use:   "cite <draft>",
	Short: "Insert citation markers into a draft document",
	Long: `Cite reads the findings files in the research workspace, builds a
source registry, and inserts a numbered citation marker after the first
occurrence of each recorded quote in the draft. A matching reference
section is appended when at least one source matched.

Example:
  citer cite draft.md
  citer cite draft.md --out cited.md --json run.json
  citer cite draft.md --min-credibility 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func init() {
	rootCmd.AddCommand(citeCmd)

	citeCmd.Flags().StringVarP(&citeOut, "out", "o", "", "output path (default: <workspace>/reports/<draft>_cited.md)")
	citeCmd.Flags().StringVar(&citeJSON, "json", "", "write the run report as JSON to this path")
	citeCmd.Flags().Float64Var(&minCredibility, "min-credibility", 0, "exclude sources below this credibility score")
	citeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in cited documents")
}

func runCite(cmd *cobra.Command, args []string) error {
	draft := args[0]

	cfg := buildConfig()
	if cmd.Flags().Changed("min-credibility") {
		cfg.Citation.MinCredibility = minCredibility
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Workspace: %s\n", cfg.Workspace.Dir)
		fmt.Fprintf(os.Stderr, "Draft: %s\n", draft)
		if cfg.Citation.MinCredibility > 0 {
			fmt.Fprintf(os.Stderr, "Credibility floor: %.2f\n", cfg.Citation.MinCredibility)
		}
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg)

	outcome, err := p.CiteFile(context.Background(), draft, citeOut)
	if err != nil {
		return fmt.Errorf("cite failed: %w", err)
	}

	if citeJSON != "" {
		if err := p.Renderer().WriteJSON(outcome.Report, citeJSON); err != nil {
			return fmt.Errorf("write run report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote run report: %s\n", citeJSON)
		}
	}

	p.Renderer().PrintRunSummary(outcome)
	return nil
}
