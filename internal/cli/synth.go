package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"citer/internal/pipeline"
)

var (
	synthOut      string
	synthJSON     string
	synthProvider string
	synthModel    string
	synthBaseURL  string
	synthTimeout  time.Duration
)

// synthCmd represents the synth command
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Draft a narrative from findings with an LLM, then cite it",
	Long: `Synth asks a configured LLM to draft a narrative grounded strictly in
the workspace findings, then runs the citation pass over the draft. The
provider may only mention source URLs present in the findings; a draft
that references anything else is rejected.

Requires an explicit provider and API key:
  export OPENAI_API_KEY=sk-...
  citer synth --provider openai --model gpt-4o-mini

A local OpenAI-compatible endpoint works via --base-url:
  citer synth --provider openai --base-url http://localhost:11434/v1`,
	Args: cobra.NoArgs,
	RunE: runSynth,
}

func init() {
	rootCmd.AddCommand(synthCmd)

	synthCmd.Flags().StringVarP(&synthOut, "out", "o", "", "output path (default: <workspace>/reports/synthesis_cited.md)")
	synthCmd.Flags().StringVar(&synthJSON, "json", "", "write the run report as JSON to this path")
	synthCmd.Flags().StringVar(&synthProvider, "provider", "openai", "LLM provider")
	synthCmd.Flags().StringVar(&synthModel, "model", "", "LLM model name (default from config)")
	synthCmd.Flags().StringVar(&synthBaseURL, "base-url", "", "OpenAI-compatible endpoint override")
	synthCmd.Flags().DurationVar(&synthTimeout, "timeout", 5*time.Minute, "overall synthesis timeout")
	synthCmd.Flags().Float64Var(&minCredibility, "min-credibility", 0, "exclude sources below this credibility score")
}

func runSynth(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), synthTimeout)
	defer cancel()

	cfg := buildConfig()
	if cmd.Flags().Changed("min-credibility") {
		cfg.Citation.MinCredibility = minCredibility
	}

	cfg.LLM.Provider = synthProvider
	if synthModel != "" {
		cfg.LLM.Model = synthModel
	}
	if synthBaseURL != "" {
		cfg.LLM.BaseURL = synthBaseURL
	}
	cfg.LLM.StrictEvidence = true // Always enforce

	if cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" && cfg.LLM.BaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if cfg.LLM.APIKey == "" {
			// Local endpoints ignore the key but the client requires one
			cfg.LLM.APIKey = "local"
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Workspace: %s\n", cfg.Workspace.Dir)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		if cfg.LLM.BaseURL != "" {
			fmt.Fprintf(os.Stderr, "Endpoint: %s\n", cfg.LLM.BaseURL)
		}
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg)

	outcome, err := p.Synthesize(ctx, synthOut)
	if err != nil {
		return fmt.Errorf("synth failed: %w", err)
	}

	if synthJSON != "" {
		if err := p.Renderer().WriteJSON(outcome.Report, synthJSON); err != nil {
			return fmt.Errorf("write run report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote run report: %s\n", synthJSON)
		}
	}

	p.Renderer().PrintRunSummary(outcome)
	return nil
}
