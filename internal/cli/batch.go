package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"citer/internal/pipeline"
	"citer/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	batchList    string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Cite every markdown draft in a directory in parallel",
	Long: `Batch cites multiple drafts concurrently:
- Every *.md file in the directory is treated as a draft
- Drafts are processed in parallel with a configurable worker count
- Each cited document lands in the workspace reports directory

Example:
  citer batch ./drafts
  citer batch ./drafts --concurrency 8
  citer batch --list drafts.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchList, "list", "", "file listing draft paths, one per line")
	batchCmd.Flags().Float64Var(&minCredibility, "min-credibility", 0, "exclude sources below this credibility score")
}

// pipelineCiter adapts the pipeline to the worker pool's Citer interface
type pipelineCiter struct {
	p *pipeline.Pipeline
}

func (c *pipelineCiter) CiteFile(ctx context.Context, path string) (worker.CiteOutcome, error) {
	outcome, err := c.p.CiteFile(ctx, path, "")
	if err != nil {
		return worker.CiteOutcome{}, err
	}
	return worker.CiteOutcome{
		Path:         path,
		OutPath:      outcome.OutPath,
		SourcesCited: outcome.Report.Assignment.SourcesCited,
	}, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && batchList == "" {
		return fmt.Errorf("provide a draft directory or --list file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	if cmd.Flags().Changed("min-credibility") {
		cfg.Citation.MinCredibility = minCredibility
	}
	workers := cfg.Concurrency.BatchWorkers
	if concurrency > 0 {
		workers = concurrency
	}

	p := pipeline.New(cfg)
	processor := worker.NewBatchProcessor(&pipelineCiter{p: p}, workers)

	var results []*worker.CiteResult
	var err error
	if batchList != "" {
		results, err = processor.ProcessListFile(ctx, batchList)
	} else {
		results, err = processor.ProcessDir(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No drafts found")
		return nil
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processed %d drafts with %d workers\n\n", len(results), workers)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Printf("✗ %s: %v\n", result.Path, result.Error)
			continue
		}
		successCount++
		fmt.Printf("✓ %s → %s (%d sources cited)\n", result.Path, result.Outcome.OutPath, result.Outcome.SourcesCited)
	}

	fmt.Printf("\nBatch complete: %d succeeded, %d failed\n", successCount, failureCount)
	if failureCount > 0 {
		return fmt.Errorf("%d draft(s) failed", failureCount)
	}
	return nil
}
