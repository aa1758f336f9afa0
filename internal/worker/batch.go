package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Citer cites a single draft document. Implemented by the pipeline;
// declared here so the batch processor stays mockable in tests.
type Citer interface {
	CiteFile(ctx context.Context, path string) (CiteOutcome, error)
}

// CiteOutcome is the per-document summary a batch run reports
type CiteOutcome struct {
	Path         string // Input draft
	OutPath      string // Written cited document
	SourcesCited int
}

// CiteJob cites one draft file
type CiteJob struct {
	Path  string
	Citer Citer
}

// Execute runs the cite job
func (j *CiteJob) Execute(ctx context.Context) Result {
	outcome, err := j.Citer.CiteFile(ctx, j.Path)
	return &CiteResult{Path: j.Path, Outcome: outcome, Error: err}
}

// CiteResult is the result of one cite job
type CiteResult struct {
	Path    string
	Outcome CiteOutcome
	Error   error
}

// GetError returns the job error
func (r *CiteResult) GetError() error {
	return r.Error
}

// BatchProcessor cites multiple drafts concurrently
type BatchProcessor struct {
	citer       Citer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(citer Citer, concurrency int) *BatchProcessor {
	return &BatchProcessor{citer: citer, concurrency: concurrency}
}

// ProcessFiles cites the given drafts concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*CiteResult {
	if len(paths) == 0 {
		return []*CiteResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&CiteJob{Path: path, Citer: b.citer})
	}

	results := pool.Wait()

	out := make([]*CiteResult, len(results))
	for i, r := range results {
		out[i] = r.(*CiteResult)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ProcessDir cites every markdown draft in a directory
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*CiteResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob drafts: %w", err)
	}
	sort.Strings(paths)
	return b.ProcessFiles(ctx, paths), nil
}

// ProcessListFile reads draft paths from a file and cites them concurrently
func (b *BatchProcessor) ProcessListFile(ctx context.Context, listPath string) ([]*CiteResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read draft list: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ReadPathsFromFile reads draft paths from a file (one per line)
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
