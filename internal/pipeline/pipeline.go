// Package pipeline orchestrates the citation workflow: loading findings,
// building the source registry, applying citations to drafts, and auditing
// cited documents.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"citer/internal/cache"
	"citer/internal/checker"
	"citer/internal/cite"
	"citer/internal/extract"
	"citer/internal/findings"
	"citer/internal/llm"
	"citer/internal/model"
	"citer/internal/registry"
	"citer/internal/score"
)

// Pipeline wires the citation engine to its workspace
type Pipeline struct {
	loader      *findings.Loader
	scorer      *score.Scorer
	renderer    *Renderer
	synthesizer *llm.Synthesizer // Optional (nil if disabled)
	config      *model.Config
}

// New creates a pipeline with the given configuration
func New(cfg *model.Config) *Pipeline {
	var synthesizer *llm.Synthesizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSynthesizer(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			synthesizer = s
		}
	}

	return &Pipeline{
		loader:      findings.NewLoader(filepath.Join(cfg.Workspace.Dir, cfg.Workspace.FindingsDir)),
		scorer:      score.NewScorer(),
		renderer:    NewRenderer(cfg.Output.IncludeFooter),
		synthesizer: synthesizer,
		config:      cfg,
	}
}

// Renderer exposes the pipeline's renderer for CLI output
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// LoadFindings loads findings records with the configured credibility
// floor applied to their sources
func (p *Pipeline) LoadFindings() ([]model.FindingsRecord, []string, error) {
	records, warnings, err := p.loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load findings: %w", err)
	}

	floor := p.config.Citation.MinCredibility
	if floor <= 0 {
		return records, warnings, nil
	}

	filtered := 0
	for i := range records {
		var kept []model.SourceRecord
		for _, src := range records[i].Sources {
			if src.CredibilityScore >= floor {
				kept = append(kept, src)
			} else {
				filtered++
			}
		}
		records[i].Sources = kept
	}
	if filtered > 0 {
		warnings = append(warnings, fmt.Sprintf("%d sources below credibility floor %.2f", filtered, floor))
	}

	return records, warnings, nil
}

// BuildRegistry loads findings and builds the source registry
func (p *Pipeline) BuildRegistry() (*registry.Registry, []string, error) {
	records, warnings, err := p.LoadFindings()
	if err != nil {
		return nil, nil, err
	}

	reg := registry.Build(records)
	warnings = append(warnings, reg.Warnings()...)
	return reg, warnings, nil
}

// CiteText applies citations to a draft held in memory
func (p *Pipeline) CiteText(text string) (cite.Result, []string, error) {
	reg, warnings, err := p.BuildRegistry()
	if err != nil {
		return cite.Result{}, nil, err
	}
	return cite.Apply(text, reg), warnings, nil
}

// CiteOutcome is the result of citing one draft file
type CiteOutcome struct {
	InputPath string
	OutPath   string
	CitedText string
	Report    model.RunReport
}

// CiteFile cites a draft document and writes the result. An empty outPath
// places the cited document in the workspace reports directory.
func (p *Pipeline) CiteFile(ctx context.Context, path, outPath string) (*CiteOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}

	text := string(data)
	if extract.IsHTML(text) {
		text, err = extract.VisibleText(text)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
	}

	result, warnings, err := p.CiteText(text)
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		outPath = p.defaultOutPath(path)
	}
	if err := p.renderer.WriteCited(outPath, result.CitedText); err != nil {
		return nil, err
	}

	return &CiteOutcome{
		InputPath: path,
		OutPath:   outPath,
		CitedText: result.CitedText,
		Report: model.RunReport{
			Workspace:   p.config.Workspace.Dir,
			GeneratedAt: time.Now().UTC(),
			Assignment:  result.Report,
			Validation:  cite.Validate(result.CitedText),
			Coverage:    cite.MeasureCoverage(result.CitedText),
			Warnings:    warnings,
		},
	}, nil
}

// Audit validates a cited document and, optionally, checks its reference
// links and scores the result
func (p *Pipeline) Audit(ctx context.Context, path string, checkLinks bool) (*model.AuditReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	text := string(data)
	if extract.IsHTML(text) {
		text, err = extract.VisibleText(text)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
	}

	validation := cite.Validate(text)
	coverage := cite.MeasureCoverage(text)
	refs := cite.ParseReferences(text)

	var links []model.LinkStatus
	if checkLinks {
		links = p.newChecker().Check(ctx, refs)
	}

	return &model.AuditReport{
		Document:   path,
		AuditedAt:  time.Now().UTC(),
		Validation: validation,
		Coverage:   coverage,
		Links:      links,
		Score:      p.scorer.Calculate(coverage, refs, validation, links),
	}, nil
}

// Validate runs the offline integrity checks on a document
func (p *Pipeline) Validate(path string) (*model.AuditReport, error) {
	return p.Audit(context.Background(), path, false)
}

// Sources summarizes the registry for reporting
func (p *Pipeline) Sources() (model.SourceSummary, []string, error) {
	reg, warnings, err := p.BuildRegistry()
	if err != nil {
		return model.SourceSummary{}, nil, err
	}
	return reg.Summary(), warnings, nil
}

// Synthesize drafts a narrative from the loaded findings, cites it, and
// writes the result. Requires a configured LLM provider.
func (p *Pipeline) Synthesize(ctx context.Context, outPath string) (*CiteOutcome, error) {
	if p.synthesizer == nil || !p.synthesizer.IsEnabled() {
		return nil, fmt.Errorf("no LLM provider configured (set llm.provider)")
	}

	records, warnings, err := p.LoadFindings()
	if err != nil {
		return nil, err
	}

	resp, err := p.synthesizer.Generate(ctx, records)
	if err != nil {
		return nil, err
	}

	result := cite.Apply(resp.Draft, registry.Build(records))

	if outPath == "" {
		outPath = filepath.Join(p.reportsDir(), "synthesis_cited.md")
	}
	if err := p.renderer.WriteCited(outPath, result.CitedText); err != nil {
		return nil, err
	}

	return &CiteOutcome{
		OutPath:   outPath,
		CitedText: result.CitedText,
		Report: model.RunReport{
			Workspace:   p.config.Workspace.Dir,
			GeneratedAt: time.Now().UTC(),
			Assignment:  result.Report,
			Validation:  cite.Validate(result.CitedText),
			Coverage:    cite.MeasureCoverage(result.CitedText),
			Warnings:    warnings,
		},
	}, nil
}

func (p *Pipeline) reportsDir() string {
	return filepath.Join(p.config.Workspace.Dir, p.config.Workspace.ReportsDir)
}

func (p *Pipeline) defaultOutPath(inPath string) string {
	base := filepath.Base(inPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(p.reportsDir(), stem+"_cited.md")
}

func (p *Pipeline) newChecker() *checker.Checker {
	var results cache.Cache
	if p.config.Cache.Enabled {
		dir := p.config.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, ".citer", "cache")
			}
		}
		if dir != "" {
			results = cache.NewLayeredCache(p.config.Cache.TTL, dir, p.config.Cache.TTL)
		}
	}

	return checker.New(checker.Options{
		Timeout:     p.config.HTTP.Timeout,
		UserAgent:   p.config.HTTP.UserAgent,
		MaxWorkers:  p.config.Concurrency.CheckWorkers,
		RatePerSec:  p.config.Concurrency.RatePerSec,
		RateBurst:   p.config.Concurrency.RateBurst,
		HTTPProxy:   p.config.HTTP.HTTPProxy,
		HTTPSProxy:  p.config.HTTP.HTTPSProxy,
		NoProxy:     p.config.HTTP.NoProxy,
		ResultCache: results,
		CacheTTL:    p.config.Cache.TTL,
	})
}
