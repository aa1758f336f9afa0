package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"citer/internal/model"
)

const citedFooter = "\n\n---\n*References resolved from research findings.*\n"

// Renderer writes cited documents and reports
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteCited writes a cited document, creating parent directories as needed
func (r *Renderer) WriteCited(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if r.includeFooter {
		text += citedFooter
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write cited document: %w", err)
	}
	return nil
}

// WriteJSON writes a report as indented JSON
func (r *Renderer) WriteJSON(v interface{}, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// PrintRunSummary prints a one-screen cite summary to stdout
func (r *Renderer) PrintRunSummary(outcome *CiteOutcome) {
	rep := outcome.Report
	fmt.Printf("Cited %d of %d sources", rep.Assignment.SourcesCited, rep.Assignment.SourcesConsidered)
	if outcome.InputPath != "" {
		fmt.Printf(" in %s", outcome.InputPath)
	}
	fmt.Println()
	fmt.Printf("Coverage: %.1f%% (%d of %d sentences)\n", rep.Coverage.Percent, rep.Coverage.CitedSentences, rep.Coverage.Sentences)
	if len(rep.Validation) > 0 {
		fmt.Printf("Integrity: %d issue(s)\n", len(rep.Validation))
		for _, v := range rep.Validation {
			fmt.Printf("  - %s\n", v.Error())
		}
	} else {
		fmt.Println("Integrity: clean")
	}
	for _, w := range rep.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	fmt.Printf("✓ Wrote %s\n", outcome.OutPath)
}

// PrintAuditSummary prints an audit report to stdout
func (r *Renderer) PrintAuditSummary(report *model.AuditReport) {
	fmt.Printf("Audit of %s\n", report.Document)
	fmt.Printf("Score: %d/100 (confidence: %s)\n", report.Score.Index, report.Score.Confidence)
	fmt.Printf("Coverage: %.1f%% (%d of %d sentences)\n", report.Coverage.Percent, report.Coverage.CitedSentences, report.Coverage.Sentences)

	if len(report.Validation) > 0 {
		fmt.Printf("Integrity: %d issue(s)\n", len(report.Validation))
		for _, v := range report.Validation {
			fmt.Printf("  - %s\n", v.Error())
		}
	} else {
		fmt.Println("Integrity: clean")
	}

	if len(report.Links) > 0 {
		accessible, dead, skipped := 0, 0, 0
		for _, l := range report.Links {
			switch {
			case l.Skipped:
				skipped++
			case l.IsAccessible:
				accessible++
			case l.IsDead:
				dead++
			}
		}
		fmt.Printf("Links: %d accessible, %d dead, %d skipped of %d\n", accessible, dead, skipped, len(report.Links))
		for _, l := range report.Links {
			if l.IsDead && l.URL != "" {
				fmt.Printf("  ✗ [%d] %s\n", l.Number, l.URL)
			}
		}
	}

	for _, signal := range report.Score.Signals {
		if signal.Severity == model.SeverityCritical || signal.Severity == model.SeverityWarning {
			fmt.Printf("%s: %s\n", signal.Severity, signal.Description)
		}
	}
}

// PrintSourceSummary prints registry statistics to stdout
func (r *Renderer) PrintSourceSummary(summary model.SourceSummary) {
	fmt.Printf("Sources: %d\n", summary.TotalSources)
	fmt.Printf("Quotes: %d (%.1f per source)\n", summary.TotalQuotes, summary.QuotesPerSource)
	if summary.TotalSources > 0 {
		fmt.Printf("Credibility: avg %.2f, min %.2f, max %.2f\n",
			summary.AverageCredibility, summary.MinCredibility, summary.MaxCredibility)
	}
	types := make([]string, 0, len(summary.SourceTypes))
	for sourceType := range summary.SourceTypes {
		types = append(types, sourceType)
	}
	sort.Strings(types)
	for _, sourceType := range types {
		fmt.Printf("  %s: %d\n", sourceType, summary.SourceTypes[sourceType])
	}
}
