package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"citer/internal/model"
)

const findingsJSON = `{
  "topic": "solid state batteries",
  "agent_id": "agent-1",
  "findings": "Lab prototypes doubled energy density.",
  "confidence": 0.8,
  "sources": [
    {
      "url": "https://example.com/battery",
      "title": "Battery Paper",
      "relevant_quotes": ["energy density doubled in the lab"],
      "credibility_score": 0.9
    },
    {
      "url": "https://example.org/blog",
      "title": "Hype Blog",
      "relevant_quotes": ["batteries will change everything"],
      "credibility_score": 0.2
    }
  ]
}`

func testWorkspace(t *testing.T) (*model.Config, string) {
	t.Helper()
	dir := t.TempDir()

	findingsDir := filepath.Join(dir, "findings")
	if err := os.MkdirAll(findingsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(findingsDir, "findings_1.json"), []byte(findingsJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	cfg.Workspace.Dir = dir
	cfg.Cache.Enabled = false
	cfg.Output.IncludeFooter = false
	return cfg, dir
}

func TestPipeline_CiteFile(t *testing.T) {
	cfg, dir := testWorkspace(t)
	p := New(cfg)

	draft := filepath.Join(dir, "draft.md")
	content := "Recent tests showed energy density doubled in the lab. More work remains."
	if err := os.WriteFile(draft, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := p.CiteFile(context.Background(), draft, "")
	if err != nil {
		t.Fatalf("CiteFile failed: %v", err)
	}

	if !strings.Contains(outcome.CitedText, "energy density doubled in the lab [1]") {
		t.Errorf("expected marker after quote, got:\n%s", outcome.CitedText)
	}
	if !strings.Contains(outcome.CitedText, "[1] Battery Paper. https://example.com/battery") {
		t.Errorf("expected reference entry, got:\n%s", outcome.CitedText)
	}

	if outcome.Report.Assignment.SourcesConsidered != 2 {
		t.Errorf("expected 2 sources considered, got %d", outcome.Report.Assignment.SourcesConsidered)
	}
	if outcome.Report.Assignment.SourcesCited != 1 {
		t.Errorf("expected 1 source cited, got %d", outcome.Report.Assignment.SourcesCited)
	}
	if len(outcome.Report.Validation) != 0 {
		t.Errorf("expected clean validation, got %v", outcome.Report.Validation)
	}

	wantOut := filepath.Join(dir, "reports", "draft_cited.md")
	if outcome.OutPath != wantOut {
		t.Errorf("expected default out path %s, got %s", wantOut, outcome.OutPath)
	}
	written, err := os.ReadFile(outcome.OutPath)
	if err != nil {
		t.Fatalf("cited document not written: %v", err)
	}
	if string(written) != outcome.CitedText {
		t.Error("written document differs from outcome text")
	}
}

func TestPipeline_CiteFile_LowCredibilityCitedByDefault(t *testing.T) {
	// The low-credibility source is citable by default; only a
	// credibility floor excludes it.
	cfg, dir := testWorkspace(t)
	p := New(cfg)

	draft := filepath.Join(dir, "draft.md")
	content := "Some say batteries will change everything. Time will tell."
	if err := os.WriteFile(draft, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := p.CiteFile(context.Background(), draft, "")
	if err != nil {
		t.Fatalf("CiteFile failed: %v", err)
	}
	if !strings.Contains(outcome.CitedText, "batteries will change everything [1]") {
		t.Errorf("expected blog quote cited, got:\n%s", outcome.CitedText)
	}
}

func TestPipeline_MinCredibilityFiltersSources(t *testing.T) {
	cfg, dir := testWorkspace(t)
	cfg.Citation.MinCredibility = 0.5
	p := New(cfg)

	draft := filepath.Join(dir, "draft.md")
	content := "Some say batteries will change everything. Also energy density doubled in the lab."
	if err := os.WriteFile(draft, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := p.CiteFile(context.Background(), draft, "")
	if err != nil {
		t.Fatalf("CiteFile failed: %v", err)
	}

	if strings.Contains(outcome.CitedText, "batteries will change everything [") {
		t.Error("low-credibility source should have been filtered")
	}
	if !strings.Contains(outcome.CitedText, "energy density doubled in the lab [1]") {
		t.Errorf("high-credibility source should still cite, got:\n%s", outcome.CitedText)
	}

	foundWarning := false
	for _, w := range outcome.Report.Warnings {
		if strings.Contains(w, "credibility floor") {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Errorf("expected credibility floor warning, got %v", outcome.Report.Warnings)
	}
}

func TestPipeline_CiteFile_ExplicitOutPath(t *testing.T) {
	cfg, dir := testWorkspace(t)
	p := New(cfg)

	draft := filepath.Join(dir, "draft.md")
	if err := os.WriteFile(draft, []byte("energy density doubled in the lab."), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out", "custom.md")
	outcome, err := p.CiteFile(context.Background(), draft, out)
	if err != nil {
		t.Fatalf("CiteFile failed: %v", err)
	}
	if outcome.OutPath != out {
		t.Errorf("expected out path %s, got %s", out, outcome.OutPath)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("cited document not written: %v", err)
	}
}

func TestPipeline_CiteFile_MissingDraft(t *testing.T) {
	cfg, _ := testWorkspace(t)
	p := New(cfg)

	_, err := p.CiteFile(context.Background(), "/nonexistent/draft.md", "")
	if err == nil {
		t.Error("expected error for missing draft")
	}
}

func TestPipeline_CiteFile_MissingFindingsDir(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Workspace.Dir = filepath.Join(t.TempDir(), "nowhere")
	p := New(cfg)

	draft := filepath.Join(t.TempDir(), "draft.md")
	if err := os.WriteFile(draft, []byte("text."), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := p.CiteFile(context.Background(), draft, "")
	if err == nil {
		t.Error("expected error for missing findings directory")
	}
}

func TestPipeline_Audit_Offline(t *testing.T) {
	cfg, dir := testWorkspace(t)
	p := New(cfg)

	doc := filepath.Join(dir, "cited.md")
	content := "A finding [1]. An unsupported claim [2].\n\n## References\n\n[1] Battery Paper. https://example.com/battery\n"
	if err := os.WriteFile(doc, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := p.Audit(context.Background(), doc, false)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}

	if len(report.Validation) == 0 {
		t.Fatal("expected dangling citation finding")
	}
	if report.Validation[0].Kind != model.DanglingCitation || report.Validation[0].Number != 2 {
		t.Errorf("expected dangling [2], got %+v", report.Validation[0])
	}
	if len(report.Links) != 0 {
		t.Errorf("offline audit should not check links, got %d", len(report.Links))
	}
	if report.Score.Index <= 0 {
		t.Errorf("expected a computed score, got %d", report.Score.Index)
	}
}

func TestPipeline_Audit_HTMLInput(t *testing.T) {
	cfg, dir := testWorkspace(t)
	p := New(cfg)

	doc := filepath.Join(dir, "cited.html")
	content := "<html><body><p>A finding [1].</p><h2>## References</h2><p>[1] Battery Paper. https://example.com/battery</p></body></html>"
	if err := os.WriteFile(doc, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := p.Audit(context.Background(), doc, false)
	if err != nil {
		t.Fatalf("Audit failed: %v", err)
	}
	if len(report.Validation) != 0 {
		t.Errorf("expected clean validation for HTML input, got %v", report.Validation)
	}
}

func TestPipeline_Sources(t *testing.T) {
	cfg, _ := testWorkspace(t)
	p := New(cfg)

	summary, _, err := p.Sources()
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}
	if summary.TotalSources != 2 {
		t.Errorf("expected 2 sources, got %d", summary.TotalSources)
	}
	if summary.TotalQuotes != 2 {
		t.Errorf("expected 2 quotes, got %d", summary.TotalQuotes)
	}
}

func TestPipeline_Synthesize_Disabled(t *testing.T) {
	cfg, _ := testWorkspace(t)
	p := New(cfg)

	_, err := p.Synthesize(context.Background(), "")
	if err == nil {
		t.Error("expected error when no LLM provider is configured")
	}
}
