package cite

import (
	"testing"
)

func TestFormatReference(t *testing.T) {
	got := FormatReference(3, "Deep Dive", "https://example.com/dive")
	want := "[3] Deep Dive. https://example.com/dive"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseReferences(t *testing.T) {
	doc := "Body text. [1] More. [2]\n\n## References\n\n" +
		"[1] First Paper. https://a.example/one\n" +
		"[2] Second: a subtitle. https://b.example/two?q=1\n" +
		"stray line without a marker\n" +
		"[3] broken entry without a url"

	refs := ParseReferences(doc)
	if len(refs) != 3 {
		t.Fatalf("expected 3 entries, got %+v", refs)
	}

	if refs[0].Number != 1 || refs[0].Title != "First Paper" || refs[0].URL != "https://a.example/one" {
		t.Errorf("unexpected first entry: %+v", refs[0])
	}
	if refs[1].Number != 2 || refs[1].Title != "Second: a subtitle" || refs[1].URL != "https://b.example/two?q=1" {
		t.Errorf("unexpected second entry: %+v", refs[1])
	}
	if refs[2].Number != 3 || refs[2].URL != "" {
		t.Errorf("entry without url should keep its number only: %+v", refs[2])
	}
}

func TestParseReferences_NoSection(t *testing.T) {
	if refs := ParseReferences("no heading here [1]"); refs != nil {
		t.Errorf("expected nil without a reference section, got %+v", refs)
	}
}

func TestMeasureCoverage(t *testing.T) {
	doc := "First claim is cited. [1] Second claim is not. Third is cited too. [2]\n\n" +
		"## References\n\n[1] A. https://a.example\n[2] B. https://b.example"

	cov := MeasureCoverage(doc)
	if cov.Sentences != 3 {
		t.Errorf("expected 3 sentences, got %d", cov.Sentences)
	}
	if cov.CitedSentences != 2 {
		t.Errorf("expected 2 cited sentences, got %d", cov.CitedSentences)
	}
	if cov.Percent < 66 || cov.Percent > 67 {
		t.Errorf("expected ~66.7%% coverage, got %v", cov.Percent)
	}
}

func TestMeasureCoverage_EmptyText(t *testing.T) {
	cov := MeasureCoverage("")
	if cov.Sentences != 0 || cov.CitedSentences != 0 || cov.Percent != 0 {
		t.Errorf("expected zero coverage, got %+v", cov)
	}
}
