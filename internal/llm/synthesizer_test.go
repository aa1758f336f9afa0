package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"citer/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SynthesizeResponse
	err       error
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func sampleRecords() []model.FindingsRecord {
	return []model.FindingsRecord{
		{
			Topic:      "solid state batteries",
			Findings:   "Energy density doubled in lab prototypes.",
			Confidence: 0.8,
			Sources: []model.SourceRecord{
				{
					URL:              "https://example.com/battery",
					Title:            "Battery Paper",
					RelevantQuotes:   []string{"Energy density doubled"},
					CredibilityScore: 0.9,
				},
				{
					URL:   "https://example.org/review",
					Title: "Review",
				},
			},
		},
		{
			Topic: "manufacturing",
			Sources: []model.SourceRecord{
				{URL: "https://example.com/battery", Title: "Battery Paper"},
			},
		},
	}
}

func TestNewSynthesizer_Disabled(t *testing.T) {
	s, err := NewSynthesizer(model.LLMConfig{Provider: ""})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.IsEnabled() {
		t.Error("expected synthesizer to be disabled")
	}
	if s.ProviderName() != "" {
		t.Error("expected empty provider name when disabled")
	}

	resp, err := s.Generate(context.Background(), sampleRecords())
	if err != nil {
		t.Errorf("disabled Generate should not error, got %v", err)
	}
	if resp != nil {
		t.Error("disabled Generate should return nil response")
	}
}

func TestNewSynthesizer_UnknownProvider(t *testing.T) {
	_, err := NewSynthesizer(model.LLMConfig{Provider: "frontier-9000"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewSynthesizer_OpenAIRequiresKey(t *testing.T) {
	_, err := NewSynthesizer(model.LLMConfig{Provider: "openai"})
	if err == nil {
		t.Error("expected error when API key is missing")
	}
}

func TestSynthesizer_Generate_Success(t *testing.T) {
	s := &Synthesizer{
		provider: &MockProvider{
			name:      "mock",
			available: true,
			response: &SynthesizeResponse{
				Draft:         "Energy density doubled. See https://example.com/battery",
				MentionedURLs: []string{"https://example.com/battery"},
				Model:         "mock-1",
			},
		},
	}

	resp, err := s.Generate(context.Background(), sampleRecords())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if resp == nil || resp.Draft == "" {
		t.Fatal("expected a draft")
	}
	if s.ProviderName() != "mock" {
		t.Errorf("expected provider name mock, got %s", s.ProviderName())
	}
}

func TestSynthesizer_Generate_ProviderUnavailable(t *testing.T) {
	s := &Synthesizer{provider: &MockProvider{name: "mock", available: false}}

	_, err := s.Generate(context.Background(), sampleRecords())
	if err == nil {
		t.Error("expected error for unavailable provider")
	}
}

func TestSynthesizer_Generate_ProviderError(t *testing.T) {
	s := &Synthesizer{provider: &MockProvider{
		name:      "mock",
		available: true,
		err:       errors.New("boom"),
	}}

	_, err := s.Generate(context.Background(), sampleRecords())
	if err == nil {
		t.Error("expected provider error to propagate")
	}
}

func TestSynthesizer_Generate_NoFindings(t *testing.T) {
	s := &Synthesizer{provider: &MockProvider{name: "mock", available: true}}

	_, err := s.Generate(context.Background(), nil)
	if err == nil {
		t.Error("expected error for empty findings")
	}
}

func TestAllowedURLs(t *testing.T) {
	urls := AllowedURLs(sampleRecords())

	expected := []string{"https://example.com/battery", "https://example.org/review"}
	if len(urls) != len(expected) {
		t.Fatalf("expected %d URLs, got %d", len(expected), len(urls))
	}
	for i, u := range urls {
		if u != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, u)
		}
	}
}

func TestBuildPrompt_BasicStructure(t *testing.T) {
	records := sampleRecords()
	prompt := BuildPrompt(records, AllowedURLs(records))

	for _, want := range []string{
		"https://example.com/battery",
		"solid state batteries",
		"Energy density doubled",
		"MUST NOT mention any URL outside",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_NoURLs(t *testing.T) {
	prompt := BuildPrompt(nil, nil)
	if !strings.Contains(prompt, "(No source URLs available)") {
		t.Error("expected placeholder for empty allowlist")
	}
}

func TestJoinURLs_ManyURLs(t *testing.T) {
	urls := make([]string, 25)
	for i := range urls {
		urls[i] = "https://example.com/page"
	}

	joined := joinURLs(urls)
	if !strings.Contains(joined, "and 5 more URLs") {
		t.Errorf("expected truncation note, got %q", joined)
	}
}

func TestExtractURLs(t *testing.T) {
	text := "See https://example.com/a, then (https://example.com/b) and https://example.com/a."
	urls := extractURLs(text)

	if len(urls) != 2 {
		t.Fatalf("expected 2 unique URLs, got %d: %v", len(urls), urls)
	}
	if urls[0] != "https://example.com/a" || urls[1] != "https://example.com/b" {
		t.Errorf("unexpected URLs: %v", urls)
	}
}
