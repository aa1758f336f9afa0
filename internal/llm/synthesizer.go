package llm

import (
	"context"
	"fmt"

	"citer/internal/model"
)

// Synthesizer drafts narratives from findings records. A Synthesizer with
// a nil provider is valid and reports itself disabled.
type Synthesizer struct {
	provider Provider
	config   model.LLMConfig
}

// NewSynthesizer creates a synthesizer from configuration
func NewSynthesizer(cfg model.LLMConfig) (*Synthesizer, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return &Synthesizer{provider: provider, config: cfg}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Synthesizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Synthesizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Generate drafts a narrative grounded in the findings. The allowlist is
// derived from the source URLs inside the records; the provider must not
// mention any URL outside it. Returns (nil, nil) when disabled.
func (s *Synthesizer) Generate(ctx context.Context, records []model.FindingsRecord) (*SynthesizeResponse, error) {
	if s.provider == nil {
		return nil, nil
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no findings to synthesize from")
	}

	if !s.provider.IsAvailable(ctx) {
		return nil, fmt.Errorf("LLM provider %s is not available", s.provider.Name())
	}

	resp, err := s.provider.Synthesize(ctx, SynthesizeRequest{
		Records:     records,
		AllowedURLs: AllowedURLs(records),
		Model:       s.config.Model,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize draft: %w", err)
	}
	return resp, nil
}

// AllowedURLs collects the unique source URLs across findings records, in
// first-seen order
func AllowedURLs(records []model.FindingsRecord) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, rec := range records {
		for _, src := range rec.Sources {
			if src.URL == "" || seen[src.URL] {
				continue
			}
			seen[src.URL] = true
			urls = append(urls, src.URL)
		}
	}
	return urls
}
