// Package llm provides the optional narrative synthesizer. It drafts a
// document from findings records under a strict URL allowlist so the
// citation pipeline can annotate its own output. Disabled unless a
// provider is configured explicitly.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"citer/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Synthesize drafts a narrative from findings with strict evidence mode
	Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SynthesizeRequest contains the input for narrative synthesis
type SynthesizeRequest struct {
	// Records are the findings the draft must be grounded in
	Records []model.FindingsRecord

	// AllowedURLs is the STRICT allowlist of URLs the LLM may mention.
	// The draft must not reference any URL outside this list.
	AllowedURLs []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SynthesizeResponse contains the LLM's draft output
type SynthesizeResponse struct {
	// Draft is the generated narrative text
	Draft string

	// MentionedURLs are the URLs the LLM actually mentioned (for verification)
	MentionedURLs []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// NewProvider creates a provider from configuration. An empty provider
// name disables synthesis and returns a nil provider.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", cfg.Provider)
	}
}

// BuildPrompt constructs the default synthesis prompt with strict evidence mode
func BuildPrompt(records []model.FindingsRecord, allowedURLs []string) string {
	var b strings.Builder

	b.WriteString(`You are drafting a research narrative from structured findings. The draft will be cited automatically afterwards, so it must stay grounded in the findings.

CRITICAL RULES:
1. You MUST NOT mention any URL outside this allowed list:
`)
	b.WriteString(joinURLs(allowedURLs))
	b.WriteString(`

2. DO NOT invent facts, numbers, or sources beyond the findings below.
3. Quote the source material verbatim where a claim rests on it; exact quotes become citation anchors.
4. If findings conflict or evidence is thin, say so explicitly.
5. Write plain markdown prose with no citation markers and no reference list; those are added later.

Findings:
`)

	for i, rec := range records {
		fmt.Fprintf(&b, "\n--- Finding %d (topic: %s, confidence: %.2f) ---\n%s\n", i+1, rec.Topic, rec.Confidence, rec.Findings)
		for _, src := range rec.Sources {
			fmt.Fprintf(&b, "Source: %s (%s)\n", src.Title, src.URL)
			for _, q := range src.RelevantQuotes {
				fmt.Fprintf(&b, "  Quote: %q\n", q)
			}
		}
	}

	b.WriteString("\nProduce a coherent draft of a few paragraphs covering the topics above.")

	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No source URLs available)"
	}
	var b strings.Builder
	for i, url := range urls {
		if i >= 20 { // Limit to first 20 to avoid token bloat
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-20)
			break
		}
		fmt.Fprintf(&b, "\n- %s", url)
	}
	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s\)]+`)

// extractURLs extracts all URLs from text
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, url := range matches {
		// Clean up trailing punctuation
		url = strings.TrimRight(url, ".,;:!?")
		if !seen[url] {
			seen[url] = true
			unique = append(unique, url)
		}
	}

	return unique
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
