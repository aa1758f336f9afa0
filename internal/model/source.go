package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// Source represents one external reference aggregated from findings records
type Source struct {
	ID          string   `json:"id"`                    // Content-derived identifier (see SourceID)
	URL         string   `json:"url"`                   // Full URL, dedup key
	Title       string   `json:"title"`                 // First-writer-wins across findings records
	Timestamp   string   `json:"timestamp,omitempty"`   // ISO-8601 as reported by the worker
	Quotes      []string `json:"relevant_quotes"`       // Exact-text quotes, accumulation order preserved
	Credibility float64  `json:"credibility_score"`     // 0..1, ordering only, never filtering
	SourceType  string   `json:"source_type,omitempty"` // e.g. peer_reviewed, news, blog
	AccessDate  string   `json:"access_date,omitempty"`
}

// SourceID derives the stable source identifier from a URL.
// Same URL always yields the same identifier across runs and registries.
func SourceID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:12]
}

// HasQuote reports whether the source already carries the exact quote string
func (s *Source) HasQuote(quote string) bool {
	for _, q := range s.Quotes {
		if q == quote {
			return true
		}
	}
	return false
}
