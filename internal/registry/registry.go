// Package registry aggregates source descriptors from findings records into
// a deduplicated, immutable source map. It is the leaf component of the
// citation engine: it performs no I/O and holds no state beyond what Build
// derives from its input.
package registry

import (
	"fmt"

	"citer/internal/model"
)

// Registry maps content-derived source identifiers to sources. A Registry
// is never mutated after Build returns, so concurrent reads are safe.
// Rebuild instead of mutating.
type Registry struct {
	sources  map[string]*model.Source
	warnings []string
}

// Build aggregates source descriptors from the given findings records.
//
// Dedup policy: at most one Source per distinct URL. The first record seen
// for a URL fixes title, credibility, and the remaining descriptive fields;
// later records only contribute quotes (first-writer-wins, chosen over the
// original unordered last-write behavior for reproducibility). Quotes
// identical to one already held by the source are not re-appended.
//
// Malformed descriptors are skipped with a recorded warning; Build never
// fails on bad data.
func Build(records []model.FindingsRecord) *Registry {
	r := &Registry{
		sources: make(map[string]*model.Source),
	}

	for _, rec := range records {
		for _, sd := range rec.Sources {
			if sd.URL == "" {
				r.warnings = append(r.warnings,
					fmt.Sprintf("skipping source with missing url in findings %q (agent %s)", rec.Topic, rec.AgentID))
				continue
			}

			id := model.SourceID(sd.URL)
			existing, ok := r.sources[id]
			if !ok {
				src := &model.Source{
					ID:          id,
					URL:         sd.URL,
					Title:       sd.Title,
					Timestamp:   sd.Timestamp,
					Credibility: sd.CredibilityScore,
					SourceType:  sd.SourceType,
					AccessDate:  sd.AccessDate,
				}
				// First writer: quotes are copied verbatim, duplicates included
				src.Quotes = append(src.Quotes, sd.RelevantQuotes...)
				r.sources[id] = src
				continue
			}

			// Same URL seen again: accumulate quotes only, skipping strings
			// the source already carries
			for _, q := range sd.RelevantQuotes {
				if !existing.HasQuote(q) {
					existing.Quotes = append(existing.Quotes, q)
				}
			}
		}
	}

	return r
}

// Get returns the source for the given identifier
func (r *Registry) Get(id string) (*model.Source, bool) {
	src, ok := r.sources[id]
	return src, ok
}

// Len returns the number of distinct sources
func (r *Registry) Len() int {
	return len(r.sources)
}

// Sources returns all sources. Order is unspecified; callers that need a
// deterministic order must sort.
func (r *Registry) Sources() []*model.Source {
	out := make([]*model.Source, 0, len(r.sources))
	for _, src := range r.sources {
		out = append(out, src)
	}
	return out
}

// Warnings returns the malformed-descriptor warnings recorded during Build
func (r *Registry) Warnings() []string {
	return r.warnings
}

// Summary computes registry-wide statistics
func (r *Registry) Summary() model.SourceSummary {
	summary := model.SourceSummary{
		SourceTypes: make(map[string]int),
	}
	if len(r.sources) == 0 {
		return summary
	}

	summary.TotalSources = len(r.sources)
	summary.MinCredibility = 1.0

	var credSum float64
	for _, src := range r.sources {
		credSum += src.Credibility
		if src.Credibility < summary.MinCredibility {
			summary.MinCredibility = src.Credibility
		}
		if src.Credibility > summary.MaxCredibility {
			summary.MaxCredibility = src.Credibility
		}

		st := src.SourceType
		if st == "" {
			st = "unknown"
		}
		summary.SourceTypes[st]++
		summary.TotalQuotes += len(src.Quotes)
	}

	summary.AverageCredibility = credSum / float64(summary.TotalSources)
	summary.QuotesPerSource = float64(summary.TotalQuotes) / float64(summary.TotalSources)
	return summary
}
