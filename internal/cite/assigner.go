// Package cite is the citation engine core: it assigns numbered citation
// markers to narrative text by exact quote matching against a source
// registry, renders the reference section, and validates cited documents
// for integrity. All functions are pure: no I/O, no shared state, safe for
// concurrent callers as long as each call gets its own registry snapshot.
package cite

import (
	"fmt"
	"sort"
	"strings"

	"citer/internal/model"
	"citer/internal/registry"
)

// ReferencesHeading delimits the reference section of a cited document
const ReferencesHeading = "## References"

// Result is the output of one Apply call
type Result struct {
	// CitedText is the input text with markers inserted and, when at least
	// one source matched, the reference section appended.
	CitedText string
	// References is the rendered reference block alone, without heading.
	// Empty when nothing matched.
	References string
	// Report maps assigned numbers back to sources.
	Report model.AssignmentReport
}

// span is a half-open [start, end) byte range in the working text
type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// Apply inserts citation markers into text by exact quote matching.
//
// Sources are processed in credibility-descending order, identifier order
// breaking ties, so output is reproducible for identical input. Each source
// earns at most one marker: the first of its quotes found verbatim in the
// current text, at the leftmost occurrence not already claimed by an
// earlier source and not inside a previously inserted marker. Numbers are
// assigned 1..k in first-cited order. Sources with no match are silently
// excluded from the references.
//
// Matching is exact and case-sensitive. The guarantee sold is "this exact
// string appears verbatim in both text and source", nothing semantic.
func Apply(text string, reg *registry.Registry) Result {
	sources := reg.Sources()
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Credibility != sources[j].Credibility {
			return sources[i].Credibility > sources[j].Credibility
		}
		return sources[i].ID < sources[j].ID
	})

	body := text
	var inserted []span // marker regions, positions in current body
	var claimed []span  // quote occurrences already carrying a marker
	var citations []model.Citation

	for _, src := range sources {
		for _, quote := range src.Quotes {
			if strings.TrimSpace(quote) == "" {
				continue
			}

			pos := findOccurrence(body, quote, inserted, claimed)
			if pos < 0 {
				continue
			}

			number := len(citations) + 1
			marker := fmt.Sprintf(" [%d]", number)
			at := pos + len(quote)

			body = body[:at] + marker + body[at:]
			shiftSpans(inserted, at, len(marker))
			shiftSpans(claimed, at, len(marker))
			claimed = append(claimed, span{pos, at})
			inserted = append(inserted, span{at, at + len(marker)})

			citations = append(citations, model.Citation{
				Number:   number,
				SourceID: src.ID,
				Title:    src.Title,
				URL:      src.URL,
			})
			break // at most one marker per source per call
		}
	}

	refs := renderReferences(citations)
	cited := body
	if refs != "" {
		cited = body + "\n\n" + ReferencesHeading + "\n\n" + refs
	}

	return Result{
		CitedText:  cited,
		References: refs,
		Report: model.AssignmentReport{
			SourcesConsidered: reg.Len(),
			SourcesCited:      len(citations),
			Citations:         citations,
		},
	}
}

// findOccurrence returns the leftmost occurrence of quote in body that
// neither overlaps an inserted marker region nor an already-claimed quote
// occurrence, or -1 if there is none
func findOccurrence(body, quote string, inserted, claimed []span) int {
	for off := 0; off <= len(body)-len(quote); {
		idx := strings.Index(body[off:], quote)
		if idx < 0 {
			return -1
		}
		start := off + idx
		cand := span{start, start + len(quote)}
		if overlapsAny(cand, inserted) || overlapsAny(cand, claimed) {
			off = start + 1
			continue
		}
		return start
	}
	return -1
}

func overlapsAny(s span, spans []span) bool {
	for _, o := range spans {
		if s.overlaps(o) {
			return true
		}
	}
	return false
}

// shiftSpans moves spans at or past the insertion point by delta. Insertion
// never lands strictly inside a recorded span, so whole-span shifts suffice.
func shiftSpans(spans []span, at, delta int) {
	for i := range spans {
		if spans[i].start >= at {
			spans[i].start += delta
			spans[i].end += delta
		}
	}
}
