// Package score rates the citation quality of an audited document on a
// transparent 0-100 index. Scores describe how well the document's claims
// are supported by its own references; they say nothing about truth.
package score

import (
	"fmt"
	"math"

	"citer/internal/cite"
	"citer/internal/model"
)

// Scorer calculates the citation quality index and diagnostic signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate combines coverage, reference completeness, link freshness, and
// link accessibility into an index. Every signal exposes its inputs so the
// number can be recomputed by hand. Integrity findings apply a flat penalty
// and cap confidence.
func (s *Scorer) Calculate(cov model.Coverage, refs []cite.Reference, validation []model.ValidationError, links []model.LinkStatus) model.Score {
	var signals []model.Signal

	coverageScore, coverageSignal := s.scoreCoverage(cov)
	signals = append(signals, coverageSignal)

	completenessScore, completenessSignal := s.scoreCompleteness(refs)
	signals = append(signals, completenessSignal)

	freshnessScore, freshnessSignal := s.scoreFreshness(links)
	signals = append(signals, freshnessSignal)

	accessScore, accessSignal := s.scoreAccessibility(links)
	signals = append(signals, accessSignal)

	total := coverageScore + completenessScore + freshnessScore + accessScore

	if len(validation) > 0 {
		total -= 10
		if total < 0 {
			total = 0
		}
		signals = append(signals, model.Signal{
			Type:        model.SignalIntegrity,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("%d citation integrity finding(s); see validation report", len(validation)),
			Data: map[string]interface{}{
				"findings": len(validation),
				"penalty":  10,
			},
		})
	}

	return model.Score{
		Index:      total,
		Confidence: s.confidence(total, len(refs), len(validation) > 0),
		Signals:    signals,
	}
}

// scoreCoverage rates cited-sentence density (0-40 points)
func (s *Scorer) scoreCoverage(cov model.Coverage) (int, model.Signal) {
	if cov.Sentences == 0 {
		return 0, model.Signal{
			Type:        model.SignalCitationCoverage,
			Severity:    model.SeverityWarning,
			Description: "Document has no sentences to cover",
			Data:        map[string]interface{}{"sentences": 0},
		}
	}

	ratio := float64(cov.CitedSentences) / float64(cov.Sentences)
	points := int(math.Min(ratio*2*40, 40)) // 50% coverage already earns full marks

	severity := model.SeverityInfo
	if ratio < 0.1 {
		severity = model.SeverityCritical
	} else if ratio < 0.25 {
		severity = model.SeverityWarning
	}

	return points, model.Signal{
		Type:        model.SignalCitationCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d sentences carry citations (%.1f%%)", cov.CitedSentences, cov.Sentences, cov.Percent),
		Data: map[string]interface{}{
			"sentences":       cov.Sentences,
			"cited_sentences": cov.CitedSentences,
			"formula":         "min(ratio*2*40, 40)",
		},
	}
}

// scoreCompleteness rates reference entries that parse fully (0-30 points)
func (s *Scorer) scoreCompleteness(refs []cite.Reference) (int, model.Signal) {
	if len(refs) == 0 {
		return 0, model.Signal{
			Type:        model.SignalReferenceCompleteness,
			Severity:    model.SeverityCritical,
			Description: "No reference entries found",
			Data:        map[string]interface{}{"entries": 0},
		}
	}

	complete := 0
	for _, r := range refs {
		if r.URL != "" && r.Title != "" {
			complete++
		}
	}

	ratio := float64(complete) / float64(len(refs))
	points := int(ratio * 30)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 1.0 {
		severity = model.SeverityWarning
	}

	return points, model.Signal{
		Type:        model.SignalReferenceCompleteness,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d reference entries carry title and URL", complete, len(refs)),
		Data: map[string]interface{}{
			"entries":  len(refs),
			"complete": complete,
			"formula":  "ratio*30",
		},
	}
}

// scoreFreshness rates the age of reference URLs (0-20 points). Links
// without Last-Modified data are neutral: they neither earn nor cost.
func (s *Scorer) scoreFreshness(links []model.LinkStatus) (int, model.Signal) {
	dated := 0
	stale := 0
	veryStale := 0
	for _, l := range links {
		if l.AgeDays == nil {
			continue
		}
		dated++
		if l.IsVeryStale {
			veryStale++
		} else if l.IsStale {
			stale++
		}
	}

	if dated == 0 {
		return 10, model.Signal{
			Type:        model.SignalFreshness,
			Severity:    model.SeverityInfo,
			Description: "No reference reported a modification date; freshness neutral",
			Data:        map[string]interface{}{"dated": 0, "points": 10},
		}
	}

	fresh := dated - stale - veryStale
	ratio := (float64(fresh) + 0.5*float64(stale)) / float64(dated)
	points := int(ratio * 20)

	severity := model.SeverityInfo
	if veryStale > dated/2 {
		severity = model.SeverityWarning
	}

	return points, model.Signal{
		Type:        model.SignalFreshness,
		Severity:    severity,
		Description: fmt.Sprintf("%d fresh, %d stale, %d very stale of %d dated references", fresh, stale, veryStale, dated),
		Data: map[string]interface{}{
			"dated":      dated,
			"stale":      stale,
			"very_stale": veryStale,
			"formula":    "(fresh + 0.5*stale)/dated * 20",
		},
	}
}

// scoreAccessibility rates the dead-link ratio (0-10 points)
func (s *Scorer) scoreAccessibility(links []model.LinkStatus) (int, model.Signal) {
	checked := 0
	accessible := 0
	for _, l := range links {
		if l.Skipped {
			continue
		}
		checked++
		if l.IsAccessible {
			accessible++
		}
	}

	if checked == 0 {
		return 5, model.Signal{
			Type:        model.SignalAccessibility,
			Severity:    model.SeverityInfo,
			Description: "No links checked; accessibility neutral",
			Data:        map[string]interface{}{"checked": 0, "points": 5},
		}
	}

	ratio := float64(accessible) / float64(checked)
	points := int(ratio * 10)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 0.9 {
		severity = model.SeverityWarning
	}

	return points, model.Signal{
		Type:        model.SignalAccessibility,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d checked references accessible", accessible, checked),
		Data: map[string]interface{}{
			"checked":    checked,
			"accessible": accessible,
			"formula":    "ratio*10",
		},
	}
}

// confidence buckets the index, discounting thin reference lists and any
// integrity findings
func (s *Scorer) confidence(index, refCount int, hasFindings bool) string {
	if hasFindings || refCount == 0 {
		return "low"
	}
	switch {
	case index >= 70 && refCount >= 3:
		return "high"
	case index >= 40:
		return "medium"
	default:
		return "low"
	}
}
