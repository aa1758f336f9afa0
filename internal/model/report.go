package model

import (
	"fmt"
	"time"
)

// Citation binds an assigned citation number to the source that earned it.
// Assignments are ephemeral: they exist for one apply call and are recorded
// here only for reporting and downstream validation.
type Citation struct {
	Number   int    `json:"number"`
	SourceID string `json:"source_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// AssignmentReport summarizes one citation assignment pass
type AssignmentReport struct {
	SourcesConsidered int        `json:"sources_considered"`
	SourcesCited      int        `json:"sources_cited"`
	Citations         []Citation `json:"citations"`
}

// ErrorKind classifies a citation integrity finding
type ErrorKind string

const (
	DanglingCitation       ErrorKind = "dangling_citation"        // Marker in body, no reference line
	OrphanReference        ErrorKind = "orphan_reference"         // Reference line never cited in body
	DuplicateReference     ErrorKind = "duplicate_reference"      // Same number labels multiple reference lines
	NonContiguousNumbering ErrorKind = "non_contiguous_numbering" // Numbers are not exactly 1..k
)

// ValidationError is a single integrity finding. Findings are data, not
// exceptions: callers decide whether any of them is fatal.
type ValidationError struct {
	Kind   ErrorKind `json:"kind"`
	Number int       `json:"number"`
}

func (e ValidationError) Error() string {
	switch e.Kind {
	case DanglingCitation:
		return fmt.Sprintf("citation [%d] has no corresponding reference", e.Number)
	case OrphanReference:
		return fmt.Sprintf("reference [%d] is not cited in text", e.Number)
	case DuplicateReference:
		return fmt.Sprintf("reference [%d] labels more than one reference line", e.Number)
	case NonContiguousNumbering:
		return fmt.Sprintf("citation numbering skips [%d]", e.Number)
	default:
		return fmt.Sprintf("citation issue [%d]: %s", e.Number, e.Kind)
	}
}

// Coverage describes how much of a document carries citations
type Coverage struct {
	Sentences      int     `json:"sentences"`
	CitedSentences int     `json:"cited_sentences"`
	Percent        float64 `json:"percent"`
}

// LinkStatus is the liveness result for one reference URL
type LinkStatus struct {
	Number       int        `json:"number"`
	URL          string     `json:"url"`
	IsAccessible bool       `json:"is_accessible"`
	StatusCode   int        `json:"status_code,omitempty"`
	RedirectURL  string     `json:"redirect_url,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	AgeDays      *int       `json:"age_days,omitempty"`
	IsStale      bool       `json:"is_stale"`      // > 1 year since last modified
	IsVeryStale  bool       `json:"is_very_stale"` // > 3 years
	IsDead       bool       `json:"is_dead"`       // 404, 410, or network failure
	Skipped      bool       `json:"skipped"`       // robots.txt disallowed
	Error        string     `json:"error,omitempty"`
}

// Score is the transparent citation-quality breakdown for a cited document
type Score struct {
	Index      int      `json:"index"`      // 0-100
	Confidence string   `json:"confidence"` // "low", "medium", "high"
	Signals    []Signal `json:"signals"`
}

// Signal is one diagnostic component of the score, with its inputs exposed
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies the diagnostic signal
type SignalType string

const (
	SignalCitationCoverage      SignalType = "citation_coverage"      // Cited-sentence ratio
	SignalReferenceCompleteness SignalType = "reference_completeness" // Entries carrying title and URL
	SignalFreshness             SignalType = "freshness"              // Age of reference URLs
	SignalAccessibility         SignalType = "accessibility"          // Dead link ratio
	SignalIntegrity             SignalType = "integrity"              // Marker/reference cross-check findings
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// SourceSummary holds registry-wide statistics for the sources command
type SourceSummary struct {
	TotalSources       int            `json:"total_sources"`
	TotalQuotes        int            `json:"total_quotes"`
	AverageCredibility float64        `json:"average_credibility"`
	MinCredibility     float64        `json:"min_credibility"`
	MaxCredibility     float64        `json:"max_credibility"`
	SourceTypes        map[string]int `json:"source_types"`
	QuotesPerSource    float64        `json:"quotes_per_source"`
}

// RunReport is the JSON artifact written next to a cited document
type RunReport struct {
	Workspace   string            `json:"workspace"`
	GeneratedAt time.Time         `json:"generated_at"`
	Assignment  AssignmentReport  `json:"assignment"`
	Validation  []ValidationError `json:"validation"`
	Coverage    Coverage          `json:"coverage"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// AuditReport is the artifact produced by the audit command
type AuditReport struct {
	Document   string            `json:"document"`
	AuditedAt  time.Time         `json:"audited_at"`
	Validation []ValidationError `json:"validation"`
	Coverage   Coverage          `json:"coverage"`
	Links      []LinkStatus      `json:"links,omitempty"`
	Score      Score             `json:"score"`
}
