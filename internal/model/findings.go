package model

// FindingsRecord is the structured output of one research worker for one
// subtopic. The JSON shape is shared with the workers that write these
// files; unknown fields are ignored on decode.
type FindingsRecord struct {
	Topic      string         `json:"topic"`
	AgentID    string         `json:"agent_id"`
	Timestamp  string         `json:"timestamp"`
	Findings   string         `json:"findings"`
	Sources    []SourceRecord `json:"sources"`
	Confidence float64        `json:"confidence"`
}

// SourceRecord is a single source descriptor inside a findings record
type SourceRecord struct {
	URL              string   `json:"url"`
	Title            string   `json:"title"`
	Timestamp        string   `json:"timestamp"`
	RelevantQuotes   []string `json:"relevant_quotes"`
	CredibilityScore float64  `json:"credibility_score"`
	SourceType       string   `json:"source_type,omitempty"`
	SourceDomain     string   `json:"source_domain,omitempty"`
	AccessDate       string   `json:"access_date,omitempty"`
}
