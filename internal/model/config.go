package model

import "time"

// Config is the full runtime configuration. Values are layered by the CLI:
// flags over CITER_* environment variables over ~/.citer/config.yaml over
// these defaults.
type Config struct {
	Workspace   WorkspaceConfig   `yaml:"workspace" json:"workspace"`
	Citation    CitationConfig    `yaml:"citation" json:"citation"`
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
}

// WorkspaceConfig locates the research workspace on disk
type WorkspaceConfig struct {
	Dir         string `yaml:"dir" json:"dir"`                   // Workspace root
	FindingsDir string `yaml:"findings_dir" json:"findings_dir"` // Subdirectory holding findings_*.json
	ReportsDir  string `yaml:"reports_dir" json:"reports_dir"`   // Subdirectory for cited documents
}

// CitationConfig tunes the orchestration around the citation engine.
// MinCredibility filters sources before the registry is built; the engine
// itself never filters on credibility.
type CitationConfig struct {
	MinCredibility float64 `yaml:"min_credibility" json:"min_credibility"`
}

// HTTPConfig configures the reference link checker's HTTP client
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" json:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" json:"no_proxy"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	CheckWorkers int     `yaml:"check_workers" json:"check_workers"` // Concurrent link checks
	BatchWorkers int     `yaml:"batch_workers" json:"batch_workers"` // Concurrent document cites
	RatePerSec   float64 `yaml:"rate_per_sec" json:"rate_per_sec"`   // Per-domain request rate
	RateBurst    int     `yaml:"rate_burst" json:"rate_burst"`
}

// CacheConfig controls link-check result caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// LLMConfig configures the optional narrative synthesizer.
// It is disabled unless a provider is set explicitly.
type LLMConfig struct {
	Provider       string `yaml:"provider" json:"provider"` // "openai" or "" (disabled)
	Model          string `yaml:"model" json:"model"`
	APIKey         string `yaml:"-" json:"-"` // Environment only, never persisted
	BaseURL        string `yaml:"base_url" json:"base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs" json:"timeout_secs"`
	MaxTokens      int    `yaml:"max_tokens" json:"max_tokens"`
	StrictEvidence bool   `yaml:"strict_evidence" json:"strict_evidence"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Dir:         "./research_workspace",
			FindingsDir: "findings",
			ReportsDir:  "reports",
		},
		Citation: CitationConfig{
			MinCredibility: 0.0,
		},
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "Citer/0.1 (citation auditor)",
		},
		Concurrency: ConcurrencyConfig{
			CheckWorkers: 20,
			BatchWorkers: 4,
			RatePerSec:   2.0,
			RateBurst:    5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:       "",
			Model:          "gpt-4o-mini",
			TimeoutSecs:    60,
			MaxTokens:      2000,
			StrictEvidence: true,
		},
	}
}
