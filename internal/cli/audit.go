package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"citer/internal/pipeline"
)

var (
	auditJSON    string
	auditTimeout time.Duration
	userAgent    string
	checkWorkers int
	ratePerSec   float64
	httpProxy    string
	httpsProxy   string
	noCache      bool
	offline      bool
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <document>",
	Short: "Audit a cited document: integrity, link liveness, and quality score",
	Long: `Audit runs the offline integrity checks, then checks every reference
URL with polite HEAD requests (robots.txt honored, per-domain rate
limits, cached results), and computes a transparent 0-100 quality score
from coverage, reference completeness, freshness, accessibility, and
integrity signals.

Example:
  citer audit cited.md
  citer audit cited.md --json audit.json
  citer audit cited.md --offline
  citer audit cited.md --rate 1 --check-workers 5 --timeout 30s`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditJSON, "json", "", "write the audit report as JSON to this path")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 10*time.Second, "per-request timeout")
	auditCmd.Flags().StringVar(&userAgent, "ua", "citer/0.1 (+https://github.com/citer/citer)", "HTTP User-Agent")
	auditCmd.Flags().IntVar(&checkWorkers, "check-workers", 0, "concurrent link checks (default from config)")
	auditCmd.Flags().Float64Var(&ratePerSec, "rate", 0, "per-domain requests per second (default from config)")
	auditCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	auditCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	auditCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable link result caching")
	auditCmd.Flags().BoolVar(&offline, "offline", false, "skip link checks entirely")
}

func runAudit(cmd *cobra.Command, args []string) error {
	doc := args[0]

	cfg := buildConfig()
	if cmd.Flags().Changed("timeout") {
		cfg.HTTP.Timeout = auditTimeout
	}
	if cmd.Flags().Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if checkWorkers > 0 {
		cfg.Concurrency.CheckWorkers = checkWorkers
	}
	if ratePerSec > 0 {
		cfg.Concurrency.RatePerSec = ratePerSec
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Document: %s\n", doc)
		fmt.Fprintf(os.Stderr, "Link checks: %v\n", !offline)
		if !offline {
			fmt.Fprintf(os.Stderr, "Rate: %.1f req/s per domain\n", cfg.Concurrency.RatePerSec)
			fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		}
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg)

	report, err := p.Audit(context.Background(), doc, !offline)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if auditJSON != "" {
		if err := p.Renderer().WriteJSON(report, auditJSON); err != nil {
			return fmt.Errorf("write audit report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote audit report: %s\n", auditJSON)
		}
	}

	p.Renderer().PrintAuditSummary(report)
	return nil
}
