// Package checker audits the liveness of reference URLs in a cited
// document. It is polite by design: robots.txt is honored, requests are
// rate limited per domain, and results can be cached across runs.
package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"citer/internal/cache"
	"citer/internal/cite"
	"citer/internal/model"
	"citer/internal/util"
	"citer/internal/worker"
)

const checkMaxRetries = 3

// sleepFunc is the sleep used between retries (injectable for tests)
var sleepFunc = time.Sleep

// Checker checks reference URLs concurrently
type Checker struct {
	httpClient *http.Client
	maxWorkers int
	userAgent  string
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	results    cache.Cache // nil disables caching
	cacheTTL   time.Duration
}

// Options configures a Checker
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	MaxWorkers  int
	RatePerSec  float64
	RateBurst   int
	HTTPProxy   string
	HTTPSProxy  string
	NoProxy     string
	ResultCache cache.Cache
	CacheTTL    time.Duration
	SkipRobots  bool
}

// New creates a checker
func New(opts Options) *Checker {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 20
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2.0
	}

	var robots *util.RobotsChecker
	if !opts.SkipRobots {
		robots = util.NewRobotsChecker(opts.UserAgent, opts.Timeout)
	}

	return &Checker{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		maxWorkers: opts.MaxWorkers,
		userAgent:  opts.UserAgent,
		robots:     robots,
		limiter:    worker.NewLimiter(opts.RatePerSec, opts.RateBurst),
		results:    opts.ResultCache,
		cacheTTL:   opts.CacheTTL,
	}
}

// Check audits all references concurrently. The result slice is positionally
// aligned with the input.
func (c *Checker) Check(ctx context.Context, refs []cite.Reference) []model.LinkStatus {
	if len(refs) == 0 {
		return []model.LinkStatus{}
	}

	results := make([]model.LinkStatus, len(refs))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, c.maxWorkers)

	for i, ref := range refs {
		wg.Add(1)
		go func(idx int, r cite.Reference) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.LinkStatus{
					Number: r.Number,
					URL:    r.URL,
					Error:  "context cancelled",
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = c.checkOne(ctx, r)
		}(i, ref)
	}

	wg.Wait()
	return results
}

func (c *Checker) checkOne(ctx context.Context, ref cite.Reference) model.LinkStatus {
	if ref.URL == "" {
		return model.LinkStatus{
			Number: ref.Number,
			IsDead: true,
			Error:  "reference entry has no url",
		}
	}

	if cached, ok := c.cachedResult(ref.URL); ok {
		cached.Number = ref.Number
		return cached
	}

	if c.robots != nil {
		allowed, delay, err := c.robots.CanFetch(ctx, ref.URL)
		if err == nil && !allowed {
			return model.LinkStatus{
				Number:  ref.Number,
				URL:     ref.URL,
				Skipped: true,
				Error:   "disallowed by robots.txt",
			}
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return model.LinkStatus{Number: ref.Number, URL: ref.URL, Error: "context cancelled"}
			case <-time.After(delay):
			}
		}
	}

	if err := c.limiter.Wait(ctx, ref.URL); err != nil {
		return model.LinkStatus{Number: ref.Number, URL: ref.URL, Error: fmt.Sprintf("rate limit: %v", err)}
	}

	status := c.headWithRetry(ctx, ref)
	c.storeResult(status)
	return status
}

// headWithRetry retries transient failures with exponential backoff
func (c *Checker) headWithRetry(ctx context.Context, ref cite.Reference) model.LinkStatus {
	var status model.LinkStatus
	for attempt := 0; attempt < checkMaxRetries; attempt++ {
		status = c.head(ctx, ref)
		if !isRetryable(status) {
			return status
		}
		if attempt < checkMaxRetries-1 {
			sleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return status
}

func (c *Checker) head(ctx context.Context, ref cite.Reference) model.LinkStatus {
	status := model.LinkStatus{
		Number: ref.Number,
		URL:    ref.URL,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, ref.URL, nil)
	if err != nil {
		status.Error = fmt.Sprintf("create request: %v", err)
		status.IsDead = true
		return status
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		status.Error = fmt.Sprintf("request failed: %v", err)
		status.IsDead = true
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	status.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		status.IsAccessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		status.IsDead = true
	}

	if resp.Request.URL.String() != ref.URL {
		status.RedirectURL = resp.Request.URL.String()
	}

	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if t, err := time.Parse(time.RFC1123, lastModified); err == nil {
			status.LastModified = &t

			ageDays := int(time.Since(t).Hours() / 24)
			status.AgeDays = &ageDays
			status.IsStale = ageDays > 365
			status.IsVeryStale = ageDays > 365*3
		}
	}

	return status
}

func (c *Checker) cachedResult(url string) (model.LinkStatus, bool) {
	var status model.LinkStatus
	if c.results == nil {
		return status, false
	}
	raw, ok := c.results.Get(cache.Key(url))
	if !ok {
		return status, false
	}
	if err := json.Unmarshal(raw, &status); err != nil {
		return status, false
	}
	return status, true
}

func (c *Checker) storeResult(status model.LinkStatus) {
	if c.results == nil || status.Error != "" {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	_ = c.results.Set(cache.Key(status.URL), raw, c.cacheTTL)
}

// isRetryable reports whether the result indicates a transient failure
func isRetryable(status model.LinkStatus) bool {
	if status.StatusCode >= 500 && status.StatusCode < 600 {
		return true
	}
	if status.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if status.Error != "" {
		s := strings.ToLower(status.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
