// Package robots caches per-host robots.txt policy for the crawl's
// lifetime: one fetch per host, then in-memory lookups.
//
// Robots checks occur before a URL enters the frontier.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// maxBodySize caps how much of a robots.txt response body is read before
// parsing, guarding against a host serving an unbounded stream.
const maxBodySize = 500 * 1024

// Recorder receives robots fetch/parse failures for observability. It is
// never consulted for the allow/disallow decision itself.
type Recorder interface {
	RecordRobotsFailure(host string, err *RobotsError)
}

// Robot decides whether a URL may be fetched under its host's robots.txt.
type Robot interface {
	Allowed(ctx context.Context, target url.URL) bool
}

// CachedRobot fetches robots.txt once per host and caches the parsed
// policy for the remainder of the crawl session. The cache has no expiry:
// crawl sessions are bounded, so a refetch is never warranted mid-run.
type CachedRobot struct {
	httpClient *http.Client
	userAgent  string
	recorder   Recorder

	mu       sync.RWMutex
	policies map[string]*robotstxt.RobotsData
}

// NewCachedRobot builds a CachedRobot using httpClient for robots.txt
// fetches, identifying itself with userAgent.
func NewCachedRobot(httpClient *http.Client, userAgent string, recorder Recorder) *CachedRobot {
	return &CachedRobot{
		httpClient: httpClient,
		userAgent:  userAgent,
		recorder:   recorder,
		policies:   make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether target may be fetched under the cached policy for
// target's host, consulting user-agent "*". A cache miss triggers a fetch
// of <scheme>://<host>/robots.txt; any fetch or parse failure resolves to
// an allow-all policy for that host rather than blocking the crawl.
func (r *CachedRobot) Allowed(ctx context.Context, target url.URL) bool {
	base := target.Scheme + "://" + target.Host
	policy := r.policyFor(ctx, base)
	return policy.TestAgent(target.Path, "*")
}

func (r *CachedRobot) policyFor(ctx context.Context, base string) *robotstxt.RobotsData {
	r.mu.RLock()
	policy, ok := r.policies[base]
	r.mu.RUnlock()
	if ok {
		return policy
	}

	policy = r.fetchAndParse(ctx, base)

	r.mu.Lock()
	r.policies[base] = policy
	r.mu.Unlock()

	return policy
}

func (r *CachedRobot) fetchAndParse(ctx context.Context, base string) *robotstxt.RobotsData {
	robotsURL := base + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		r.recordFailure(base, &RobotsError{Message: err.Error(), Cause: ErrCauseHTTPFetchFailure})
		return allowAllPolicy()
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.recordFailure(base, &RobotsError{Message: err.Error(), Cause: ErrCauseHTTPFetchFailure})
		return allowAllPolicy()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		r.recordFailure(base, &RobotsError{Message: err.Error(), Cause: ErrCauseHTTPFetchFailure})
		return allowAllPolicy()
	}

	policy, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		r.recordFailure(base, &RobotsError{Message: err.Error(), Cause: ErrCauseParseFailure})
		return allowAllPolicy()
	}

	return policy
}

func (r *CachedRobot) recordFailure(host string, err *RobotsError) {
	if r.recorder != nil {
		r.recorder.RecordRobotsFailure(host, err)
	}
}

func allowAllPolicy() *robotstxt.RobotsData {
	policy, err := robotstxt.FromBytes(nil)
	if err != nil {
		panic(fmt.Sprintf("robots: empty robots.txt failed to parse: %v", err))
	}
	return policy
}

// NewHTTPClient builds the http.Client the Robots Policy Cache uses for
// robots.txt fetches, applying the same timeout budget the content
// downloader uses.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
