// Package worker runs the crawl's concurrent fetch loop: each worker pulls
// a URL from the Frontier, fetches it, runs the Content Pipeline, and
// re-admits any outbound links that pass the robots and validity checks.
//
// Determinism and admission guarantees:
//   - A worker never decides admission itself; it only forwards candidate
//     links to Frontier.Add, which owns normalize/validate.
//   - robots.Allowed is the one admission gate a worker applies on the
//     pipeline's behalf, since only the worker has a live context to fetch
//     a robots.txt with.
//   - frontier.Complete is called exactly once per dispensed URL, on every
//     terminal outcome — fetch success, fetch failure, or pipeline skip.
package worker

import (
	"context"
	"net/url"
	"time"

	"github.com/rohmanhakim/uci-crawler/internal/content"
	"github.com/rohmanhakim/uci-crawler/internal/fetch"
	"github.com/rohmanhakim/uci-crawler/internal/frontier"
)

// RobotsChecker decides whether a URL may be fetched under the target
// host's robots policy. Satisfied by *robots.CachedRobot.
type RobotsChecker interface {
	Allowed(ctx context.Context, target url.URL) bool
}

// Pool runs n concurrent workers against a shared Frontier until its
// context is canceled. Its zero value is not usable; build one with
// NewPool.
type Pool struct {
	frontier       *frontier.Frontier
	fetcher        *fetch.Fetcher
	pipeline       *content.Pipeline
	robots         RobotsChecker
	workerIdleWait time.Duration
}

// NewPool wires a worker pool over the given collaborators. idleWait is how
// long a worker sleeps after Frontier.Next reports nothing eligible; pass
// zero to use the Frontier's own WaitHint each time instead of a fixed
// value.
func NewPool(f *frontier.Frontier, fetcher *fetch.Fetcher, pipeline *content.Pipeline, robotsChecker RobotsChecker, idleWait time.Duration) *Pool {
	return &Pool{
		frontier:       f,
		fetcher:        fetcher,
		pipeline:       pipeline,
		robots:         robotsChecker,
		workerIdleWait: idleWait,
	}
}

// Run starts n workers and blocks until ctx is canceled and every worker
// has returned. Each worker loops independently; there is no shared
// per-iteration barrier between them.
func (p *Pool) Run(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			p.runWorker(ctx)
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
}

func (p *Pool) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raw, ok := p.frontier.Next()
		if !ok {
			p.sleepIdle(ctx)
			continue
		}

		p.process(ctx, raw)
	}
}

func (p *Pool) sleepIdle(ctx context.Context) {
	wait := p.workerIdleWait
	if wait <= 0 {
		wait = p.frontier.WaitHint()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// process fetches raw, runs the content pipeline, and admits every
// resulting link that passes robots — then unconditionally completes raw,
// regardless of how any of those steps went.
func (p *Pool) process(ctx context.Context, raw string) {
	defer p.frontier.Complete(raw)

	target, err := url.Parse(raw)
	if err != nil {
		return
	}

	resp, fetchErr := p.fetcher.Fetch(ctx, *target)
	if fetchErr != nil {
		return
	}

	links := p.pipeline.Process(resp)
	for _, link := range links {
		if p.robots != nil && !p.robots.Allowed(ctx, link) {
			continue
		}
		p.frontier.Add(link.String())
	}
}
