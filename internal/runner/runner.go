// Package runner wires every collaborator package into a running crawl and
// drives it to completion. It is the construct-then-drive entrypoint that
// cmd/crawler hands a parsed Config to.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/uci-crawler/internal/analytics"
	"github.com/rohmanhakim/uci-crawler/internal/config"
	"github.com/rohmanhakim/uci-crawler/internal/content"
	"github.com/rohmanhakim/uci-crawler/internal/fetch"
	"github.com/rohmanhakim/uci-crawler/internal/frontier"
	"github.com/rohmanhakim/uci-crawler/internal/normalize"
	"github.com/rohmanhakim/uci-crawler/internal/observability"
	"github.com/rohmanhakim/uci-crawler/internal/robots"
	"github.com/rohmanhakim/uci-crawler/internal/simhash"
	"github.com/rohmanhakim/uci-crawler/internal/store"
	"github.com/rohmanhakim/uci-crawler/internal/trap"
	"github.com/rohmanhakim/uci-crawler/internal/worker"
	"github.com/rohmanhakim/uci-crawler/pkg/retry"
	"github.com/rohmanhakim/uci-crawler/pkg/timeutil"
)

// drainPollInterval is how often Run checks whether the frontier has run
// dry once every worker is idle.
const drainPollInterval = 500 * time.Millisecond

// Run constructs the crawl from cfg, drives it to completion or to ctx's
// cancellation, and returns nil on a clean shutdown. A non-nil error means
// either construction failed before any worker could run or the final
// analytics checkpoint could not be written.
func Run(ctx context.Context, cfg config.Config) error {
	rec := observability.New(os.Stdout)

	if cfg.Restart() {
		if err := os.Remove(cfg.SaveFile()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("discarding store for restart: %w", err)
		}
	}

	st, err := store.Open(cfg.SaveFile())
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	validator := normalize.NewDomainValidator(cfg.NormalizeRules())
	fr := frontier.NewFrontier(st, validator, rec, cfg.Delay())
	if err := fr.Start(cfg.Restart(), cfg.SeedURLs()); err != nil {
		return fmt.Errorf("starting frontier: %w", err)
	}

	trapDetector := trap.NewDetector(cfg.TrapRules())
	simhashDetector := simhash.NewDetector(trapDetector, cfg.NearDupDistance(), cfg.SimhashWindow())
	aggregator := analytics.NewAggregator(cfg.AllowedDomains(), cfg.ReportPath())
	pipeline := content.NewPipeline(trapDetector, simhashDetector, aggregator, cfg.MinWords())

	httpClient := robots.NewHTTPClient(30 * time.Second)
	robot := robots.NewCachedRobot(httpClient, cfg.UserAgent(), rec)

	retryParam := retryParamFromConfig(cfg)
	fetcher := fetch.NewFetcher(cfg.UserAgent(), retryParam, rec, cfg.MaxBodyBytes())

	pool := worker.NewPool(fr, fetcher, pipeline, robot, 0)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	poolDone := make(chan struct{})
	go func() {
		pool.Run(runCtx, cfg.WorkerCount())
		close(poolDone)
	}()

	analyticsDone := make(chan struct{})
	go func() {
		aggregator.Run(runCtx, cfg.CheckpointInterval())
		close(analyticsDone)
	}()

	waitForDrainOrCancel(ctx, fr)
	cancel()
	<-poolDone
	<-analyticsDone

	return aggregator.Checkpoint()
}

// waitForDrainOrCancel blocks until either ctx is canceled (a shutdown
// signal) or the frontier reports Drained, whichever comes first.
func waitForDrainOrCancel(ctx context.Context, fr *frontier.Frontier) {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if fr.Drained() {
				return
			}
		}
	}
}

// retryParamFromConfig derives a retry.RetryParam from cfg's backoff
// settings. The new configuration surface has no jitter or random-seed
// knob, unlike the legacy scheduler's RetryParam helper, so a fixed jitter
// fraction of the base delay and a construction-time seed stand in for
// them.
func retryParamFromConfig(cfg config.Config) retry.RetryParam {
	return retry.NewRetryParam(
		cfg.BackoffInitialDuration(),
		cfg.BackoffInitialDuration()/2,
		time.Now().UnixNano(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(cfg.BackoffInitialDuration(), cfg.BackoffMultiplier(), cfg.BackoffMaxDuration()),
	)
}
