// Package cmd wires cobra flags onto the crawler's configuration layer.
// Flags override a loaded config file; a config file overrides built-in
// defaults. Seed URLs are the one value cobra cannot default on its own,
// so they arrive as positional args or --seed-url flags.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/uci-crawler/internal/build"
	"github.com/rohmanhakim/uci-crawler/internal/config"
)

var (
	cfgFile               string
	seedURLs              []string
	saveFile              string
	delayMs               int
	workerCount           int
	allowedDomains        []string
	maxBodyBytes          int
	minWords              int
	simhashWindow         int
	nearDupDistance       int
	checkpointIntervalSec int
	userAgent             string
	restart               bool
	politenessGrouping    string
	reportPath            string
)

// parseSeedURLs converts a string slice of URLs to []url.URL.
func parseSeedURLs(urlStrings []string) ([]url.URL, error) {
	var urls []url.URL
	for _, urlStr := range urlStrings {
		parsedURL, err := url.Parse(urlStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing seed URL %s: %w", urlStr, err)
		}
		urls = append(urls, *parsedURL)
	}
	return urls, nil
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "uci-crawler",
	Version: build.FullVersion(),
	Short:   "A politeness-constrained crawler of the UCI ICS web.",
	Long: `uci-crawler crawls the UCI ICS subdomains one link at a time,
obeying robots.txt and a per-host delay, skipping likely crawler traps,
and folding every fetched page into a persistent near-duplicate-aware
corpus with running word-count and domain-coverage analytics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parsedSeeds, err := parseSeedURLs(append(append([]string{}, args...), seedURLs...))
		if err != nil {
			return err
		}

		cfg, err := InitConfigWithError(parsedSeeds)
		if err != nil {
			return err
		}

		return run(cmd.Context(), cfg)
	},
}

// run is the installed crawl loop. Its default stub keeps this package
// free of the runner's dependency tree (store, frontier, worker) so cobra
// flag tests stay lightweight; cmd/crawler installs the real one.
var run = func(ctx context.Context, cfg config.Config) error {
	return fmt.Errorf("no runner wired")
}

// SetRunner installs the function Execute hands off to once flags and any
// config file have been resolved into a config.Config.
func SetRunner(fn func(ctx context.Context, cfg config.Config) error) {
	run = fn
}

// Execute runs the root command. ctx is propagated to the crawl loop so a
// shutdown signal can cancel an in-progress run.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config-file", "", "path to a YAML config file")
	flags.StringArrayVar(&seedURLs, "seed-url", []string{}, "one or more starting URLs (can be repeated)")
	flags.StringVar(&saveFile, "save-file", "", "path to the persistent URL store")
	flags.IntVar(&delayMs, "delay-ms", 0, "minimum delay between requests to the same host, in milliseconds")
	flags.IntVar(&workerCount, "worker-count", 0, "number of concurrent crawl workers")
	flags.StringArrayVar(&allowedDomains, "allowed-domain", []string{}, "domain suffix allowed to be crawled (repeatable)")
	flags.IntVar(&maxBodyBytes, "max-body-bytes", 0, "maximum response body size to download")
	flags.IntVar(&minWords, "min-words", 0, "minimum word count for a page to be counted by analytics")
	flags.IntVar(&simhashWindow, "simhash-window", 0, "number of recent fingerprints kept for near-duplicate detection")
	flags.IntVar(&nearDupDistance, "near-dup-distance", -1, "Hamming distance below which two fingerprints count as near-duplicates")
	flags.IntVar(&checkpointIntervalSec, "checkpoint-interval-s", 0, "seconds between analytics checkpoints")
	flags.StringVar(&userAgent, "user-agent", "", "User-Agent header sent with every request")
	flags.BoolVar(&restart, "restart", false, "discard the persistent store and restart the crawl from the seeds")
	flags.StringVar(&politenessGrouping, "politeness-grouping", "", "politeness key: netloc or main_domain")
	flags.StringVar(&reportPath, "report-path", "", "path the final analytics report is written to")
}

// InitConfig reads the config file and CLI flags, exiting the process on
// any error. seedUrls is used only when no config file is given.
func InitConfig(seedUrls []url.URL) config.Config {
	cfg, err := InitConfigWithError(seedUrls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError builds a Config from the config file (if
// --config-file was given) or else from built-in defaults seeded with
// seedUrls, then applies flag overrides on top. seedUrls is ignored when a
// config file is given.
func InitConfigWithError(seedUrls []url.URL) (config.Config, error) {
	var cfg config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.WithConfigFile(cfgFile)
	} else {
		cfg, err = config.WithDefault(seedUrls).Build()
	}
	if err != nil {
		return config.Config{}, err
	}

	builder := &cfg
	if saveFile != "" {
		builder = builder.WithSaveFile(saveFile)
	}
	if delayMs > 0 {
		builder = builder.WithDelay(time.Duration(delayMs) * time.Millisecond)
	}
	if workerCount > 0 {
		builder = builder.WithWorkerCount(workerCount)
	}
	if len(allowedDomains) > 0 {
		builder = builder.WithAllowedDomains(allowedDomains)
	}
	if maxBodyBytes > 0 {
		builder = builder.WithMaxBodyBytes(maxBodyBytes)
	}
	if minWords > 0 {
		builder = builder.WithMinWords(minWords)
	}
	if simhashWindow > 0 {
		builder = builder.WithSimhashWindow(simhashWindow)
	}
	if nearDupDistance >= 0 {
		builder = builder.WithNearDupDistance(nearDupDistance)
	}
	if checkpointIntervalSec > 0 {
		builder = builder.WithCheckpointInterval(time.Duration(checkpointIntervalSec) * time.Second)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if restart {
		builder = builder.WithRestart(true)
	}
	if politenessGrouping != "" {
		builder = builder.WithPolitenessGrouping(politenessGrouping)
	}
	if reportPath != "" {
		builder = builder.WithReportPath(reportPath)
	}

	return builder.Build()
}

// ResetFlags restores every persistent flag to its default value. Tests call
// this between cases since cobra flag state is package-global.
func ResetFlags() {
	cfgFile = ""
	seedURLs = []string{}
	saveFile = ""
	delayMs = 0
	workerCount = 0
	allowedDomains = []string{}
	maxBodyBytes = 0
	minWords = 0
	simhashWindow = 0
	nearDupDistance = -1
	checkpointIntervalSec = 0
	userAgent = ""
	restart = false
	politenessGrouping = ""
	reportPath = ""
}

// Test helper functions to set flag values from tests.
func SetConfigFileForTest(path string)      { cfgFile = path }
func SetSeedURLsForTest(urls []string)      { seedURLs = urls }
func SetSaveFileForTest(v string)           { saveFile = v }
func SetDelayMsForTest(v int)               { delayMs = v }
func SetWorkerCountForTest(v int)           { workerCount = v }
func SetAllowedDomainsForTest(v []string)   { allowedDomains = v }
func SetMaxBodyBytesForTest(v int)          { maxBodyBytes = v }
func SetMinWordsForTest(v int)              { minWords = v }
func SetSimhashWindowForTest(v int)         { simhashWindow = v }
func SetNearDupDistanceForTest(v int)       { nearDupDistance = v }
func SetCheckpointIntervalSForTest(v int)   { checkpointIntervalSec = v }
func SetUserAgentForTest(v string)          { userAgent = v }
func SetRestartForTest(v bool)              { restart = v }
func SetPolitenessGroupingForTest(v string) { politenessGrouping = v }
func SetReportPathForTest(v string)         { reportPath = v }
