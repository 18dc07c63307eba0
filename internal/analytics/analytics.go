// Package analytics accumulates corpus-wide statistics as pages flow
// through the content pipeline: unique page count, per-page word counts,
// global word-frequency ranking, and a subdomain inventory. It periodically
// checkpoints a human-readable report to disk.
package analytics

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rohmanhakim/uci-crawler/pkg/fileutil"
	"github.com/rohmanhakim/uci-crawler/pkg/urlutil"
)

// CheckpointInterval is how often a running Aggregator writes its report.
const CheckpointInterval = 30 * time.Second

// minWordFrequencyLen is the minimum token length counted toward
// word_frequencies; page_word_counts counts every token regardless of
// length, since it measures page length, not vocabulary.
const minWordFrequencyLen = 3

// topWordsReported bounds how many ranked words the checkpoint report lists.
const topWordsReported = 50

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// Aggregator is the single mutex-protected home for corpus analytics. Its
// zero value is not usable; build one with NewAggregator.
type Aggregator struct {
	mu sync.Mutex

	uniquePages     map[string]struct{}
	pageWordCounts  map[string]int
	wordFrequencies map[string]int
	subdomainCounts map[string]int

	allowedSuffixes []string
	checkpointPath  string
}

// NewAggregator builds an Aggregator that only counts subdomains matching
// one of allowedSuffixes, checkpointing its report to checkpointPath.
func NewAggregator(allowedSuffixes []string, checkpointPath string) *Aggregator {
	return &Aggregator{
		uniquePages:     make(map[string]struct{}),
		pageWordCounts:  make(map[string]int),
		wordFrequencies: make(map[string]int),
		subdomainCounts: make(map[string]int),
		allowedSuffixes: allowedSuffixes,
		checkpointPath:  checkpointPath,
	}
}

// Record ingests one successfully-fetched page's text under the lock: its
// fragment-stripped URL becomes (or re-confirms) a unique page, its full
// token count becomes its page length, each sufficiently long non-stopword
// token increments the global frequency table, and its host increments the
// subdomain inventory if it matches an allowed suffix.
func (a *Aggregator) Record(u url.URL, text string) {
	stripped := urlutil.StripFragment(u)
	key := stripped.String()
	tokens := tokenize(text)
	host := u.Hostname()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.uniquePages[key] = struct{}{}
	a.pageWordCounts[key] = len(tokens)

	for _, tok := range tokens {
		if len(tok) < minWordFrequencyLen || isStopword(tok) {
			continue
		}
		a.wordFrequencies[tok]++
	}

	if matchesAllowedSuffix(host, a.allowedSuffixes) {
		a.subdomainCounts[host]++
	}
}

func tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	return matches
}

func matchesAllowedSuffix(host string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// Run checkpoints the report every interval until ctx is done, writing one
// final checkpoint before returning. interval <= 0 selects
// CheckpointInterval. Intended to run in its own goroutine for the
// lifetime of the crawl.
func (a *Aggregator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = CheckpointInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = a.Checkpoint()
			return
		case <-ticker.C:
			_ = a.Checkpoint()
		}
	}
}

// Checkpoint writes the current report to the configured path immediately,
// creating any missing parent directories first.
func (a *Aggregator) Checkpoint() error {
	if err := fileutil.EnsureDir(filepath.Dir(a.checkpointPath)); err != nil {
		return err
	}

	report := a.Report()
	if err := os.WriteFile(a.checkpointPath, []byte(report), 0644); err != nil {
		return &fileutil.FileError{
			Message:   fmt.Sprintf("writing checkpoint: %v", err),
			Retryable: true,
			Cause:     fileutil.ErrCausePathError,
		}
	}
	return nil
}

// Report renders the current state as a human-readable text report: unique
// page count, the longest page by word count, the top 50 words by
// frequency, and subdomains sorted alphabetically with their counts.
func (a *Aggregator) Report() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "unique pages: %d\n", len(a.uniquePages))

	if longestURL, longestCount, ok := longestPage(a.pageWordCounts); ok {
		fmt.Fprintf(&sb, "longest page: %s (%d words)\n", longestURL, longestCount)
	}

	sb.WriteString("top words:\n")
	for _, w := range topWords(a.wordFrequencies, topWordsReported) {
		fmt.Fprintf(&sb, "  %s: %d\n", w.word, w.count)
	}

	sb.WriteString("subdomains:\n")
	for _, host := range sortedKeys(a.subdomainCounts) {
		fmt.Fprintf(&sb, "  %s: %d\n", host, a.subdomainCounts[host])
	}

	return sb.String()
}

func longestPage(counts map[string]int) (string, int, bool) {
	var bestURL string
	bestCount := -1
	for u, count := range counts {
		if count > bestCount || (count == bestCount && u < bestURL) {
			bestURL, bestCount = u, count
		}
	}
	return bestURL, bestCount, bestCount >= 0
}

type wordCount struct {
	word  string
	count int
}

func topWords(freq map[string]int, limit int) []wordCount {
	words := make([]wordCount, 0, len(freq))
	for w, c := range freq {
		words = append(words, wordCount{word: w, count: c})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].count != words[j].count {
			return words[i].count > words[j].count
		}
		return words[i].word < words[j].word
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
