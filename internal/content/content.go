// Package content implements the crawler's decode-strip-filter-extract
// pipeline: given a fetched response, it decides whether the page is worth
// keeping (not a trap, not near-duplicate boilerplate, not too short),
// records it for corpus analytics, and extracts the outbound links a
// worker should consider adding back to the frontier.
package content

import (
	"net/url"
	"strings"

	"github.com/rohmanhakim/uci-crawler/internal/fetch"
	"github.com/rohmanhakim/uci-crawler/internal/htmlparse"
	"github.com/rohmanhakim/uci-crawler/internal/trap"
	"github.com/rohmanhakim/uci-crawler/pkg/urlutil"
)

// MinWordCount is the low-content threshold: pages with fewer visible words
// are skipped without link extraction — usually index stubs, redirectors,
// or auth walls rather than real content.
const MinWordCount = 50

var redirectStatuses = map[int]bool{
	301: true, 302: true, 303: true, 307: true, 308: true,
}

// DuplicateDetector decides whether a page's text is a near-duplicate of
// something already seen from the same host. Satisfied by *simhash.Detector.
type DuplicateDetector interface {
	IsNearDuplicate(text string, u url.URL) bool
}

// Analytics receives the visible text of every page that survives
// filtering, for corpus-wide aggregation. Satisfied by the analytics
// aggregator.
type Analytics interface {
	Record(u url.URL, text string)
}

// Pipeline runs the fetch-to-links pipeline described by the package doc.
// Its zero value is not usable; build one with NewPipeline.
type Pipeline struct {
	traps      trap.Detector
	duplicates DuplicateDetector
	analytics  Analytics
	minWords   int
}

// NewPipeline builds a Pipeline over the given trap detector, near-duplicate
// detector, and analytics sink. analytics may be nil to skip recording
// (useful in tests that only care about link extraction). minWords <= 0
// selects MinWordCount.
func NewPipeline(traps trap.Detector, duplicates DuplicateDetector, analytics Analytics, minWords int) *Pipeline {
	if minWords <= 0 {
		minWords = MinWordCount
	}
	return &Pipeline{traps: traps, duplicates: duplicates, analytics: analytics, minWords: minWords}
}

// Process runs resp through the pipeline and returns the outbound links a
// worker should consider re-adding to the frontier. Returned links are
// absolute, fragment-stripped, and ASCII-only; the caller still owes them a
// robots.Allowed check and frontier.Add's own normalize/validate pass.
func (p *Pipeline) Process(resp fetch.Response) []url.URL {
	if resp.StatusCode != 200 && !redirectStatuses[resp.StatusCode] {
		return nil
	}
	if redirectStatuses[resp.StatusCode] {
		if loc, ok := resp.Location(); ok {
			return []url.URL{loc}
		}
		return nil
	}
	doc, err := htmlparse.Parse(resp.Body)
	if err != nil {
		return nil
	}

	text := doc.VisibleText()
	if len(strings.Fields(text)) < p.minWords {
		return nil
	}

	if p.traps.IsTrap(resp.URL) {
		return nil
	}
	if p.duplicates != nil && p.duplicates.IsNearDuplicate(text, resp.URL) {
		return nil
	}

	if p.analytics != nil {
		p.analytics.Record(resp.URL, text)
	}

	return extractLinks(doc, resp.URL)
}

func extractLinks(doc *htmlparse.Document, base url.URL) []url.URL {
	var links []url.URL
	for _, href := range doc.Hrefs() {
		resolved, ok := urlutil.Resolve(href, base)
		if !ok {
			continue
		}

		clean := urlutil.StripNonASCII(resolved.String())
		if clean != resolved.String() {
			reparsed, err := url.Parse(clean)
			if err != nil {
				continue
			}
			resolved = *reparsed
		}

		links = append(links, resolved)
	}
	return links
}
