// Package trap flags URLs whose shape indicates a crawler trap: calendar
// pagers, wiki diff/revision views, and other parameter combinations that
// generate unbounded distinct URLs over a small set of underlying content.
package trap

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	dateSequence = regexp.MustCompile(`/\d{4}/\d{2}(/\d{2})?(/|$)`)
	wikiAction   = regexp.MustCompile(`(^|&)do=(index|revisions|diff|backlink)(&|$)`)
	fromDate     = regexp.MustCompile(`(^|&)from=\d{4}-\d{2}-\d{2}(&|$)`)
	precision    = regexp.MustCompile(`(^|&)precision=(second|minute|hour)(&|$)`)
)

// Rules configures the whitelist path prefixes that short-circuit trap
// detection, regardless of what the URL's query string looks like.
type Rules struct {
	importantPrefixes []string
}

// NewRules builds Rules from a list of "important" path prefixes, e.g.
// /people/, /faculty/, /research/.
func NewRules(importantPrefixes []string) Rules {
	prefixes := make([]string, len(importantPrefixes))
	copy(prefixes, importantPrefixes)
	return Rules{importantPrefixes: prefixes}
}

// DefaultRules matches the path prefixes a UCI ICS crawl treats as content
// it must never skip, even if the query string looks trap-shaped.
func DefaultRules() Rules {
	return NewRules([]string{
		"/people/", "/faculty/", "/research/", "/courses/", "/news/", "/about/",
	})
}

// Detector decides whether a canonical URL is a crawler trap.
type Detector struct {
	rules Rules
}

// NewDetector builds a Detector over rules.
func NewDetector(rules Rules) Detector {
	return Detector{rules: rules}
}

// IsTrap returns true iff the URL is not whitelisted and its path or query
// matches one of the known trap shapes: a date-sequence path, an overlong
// or overly complex query, a wiki action query, a from/precision timestamp
// query, or a query with a key repeated more than once.
func (d Detector) IsTrap(u url.URL) bool {
	if d.whitelisted(u) {
		return false
	}

	if dateSequence.MatchString(u.Path) {
		return true
	}

	query := u.RawQuery
	if query == "" {
		return false
	}
	if len(query) > 100 {
		return true
	}
	if strings.Count(query, "&") > 5 {
		return true
	}
	if wikiAction.MatchString(query) {
		return true
	}
	if fromDate.MatchString(query) {
		return true
	}
	if precision.MatchString(query) {
		return true
	}
	if hasDuplicateKey(u) {
		return true
	}

	return false
}

// Whitelisted reports whether u is exempt from shape-based filtering
// regardless of path or query — the root path, tilde-user pages, and
// configured important-path prefixes. Shared with the SimHash engine's
// near-duplicate short-circuit so the two filters agree on what counts as
// content that must never be skipped.
func (d Detector) Whitelisted(u url.URL) bool {
	return d.whitelisted(u)
}

func (d Detector) whitelisted(u url.URL) bool {
	if u.Path == "" || u.Path == "/" {
		return true
	}
	if strings.Contains(u.Path, "~") {
		return true
	}
	for _, prefix := range d.rules.importantPrefixes {
		if strings.HasPrefix(u.Path, prefix) {
			return true
		}
	}
	return false
}

func hasDuplicateKey(u url.URL) bool {
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return false
	}
	for _, v := range values {
		if len(v) > 1 {
			return true
		}
	}
	return false
}
