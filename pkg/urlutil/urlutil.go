// Package urlutil provides pure, stateless URL shaping helpers shared by
// normalize, frontier, and content extraction.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// Normalize lowercases scheme and host, strips the fragment, collapses
// repeated slashes in the path, and trims surrounding whitespace from the
// raw string before parsing. It does not touch the query string: trap
// detection and politeness grouping both need it intact.
//
// Properties:
//   - Deterministic: same input always produces same output
//   - Idempotent: Normalize(Normalize(u)) == Normalize(u)
func Normalize(raw string) (url.URL, bool) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return url.URL{}, false
	}

	parsed.Scheme = lowerASCII(parsed.Scheme)
	parsed.Host = lowerASCII(parsed.Host)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	if parsed.Path != "" {
		parsed.Path = repeatedSlashes.ReplaceAllString(parsed.Path, "/")
	}

	return *parsed, true
}

// StripFragment returns a copy of u with any fragment removed. Used by the
// Analytics Aggregator, which tracks unique pages by fragment-stripped URL
// without discarding the query string the way Canonicalize does.
func StripFragment(u url.URL) url.URL {
	u.Fragment = ""
	u.RawFragment = ""
	return u
}

// Canonicalize produces the fully collapsed form used for fingerprinting:
// scheme/host lowercased, default ports dropped, trailing slash trimmed,
// fragment and query removed.
func Canonicalize(sourceUrl url.URL) url.URL {
	canonical := sourceUrl

	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""
	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// Resolve resolves href against base, returning false if href cannot be
// parsed or resolves to a non-http(s) scheme (javascript:, mailto:, tel:, ...).
func Resolve(href string, base url.URL) (url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return url.URL{}, false
	}
	switch {
	case strings.HasPrefix(href, "javascript:"),
		strings.HasPrefix(href, "mailto:"),
		strings.HasPrefix(href, "tel:"):
		return url.URL{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return url.URL{}, false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return url.URL{}, false
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return *resolved, true
}

// StripNonASCII removes every byte with the high bit set, matching the
// distilled spec's "drop non-ASCII bytes from resulting URL" link filter.
func StripNonASCII(s string) string {
	var needsStrip bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			needsStrip = true
			break
		}
	}
	if !needsStrip {
		return s
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b = append(b, s[i])
		}
	}
	return string(b)
}

// lowerASCII converts ASCII characters to lowercase without allocating when
// the input is already lowercase. Faster than strings.ToLower for the
// scheme/host strings this package deals with exclusively.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path, keeping root "/".
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
