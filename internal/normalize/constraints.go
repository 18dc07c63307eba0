// Package normalize turns raw link text into a canonical URL and decides
// whether that URL falls within the crawl's scope.
package normalize

import (
	"net/url"
	"strings"

	"github.com/rohmanhakim/uci-crawler/pkg/failure"
	"github.com/rohmanhakim/uci-crawler/pkg/urlutil"
)

// Normalize lowercases scheme and host, strips the fragment, collapses
// repeated slashes in the path, and trims surrounding whitespace. It fails
// with a NormalizationError rather than panicking when raw cannot be parsed
// into a URL with a host.
func Normalize(raw string) (url.URL, failure.ClassifiedError) {
	normalized, ok := urlutil.Normalize(raw)
	if !ok {
		return url.URL{}, &NormalizationError{
			Message: raw,
			Cause:   ErrCauseUnparseable,
		}
	}
	return normalized, nil
}

// Validator decides whether a canonical URL falls within the crawl's scope.
type Validator interface {
	IsValid(canonical url.URL) bool
}

// DomainValidator applies Rules to a canonical URL: scheme allowlist, domain
// suffix match, disallowed extension, disallowed path segment, and a hard
// length cap.
type DomainValidator struct {
	rules Rules
}

// NewDomainValidator builds a DomainValidator over rules.
func NewDomainValidator(rules Rules) DomainValidator {
	return DomainValidator{rules: rules}
}

// IsValid returns true iff all of:
//   - scheme is http or https;
//   - host equals or ends in one of the configured allowed domains;
//   - the path's final extension, if any, is not in the disallowed set;
//   - the path contains none of the disallowed segments;
//   - the URL's string length does not exceed the configured maximum.
func (v DomainValidator) IsValid(canonical url.URL) bool {
	if canonical.Scheme != "http" && canonical.Scheme != "https" {
		return false
	}
	if !v.hostAllowed(canonical.Hostname()) {
		return false
	}
	if v.extensionDisallowed(canonical.Path) {
		return false
	}
	if v.segmentDisallowed(canonical.Path) {
		return false
	}
	if v.rules.maxURLLength > 0 && len(canonical.String()) > v.rules.maxURLLength {
		return false
	}
	return true
}

func (v DomainValidator) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for domain := range v.rules.allowedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func (v DomainValidator) extensionDisallowed(path string) bool {
	lastSlash := strings.LastIndex(path, "/")
	last := path
	if lastSlash >= 0 {
		last = path[lastSlash+1:]
	}
	dot := strings.LastIndex(last, ".")
	if dot < 0 || dot == len(last)-1 {
		return false
	}
	ext := strings.ToLower(last[dot+1:])
	_, disallowed := v.rules.disallowedExtensions[ext]
	return disallowed
}

func (v DomainValidator) segmentDisallowed(path string) bool {
	lowered := strings.ToLower(path)
	for _, segment := range v.rules.disallowedSegments {
		if strings.Contains(lowered, segment) {
			return true
		}
	}
	return false
}
