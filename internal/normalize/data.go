package normalize

import "strings"

// Rules is the closed set of admission rules the validator checks against.
// Every field is configuration-driven: there is no hardcoded UCI domain
// list baked into this package.
type Rules struct {
	allowedDomains       map[string]struct{}
	disallowedExtensions map[string]struct{}
	disallowedSegments   []string
	maxURLLength         int
}

// NewRules constructs an immutable Rules value. allowedDomains entries are
// matched as a host suffix (example.edu matches foo.example.edu and
// example.edu itself). disallowedExtensions entries are matched without a
// leading dot and case-insensitively.
func NewRules(
	allowedDomains []string,
	disallowedExtensions []string,
	disallowedSegments []string,
	maxURLLength int,
) Rules {
	domains := make(map[string]struct{}, len(allowedDomains))
	for _, d := range allowedDomains {
		domains[d] = struct{}{}
	}
	extensions := make(map[string]struct{}, len(disallowedExtensions))
	for _, e := range disallowedExtensions {
		extensions[strings.ToLower(e)] = struct{}{}
	}
	segments := make([]string, len(disallowedSegments))
	copy(segments, disallowedSegments)

	return Rules{
		allowedDomains:       domains,
		disallowedExtensions: extensions,
		disallowedSegments:   segments,
		maxURLLength:         maxURLLength,
	}
}

// DefaultRules mirrors the UCI ICS domain scope: ics.uci.edu, cs.uci.edu,
// informatics.uci.edu, and stat.uci.edu, with a conservative set of
// non-content extensions and navigation/utility path segments excluded.
func DefaultRules() Rules {
	return NewRules(
		[]string{"ics.uci.edu", "cs.uci.edu", "informatics.uci.edu", "stat.uci.edu"},
		[]string{
			// documents
			"pdf", "doc", "docx", "ppt", "pptx", "xls", "xlsx", "odt",
			// images
			"png", "jpg", "jpeg", "gif", "bmp", "svg", "ico", "tiff", "webp",
			// audio/video
			"mp3", "mp4", "wav", "avi", "mov", "wmv", "flv", "mkv", "m4a", "m4v",
			// archives
			"zip", "tar", "gz", "rar", "7z", "bz2",
			// code/data files
			"css", "js", "json", "xml", "csv", "sql", "exe", "dmg", "bin", "iso",
		},
		[]string{
			"/calendar/", "/events/", "/login", "/logout", "/search",
			"/print/", "/feed", "/rss", "/api/", "/cgi-bin/", "/wp-content/",
			"/images/", "/assets/", "/static/", "/uploads/",
		},
		200,
	)
}
