package fetch

import (
	"net/url"
	"time"
)

// Response is the raw outcome of one HTTP GET: status code, headers, and
// body, with no interpretation of what the status means. The content
// pipeline decides what to do with a redirect or an error status; fetch
// only reports what the server said.
type Response struct {
	URL        url.URL
	StatusCode int
	Headers    map[string]string
	Body       []byte
	FetchedAt  time.Time
}

// Location returns the resolved absolute URL from the response's Location
// header, or false if absent or unparseable.
func (r Response) Location() (url.URL, bool) {
	raw, ok := r.Headers["Location"]
	if !ok || raw == "" {
		return url.URL{}, false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, false
	}
	return *r.URL.ResolveReference(ref), true
}
