// Package observability is the crawl's one structured-logging home. Every
// collaborator package declares its own narrow Recorder interface for
// anomalies it wants surfaced; Recorder here implements all of them and
// fans every event out as a single logfmt line.
//
// Cause is for observability only, mirroring the canonical classification
// a crawl event can carry: it must never be consulted for retry,
// continuation, or abort decisions anywhere in this codebase.
package observability

import (
	"io"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"

	"github.com/rohmanhakim/uci-crawler/internal/fetch"
	"github.com/rohmanhakim/uci-crawler/internal/robots"
)

// Cause is a closed, canonical classification used exclusively for
// logging. It has no bearing on control flow.
type Cause string

const (
	CauseUnknown            Cause = "unknown"
	CauseNetworkFailure     Cause = "network_failure"
	CausePolicyDisallow     Cause = "policy_disallow"
	CauseContentInvalid     Cause = "content_invalid"
	CauseStorageFailure     Cause = "storage_failure"
	CauseInvariantViolation Cause = "invariant_violation"
)

// Recorder fans crawl events out to w as logfmt lines. Its zero value is
// not usable; build one with New.
type Recorder struct {
	mu      sync.Mutex
	encoder *logfmt.Encoder
}

// New builds a Recorder writing to w. w is usually os.Stdout.
func New(w io.Writer) *Recorder {
	return &Recorder{encoder: logfmt.NewEncoder(w)}
}

// Event emits one logfmt line with the given component/event pair plus any
// extra key-value attributes. component names the emitting package
// (frontier, fetch, robots, worker, analytics); event names what happened.
func (r *Recorder) Event(component, event string, attrs ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keyvals := append([]any{
		"ts", time.Now().Format(time.RFC3339),
		"component", component,
		"event", event,
	}, attrs...)

	if err := r.encoder.EncodeKeyvals(keyvals...); err != nil {
		return
	}
	r.encoder.EndRecord()
}

// RecordFetchError satisfies fetch.Recorder.
func (r *Recorder) RecordFetchError(rawURL string, err *fetch.Error) {
	cause := CauseNetworkFailure
	if err.Cause == fetch.ErrCauseBodyTooLarge {
		cause = CauseContentInvalid
	}
	r.Event("fetch", "fetch_error", "url", rawURL, "cause", string(cause), "msg", err.Message)
}

// RecordRobotsFailure satisfies robots.Recorder.
func (r *Recorder) RecordRobotsFailure(host string, err *robots.RobotsError) {
	r.Event("robots", "fetch_failure", "host", host, "cause", string(CauseNetworkFailure), "msg", err.Message)
}

// RecordCompleteUnknownURL satisfies frontier.Recorder.
func (r *Recorder) RecordCompleteUnknownURL(rawURL string) {
	r.Event("frontier", "complete_unknown_url", "url", rawURL, "cause", string(CauseInvariantViolation))
}
