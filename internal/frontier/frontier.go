// Package frontier hands out the next URL to fetch, subject to per-host
// politeness: at most one outstanding request per host, and a minimum gap
// between successive fetch starts for the same host.
//
// Frontier owns all per-host state, the in-progress set, and the
// persistent store. Callers never re-evaluate admission: a URL that passes
// Add is queued; a URL that passes Next is considered in flight until
// Complete is called, exactly once, regardless of outcome.
package frontier

import (
	"net/url"
	"sync"
	"time"

	"github.com/rohmanhakim/uci-crawler/internal/normalize"
	"github.com/rohmanhakim/uci-crawler/internal/store"
	"github.com/rohmanhakim/uci-crawler/pkg/hashutil"
)

// DefaultDelay is the minimum gap enforced between successive fetch starts
// to the same host, absent an explicit override.
const DefaultDelay = 500 * time.Millisecond

// Recorder receives frontier-internal anomalies for observability. It is
// never consulted for scheduling decisions.
type Recorder interface {
	RecordCompleteUnknownURL(rawURL string)
}

// Frontier is the per-host FIFO politeness scheduler described by package
// doc. Its zero value is not usable; build one with NewFrontier.
type Frontier struct {
	mu sync.Mutex

	store     *store.Store
	validator normalize.Validator
	recorder  Recorder
	delay     time.Duration

	hosts      map[string]*hostQueue
	inProgress Set[[16]byte]
}

// NewFrontier builds a Frontier backed by a persistent store and a URL
// validator, both of which Add consults before a URL ever reaches a host
// queue. delay is the per-host politeness gap; zero selects DefaultDelay.
func NewFrontier(st *store.Store, validator normalize.Validator, recorder Recorder, delay time.Duration) *Frontier {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Frontier{
		store:      st,
		validator:  validator,
		recorder:   recorder,
		delay:      delay,
		hosts:      make(map[string]*hostQueue),
		inProgress: NewSet[[16]byte](),
	}
}

// Start rebuilds in-memory host queues from the persistent store. When
// restart is false, every stored record with completed=false is requeued
// onto its host's queue (crash recovery). When restart is true, the caller
// is expected to have already given Frontier a fresh, empty store (deleting
// and reopening the backing file is the runner's job, since only it knows
// the on-disk path); Start then simply seeds from seeds.
func (f *Frontier) Start(restart bool, seeds []url.URL) error {
	if restart {
		for _, seed := range seeds {
			f.Add(seed.String())
		}
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.Iterate(func(fp [16]byte, rec store.Record) error {
		if rec.Completed {
			return nil
		}
		canonical, err := url.Parse(rec.URL)
		if err != nil {
			return nil
		}
		f.enqueueLocked(canonical.Hostname(), rec.URL)
		return nil
	})
}

// Add normalizes and validates raw; an invalid URL is dropped silently. A
// valid URL is fingerprinted and durably recorded (completed=false) before
// being appended to its host's queue. Re-adding a URL already known to the
// store — queued, in progress, or completed — is a no-op: Add is
// idempotent. Trap-shaped URLs are not filtered here: trap detection gates
// link extraction in the content pipeline, not frontier admission.
func (f *Frontier) Add(raw string) {
	canonical, classified := normalize.Normalize(raw)
	if classified != nil {
		return
	}
	if !f.validator.IsValid(canonical) {
		return
	}

	fp := hashutil.Fingerprint128([]byte(canonical.String()))

	f.mu.Lock()
	defer f.mu.Unlock()

	exists, err := f.store.Contains(fp)
	if err != nil || exists {
		return
	}
	if err := f.store.Put(fp, canonical.String(), false); err != nil {
		return
	}
	f.enqueueLocked(canonical.Hostname(), canonical.String())
}

func (f *Frontier) enqueueLocked(host, rawURL string) {
	hq, ok := f.hosts[host]
	if !ok {
		hq = newHostQueue()
		f.hosts[host] = hq
	}
	hq.pending.Enqueue(rawURL)
}

// Next selects a URL obeying the one-outstanding-request-per-host and
// minimum-gap invariants, marks it in progress, and returns it. Ties among
// eligible hosts are broken by earliest last access, giving round-robin
// behavior under contention. Next returns ("", false) when no host is both
// non-empty and eligible right now.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	for {
		hq := f.pickEligibleLocked(now)
		if hq == nil {
			return "", false
		}

		next, ok := hq.pending.Dequeue()
		if !ok {
			continue
		}
		fp := hashutil.Fingerprint128([]byte(next))
		if f.inProgress.Contains(fp) {
			// Already in flight via another host bucket; a bug if it
			// happens, but never re-dispense. Try the next eligible host.
			continue
		}

		hq.lastAccess = now
		hq.busy = true
		f.inProgress.Add(fp)
		return next, true
	}
}

func (f *Frontier) pickEligibleLocked(now time.Time) *hostQueue {
	var best *hostQueue
	for _, hq := range f.hosts {
		if !hq.eligible(now, f.delay) {
			continue
		}
		if best == nil || hq.lastAccess.Before(best.lastAccess) {
			best = hq
		}
	}
	return best
}

// Complete marks rawURL no longer in progress and flips its persisted
// record to completed. It is idempotent and never fails the caller: an
// unrecognized URL is reported to the Recorder, not returned as an error.
func (f *Frontier) Complete(rawURL string) {
	fp := hashutil.Fingerprint128([]byte(rawURL))

	f.mu.Lock()
	defer f.mu.Unlock()

	rec, found, err := f.store.Get(fp)
	if err != nil || !found {
		if f.recorder != nil {
			f.recorder.RecordCompleteUnknownURL(rawURL)
		}
		return
	}

	f.inProgress.Remove(fp)
	if parsed, parseErr := url.Parse(rawURL); parseErr == nil {
		if hq, ok := f.hosts[parsed.Hostname()]; ok {
			hq.busy = false
		}
	}

	_ = f.store.Put(fp, rec.URL, true)
}

// Drained reports whether every host queue is empty and no URL is
// currently in flight. A true result means a worker polling Next will
// keep getting ("", false) until Add is called again; the runner uses
// this to decide when a crawl has naturally finished.
func (f *Frontier) Drained() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inProgress.Size() > 0 {
		return false
	}
	for _, hq := range f.hosts {
		if hq.pending.Size() > 0 {
			return false
		}
	}
	return true
}

// WaitHint returns how long a worker should sleep before calling Next
// again after receiving ("", false), per the politeness gap in force.
func (f *Frontier) WaitHint() time.Duration {
	half := f.delay / 2
	if half > 100*time.Millisecond {
		return 100 * time.Millisecond
	}
	return half
}
