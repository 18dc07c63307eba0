package observability_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rohmanhakim/uci-crawler/internal/fetch"
	"github.com/rohmanhakim/uci-crawler/internal/observability"
	"github.com/rohmanhakim/uci-crawler/internal/robots"
)

func TestEvent_EmitsLogfmtLine(t *testing.T) {
	var buf bytes.Buffer
	rec := observability.New(&buf)

	rec.Event("worker", "fetch_success", "url", "https://ics.uci.edu/")

	line := buf.String()
	assert.Contains(t, line, "component=worker")
	assert.Contains(t, line, "event=fetch_success")
	assert.Contains(t, line, "url=https://ics.uci.edu/")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestRecordFetchError_IncludesCauseAndMessage(t *testing.T) {
	var buf bytes.Buffer
	rec := observability.New(&buf)

	rec.RecordFetchError("https://ics.uci.edu/page", &fetch.Error{
		Message: "request failed: timeout", Retryable: true, Cause: fetch.ErrCauseNetworkFailure,
	})

	line := buf.String()
	assert.Contains(t, line, "component=fetch")
	assert.Contains(t, line, "cause=network_failure")
}

func TestRecordRobotsFailure_MapsToNetworkFailureCause(t *testing.T) {
	var buf bytes.Buffer
	rec := observability.New(&buf)

	rec.RecordRobotsFailure("ics.uci.edu", &robots.RobotsError{
		Message: "fetch timed out", Cause: robots.ErrCauseHTTPFetchFailure,
	})

	assert.Contains(t, buf.String(), "cause=network_failure")
}

func TestRecordCompleteUnknownURL_MapsToInvariantViolationCause(t *testing.T) {
	var buf bytes.Buffer
	rec := observability.New(&buf)

	rec.RecordCompleteUnknownURL("https://ics.uci.edu/ghost")

	line := buf.String()
	assert.Contains(t, line, "component=frontier")
	assert.Contains(t, line, "cause=invariant_violation")
}

func TestEvent_ConcurrentCallsDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	rec := observability.New(&buf)

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func() {
			rec.Event("worker", "tick")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 20)
}
