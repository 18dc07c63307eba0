package fetch

import (
	"fmt"

	"github.com/rohmanhakim/uci-crawler/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseNetworkFailure        ErrorCause = "network issues"
	ErrCauseReadResponseBodyError ErrorCause = "failed to read response body"
	ErrCauseBodyTooLarge          ErrorCause = "body exceeds size cap"
)

// Error reports a fetch-layer failure. Retryable errors (network failures,
// partial reads) are worth a bounded number of attempts inside Fetch itself;
// the Frontier above never sees or retries these — per the frontier's own
// at-most-once delivery contract, the worker calls complete(url) on whatever
// Fetch ultimately returns.
type Error struct {
	Message   string
	Retryable bool
	Cause     ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch error: %s: %s", e.Cause, e.Message)
}

func (e *Error) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *Error) IsRetryable() bool {
	return e.Retryable
}
