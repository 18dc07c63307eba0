package normalize

import (
	"fmt"

	"github.com/rohmanhakim/uci-crawler/pkg/failure"
)

type NormalizationErrorCause string

const (
	ErrCauseUnparseable NormalizationErrorCause = "unparseable url"
)

// NormalizationError reports that a raw URL string could not be turned into
// a canonical url.URL. It is always fatal for that single URL: a malformed
// string does not become parseable on retry.
type NormalizationError struct {
	Message string
	Cause   NormalizationErrorCause
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize error: %s: %s", e.Cause, e.Message)
}

func (e *NormalizationError) Severity() failure.Severity {
	return failure.SeverityFatal
}
