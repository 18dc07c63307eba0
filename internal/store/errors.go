package store

import (
	"fmt"

	"github.com/rohmanhakim/uci-crawler/pkg/failure"
)

type StoreErrorCause string

const (
	ErrCauseOpenFailure   StoreErrorCause = "failed to open store"
	ErrCauseReadFailure   StoreErrorCause = "failed to read record"
	ErrCauseWriteFailure  StoreErrorCause = "failed to write record"
	ErrCauseCorruptRecord StoreErrorCause = "corrupt record"
)

type StoreError struct {
	Message string
	Cause   StoreErrorCause
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %s", e.Cause, e.Message)
}

func (e *StoreError) Severity() failure.Severity {
	if e.Cause == ErrCauseWriteFailure || e.Cause == ErrCauseReadFailure {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
