package config

import (
	"fmt"

	"github.com/rohmanhakim/uci-crawler/pkg/failure"
)

type ConfigErrorCause string

const (
	ErrCauseFileDoesNotExist ConfigErrorCause = "config file does not exist"
	ErrCauseReadFailure      ConfigErrorCause = "failed to read config file"
	ErrCauseParseFailure     ConfigErrorCause = "failed to parse config file"
	ErrCauseUnparseableSeed  ConfigErrorCause = "unparseable seed URL"
	ErrCauseInvalidConfig    ConfigErrorCause = "invalid config"
)

// ConfigError reports a fatal configuration problem. Every cause is fatal:
// a crawl never starts on a malformed or incomplete configuration.
type ConfigError struct {
	Message string
	Cause   ConfigErrorCause
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Cause, e.Message)
}

func (e *ConfigError) Severity() failure.Severity {
	return failure.SeverityFatal
}
