// Package fetch performs the crawler's HTTP GET requests. It never follows
// redirects itself and never inspects body content — it hands the content
// pipeline a raw status code, header set, and body, and lets that pipeline
// decide what a given status means.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rohmanhakim/uci-crawler/pkg/failure"
	"github.com/rohmanhakim/uci-crawler/pkg/retry"
	"github.com/rohmanhakim/uci-crawler/pkg/timeutil"
)

// MaxBodyBytes is the default cap on how much of a response body Fetch
// will read, used when NewFetcher is given a non-positive maxBodyBytes.
// Reading stops one byte past the cap so callers can tell "exactly at the
// cap" from "truncated" without a separate flag.
const MaxBodyBytes = 5 * 1024 * 1024

// Recorder receives fetch-internal anomalies for observability. It is never
// consulted for control flow.
type Recorder interface {
	RecordFetchError(rawURL string, err *Error)
}

// Fetcher issues GETs with a fixed User-Agent and a bounded number of
// retries for transient network failures. It never follows redirects: the
// content pipeline inspects 3xx responses itself via Response.Location.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	retryParam   retry.RetryParam
	recorder     Recorder
	maxBodyBytes int
}

// NewFetcher builds a Fetcher with the given User-Agent string and retry
// policy. A zero-value retryParam.MaxAttempts is corrected to 1 (no retry).
// maxBodyBytes <= 0 selects MaxBodyBytes.
func NewFetcher(userAgent string, retryParam retry.RetryParam, recorder Recorder, maxBodyBytes int) *Fetcher {
	if retryParam.MaxAttempts < 1 {
		retryParam.MaxAttempts = 1
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = MaxBodyBytes
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:    userAgent,
		retryParam:   retryParam,
		recorder:     recorder,
		maxBodyBytes: maxBodyBytes,
	}
}

// Fetch performs a GET against target, retrying transient network failures
// up to the configured attempt count. A non-network outcome — any HTTP
// status, including 3xx and 5xx — is returned as a successful Response: the
// content pipeline, not Fetch, classifies status codes.
func (f *Fetcher) Fetch(ctx context.Context, target url.URL) (Response, failure.ClassifiedError) {
	task := func() (Response, failure.ClassifiedError) {
		return f.do(ctx, target)
	}

	result := retry.Retry(f.retryParam, task)
	if result.Err() != nil {
		if f.recorder != nil {
			var fetchErr *Error
			if errors.As(result.Err(), &fetchErr) {
				f.recorder.RecordFetchError(target.String(), fetchErr)
			}
		}
		return Response{}, result.Err()
	}
	return result.Value(), nil
}

func (f *Fetcher) do(ctx context.Context, target url.URL) (Response, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Response{}, &Error{Message: err.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return Response{}, &Error{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, int64(f.maxBodyBytes)+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return Response{}, &Error{
			Message:   fmt.Sprintf("reading body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}
	if len(body) > f.maxBodyBytes {
		return Response{}, &Error{
			Message:   fmt.Sprintf("body exceeds %d bytes", f.maxBodyBytes),
			Retryable: false,
			Cause:     ErrCauseBodyTooLarge,
		}
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	return Response{
		URL:        target,
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       body,
		FetchedAt:  time.Now(),
	}, nil
}

// DefaultRetryParam is a sensible retry policy for transient network
// failures: three attempts, exponential backoff starting at 200ms.
func DefaultRetryParam() retry.RetryParam {
	return retry.NewRetryParam(
		200*time.Millisecond,
		100*time.Millisecond,
		rand.Int63(),
		3,
		timeutil.NewBackoffParam(200*time.Millisecond, 2, 5*time.Second),
	)
}
