package retry

import "github.com/rohmanhakim/uci-crawler/pkg/failure"

// Result holds the outcome of a Retry call: the produced value (zero on
// failure), the terminal error (nil on success), and how many attempts it
// took to get there.
type Result[T any] struct {
	value    T
	err      failure.ClassifiedError
	attempts int
}

// NewSuccessResult builds a Result representing success on the given
// attempt number.
func NewSuccessResult[T any](value T, attempts int) Result[T] {
	return Result[T]{value: value, attempts: attempts}
}

func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() failure.ClassifiedError {
	return r.err
}

func (r Result[T]) Attempts() int {
	return r.attempts
}

// IsSuccess reports whether the Result carries no terminal error.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether the Result carries a terminal error.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}
