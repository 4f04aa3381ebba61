// Package rawfile contains utilities for issuing host syscalls that may be
// interrupted by signal delivery.
package rawfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Interrupted reports whether err is EINTR, i.e. the syscall was interrupted
// by a signal before it completed and should be reissued.
func Interrupted(err error) bool {
	return err != nil && errors.Is(err, unix.EINTR)
}

// RetryEINTR calls f until it returns anything other than EINTR. There is no
// limit on the number of attempts. onRetry, if non-nil, is called before each
// reissue.
func RetryEINTR(f func() error, onRetry func(attempt int)) error {
	for attempt := 1; ; attempt++ {
		err := f()
		if !Interrupted(err) {
			return err
		}
		if onRetry != nil {
			onRetry(attempt)
		}
	}
}

// RetryEINTRValue is like RetryEINTR for syscalls that also return a value,
// such as open(2).
func RetryEINTRValue[T any](f func() (T, error), onRetry func(attempt int)) (T, error) {
	for attempt := 1; ; attempt++ {
		v, err := f()
		if !Interrupted(err) {
			return v, err
		}
		if onRetry != nil {
			onRetry(attempt)
		}
	}
}
