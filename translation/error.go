package translation

import "fmt"

// Error reports a backend failure: unreachable host, timeout, non-2xx status,
// or a malformed response body. Callers always fail open to the untranslated
// text; this error is logged, never surfaced to end users.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translation backend: %v", e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func wrap(cause error) *Error {
	return &Error{Cause: cause}
}
