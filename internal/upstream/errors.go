package upstream

import "fmt"

// AuthError means credentials are invalid or a challenge is required.
// Fatal for the current tick, not for the worker: the operator must
// refresh credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return "upstream auth failed: " + e.Reason }

// NotFoundError means the requested media or account is gone or
// private. The caller must mark the owning schedule disabled.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string { return "upstream not found: " + e.Target }

// RateLimitError carries an advisory retry-after the caller should
// back off by.
type RateLimitError struct {
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("upstream rate limited: retry after %ds", e.RetryAfter)
}

// TransientNetworkError is retriable: connection drop, timeout, 5xx.
type TransientNetworkError struct {
	Err error
}

func (e *TransientNetworkError) Error() string { return "upstream transient error: " + e.Err.Error() }
func (e *TransientNetworkError) Unwrap() error { return e.Err }
