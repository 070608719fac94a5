// Package apperrors defines the sentinel error categories every
// collector and pipeline stage classifies its failures into, so the
// refresh orchestrator can decide whether to retry, skip, or abort.
package apperrors

import "fmt"

// InputMissing means a required upstream input (file, env var,
// argument) was absent entirely.
type InputMissing struct {
	Detail string
}

func (e *InputMissing) Error() string {
	return fmt.Sprintf("input missing: %s", e.Detail)
}

// InputMalformed means an input was present but could not be parsed
// into the shape the caller expected.
type InputMalformed struct {
	Detail string
	Cause  error
}

func (e *InputMalformed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("input malformed: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("input malformed: %s", e.Detail)
}

func (e *InputMalformed) Unwrap() error { return e.Cause }

// FetchFailure means a network call to an upstream provider failed
// transiently. Callers retry with exponential backoff up to a small
// attempt cap before giving up.
type FetchFailure struct {
	Source string
	Cause  error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("fetch failure from %s: %v", e.Source, e.Cause)
}

func (e *FetchFailure) Unwrap() error { return e.Cause }

// AuthFailure means the provider rejected our credentials. This is
// fatal for the collector run: retrying with the same key cannot help.
type AuthFailure struct {
	Source string
	Cause  error
}

func (e *AuthFailure) Error() string {
	return fmt.Sprintf("auth failure for %s: %v", e.Source, e.Cause)
}

func (e *AuthFailure) Unwrap() error { return e.Cause }

// RateLimited means the provider asked us to slow down. RetryAfter, if
// non-zero, is the provider's requested backoff in seconds; zero means
// the caller should apply its own linear backoff up to a 60s cap.
type RateLimited struct {
	Source     string
	RetryAfter int
}

func (e *RateLimited) Error() string {
	return fmt.Sprintf("rate limited by %s (retry after %ds)", e.Source, e.RetryAfter)
}

// StoreWriteFailure means the cache store could not persist an
// artifact. This is fatal for the refresh step that produced it.
type StoreWriteFailure struct {
	Artifact string
	Cause    error
}

func (e *StoreWriteFailure) Error() string {
	return fmt.Sprintf("store write failure for %s: %v", e.Artifact, e.Cause)
}

func (e *StoreWriteFailure) Unwrap() error { return e.Cause }

// ColumnarRefreshFailure means the SQL projection of an artifact could
// not be rebuilt. This is non-fatal: the JSON artifact is still valid
// and the columnar layer serves its last-known rows until the next
// refresh succeeds.
type ColumnarRefreshFailure struct {
	Table string
	Cause error
}

func (e *ColumnarRefreshFailure) Error() string {
	return fmt.Sprintf("columnar refresh failure for %s: %v", e.Table, e.Cause)
}

func (e *ColumnarRefreshFailure) Unwrap() error { return e.Cause }

// RankerInternal means a ranking engine panicked or produced an
// inconsistent result for one ticker. Nothing in this module constructs
// it: the refresh pipeline does not recover a per-ticker ranker panic
// or emit a score-0 row in its place.
type RankerInternal struct {
	Ticker string
	Cause  error
}

func (e *RankerInternal) Error() string {
	return fmt.Sprintf("ranker internal error for %s: %v", e.Ticker, e.Cause)
}

func (e *RankerInternal) Unwrap() error { return e.Cause }
