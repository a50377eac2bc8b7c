package contract

import "fmt"

// FetchError reports a network failure or a non-success HTTP status
// while retrieving the matrix document. It is not retried; callers
// surface it once and keep their previous state.
type FetchError struct {
	Source     string
	StatusCode int // 0 when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that the fetched document is not valid JSON or
// not an array. Treated identically to FetchError for user messaging.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
