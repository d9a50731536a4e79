package harvest

import (
	"context"
	"errors"
	"fmt"
)

// ErrDisallowed is the cause of a FetchError for URLs excluded by robots.txt.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch issues a single GET for the URL and returns the response body.
	// Transport errors, timeouts and non-2xx responses are reported as
	// *FetchError. No retries are attempted.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// FetchError reports a failed fetch. It is recoverable: callers decide
// whether to skip the URL or stop.
type FetchError struct {
	URL string

	// StatusCode is the HTTP status for non-2xx responses, or 0 when no
	// response was received.
	StatusCode int

	Err error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is, or wraps, a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
