package loader

import (
	"net/http"
	"time"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithHTTPClient is an option builder that sets the HTTP client used for
// panorama downloads.
//
// Parameters:
//   - client: the HTTP client instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithFetchTimeout is an option builder that sets the per-download timeout.
//
// Parameters:
//   - timeout: the timeout, ignored when not positive
//
// Returns:
//   - LoaderBuilderOption: a function that applies the timeout option to a loader
func WithFetchTimeout(timeout time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// WithPrefetchWorkers is an option builder that sets the worker count of the
// background prefetch pool.
//
// Parameters:
//   - workers: the worker count, ignored when not positive
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithPrefetchWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		if workers > 0 {
			l.prefetchWorkers = workers
		}
	}
}
