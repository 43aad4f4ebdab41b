package api

import (
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/spynter/hub360/logging"
)

// HTTPClientOption is a functional option for configuring the HTTP client.
// Use the With* functions to create options.
type HTTPClientOption func(c *httpClient)

// WithHTTPClient sets the underlying *http.Client used for requests.
// Defaults to a client with a 30 second timeout.
//
// Parameters:
//   - hc: the http client to use
//
// Returns:
//   - HTTPClientOption: option function to apply
func WithHTTPClient(hc *http.Client) HTTPClientOption {
	return func(c *httpClient) {
		c.client = hc
	}
}

// WithBreakerSettings replaces the default circuit breaker settings. The
// default trips after 5 consecutive failures and recovers after 15 seconds.
//
// Parameters:
//   - settings: gobreaker settings to apply
//
// Returns:
//   - HTTPClientOption: option function to apply
func WithBreakerSettings(settings gobreaker.Settings) HTTPClientOption {
	return func(c *httpClient) {
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](settings)
	}
}

func defaultBreaker() *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "tour-api",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("tour api breaker state changed")
		},
	})
}
