// Package httputil provides the shared HTTP client used by all source
// adapters.
package httputil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// DefaultTimeout bounds every upstream call. Calls run to completion or
// timeout; there are no retries.
const DefaultTimeout = 10 * time.Second

// Client wraps http.Client with a circuit breaker per upstream. Transport
// errors and 5xx responses trip the breaker; while it is open, calls fail
// fast and the caller falls through to its next source.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewClient returns a client for the named upstream with the standard
// timeout.
func NewClient(name string) *Client {
	return &Client{
		http: &http.Client{Timeout: DefaultTimeout},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name: name,
		}),
	}
}

// Get issues a GET through the breaker. Responses with status < 500 are
// returned to the caller for its own status handling.
func (c *Client) Get(url string) (*http.Response, error) {
	return c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.http.Get(url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return resp, nil
	})
}
