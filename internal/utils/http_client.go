package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance
// with a default-configured underlying resty.Client.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}

// WithBearerToken sets the token sent in the Authorization header of every
// request. An empty token leaves the header unset.
func (c *HTTPClient) WithBearerToken(token string) *HTTPClient {
	if token != "" {
		c.SetAuthToken(token)
	}
	return c
}

// WithTimeout sets the per-request timeout. Non-positive values keep the
// transport default.
func (c *HTTPClient) WithTimeout(timeout time.Duration) *HTTPClient {
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}
