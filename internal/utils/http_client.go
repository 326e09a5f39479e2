package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is the resty client used to reach the credential verifier.
// Embedding keeps the full request builder available to callers.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client rooted at baseURL that asks for JSON and
// gives up after timeout. Ceremony requests are single use on the server,
// so the client never retries on its own.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &HTTPClient{Client: c}
}
