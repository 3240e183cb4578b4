package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client for the two outbound call paths: the
// client talking to the authority and the authority talking to the
// storage tier. Embedding exposes the full resty API while leaving room
// for shared defaults.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client with its own connection
// pool. A non-positive timeout leaves resty's default in place.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}

	return &HTTPClient{Client: c}
}
