package httpclient

import (
	"net/http"
	"time"
)

// sharedTransport is reused by every pooled client so calls to the same
// generation, embedding and search hosts keep their connections warm.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     120 * time.Second,
}

// NewPooledClient creates an http.Client on the shared transport.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}
