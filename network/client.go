// Package network holds the HTTP client shared by every backend call.
package network

import (
	"net/http"
	"time"

	"github.com/reelfeed/reelfeed/log"
	"golang.org/x/net/http2"
)

// Client is shared so all requests reuse one connection pool.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// WithTimeout returns a client sharing Client's transport with a different timeout.
func WithTimeout(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return Client
	}

	c := *Client
	c.Timeout = timeout
	return &c
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 20
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second

	if err := http2.ConfigureTransport(t); err != nil {
		log.Warnf("http2 disabled: %v", err)
	}

	return t
}
