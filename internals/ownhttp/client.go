// Package ownhttp contains the http client used for every request
package ownhttp

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// UserAgent is sent with every request
var UserAgent = "mcinstall (https://github.com/minepkg/mcinstall)"

// Options configure the client returned by [NewWithOptions]
type Options struct {
	// RateLimit limits requests per second. 0 disables throttling
	RateLimit float64
	// Burst is the allowed burst when RateLimit is set
	Burst int
	// ThrottleHosts limits throttling to these hosts (metadata APIs). Empty throttles everything
	ThrottleHosts []string
	// MaxConnsPerHost limits parallel connections to one host. 0 means no limit
	MaxConnsPerHost int
}

// New returns a new http.Client with the AddHeaderTransport (setting the User-Agent header)
func New() *http.Client {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a client with timeouts, the User-Agent header and optional throttling
func NewWithOptions(opts Options) *http.Client {
	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		MaxConnsPerHost:       opts.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   20 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		transport = NewThrottleTransport(transport, rate.NewLimiter(rate.Limit(opts.RateLimit), burst), opts.ThrottleHosts...)
	}

	return &http.Client{Transport: NewAddHeaderTransport(transport)}
}
