package ownhttp

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// ThrottleTransport waits for the limiter before each request.
// If Hosts is set only requests to those hosts are throttled.
type ThrottleTransport struct {
	T       http.RoundTripper
	Hosts   []string
	limiter *rate.Limiter
}

func (tt *ThrottleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tt.throttles(req.URL.Hostname()) {
		if err := tt.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	return tt.T.RoundTrip(req)
}

func (tt *ThrottleTransport) throttles(host string) bool {
	if len(tt.Hosts) == 0 {
		return true
	}
	for _, h := range tt.Hosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

func NewThrottleTransport(T http.RoundTripper, limiter *rate.Limiter, hosts ...string) *ThrottleTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &ThrottleTransport{T, hosts, limiter}
}
