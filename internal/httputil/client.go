// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across API clients.
package httputil

import (
	"net/http"

	"github.com/pdiddy/deep-research/pkg/types"
)

// userAgentTransport sets a default User-Agent on outgoing requests.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

// RoundTrip clones the request before modifying it, per the RoundTripper
// contract, and leaves an explicitly set User-Agent alone.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(r)
}

// NewClient builds an HTTP client with the configured timeout and User-Agent.
// Both the search client and the completion SDK share clients built here so
// every outgoing request carries the same identity. A zero timeout means no
// client-side timeout; a hung call then stalls until its context is cancelled.
func NewClient(cfg types.HTTPConfig) *http.Client {
	client := &http.Client{Timeout: cfg.Timeout}
	if cfg.UserAgent != "" {
		client.Transport = &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: cfg.UserAgent,
		}
	}
	return client
}
