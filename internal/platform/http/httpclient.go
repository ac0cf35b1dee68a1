// Package http provides the outbound HTTP client shared by model-backed analyzers.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for calls to model APIs.
//
// http.DefaultClient has no timeout, so every outbound call goes through a
// client built here. The timeout covers the whole request including reading
// the body; model responses can take tens of seconds, so callers pass it in.
// Proxy settings come from HTTP_PROXY/HTTPS_PROXY.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
