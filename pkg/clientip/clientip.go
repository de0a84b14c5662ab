// Package clientip resolves the originating client address of an HTTP
// request. Rate limiting keys on this value, so candidates are validated
// before trust: a malformed header entry falls through to the next source.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client's IP address. X-Forwarded-For is consulted first
// (taking the first valid entry, the original client when the proxy chain is
// honest), then X-Real-IP, then the connection's remote address.
func GetIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for candidate := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, as httptest sometimes produces.
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP string, returning "" when invalid.
func parseIP(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return ""
	}
	return ip.String()
}
