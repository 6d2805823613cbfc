// Package network resolves the caller address recorded in audit entries.
package network

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the best guess at the originating client address.
// The first hop of X-Forwarded-For wins, then X-Real-IP, then RemoteAddr.
// Ports are stripped and IPv6 brackets removed; a value that does not parse
// as an IP is returned trimmed but otherwise untouched.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return hostOnly(strings.TrimSpace(first))
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return hostOnly(xri)
	}
	return hostOnly(r.RemoteAddr)
}

func hostOnly(addr string) string {
	if net.ParseIP(addr) != nil {
		return addr
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
