package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig lists the proxies whose forwarding headers are believed.
type IPConfig struct {
	TrustedProxies []string // CIDR ranges allowed to set X-Forwarded-For
}

// ClientIP resolves the originating client address for audit events and
// rate-limit keys. X-Forwarded-For is honored only when the direct peer is a
// trusted proxy; anything a client sets itself is ignored, so a caller
// cannot spoof another address into the audit trail.
func ClientIP(r *http.Request, cfg *IPConfig) string {
	peer := peerAddr(r)
	if cfg == nil || !cfg.trusts(peer) {
		return peer
	}

	// First valid hop is the client; later entries are intermediate proxies.
	for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		hop = strings.TrimSpace(hop)
		if _, err := netip.ParseAddr(hop); err == nil {
			return hop
		}
	}

	return peer
}

// peerAddr strips the port from RemoteAddr
func peerAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (c *IPConfig) trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		prefix, err := netip.ParsePrefix(cidr)
		if err != nil {
			continue // skip malformed ranges
		}
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}
