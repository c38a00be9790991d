package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	pkghttp "github.com/lodgekey/passwordless/pkg/http"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name           string
		remoteAddr     string
		forwardedFor   string
		trustedProxies []string
		want           string
	}{
		{
			name:           "direct connection ignores forwarding header",
			remoteAddr:     "203.0.113.10:54321",
			forwardedFor:   "1.2.3.4, 5.6.7.8",
			trustedProxies: []string{"10.0.0.0/8"},
			want:           "203.0.113.10",
		},
		{
			name:           "trusted proxy uses first forwarded hop",
			remoteAddr:     "10.0.0.5:54321",
			forwardedFor:   "203.0.113.42, 10.0.0.5",
			trustedProxies: []string{"10.0.0.0/8"},
			want:           "203.0.113.42",
		},
		{
			name:           "trusted proxy with empty header falls back to peer",
			remoteAddr:     "10.0.0.5:54321",
			trustedProxies: []string{"10.0.0.0/8"},
			want:           "10.0.0.5",
		},
		{
			name:           "garbage hops are skipped",
			remoteAddr:     "10.0.0.5:54321",
			forwardedFor:   "not-an-ip, 203.0.113.42",
			trustedProxies: []string{"10.0.0.0/8"},
			want:           "203.0.113.42",
		},
		{
			name:           "no trusted proxies configured",
			remoteAddr:     "203.0.113.10:54321",
			forwardedFor:   "1.2.3.4",
			trustedProxies: nil,
			want:           "203.0.113.10",
		},
		{
			name:           "malformed trust range is ignored",
			remoteAddr:     "203.0.113.10:54321",
			forwardedFor:   "1.2.3.4",
			trustedProxies: []string{"not-a-cidr"},
			want:           "203.0.113.10",
		},
		{
			name:           "ipv6 proxy and client",
			remoteAddr:     "[::1]:54321",
			forwardedFor:   "2001:db8::1",
			trustedProxies: []string{"::1/128"},
			want:           "2001:db8::1",
		},
		{
			name:       "peer without port",
			remoteAddr: "203.0.113.10",
			want:       "203.0.113.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/login/verify", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}

			ip := pkghttp.ClientIP(req, &pkghttp.IPConfig{TrustedProxies: tt.trustedProxies})
			assert.Equal(t, tt.want, ip)
		})
	}
}

func TestClientIP_NilConfig(t *testing.T) {
	req := httptest.NewRequest("POST", "/auth/login/verify", nil)
	req.RemoteAddr = "203.0.113.10:54321"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	assert.Equal(t, "203.0.113.10", pkghttp.ClientIP(req, nil))
}

func TestClientIP_RateLimitBypassPrevented(t *testing.T) {
	// A caller claiming to be localhost must not get a forged rate-limit key
	req := httptest.NewRequest("POST", "/auth/login/start", nil)
	req.RemoteAddr = "203.0.113.10:54321"
	req.Header.Set("X-Forwarded-For", "127.0.0.1, 203.0.113.10")

	ip := pkghttp.ClientIP(req, &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})
	assert.Equal(t, "203.0.113.10", ip)
}
