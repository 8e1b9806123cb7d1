package http

import (
	"net"
	"net/http"
	"strings"
)

// IPConfig holds configuration for IP extraction and validation
type IPConfig struct {
	// TrustForwardedFor trusts X-Forwarded-For from any peer. Only enable this
	// when the service is reachable exclusively through an edge proxy that
	// overwrites the header (serverless platforms, managed load balancers).
	TrustForwardedFor bool
	TrustedProxies    []string // CIDR ranges of trusted proxies
}

// ExtractClientIP derives the single source address used as the identity key
// for lockout and rate limiting.
//
// Flow:
// 1. If the forwarding header is trusted for this peer, use the first entry of
//    X-Forwarded-For (trimmed)
// 2. Fall back to RemoteAddr
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remoteIP := getRemoteAddr(r)

	if config != nil && (config.TrustForwardedFor || isTrustedProxy(remoteIP, config.TrustedProxies)) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if isValidIP(first) {
				return first
			}
		}
	}

	return remoteIP
}

// getRemoteAddr extracts the IP address from RemoteAddr (removing port if present)
func getRemoteAddr(r *http.Request) string {
	if r.RemoteAddr != "" {
		// RemoteAddr may include port: "ip:port"
		if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return ip
		}
		return r.RemoteAddr
	}
	return "unknown"
}

// isTrustedProxy checks if an IP address is within any of the trusted proxy CIDR ranges
func isTrustedProxy(ip string, trustedProxies []string) bool {
	if len(trustedProxies) == 0 {
		return false
	}

	clientIP := net.ParseIP(ip)
	if clientIP == nil {
		return false
	}

	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if ipNet.Contains(clientIP) {
			return true
		}
	}

	return false
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IdempotencyKey returns the trimmed Idempotency-Key header value
func IdempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Idempotency-Key"))
}
