package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	pkghttp "github.com/shabeb-irshed/portal/pkg/http"
)

// FloodGuardConfig holds the coarse per-address request ceiling applied in
// front of the login, submit and chat endpoints
type FloodGuardConfig struct {
	RequestsPerMinute int
	IPConfig          *pkghttp.IPConfig
}

// DefaultFloodGuard returns 20 requests per minute keyed by the resolved client IP
func DefaultFloodGuard(ipConfig *pkghttp.IPConfig) FloodGuardConfig {
	return FloodGuardConfig{
		RequestsPerMinute: 20,
		IPConfig:          ipConfig,
	}
}

// RateLimitByIP limits requests per client address. The address is resolved
// the same way the login guard and cooldowns resolve it, so a spoofed
// forwarding header from an untrusted peer cannot dodge the limit.
// Counters are held in process memory by each returned middleware and are
// never consulted by the lockout, cooldown or idempotency guards.
func RateLimitByIP(config FloodGuardConfig) func(next http.Handler) http.Handler {
	rpm := config.RequestsPerMinute
	if rpm < 1 {
		rpm = 20
	}

	return httprate.Limit(
		rpm,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return pkghttp.ExtractClientIP(r, config.IPConfig), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many requests, slow down")
		}),
	)
}
