package http

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
)

const limiterIdleAfter = 5 * time.Minute

type rateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	limit       rate.Limit
	burst       int
	lastCleanup time.Time
}

// newRateLimiter returns nil, meaning no limit, when perSecond is not
// positive.
func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters:    make(map[string]*rate.Limiter),
		limit:       rate.Limit(perSecond),
		burst:       burst,
		lastCleanup: time.Now(),
	}
}

func (rl *rateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) > limiterIdleAfter {
		// a full bucket has not been used for a while
		for k, l := range rl.limiters {
			if l.Tokens() >= float64(rl.burst) {
				delete(rl.limiters, k)
			}
		}
		rl.lastCleanup = time.Now()
	}

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// trustedProxies is the set of peers allowed to report the client address
// through forwarding headers.
type trustedProxies []netip.Prefix

// parseTrustedProxies accepts single addresses and CIDR ranges. Entries that
// parse as neither are returned in invalid.
func parseTrustedProxies(entries []string) (trusted trustedProxies, invalid []string) {
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			trusted = append(trusted, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			a = a.Unmap()
			trusted = append(trusted, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		invalid = append(invalid, e)
	}
	return trusted, invalid
}

func (t trustedProxies) contains(host string) bool {
	a, err := netip.ParseAddr(strings.TrimSpace(host))
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// clientIP keys the limiter on the peer address. Forwarding headers are
// honoured only when the peer is a trusted proxy: X-Forwarded-For is walked
// from the right and the first hop that is not itself trusted wins, then
// X-Real-IP is consulted.
func (t trustedProxies) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !t.contains(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if i == 0 || !t.contains(hop) {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := h.proxies.clientIP(r)
		limiter := h.limiter.get(key)
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := max(int(reservation.Delay().Seconds()), 1)
			reservation.Cancel()

			logger.FromRequest(r).Warn().
				Str("client", key).
				Str("path", r.URL.Path).
				Int("retry_after", retryAfter).
				Msg("ceremony rate limit exceeded")

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, r, ErrRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}
