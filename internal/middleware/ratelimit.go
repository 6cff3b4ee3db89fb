package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type window struct {
	hits  int
	reset time.Time
}

// RateLimit caps requests per client IP over a fixed window. Generation
// endpoints are expensive upstream, so the cap is low and shared across the
// whole API rather than negotiated per route.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	windows := make(map[string]*window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			now := time.Now()

			mu.Lock()
			win := windows[ip]
			if win == nil || now.After(win.reset) {
				win = &window{reset: now.Add(per)}
				windows[ip] = win
			}
			if win.hits >= limit {
				mu.Unlock()
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			win.hits++
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(part); ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
