// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"contentadmin/internal/httputil"
)

// Default credential attempt policy.
const (
	DefaultAttemptsPerClient  = 30
	DefaultAttemptsPerAccount = 5
	DefaultAttemptWindow      = 15 * time.Minute
)

// AttemptPolicy bounds credential attempts within a sliding window.
// PerClient caps one client IP across all accounts; PerAccount caps one
// client IP against a single email, so guesses cannot be concentrated on
// one account while staying under the client cap.
type AttemptPolicy struct {
	PerClient  int
	PerAccount int
	Window     time.Duration
}

// AttemptLimiter throttles the credential endpoints (/login, /register).
type AttemptLimiter struct {
	policy AttemptPolicy
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time

	stopCh chan struct{}
}

type attemptKey struct {
	key   string
	limit int
}

// NewAttemptLimiter creates a limiter and starts a goroutine that drops
// idle keys once per window. Zero policy fields take the defaults.
func NewAttemptLimiter(p AttemptPolicy) *AttemptLimiter {
	if p.PerClient <= 0 {
		p.PerClient = DefaultAttemptsPerClient
	}
	if p.PerAccount <= 0 {
		p.PerAccount = DefaultAttemptsPerAccount
	}
	if p.Window <= 0 {
		p.Window = DefaultAttemptWindow
	}

	l := &AttemptLimiter{
		policy: p,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
		stopCh: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(max(p.Window, time.Second))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.cleanup()
			case <-l.stopCh:
				return
			}
		}
	}()

	return l
}

// Stop terminates the background cleanup goroutine.
func (l *AttemptLimiter) Stop() {
	close(l.stopCh)
}

// Middleware counts every request against the client key and, when the
// JSON body carries an email, against the client+account key. A request
// over either limit gets a JSON 429 with Retry-After set to the time until
// the oldest counted attempt leaves the window. Rejected requests are not
// counted.
func (l *AttemptLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		keys := []attemptKey{{key: "client:" + ip, limit: l.policy.PerClient}}
		email := peekEmail(r)
		if email != "" {
			keys = append(keys, attemptKey{
				key:   "account:" + r.URL.Path + ":" + ip + ":" + email,
				limit: l.policy.PerAccount,
			})
		}

		if wait, ok := l.reserve(keys); !ok {
			slog.Warn("credential attempts throttled",
				"path", r.URL.Path,
				"client_ip", ip,
				"email", email,
				"retry_after", wait,
			)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			httputil.RespondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// reserve records one attempt under every key, or under none when any key
// is at its limit. wait is how long until the most constrained key frees a
// slot.
func (l *AttemptLimiter) reserve(keys []attemptKey) (wait time.Duration, ok bool) {
	now := l.now()
	cutoff := now.Add(-l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	blocked := false
	for _, k := range keys {
		recent := pruneBefore(l.hits[k.key], cutoff)
		l.hits[k.key] = recent
		if len(recent) >= k.limit {
			blocked = true
			wait = max(wait, recent[len(recent)-k.limit].Add(l.policy.Window).Sub(now))
		}
	}
	if blocked {
		return wait, false
	}
	for _, k := range keys {
		l.hits[k.key] = append(l.hits[k.key], now)
	}
	return 0, true
}

// cleanup drops keys whose attempts have all left the window.
func (l *AttemptLimiter) cleanup() {
	cutoff := l.now().Add(-l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, ts := range l.hits {
		if recent := pruneBefore(ts, cutoff); len(recent) > 0 {
			l.hits[key] = recent
		} else {
			delete(l.hits, key)
		}
	}
}

// pruneBefore drops the leading timestamps at or before cutoff. ts is in
// ascending order.
func pruneBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// peekEmail reads the "email" field of a JSON body, lower-cased and
// trimmed, and restores the body for the next handler. Oversized or
// non-JSON bodies yield "" and are left for the handler to reject.
func peekEmail(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, httputil.MaxBodyBytes+1))
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || int64(len(data)) > httputil.MaxBodyBytes {
		return ""
	}

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

// clientIP returns the originating client address: the leftmost
// X-Forwarded-For entry, then X-Real-IP, then the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
