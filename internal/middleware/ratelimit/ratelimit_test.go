package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *time.Time) {
	t.Helper()
	rl, err := NewLimiter(Config{RequestsPerMinute: perMinute})
	if err != nil {
		t.Fatalf("NewLimiter: %v", err)
	}
	t.Cleanup(rl.Stop)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestAllowWindow(t *testing.T) {
	rl, now := newTestLimiter(t, 2)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatalf("first two requests must pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatalf("third request in the window must be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatalf("other clients are counted separately")
	}

	*now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Fatalf("new window must reset the counter")
	}
	if rl.ActiveClients() != 2 {
		t.Fatalf("active clients = %d, want 2", rl.ActiveClients())
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, now := newTestLimiter(t, 5)
	rl.Allow("1.2.3.4")
	*now = now.Add(11 * time.Minute)
	rl.cleanupStaleEntries()
	if rl.ActiveClients() != 0 {
		t.Fatalf("stale entry not removed")
	}
}

func TestClientIP(t *testing.T) {
	rl, _ := newTestLimiter(t, 5)

	cases := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.9:5000", "", "203.0.113.9"},
		{"untrusted forwarded ignored", "203.0.113.9:5000", "198.51.100.1", "203.0.113.9"},
		{"trusted proxy forwarded", "10.0.0.2:5000", "198.51.100.1, 10.0.0.2", "198.51.100.1"},
		{"trusted proxy bad header", "127.0.0.1:5000", "garbage", "127.0.0.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := rl.ClientIP(r); got != tc.want {
				t.Fatalf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMiddlewareRejects(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	h := rl.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i, want := range []int{http.StatusNoContent, http.StatusTooManyRequests} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
		if rr.Code != want {
			t.Fatalf("request %d: status = %d, want %d", i, rr.Code, want)
		}
	}
}

func TestInvalidTrustedProxy(t *testing.T) {
	if _, err := NewLimiter(Config{TrustedProxies: []string{"nope"}}); err == nil {
		t.Fatalf("expected error for invalid CIDR")
	}
}
