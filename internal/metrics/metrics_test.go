package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/transactions", "GET", 200, 15*time.Millisecond)
	m.ObserveRequest("/api/transactions", "GET", 200, 5*time.Millisecond)
	m.ObserveRequest("/api/transactions", "POST", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/transactions", "GET", "200")); got != 2 {
		t.Fatalf("GET count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/transactions", "POST", "500")); got != 1 {
		t.Fatalf("POST count = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", "GET", 200, time.Millisecond)
	m.StoreError("shopping", "clear")
	m.Event("transaction.created", "published")
	m.CacheFallback("transactions", "cache")
	if got := m.CacheFallbacks(); got != 0 {
		t.Errorf("CacheFallbacks() = %v, want 0", got)
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.StoreError("shopping", "clear")
	m.CacheFallback("income_2024-05", "default")

	body := scrape(t, m)
	if want := `ecowallet_store_errors_total{collection="shopping",operation="clear"} 1`; !strings.Contains(body, want) {
		t.Errorf("metrics output missing %q", want)
	}
	if strings.Contains(body, "ecowallet_client_cache_fallbacks_total") {
		t.Error("server registry exposes the client cache fallback counter")
	}
}

func TestClientRegistryCountsFallbacksOnly(t *testing.T) {
	m := NewClient()
	m.CacheFallback("income_2024-05", "default")
	m.ObserveRequest("/", "GET", 200, time.Millisecond)
	m.StoreError("shopping", "clear")
	m.Event("transaction.created", "published")

	m.CacheFallback("transactions", "cache")
	if got := m.CacheFallbacks(); got != 2 {
		t.Errorf("CacheFallbacks() = %v, want 2", got)
	}

	body := scrape(t, m)
	if want := `ecowallet_client_cache_fallbacks_total{key="income_2024-05",source="default"} 1`; !strings.Contains(body, want) {
		t.Errorf("metrics output missing %q", want)
	}
	for _, unwanted := range []string{"ecowallet_http_requests_total", "ecowallet_store_errors_total", "go_goroutines"} {
		if strings.Contains(body, unwanted) {
			t.Errorf("client registry exposes %s", unwanted)
		}
	}
}
