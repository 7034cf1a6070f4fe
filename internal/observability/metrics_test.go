package observability

import (
	"testing"
	"time"
)

func TestMetricsAccumulatePerRoute(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/v1/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/v1/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/v1/tickets", "GET", 404, 5*time.Millisecond)

	stats := m.RequestStats()
	ok := stats["/api/v1/tickets|GET|200"]
	if ok.Requests != 2 || ok.TotalLatency != 40*time.Millisecond {
		t.Errorf("200 stats = %+v, want 2 requests / 40ms", ok)
	}
	if stats["/api/v1/tickets|GET|404"].Requests != 1 {
		t.Errorf("404 stats = %+v, want 1 request", stats["/api/v1/tickets|GET|404"])
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/health", "GET", 200, time.Millisecond)
	m.RecordError("/health", "GET", "INTERNAL")
	if m.RequestStats() != nil {
		t.Error("nil metrics should report no stats")
	}
}
