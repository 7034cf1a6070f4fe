package observability

import (
	"strconv"
	"sync"
	"time"
)

// RouteStats holds the accumulated counters for one path/method/status key.
type RouteStats struct {
	Requests     int64
	TotalLatency time.Duration
}

// Metrics provides basic in-memory counters for the board API.
type Metrics struct {
	mu         sync.Mutex
	requests   map[string]RouteStats
	errorCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests:   make(map[string]RouteStats),
		errorCount: make(map[string]int64),
	}
}

// RecordRequest accumulates count and latency for a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.requests[key]
	stats.Requests++
	stats.TotalLatency += duration
	m.requests[key] = stats
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestStats returns a copy of the per-route counters.
func (m *Metrics) RequestStats() map[string]RouteStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RouteStats, len(m.requests))
	for key, stats := range m.requests {
		out[key] = stats
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
