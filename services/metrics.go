package services

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Metrics records latency of calls to the external collaborators. One
// histogram per collaborator name ("llm", "image", "automation"),
// millisecond values from 1ms to 10 minutes.
type Metrics struct {
	mu         sync.Mutex
	histograms map[string]*hdrhistogram.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{histograms: make(map[string]*hdrhistogram.Histogram)}
}

// Record adds one observation. Durations shorter than 1ms are clamped up
// so they still count.
func (m *Metrics) Record(name string, d time.Duration) {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histograms[name]
	if !ok {
		h = hdrhistogram.New(1, 10*60*1000, 3)
		m.histograms[name] = h
	}
	_ = h.RecordValue(ms)
}

// Observe wraps a call site: defer metrics.Observe("llm")() .
func (m *Metrics) Observe(name string) func() {
	start := time.Now()
	return func() {
		m.Record(name, time.Since(start))
	}
}

// LatencyStats is the JSON shape served by the stats endpoint.
type LatencyStats struct {
	Count int64 `json:"count"`
	P50   int64 `json:"p50_ms"`
	P95   int64 `json:"p95_ms"`
	P99   int64 `json:"p99_ms"`
	Max   int64 `json:"max_ms"`
}

// Snapshot returns current stats for every collaborator seen so far.
func (m *Metrics) Snapshot() map[string]LatencyStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]LatencyStats, len(m.histograms))
	for name, h := range m.histograms {
		out[name] = LatencyStats{
			Count: h.TotalCount(),
			P50:   h.ValueAtQuantile(50),
			P95:   h.ValueAtQuantile(95),
			P99:   h.ValueAtQuantile(99),
			Max:   h.Max(),
		}
	}
	return out
}
