package services

import (
	"testing"
	"time"
)

func TestMetricsRecordAndSnapshot(t *testing.T) {
	m := NewMetrics()
	m.Record("llm", 120*time.Millisecond)
	m.Record("llm", 300*time.Millisecond)
	m.Record("automation", 2*time.Second)

	snap := m.Snapshot()
	llm, ok := snap["llm"]
	if !ok {
		t.Fatal("missing llm stats")
	}
	if llm.Count != 2 {
		t.Errorf("llm count = %d, want 2", llm.Count)
	}
	if llm.Max < 290 || llm.Max > 310 {
		t.Errorf("llm max = %dms, want ~300ms", llm.Max)
	}
	if snap["automation"].Count != 1 {
		t.Errorf("automation count = %d, want 1", snap["automation"].Count)
	}
}

func TestMetricsClampsSubMillisecond(t *testing.T) {
	m := NewMetrics()
	m.Record("image", 10*time.Microsecond)

	snap := m.Snapshot()
	if snap["image"].Count != 1 {
		t.Fatalf("count = %d, want 1", snap["image"].Count)
	}
}

func TestMetricsEmptySnapshot(t *testing.T) {
	m := NewMetrics()
	if len(m.Snapshot()) != 0 {
		t.Error("expected empty snapshot")
	}
}
