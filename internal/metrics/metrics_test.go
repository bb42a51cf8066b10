package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register should tolerate duplicates: %v", err)
	}
}

func TestCollectorsRecord(t *testing.T) {
	before := testutil.ToFloat64(ticksTotal)
	ObserveTick(2 * time.Millisecond)
	if got := testutil.ToFloat64(ticksTotal); got != before+1 {
		t.Fatalf("expected ticks to increase by one, got %v -> %v", before, got)
	}

	SetNodeHealth("db", 40)
	if got := testutil.ToFloat64(nodeHealth.WithLabelValues("db")); got != 40 {
		t.Fatalf("expected gauge 40, got %v", got)
	}
	SetNodeHealth("cache", 70)
	DeleteNodeHealth("db")
	if got := testutil.ToFloat64(nodeHealth.WithLabelValues("cache")); got != 70 {
		t.Fatalf("expected unrelated series to survive, got %v", got)
	}
	DeleteNodeHealth("cache")
	if got := testutil.CollectAndCount(nodeHealth); got != 0 {
		t.Fatalf("expected gauge series dropped, got %d", got)
	}

	ObserveInjection(InjectionFail)
	ObserveSLAViolation("db")
	ObserveEvent("node-failed")
	if got := testutil.ToFloat64(slaViolationsTotal.WithLabelValues("db")); got < 1 {
		t.Fatalf("expected sla violation counted, got %v", got)
	}
}
