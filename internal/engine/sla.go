package engine

import (
	"fmt"

	"github.com/miradorstack/mirador-twin/internal/metrics"
	"github.com/miradorstack/mirador-twin/internal/models"
)

// evaluateSLA compares one node's health and latest telemetry with its targets.
func evaluateSLA(targets models.SLATargets, sample models.TelemetrySample, rec models.HealthRecord) models.SLASnapshot {
	actual := models.SLATargets{
		Availability: float64(rec.Health),
		LatencyMs:    sample.Latency.P99,
		ErrorRate:    sample.ErrorRate,
	}
	return models.SLASnapshot{
		Targets: targets,
		Actual:  actual,
		Compliant: actual.Availability >= targets.Availability &&
			actual.LatencyMs <= targets.LatencyMs &&
			actual.ErrorRate <= targets.ErrorRate,
	}
}

// checkSLAs refreshes every node's SLA snapshot and records a violation only
// on the transition from compliant to non-compliant.
func (e *Engine) checkSLAs() {
	for _, node := range e.graph.nodes {
		st := e.store.state(node.ID)
		sample, ok := e.history[node.ID].latest()
		if !ok {
			continue
		}
		snap := evaluateSLA(st.record.SLA.Targets, sample, st.record)
		st.record.SLA = snap
		if st.compliant && !snap.Compliant {
			e.record(models.EventSLAViolated, node.ID, slaMessage(node.ID, snap), models.SeverityError)
			metrics.ObserveSLAViolation(node.ID)
		}
		st.compliant = snap.Compliant
	}
}

func slaMessage(id string, snap models.SLASnapshot) string {
	return fmt.Sprintf("%s violated SLA: availability %.1f/%.1f, p99 %.1fms/%.1fms, errors %.2f%%/%.2f%%",
		id,
		snap.Actual.Availability, snap.Targets.Availability,
		snap.Actual.LatencyMs, snap.Targets.LatencyMs,
		snap.Actual.ErrorRate, snap.Targets.ErrorRate,
	)
}
