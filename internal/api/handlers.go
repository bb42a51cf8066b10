package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/miradorstack/mirador-twin/internal/extractors"
	twinv1 "github.com/miradorstack/mirador-twin/internal/grpc/twinv1"
	"github.com/miradorstack/mirador-twin/internal/models"
)

// DurationFromMillis converts a wire duration, rejecting negatives.
func DurationFromMillis(ms int64) (time.Duration, error) {
	if ms < 0 {
		return 0, fmt.Errorf("durationMs must not be negative")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// NodeIDFrom trims and requires a node id.
func NodeIDFrom(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("nodeId is required")
	}
	return id, nil
}

// ToWireHealthState converts a domain health record into the wire representation.
func ToWireHealthState(rec models.HealthRecord) *twinv1.HealthState {
	out := &twinv1.HealthState{
		NodeId:        rec.NodeID,
		Health:        int32(rec.Health),
		Status:        string(rec.Status),
		LastChecked:   rec.LastChecked,
		OpenIncidents: int32(rec.OpenIncidents()),
		Incidents:     make([]*twinv1.Incident, 0, len(rec.Incidents)),
		Sla: twinv1.SLAStatus{
			Targets:   toWireSLA(rec.SLA.Targets),
			Actual:    toWireSLA(rec.SLA.Actual),
			Compliant: rec.SLA.Compliant,
		},
	}
	for _, inc := range rec.Incidents {
		out.Incidents = append(out.Incidents, &twinv1.Incident{
			Id:         inc.ID,
			NodeId:     inc.NodeID,
			Type:       string(inc.Type),
			Timestamp:  inc.Timestamp,
			Severity:   string(inc.Severity),
			Message:    inc.Message,
			Resolved:   inc.Resolved,
			ResolvedAt: inc.ResolvedAt,
		})
	}
	return out
}

func toWireSLA(v models.SLATargets) twinv1.SLAValues {
	return twinv1.SLAValues{Availability: v.Availability, LatencyMs: v.LatencyMs, ErrorRate: v.ErrorRate}
}

// ToWireHealthStates converts a list of records.
func ToWireHealthStates(recs []models.HealthRecord) *twinv1.ListHealthStatesResponse {
	resp := &twinv1.ListHealthStatesResponse{States: make([]*twinv1.HealthState, 0, len(recs))}
	for _, rec := range recs {
		resp.States = append(resp.States, ToWireHealthState(rec))
	}
	return resp
}

// ToWireTelemetry converts samples, keeping only the newest limit when limit > 0.
func ToWireTelemetry(samples []models.TelemetrySample, limit int) *twinv1.TelemetryResponse {
	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	resp := &twinv1.TelemetryResponse{Samples: make([]*twinv1.TelemetrySample, 0, len(samples))}
	for _, s := range samples {
		resp.Samples = append(resp.Samples, &twinv1.TelemetrySample{
			NodeId:            s.NodeID,
			Tick:              s.Tick,
			Timestamp:         s.Timestamp,
			Rps:               s.RPS,
			LatencyP50:        s.Latency.P50,
			LatencyP95:        s.Latency.P95,
			LatencyP99:        s.Latency.P99,
			LatencyAvg:        s.Latency.Avg,
			ErrorRate:         s.ErrorRate,
			Cpu:               s.CPU,
			MemoryMb:          s.MemoryMB,
			ActiveConnections: int32(s.Connections.Active),
			IdleConnections:   int32(s.Connections.Idle),
			InboundBytes:      s.Traffic.InboundBytes,
			OutboundBytes:     s.Traffic.OutboundBytes,
		})
	}
	return resp
}

// ToWireEvents converts event log entries.
func ToWireEvents(events []models.Event) *twinv1.ListEventsResponse {
	resp := &twinv1.ListEventsResponse{Events: make([]*twinv1.Event, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, ToWireEvent(ev))
	}
	return resp
}

// ToWireEvent converts one event.
func ToWireEvent(ev models.Event) *twinv1.Event {
	return &twinv1.Event{
		Id:        ev.ID,
		Seq:       ev.Seq,
		Timestamp: ev.Timestamp,
		Type:      string(ev.Type),
		NodeId:    ev.NodeID,
		Message:   ev.Message,
		Severity:  string(ev.Severity),
	}
}

// ToWireBlastRadius converts a blast radius result.
func ToWireBlastRadius(b models.BlastRadius) *twinv1.BlastRadius {
	return &twinv1.BlastRadius{
		Epicenter:                b.Epicenter,
		Radius:                   int32(b.Radius),
		AffectedNodes:            append([]string{}, b.AffectedNodes...),
		AffectedConnections:      append([]string{}, b.AffectedConnections...),
		CriticalPath:             append([]string{}, b.CriticalPath...),
		EstimatedDowntimeMinutes: b.EstimatedDowntime.Minutes(),
		ServicesImpacted:         int32(b.ServicesImpacted),
	}
}

// ToWireAnomalies converts extractor output.
func ToWireAnomalies(anomalies []extractors.Anomaly) *twinv1.DetectAnomaliesResponse {
	resp := &twinv1.DetectAnomaliesResponse{Anomalies: make([]*twinv1.Anomaly, 0, len(anomalies))}
	for _, a := range anomalies {
		resp.Anomalies = append(resp.Anomalies, &twinv1.Anomaly{
			NodeId:    a.NodeID,
			Signal:    string(a.Signal),
			Tick:      a.Tick,
			Timestamp: a.Timestamp,
			Value:     a.Value,
			Score:     a.Score,
			Threshold: a.Threshold,
		})
	}
	return resp
}
