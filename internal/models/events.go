package models

import "time"

// EventType enumerates everything the engine records in its event log.
type EventType string

const (
	EventSimulationStarted EventType = "simulation-started"
	EventSimulationPaused  EventType = "simulation-paused"
	EventSimulationStopped EventType = "simulation-stopped"
	EventNodeFailed        EventType = "node-failed"
	EventNodeDegraded      EventType = "node-degraded"
	EventNodeRecovered     EventType = "node-recovered"
	EventCascadeStarted    EventType = "cascade-started"
	EventSLAViolated       EventType = "sla-violated"
)

// Severity captures impact levels for events and incidents.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Event is an immutable entry in the simulation event log. Seq increases with
// every append and survives log truncation, so observers can page by cursor.
type Event struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	NodeID    string    `json:"nodeId,omitempty"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}
