package models

import "time"

// HealthStatus is derived from a health value and never stored independently.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusDegraded HealthStatus = "degraded"
	StatusDown     HealthStatus = "down"
)

// StatusForHealth maps a clamped health value onto its status tag.
func StatusForHealth(health int) HealthStatus {
	switch {
	case health <= 0:
		return StatusDown
	case health < 50:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// ClampHealth bounds a health value to [0,100].
func ClampHealth(health int) int {
	if health < 0 {
		return 0
	}
	if health > 100 {
		return 100
	}
	return health
}

// IncidentType distinguishes hard failures from partial degradation.
type IncidentType string

const (
	IncidentFailure     IncidentType = "failure"
	IncidentDegradation IncidentType = "degradation"
)

// Incident records one injected or cascaded fault on a node.
type Incident struct {
	ID         string       `json:"id"`
	NodeID     string       `json:"nodeId"`
	Type       IncidentType `json:"type"`
	Timestamp  time.Time    `json:"timestamp"`
	Severity   Severity     `json:"severity"`
	Message    string       `json:"message"`
	Resolved   bool         `json:"resolved"`
	ResolvedAt *time.Time   `json:"resolvedAt,omitempty"`
}

// SLATargets are the thresholds a node is checked against every tick.
type SLATargets struct {
	Availability float64 `json:"availability" yaml:"availability"`
	LatencyMs    float64 `json:"latencyMs" yaml:"latencyMs"`
	ErrorRate    float64 `json:"errorRate" yaml:"errorRate"`
}

// SLASnapshot pairs targets with the most recently observed actuals.
type SLASnapshot struct {
	Targets   SLATargets `json:"targets"`
	Actual    SLATargets `json:"actual"`
	Compliant bool       `json:"compliant"`
}

// HealthRecord is the mutable per-node simulation state.
type HealthRecord struct {
	NodeID      string       `json:"nodeId"`
	Health      int          `json:"health"`
	Status      HealthStatus `json:"status"`
	LastChecked time.Time    `json:"lastChecked"`
	Incidents   []Incident   `json:"incidents"`
	SLA         SLASnapshot  `json:"sla"`
}

// OpenIncidents counts incidents not yet resolved.
func (r HealthRecord) OpenIncidents() int {
	open := 0
	for _, inc := range r.Incidents {
		if !inc.Resolved {
			open++
		}
	}
	return open
}
