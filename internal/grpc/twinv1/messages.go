package twinv1

import "time"

// StatusResponse describes the simulation clock and log.
type StatusResponse struct {
	State             string `json:"state"`
	Active            bool   `json:"active"`
	Tick              int64  `json:"tick"`
	Nodes             int32  `json:"nodes"`
	Edges             int32  `json:"edges"`
	Events            int32  `json:"events"`
	LastSeq           uint64 `json:"lastSeq"`
	PendingRecoveries int32  `json:"pendingRecoveries"`
}

// ControlResponse reports whether a lifecycle call changed state.
type ControlResponse struct {
	Changed bool            `json:"changed"`
	Status  *StatusResponse `json:"status"`
}

// FailNodeRequest drives a node to zero health.
type FailNodeRequest struct {
	NodeId     string `json:"nodeId"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

// DegradeNodeRequest sets a node to a partial health level.
type DegradeNodeRequest struct {
	NodeId     string `json:"nodeId"`
	Level      int32  `json:"level"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

// RecoverNodeRequest restores a node to full health.
type RecoverNodeRequest struct {
	NodeId string `json:"nodeId"`
}

// InjectionResponse reports the outcome of a fault injection or recovery.
type InjectionResponse struct {
	Applied bool         `json:"applied"`
	Health  *HealthState `json:"health"`
}

// BlastRadiusRequest names the node whose failure is analysed.
type BlastRadiusRequest struct {
	Epicenter string `json:"epicenter"`
}

// BlastRadius is the static failure footprint of an epicenter.
type BlastRadius struct {
	Epicenter                string   `json:"epicenter"`
	Radius                   int32    `json:"radius"`
	AffectedNodes            []string `json:"affectedNodes"`
	AffectedConnections      []string `json:"affectedConnections"`
	CriticalPath             []string `json:"criticalPath"`
	EstimatedDowntimeMinutes float64  `json:"estimatedDowntimeMinutes"`
	ServicesImpacted         int32    `json:"servicesImpacted"`
}

// HealthStateRequest selects one node.
type HealthStateRequest struct {
	NodeId string `json:"nodeId"`
}

// Incident is one fault recorded on a node.
type Incident struct {
	Id         string     `json:"id"`
	NodeId     string     `json:"nodeId"`
	Type       string     `json:"type"`
	Timestamp  time.Time  `json:"timestamp"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// SLAValues mirrors the three tracked SLA dimensions.
type SLAValues struct {
	Availability float64 `json:"availability"`
	LatencyMs    float64 `json:"latencyMs"`
	ErrorRate    float64 `json:"errorRate"`
}

// SLAStatus pairs targets with the latest actuals.
type SLAStatus struct {
	Targets   SLAValues `json:"targets"`
	Actual    SLAValues `json:"actual"`
	Compliant bool      `json:"compliant"`
}

// HealthState is the wire form of a node health record.
type HealthState struct {
	NodeId        string      `json:"nodeId"`
	Health        int32       `json:"health"`
	Status        string      `json:"status"`
	LastChecked   time.Time   `json:"lastChecked"`
	OpenIncidents int32       `json:"openIncidents"`
	Incidents     []*Incident `json:"incidents"`
	Sla           SLAStatus   `json:"sla"`
}

// ListHealthStatesResponse carries every node's health.
type ListHealthStatesResponse struct {
	States []*HealthState `json:"states"`
}

// TelemetryRequest selects a node's history; Limit 0 returns all retained samples.
type TelemetryRequest struct {
	NodeId string `json:"nodeId"`
	Limit  int32  `json:"limit,omitempty"`
}

// TelemetrySample is one synthesized observation.
type TelemetrySample struct {
	NodeId            string    `json:"nodeId"`
	Tick              int64     `json:"tick"`
	Timestamp         time.Time `json:"timestamp"`
	Rps               float64   `json:"rps"`
	LatencyP50        float64   `json:"latencyP50"`
	LatencyP95        float64   `json:"latencyP95"`
	LatencyP99        float64   `json:"latencyP99"`
	LatencyAvg        float64   `json:"latencyAvg"`
	ErrorRate         float64   `json:"errorRate"`
	Cpu               float64   `json:"cpu"`
	MemoryMb          float64   `json:"memoryMb"`
	ActiveConnections int32     `json:"activeConnections"`
	IdleConnections   int32     `json:"idleConnections"`
	InboundBytes      float64   `json:"inboundBytes"`
	OutboundBytes     float64   `json:"outboundBytes"`
}

// TelemetryResponse carries samples oldest first.
type TelemetryResponse struct {
	Samples []*TelemetrySample `json:"samples"`
}

// ListEventsRequest pages the event log. AfterSeq takes precedence over Limit.
type ListEventsRequest struct {
	Limit    int32  `json:"limit,omitempty"`
	AfterSeq uint64 `json:"afterSeq,omitempty"`
}

// Event is one event log entry.
type Event struct {
	Id        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	NodeId    string    `json:"nodeId,omitempty"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
}

// ListEventsResponse carries events in append order.
type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

// DetectAnomaliesRequest scores a node's telemetry history.
type DetectAnomaliesRequest struct {
	NodeId    string  `json:"nodeId"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Anomaly is a telemetry sample scoring above threshold.
type Anomaly struct {
	NodeId    string    `json:"nodeId"`
	Signal    string    `json:"signal"`
	Tick      int64     `json:"tick"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Score     float64   `json:"score"`
	Threshold float64   `json:"threshold"`
}

// DetectAnomaliesResponse lists anomalies grouped by signal.
type DetectAnomaliesResponse struct {
	Anomalies []*Anomaly `json:"anomalies"`
}
