package models

import "time"

// LatencyBreakdown holds synthesized latency percentiles in milliseconds.
type LatencyBreakdown struct {
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Avg float64 `json:"avg"`
}

// ConnectionCounts tracks synthetic connection pool usage.
type ConnectionCounts struct {
	Active int `json:"active"`
	Idle   int `json:"idle"`
}

// TrafficVolume tracks synthetic bytes per tick.
type TrafficVolume struct {
	InboundBytes  float64 `json:"inboundBytes"`
	OutboundBytes float64 `json:"outboundBytes"`
}

// TelemetrySample is a per-node, per-tick snapshot derived from health.
type TelemetrySample struct {
	NodeID      string           `json:"nodeId"`
	Tick        int64            `json:"tick"`
	Timestamp   time.Time        `json:"timestamp"`
	RPS         float64          `json:"rps"`
	Latency     LatencyBreakdown `json:"latency"`
	ErrorRate   float64          `json:"errorRate"`
	CPU         float64          `json:"cpu"`
	MemoryMB    float64          `json:"memoryMb"`
	Connections ConnectionCounts `json:"connections"`
	Traffic     TrafficVolume    `json:"traffic"`
}
