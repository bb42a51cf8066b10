package extractors

import (
	"math"
	"time"

	"github.com/miradorstack/mirador-twin/internal/models"
)

// Signal names a telemetry series the extractor scores.
type Signal string

const (
	SignalLatencyP99 Signal = "latency_p99"
	SignalErrorRate  Signal = "error_rate"
	SignalCPU        Signal = "cpu"
	// SignalThroughput is scored on drops rather than spikes.
	SignalThroughput Signal = "rps"
)

// DefaultThreshold is the z-score used when the caller passes none.
const DefaultThreshold = 2.5

// minSamples is the shortest history worth scoring.
const minSamples = 5

// Anomaly captures an anomalous telemetry sample.
type Anomaly struct {
	NodeID    string
	Signal    Signal
	Tick      int64
	Timestamp time.Time
	Value     float64
	Score     float64
	Threshold float64
}

// TelemetryExtractor detects anomalies using a z-score over a node's history.
type TelemetryExtractor struct {
	signals []Signal
}

// NewTelemetryExtractor creates a detector over the given signals; none means all.
func NewTelemetryExtractor(signals ...Signal) *TelemetryExtractor {
	if len(signals) == 0 {
		signals = []Signal{SignalLatencyP99, SignalErrorRate, SignalCPU, SignalThroughput}
	}
	return &TelemetryExtractor{signals: signals}
}

// Detect finds samples whose score meets threshold, signal by signal.
func (e *TelemetryExtractor) Detect(samples []models.TelemetrySample, threshold float64) []Anomaly {
	if len(samples) < minSamples {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	anomalies := make([]Anomaly, 0)
	for _, signal := range e.signals {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = valueOf(signal, s)
		}
		mean, stdDev := meanStdDev(values)
		for i, v := range values {
			score := (v - mean) / stdDev
			if signal == SignalThroughput {
				score = -score
			}
			if score < threshold {
				continue
			}
			anomalies = append(anomalies, Anomaly{
				NodeID:    samples[i].NodeID,
				Signal:    signal,
				Tick:      samples[i].Tick,
				Timestamp: samples[i].Timestamp,
				Value:     v,
				Score:     score,
				Threshold: threshold,
			})
		}
	}
	return anomalies
}

func valueOf(signal Signal, s models.TelemetrySample) float64 {
	switch signal {
	case SignalLatencyP99:
		return s.Latency.P99
	case SignalErrorRate:
		return s.ErrorRate
	case SignalCPU:
		return s.CPU
	case SignalThroughput:
		return s.RPS
	default:
		return 0
	}
}

func meanStdDev(values []float64) (float64, float64) {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	variance /= float64(len(values))
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		stdDev = 0.01
	}
	return mean, stdDev
}
