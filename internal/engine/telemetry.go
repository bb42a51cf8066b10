package engine

import (
	"math"
	"math/rand"

	"github.com/miradorstack/mirador-twin/internal/models"
)

// Synthesizer derives plausible telemetry from a node's health. All randomness
// comes from the injected source so runs are reproducible under a fixed seed.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer constructs a Synthesizer; a nil rng is seeded with 1.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Synthesizer{rng: rng}
}

// Synthesize produces one sample for nodeID at the given health and status.
func (s *Synthesizer) Synthesize(nodeID string, health int, status models.HealthStatus) models.TelemetrySample {
	rps := s.between(100, 200)
	p50 := s.between(50, 100)
	errorRate := s.between(0.1, 0.5)
	cpu := s.between(30, 60)
	memory := s.between(512, 1024)

	switch status {
	case models.StatusDown:
		rps, p50, cpu = 0, 0, 0
		errorRate = 100
	case models.StatusDegraded:
		ratio := float64(models.ClampHealth(health)) / 100
		rps *= ratio
		// Contention: a partially failed node burns more CPU, not less.
		cpu = math.Min(cpu*1.5, 100)
		p50 *= 2 - ratio
		errorRate *= 2 - ratio
	}

	sample := models.TelemetrySample{
		NodeID: nodeID,
		RPS:    round2(rps),
		Latency: models.LatencyBreakdown{
			P50: round2(p50),
			P95: round2(p50 * 1.5),
			P99: round2(p50 * 2),
			Avg: round2(p50 * 1.2),
		},
		ErrorRate: round2(errorRate),
		CPU:       round2(cpu),
		MemoryMB:  round2(memory),
	}
	sample.Connections = models.ConnectionCounts{
		Active: int(rps / 10),
		Idle:   int(s.between(5, 20)),
	}
	sample.Traffic = models.TrafficVolume{
		InboundBytes:  round2(rps * s.between(800, 1200)),
		OutboundBytes: round2(rps * s.between(2000, 4000)),
	}
	if status == models.StatusDown {
		sample.Connections.Idle = 0
	}
	return sample
}

func (s *Synthesizer) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
