package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// InjectionFail labels fail-node injections.
	InjectionFail = "fail"
	// InjectionDegrade labels degrade-node injections.
	InjectionDegrade = "degrade"
	// InjectionRecover labels explicit recoveries.
	InjectionRecover = "recover"
)

var (
	ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mirador_twin",
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks processed.",
		},
	)

	tickDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mirador_twin",
			Name:      "tick_seconds",
			Help:      "Wall-clock time spent processing one simulation tick.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_twin",
			Name:      "events_total",
			Help:      "Simulation events appended to the event log, partitioned by type.",
		},
		[]string{"type"},
	)

	nodeHealth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mirador_twin",
			Name:      "node_health",
			Help:      "Current simulated health (0-100) per node.",
		},
		[]string{"node"},
	)

	slaViolationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_twin",
			Name:      "sla_violations_total",
			Help:      "Transitions of a node from SLA compliant to non-compliant.",
		},
		[]string{"node"},
	)

	injectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_twin",
			Name:      "injections_total",
			Help:      "Fault injections and explicit recoveries requested by callers.",
		},
		[]string{"kind"},
	)
)

// Register attaches mirador-twin collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		ticksTotal,
		tickDurationSeconds,
		eventsTotal,
		nodeHealth,
		slaViolationsTotal,
		injectionsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveTick records one processed tick and its duration.
func ObserveTick(duration time.Duration) {
	ticksTotal.Inc()
	if duration < 0 {
		duration = 0
	}
	tickDurationSeconds.Observe(duration.Seconds())
}

// ObserveEvent counts an appended event.
func ObserveEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}

// SetNodeHealth publishes the latest health of a node.
func SetNodeHealth(node string, health int) {
	nodeHealth.WithLabelValues(node).Set(float64(health))
}

// DeleteNodeHealth drops the series of the given nodes, leaving other runs' series intact.
func DeleteNodeHealth(nodes ...string) {
	for _, node := range nodes {
		nodeHealth.DeleteLabelValues(node)
	}
}

// ObserveSLAViolation counts a fresh SLA breach on node.
func ObserveSLAViolation(node string) {
	slaViolationsTotal.WithLabelValues(node).Inc()
}

// ObserveInjection counts a caller-driven mutation.
func ObserveInjection(kind string) {
	injectionsTotal.WithLabelValues(kind).Inc()
}
