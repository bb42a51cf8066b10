package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradorstack/mirador-twin/internal/metrics"
	"github.com/miradorstack/mirador-twin/internal/models"
)

// nodeHealthSeries returns the published health per node label.
func nodeHealthSeries(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "mirador_twin_node_health" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "node" {
					out[label.GetValue()] = m.GetGauge().GetValue()
				}
			}
		}
	}
	return out
}

func TestResetOnlyDropsOwnHealthSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	first := newTestEngine(t, models.Graph{Nodes: nodes("run1-api", "run1-db")}, nil)
	second := newTestEngine(t, models.Graph{Nodes: nodes("run2-api")}, nil)
	require.True(t, second.DegradeNode("run2-api", 40, 0))

	first.Reset()
	series := nodeHealthSeries(t, reg)
	assert.Equal(t, 40.0, series["run2-api"])
	assert.Equal(t, 100.0, series["run1-api"])

	require.NoError(t, first.Load(models.Graph{Nodes: nodes("run1-cache")}))
	series = nodeHealthSeries(t, reg)
	assert.NotContains(t, series, "run1-api")
	assert.NotContains(t, series, "run1-db")
	assert.Equal(t, 100.0, series["run1-cache"])
	assert.Equal(t, 40.0, series["run2-api"])
}
