package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradorstack/mirador-twin/internal/models"
)

func TestImpactTiers(t *testing.T) {
	cases := []struct {
		crit models.Criticality
		want int
	}{
		{models.CriticalityCritical, 0},
		{models.CriticalityHigh, 30},
		{models.CriticalityMedium, 60},
		{models.CriticalityLow, 80},
	}
	for _, tc := range cases {
		t.Run(string(tc.crit), func(t *testing.T) {
			eng := newTestEngine(t, models.Graph{
				Nodes: nodes("up", "down"),
				Edges: []models.Edge{edge("up", "down", tc.crit)},
			}, nil)
			require.True(t, eng.FailNode("up", 0))
			assert.Equal(t, tc.want, mustHealth(t, eng, "down").Health)
		})
	}
}

func TestCriticalityFallsBackToEdgeType(t *testing.T) {
	eng := newTestEngine(t, models.Graph{
		Nodes: nodes("db", "api", "cdn", "web"),
		Edges: []models.Edge{
			{Source: "db", Target: "api", Type: "database"},
			{Source: "cdn", Target: "web", Type: "unknown-kind"},
		},
	}, nil)

	require.True(t, eng.FailNode("db", 0))
	assert.Equal(t, 0, mustHealth(t, eng, "api").Health)

	require.True(t, eng.FailNode("cdn", 0))
	assert.Equal(t, 60, mustHealth(t, eng, "web").Health, "unmatched type defaults to medium")
}

func TestCycleTerminates(t *testing.T) {
	eng := newTestEngine(t, models.Graph{
		Nodes: nodes("A", "B", "C"),
		Edges: []models.Edge{
			edge("A", "B", models.CriticalityCritical),
			edge("B", "C", models.CriticalityCritical),
			edge("C", "A", models.CriticalityCritical),
		},
	}, nil)

	require.True(t, eng.FailNode("A", 0))
	require.True(t, eng.Start())
	for i := 0; i < 5; i++ {
		eng.Tick()
	}

	for _, id := range []string{"A", "B", "C"} {
		rec := mustHealth(t, eng, id)
		assert.Equal(t, 0, rec.Health, id)
		assert.LessOrEqual(t, len(rec.Incidents), 2, "incidents on %s must stay bounded", id)
	}
	assert.Equal(t, 2, countEvents(eng.Events(), models.EventCascadeStarted))
}

func TestDeltasAccumulateAcrossUpstreams(t *testing.T) {
	eng := newTestEngine(t, models.Graph{
		Nodes: nodes("a", "b", "svc"),
		Edges: []models.Edge{
			edge("a", "svc", models.CriticalityMedium),
			edge("b", "svc", models.CriticalityHigh),
		},
	}, nil)

	require.True(t, eng.FailNode("a", 0))
	assert.Equal(t, 60, mustHealth(t, eng, "svc").Health)

	require.True(t, eng.FailNode("b", 0))
	rec := mustHealth(t, eng, "svc")
	assert.Equal(t, 0, rec.Health)
	assert.Equal(t, models.StatusDown, rec.Status)
}

func TestRecheckCascadesOnlyOncePerOutage(t *testing.T) {
	eng := newTestEngine(t, models.Graph{
		Nodes: nodes("a", "b"),
		Edges: []models.Edge{edge("a", "b", models.CriticalityLow)},
	}, nil)
	require.True(t, eng.Start())
	require.True(t, eng.FailNode("a", 0))
	for i := 0; i < 10; i++ {
		eng.Tick()
	}
	assert.Equal(t, 80, mustHealth(t, eng, "b").Health)
	assert.Equal(t, 1, countEvents(eng.Events(), models.EventCascadeStarted))

	// A fresh outage after recovery cascades again.
	require.True(t, eng.RecoverNode("a"))
	require.True(t, eng.FailNode("a", 0))
	assert.Equal(t, 60, mustHealth(t, eng, "b").Health)
}

func TestDegradeToZeroCascades(t *testing.T) {
	eng := newTestEngine(t, chainGraph(), nil)
	require.True(t, eng.DegradeNode("A", 0, 0))

	assert.Equal(t, 0, mustHealth(t, eng, "B").Health)
	assert.Equal(t, 0, mustHealth(t, eng, "C").Health)
	assert.Equal(t, models.IncidentFailure, mustHealth(t, eng, "A").Incidents[0].Type)
}

func TestPropagationIsMonotonic(t *testing.T) {
	tiers := []models.Criticality{
		models.CriticalityCritical,
		models.CriticalityHigh,
		models.CriticalityMedium,
		models.CriticalityLow,
	}
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 25; trial++ {
		const size = 12
		graph := models.Graph{}
		for i := 0; i < size; i++ {
			graph.Nodes = append(graph.Nodes, models.Node{ID: fmt.Sprintf("n%d", i)})
		}
		for i := 0; i < size*2; i++ {
			graph.Edges = append(graph.Edges, models.Edge{
				ID:          fmt.Sprintf("e%d", i),
				Source:      fmt.Sprintf("n%d", rng.Intn(size)),
				Target:      fmt.Sprintf("n%d", rng.Intn(size)),
				Criticality: tiers[rng.Intn(len(tiers))],
			})
		}
		eng := newTestEngine(t, graph, nil)
		eng.DegradeNode(fmt.Sprintf("n%d", rng.Intn(size)), 30+rng.Intn(60), 0)

		before := map[string]int{}
		for _, rec := range eng.AllHealthStates() {
			before[rec.NodeID] = rec.Health
		}
		eng.FailNode(fmt.Sprintf("n%d", rng.Intn(size)), 0)
		for _, rec := range eng.AllHealthStates() {
			assert.LessOrEqual(t, rec.Health, before[rec.NodeID], "trial %d node %s", trial, rec.NodeID)
			assert.GreaterOrEqual(t, rec.Health, 0)
		}
	}
}
