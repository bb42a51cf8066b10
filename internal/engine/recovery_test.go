package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miradorstack/mirador-twin/internal/models"
)

func TestRecoverySchedulerOrdering(t *testing.T) {
	s := &recoveryScheduler{}
	s.schedule("a", 5)
	s.schedule("b", 2)
	s.schedule("c", 5)
	s.schedule("d", 9)

	assert.Empty(t, s.due(1))
	assert.Equal(t, []string{"b"}, s.due(4))
	assert.Equal(t, []string{"a", "c"}, s.due(5))
	assert.Equal(t, 1, s.pending())

	s.clear()
	assert.Zero(t, s.pending())
	assert.Empty(t, s.due(100))
}

func TestDurationTicksRoundsUp(t *testing.T) {
	eng := newTestEngine(t, chainGraph(), nil)
	assert.EqualValues(t, 0, eng.durationTicks(0))
	assert.EqualValues(t, 2, eng.durationTicks(2*time.Second))
	assert.EqualValues(t, 3, eng.durationTicks(2500*time.Millisecond))
	assert.EqualValues(t, 1, eng.durationTicks(time.Millisecond))
}

func TestScheduledRecoveryFires(t *testing.T) {
	eng := newTestEngine(t, models.Graph{Nodes: nodes("A")}, nil)
	require.True(t, eng.Start())
	require.True(t, eng.FailNode("A", 3*time.Second))
	assert.Equal(t, 1, eng.PendingRecoveries())

	for i := 0; i < 2; i++ {
		require.True(t, eng.Tick())
		assert.Equal(t, 0, mustHealth(t, eng, "A").Health, "tick %d", i+1)
	}

	require.True(t, eng.Tick())
	rec := mustHealth(t, eng, "A")
	assert.Equal(t, 100, rec.Health)
	assert.Zero(t, rec.OpenIncidents())
	assert.Zero(t, eng.PendingRecoveries())

	events := eng.Events()
	var recovered *models.Event
	for i := range events {
		if events[i].Type == models.EventNodeRecovered {
			recovered = &events[i]
		}
	}
	require.NotNil(t, recovered)
	assert.True(t, strings.Contains(recovered.Message, "scheduled recovery"), recovered.Message)
}

func TestScheduledRecoveryAfterManualRecoverIsNoOp(t *testing.T) {
	eng := newTestEngine(t, models.Graph{Nodes: nodes("A")}, nil)
	require.True(t, eng.Start())
	require.True(t, eng.DegradeNode("A", 30, time.Second))
	require.True(t, eng.RecoverNode("A"))

	require.True(t, eng.Tick())
	assert.Equal(t, 1, countEvents(eng.Events(), models.EventNodeRecovered))
}

func TestAutoRecoveryAfterThreshold(t *testing.T) {
	eng := newTestEngine(t, models.Graph{Nodes: nodes("A")}, func(o *Options) {
		o.DisableAutoRecovery = false
		o.RecoveryProbability = 1
		o.RecoveryThreshold = 3 * time.Second
	})
	require.True(t, eng.FailNode("A", 0))
	require.True(t, eng.Start())

	for i := 0; i < 3; i++ {
		require.True(t, eng.Tick())
		assert.Equal(t, 0, mustHealth(t, eng, "A").Health, "tick %d", i+1)
	}

	require.True(t, eng.Tick())
	assert.Equal(t, 100, mustHealth(t, eng, "A").Health)
	events := eng.Events()
	last := events[len(events)-1]
	for _, ev := range events {
		if ev.Type == models.EventNodeRecovered {
			last = ev
		}
	}
	assert.Contains(t, last.Message, "auto recovery")
}

func TestAutoRecoveryDisabled(t *testing.T) {
	eng := newTestEngine(t, models.Graph{Nodes: nodes("A")}, func(o *Options) {
		o.RecoveryProbability = 1
		o.RecoveryThreshold = time.Second
	})
	require.True(t, eng.FailNode("A", 0))
	require.True(t, eng.Start())
	for i := 0; i < 10; i++ {
		eng.Tick()
	}
	assert.Equal(t, 0, mustHealth(t, eng, "A").Health)
}

func TestAutoRecoveryLeavesDegradedNodes(t *testing.T) {
	eng := newTestEngine(t, models.Graph{Nodes: nodes("A")}, func(o *Options) {
		o.DisableAutoRecovery = false
		o.RecoveryProbability = 1
		o.RecoveryThreshold = time.Second
	})
	require.True(t, eng.DegradeNode("A", 20, 0))
	require.True(t, eng.Start())
	for i := 0; i < 10; i++ {
		eng.Tick()
	}
	assert.Equal(t, 20, mustHealth(t, eng, "A").Health)
}
