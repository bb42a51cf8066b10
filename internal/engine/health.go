package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/mirador-twin/internal/metrics"
	"github.com/miradorstack/mirador-twin/internal/models"
)

// nodeState is the health record plus bookkeeping the engine needs to drive
// recovery and cascade re-checks.
type nodeState struct {
	record models.HealthRecord
	// downSince is the tick at which health last reached zero.
	downSince int64
	// propagated is set once the current outage has been cascaded downstream.
	propagated bool
	// compliant is the SLA state as of the last check.
	compliant bool
}

type healthStore struct {
	nodes map[string]*nodeState
}

func newHealthStore() *healthStore {
	return &healthStore{nodes: make(map[string]*nodeState)}
}

// initialize creates one record per node at full health.
func (s *healthStore) initialize(nodes []models.Node, policy *Policy, fallback models.SLATargets, now time.Time) {
	s.nodes = make(map[string]*nodeState, len(nodes))
	for _, node := range nodes {
		targets := policy.SLAFor(node, fallback)
		s.nodes[node.ID] = &nodeState{
			record: models.HealthRecord{
				NodeID:      node.ID,
				Health:      100,
				Status:      models.StatusHealthy,
				LastChecked: now,
				Incidents:   []models.Incident{},
				SLA: models.SLASnapshot{
					Targets:   targets,
					Actual:    models.SLATargets{Availability: 100},
					Compliant: true,
				},
			},
			compliant: true,
		}
	}
}

func (s *healthStore) state(id string) *nodeState {
	return s.nodes[id]
}

// get returns a deep copy of the record so callers cannot alias engine state.
func (s *healthStore) get(id string) (models.HealthRecord, bool) {
	st, ok := s.nodes[id]
	if !ok {
		return models.HealthRecord{}, false
	}
	rec := st.record
	rec.Incidents = make([]models.Incident, len(st.record.Incidents))
	for i, inc := range st.record.Incidents {
		if inc.ResolvedAt != nil {
			at := *inc.ResolvedAt
			inc.ResolvedAt = &at
		}
		rec.Incidents[i] = inc
	}
	return rec, true
}

// setHealth is the single write path for health; status is always recomputed.
func (e *Engine) setHealth(st *nodeState, health int) {
	health = models.ClampHealth(health)
	wasDown := st.record.Health == 0
	st.record.Health = health
	st.record.Status = models.StatusForHealth(health)
	st.record.LastChecked = e.opts.Now()
	switch {
	case health == 0 && !wasDown:
		st.downSince = e.tick
		st.propagated = false
	case health > 0:
		st.downSince = 0
		st.propagated = false
	}
	metrics.SetNodeHealth(st.record.NodeID, health)
}

func (e *Engine) openIncident(st *nodeState, kind models.IncidentType, severity models.Severity, message string) {
	st.record.Incidents = append(st.record.Incidents, models.Incident{
		ID:        uuid.NewString(),
		NodeID:    st.record.NodeID,
		Type:      kind,
		Timestamp: e.opts.Now(),
		Severity:  severity,
		Message:   message,
	})
}

func (e *Engine) fail(id string, duration time.Duration) bool {
	st := e.store.state(id)
	if st == nil {
		e.logger.Debug("fail ignored for unknown node", slog.String("node", id))
		return false
	}
	if st.record.Health == 0 {
		return false
	}

	e.setHealth(st, 0)
	msg := fmt.Sprintf("%s failed", id)
	e.openIncident(st, models.IncidentFailure, models.SeverityCritical, msg)
	e.record(models.EventNodeFailed, id, msg, models.SeverityCritical)
	e.scheduleRecovery(id, duration)
	e.propagate(id)
	return true
}

func (e *Engine) degrade(id string, level int, duration time.Duration) bool {
	st := e.store.state(id)
	if st == nil {
		e.logger.Debug("degrade ignored for unknown node", slog.String("node", id))
		return false
	}
	level = models.ClampHealth(level)
	if level == st.record.Health {
		return false
	}

	e.setHealth(st, level)
	kind := models.IncidentDegradation
	if level == 0 {
		kind = models.IncidentFailure
	}
	severity := degradeSeverity(level)
	msg := fmt.Sprintf("%s degraded to %d%% health", id, level)
	e.openIncident(st, kind, severity, msg)
	e.record(models.EventNodeDegraded, id, msg, severity)
	e.scheduleRecovery(id, duration)
	if level == 0 {
		e.propagate(id)
	}
	return true
}

// recover restores full health locally; downstream nodes degraded by this
// node's outage are left for their own recovery.
func (e *Engine) recover(id, reason string) bool {
	st := e.store.state(id)
	if st == nil {
		return false
	}
	if st.record.Health == 100 && st.record.OpenIncidents() == 0 {
		return false
	}

	e.setHealth(st, 100)
	now := e.opts.Now()
	for i := range st.record.Incidents {
		inc := &st.record.Incidents[i]
		if inc.Resolved {
			continue
		}
		resolvedAt := now
		inc.Resolved = true
		inc.ResolvedAt = &resolvedAt
	}
	e.record(models.EventNodeRecovered, id, fmt.Sprintf("%s recovered (%s)", id, reason), models.SeverityInfo)
	return true
}

func degradeSeverity(level int) models.Severity {
	switch {
	case level == 0:
		return models.SeverityCritical
	case level < 50:
		return models.SeverityError
	default:
		return models.SeverityWarning
	}
}
