package engine

import (
	"fmt"

	"github.com/miradorstack/mirador-twin/internal/models"
)

// impactFor maps criticality onto the health removed from a dependent node.
func impactFor(c models.Criticality) int {
	switch c {
	case models.CriticalityCritical:
		return 100
	case models.CriticalityHigh:
		return 70
	case models.CriticalityLow:
		return 20
	default:
		return 40
	}
}

// propagate cascades the outage of failedID along its outgoing edges.
func (e *Engine) propagate(failedID string) {
	e.propagateFrom(failedID, make(map[string]struct{}))
}

// propagateFrom reduces each dependent's health by the edge impact. Dependents
// reaching zero cascade further; visited guards against re-entry on cycles.
// Deltas from separate failing upstreams add up.
func (e *Engine) propagateFrom(failedID string, visited map[string]struct{}) {
	if _, seen := visited[failedID]; seen {
		return
	}
	visited[failedID] = struct{}{}
	if st := e.store.state(failedID); st != nil {
		st.propagated = true
	}

	for _, edge := range e.graph.outEdges(failedID) {
		target := e.store.state(edge.Target)
		if target == nil {
			continue
		}
		crit := e.opts.Policy.CriticalityFor(edge)
		before := target.record.Health
		after := models.ClampHealth(before - impactFor(crit))
		if after >= before {
			continue
		}

		e.setHealth(target, after)
		kind, severity := models.IncidentDegradation, models.SeverityWarning
		if after == 0 {
			kind, severity = models.IncidentFailure, models.SeverityError
		}
		msg := fmt.Sprintf("cascade from %s (%s): health %d -> %d", failedID, crit, before, after)
		e.openIncident(target, kind, severity, msg)
		e.record(models.EventCascadeStarted, edge.Target, msg, severity)

		if after == 0 {
			e.propagateFrom(edge.Target, visited)
		}
	}
}

// recheckCascades propagates outages that have not been cascaded yet.
func (e *Engine) recheckCascades() {
	for _, node := range e.graph.nodes {
		st := e.store.state(node.ID)
		if st.record.Health == 0 && !st.propagated {
			e.propagate(node.ID)
		}
	}
}
