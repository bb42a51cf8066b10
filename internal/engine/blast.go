package engine

import (
	"time"

	"github.com/miradorstack/mirador-twin/internal/models"
)

// blastRadius walks outgoing critical and high edges breadth-first from the
// epicenter. Lower tiers still cascade during a run but are left out here.
// The critical path is the first deepest path found in BFS order.
func blastRadius(g *graphIndex, policy *Policy, epicenter string, minutesPerHop int) models.BlastRadius {
	result := models.BlastRadius{
		Epicenter:           epicenter,
		AffectedNodes:       []string{},
		AffectedConnections: []string{},
		CriticalPath:        []string{},
	}
	if !g.has(epicenter) {
		return result
	}

	depth := map[string]int{epicenter: 0}
	parent := map[string]string{}
	seenEdges := map[string]struct{}{}
	queue := []string{epicenter}
	result.AffectedNodes = append(result.AffectedNodes, epicenter)
	deepest := epicenter

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range g.outEdges(current) {
			crit := policy.CriticalityFor(edge)
			if crit != models.CriticalityCritical && crit != models.CriticalityHigh {
				continue
			}
			if _, ok := seenEdges[edge.Key()]; !ok {
				seenEdges[edge.Key()] = struct{}{}
				result.AffectedConnections = append(result.AffectedConnections, edge.Key())
			}
			if _, visited := depth[edge.Target]; visited {
				continue
			}
			depth[edge.Target] = depth[current] + 1
			parent[edge.Target] = current
			result.AffectedNodes = append(result.AffectedNodes, edge.Target)
			queue = append(queue, edge.Target)
			if depth[edge.Target] > depth[deepest] {
				deepest = edge.Target
			}
		}
	}

	result.Radius = depth[deepest]
	path := []string{deepest}
	for node := deepest; node != epicenter; {
		node = parent[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	result.CriticalPath = path
	result.EstimatedDowntime = time.Duration(result.Radius*minutesPerHop) * time.Minute
	result.ServicesImpacted = len(result.AffectedNodes)
	return result
}
