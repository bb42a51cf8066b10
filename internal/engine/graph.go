package engine

import (
	"github.com/miradorstack/mirador-twin/internal/models"
)

// graphIndex is an arena view of a graph snapshot: nodes and edges live in
// slices and reference each other by index only, so cycles need no special care.
type graphIndex struct {
	nodes    []models.Node
	edges    []models.Edge
	byID     map[string]int
	outgoing [][]int
}

func newGraphIndex(g models.Graph) *graphIndex {
	idx := &graphIndex{
		nodes:    append([]models.Node(nil), g.Nodes...),
		edges:    append([]models.Edge(nil), g.Edges...),
		byID:     make(map[string]int, len(g.Nodes)),
		outgoing: make([][]int, len(g.Nodes)),
	}
	for i, node := range idx.nodes {
		idx.byID[node.ID] = i
	}
	for i, edge := range idx.edges {
		src, ok := idx.byID[edge.Source]
		if !ok {
			continue
		}
		if _, ok := idx.byID[edge.Target]; !ok {
			continue
		}
		idx.outgoing[src] = append(idx.outgoing[src], i)
	}
	return idx
}

func (g *graphIndex) has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// outEdges returns the outgoing edges of id in declaration order.
func (g *graphIndex) outEdges(id string) []models.Edge {
	pos, ok := g.byID[id]
	if !ok {
		return nil
	}
	out := make([]models.Edge, 0, len(g.outgoing[pos]))
	for _, ei := range g.outgoing[pos] {
		out = append(out, g.edges[ei])
	}
	return out
}

func (g *graphIndex) snapshot() models.Graph {
	return models.Graph{
		Nodes: append([]models.Node(nil), g.nodes...),
		Edges: append([]models.Edge(nil), g.edges...),
	}
}
