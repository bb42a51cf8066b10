package repo

import (
	"context"
	"errors"

	"github.com/miradorstack/mirador-twin/internal/models"
)

// ErrEmptyGraph signals a source that returned no nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// GraphSource loads the dependency graph a simulation run is built from.
type GraphSource interface {
	LoadGraph(ctx context.Context) (models.Graph, error)
}

// checkGraph applies the checks every source shares before handing a graph out.
func checkGraph(g models.Graph) (models.Graph, error) {
	if len(g.Nodes) == 0 {
		return models.Graph{}, ErrEmptyGraph
	}
	if err := g.Validate(); err != nil {
		return models.Graph{}, err
	}
	return g, nil
}
