package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks field constraints and referential integrity of a graph.
func (g Graph) Validate() error {
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}

	seen := make(map[string]struct{}, len(g.Nodes))
	for _, node := range g.Nodes {
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("invalid graph: duplicate node id %q", node.ID)
		}
		seen[node.ID] = struct{}{}
	}

	var dangling []string
	for _, edge := range g.Edges {
		if _, ok := seen[edge.Source]; !ok {
			dangling = append(dangling, edge.Source)
		}
		if _, ok := seen[edge.Target]; !ok {
			dangling = append(dangling, edge.Target)
		}
	}
	if len(dangling) > 0 {
		return fmt.Errorf("invalid graph: edges reference %w: %s", ErrUnknownNode, strings.Join(dangling, ", "))
	}
	return nil
}
