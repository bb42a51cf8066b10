package repo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/miradorstack/mirador-twin/internal/models"
	"github.com/miradorstack/mirador-twin/internal/utils"
)

const componentQuery = `
MATCH (c:Component)
OPTIONAL MATCH (c)-[d:DEPENDS_ON]->(t:Component)
RETURN c.id AS id, c.type AS type, c.name AS name,
       t.id AS target, d.id AS edgeId, d.criticality AS criticality, d.type AS edgeType
ORDER BY id`

// Neo4jSource reads (:Component)-[:DEPENDS_ON]->(:Component) topologies.
type Neo4jSource struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4jSource opens a driver against uri. Connectivity is verified lazily
// on the first load.
func NewNeo4jSource(uri, username, password, database string, logger *slog.Logger) (*Neo4jSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver, err := neo4j.NewDriverWithContext(
		uri,
		neo4j.BasicAuth(username, password, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionLifetime = 5 * time.Minute
			c.MaxConnectionPoolSize = 10
			c.ConnectionAcquisitionTimeout = 10 * time.Second
		},
	)
	if err != nil {
		return nil, utils.NewAppError("graph.neo4j", "create driver", err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jSource{driver: driver, database: database, logger: logger}, nil
}

// LoadGraph runs the component query and folds the rows into a graph.
func (s *Neo4jSource) LoadGraph(ctx context.Context) (models.Graph, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, componentQuery, nil)
	if err != nil {
		return models.Graph{}, utils.NewAppError("graph.neo4j", "run component query", err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return models.Graph{}, utils.NewAppError("graph.neo4j", "collect component rows", err)
	}

	rows := make([]recordGetter, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec)
	}
	graph := graphFromRows(rows)
	s.logger.Debug("graph read from neo4j", slog.Int("rows", len(records)), slog.Int("nodes", len(graph.Nodes)))
	return checkGraph(graph)
}

// Close releases the driver.
func (s *Neo4jSource) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

type recordGetter interface {
	Get(key string) (any, bool)
}

// graphFromRows builds a graph from one row per (component, dependency) pair.
// Components without dependencies appear once with a null target.
func graphFromRows(rows []recordGetter) models.Graph {
	graph := models.Graph{}
	seen := make(map[string]struct{})
	for _, row := range rows {
		id := stringField(row, "id")
		if id == "" {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			graph.Nodes = append(graph.Nodes, models.Node{
				ID:   id,
				Type: stringField(row, "type"),
				Name: stringField(row, "name"),
			})
		}
		target := stringField(row, "target")
		if target == "" {
			continue
		}
		graph.Edges = append(graph.Edges, models.Edge{
			ID:          stringField(row, "edgeId"),
			Source:      id,
			Target:      target,
			Criticality: models.Criticality(stringField(row, "criticality")),
			Type:        stringField(row, "edgeType"),
		})
	}
	return graph
}

func stringField(row recordGetter, key string) string {
	v, ok := row.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
