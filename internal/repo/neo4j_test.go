package repo

import (
	"testing"

	"github.com/miradorstack/mirador-twin/internal/models"
)

type fakeRecord map[string]any

func (f fakeRecord) Get(key string) (any, bool) {
	v, ok := f[key]
	return v, ok
}

func TestGraphFromRows(t *testing.T) {
	rows := []recordGetter{
		fakeRecord{"id": "api", "type": "service", "name": "API", "target": "web", "criticality": "high", "edgeType": nil, "edgeId": nil},
		fakeRecord{"id": "db", "type": "database", "name": nil, "target": "api", "criticality": "critical", "edgeType": "database", "edgeId": "db-api"},
		fakeRecord{"id": "db", "type": "database", "name": nil, "target": "cache", "criticality": nil, "edgeType": "cache", "edgeId": nil},
		fakeRecord{"id": "web", "type": "frontend", "target": nil},
		fakeRecord{"id": "cache", "type": "cache", "target": nil},
		fakeRecord{"id": nil},
	}

	graph := graphFromRows(rows)
	if len(graph.Nodes) != 4 {
		t.Fatalf("expected 4 unique nodes, got %+v", graph.Nodes)
	}
	if len(graph.Edges) != 3 {
		t.Fatalf("expected 3 edges, got %+v", graph.Edges)
	}
	if graph.Edges[1].ID != "db-api" || graph.Edges[1].Criticality != models.CriticalityCritical {
		t.Fatalf("unexpected edge mapping: %+v", graph.Edges[1])
	}
	if graph.Edges[2].Criticality != "" || graph.Edges[2].Type != "cache" {
		t.Fatalf("missing criticality should stay empty for policy defaults: %+v", graph.Edges[2])
	}
	if err := graph.Validate(); err != nil {
		t.Fatalf("mapped graph should validate: %v", err)
	}
}

func TestStringFieldFormatsNonStrings(t *testing.T) {
	if got := stringField(fakeRecord{"id": int64(7)}, "id"); got != "7" {
		t.Fatalf("expected numeric id formatted, got %q", got)
	}
	if got := stringField(fakeRecord{}, "id"); got != "" {
		t.Fatalf("expected empty for missing key, got %q", got)
	}
}
