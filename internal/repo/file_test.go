package repo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/miradorstack/mirador-twin/internal/models"
)

const sampleYAML = `nodes:
  - id: lb
    type: loadbalancer
  - id: api
    type: service
    sla:
      availability: 99.5
      latencyMs: 300
      errorRate: 2
  - id: db
    type: database
edges:
  - source: lb
    target: api
    criticality: high
  - source: db
    target: api
    type: database
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFileSourceYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	writeFile(t, path, sampleYAML)

	graph, err := NewFileSource(path).LoadGraph(context.Background())
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if len(graph.Nodes) != 3 || len(graph.Edges) != 2 {
		t.Fatalf("unexpected graph: %+v", graph)
	}
	if graph.Nodes[1].SLA == nil || graph.Nodes[1].SLA.LatencyMs != 300 {
		t.Fatalf("expected node SLA to decode, got %+v", graph.Nodes[1].SLA)
	}
	if graph.Edges[0].Criticality != models.CriticalityHigh {
		t.Fatalf("unexpected criticality %q", graph.Edges[0].Criticality)
	}
}

func TestFileSourceJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	writeFile(t, path, `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b","criticality":"critical"}]}`)

	graph, err := NewFileSource(path).LoadGraph(context.Background())
	if err != nil {
		t.Fatalf("LoadGraph: %v", err)
	}
	if graph.Edges[0].Key() != "a->b" {
		t.Fatalf("unexpected edge %+v", graph.Edges[0])
	}
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFileSource(filepath.Join(dir, "absent.yaml")).LoadGraph(context.Background()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	empty := filepath.Join(dir, "empty.yaml")
	writeFile(t, empty, "nodes: []\n")
	if _, err := NewFileSource(empty).LoadGraph(context.Background()); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "nodes:\n  - id: a\nedges:\n  - source: a\n    target: a\n    criticality: extreme\n")
	if _, err := NewFileSource(bad).LoadGraph(context.Background()); err == nil {
		t.Fatalf("expected invalid criticality to fail validation")
	}
}

func TestWatchFileReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	writeFile(t, path, sampleYAML)

	var mu sync.Mutex
	var reloaded []models.Graph
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, NewFileSource(path), 20*time.Millisecond, nil, func(g models.Graph) {
			mu.Lock()
			reloaded = append(reloaded, g)
			mu.Unlock()
		})
	}()

	deadline := time.Now().Add(3 * time.Second)
	for {
		writeFile(t, path, "nodes:\n  - id: only\n")
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		n := len(reloaded)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("watcher never reported a reload")
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("WatchFile returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if reloaded[0].Nodes[0].ID != "only" {
		t.Fatalf("unexpected reloaded graph: %+v", reloaded[0])
	}
}
