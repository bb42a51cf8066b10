package repo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/miradorstack/mirador-twin/internal/models"
	"github.com/miradorstack/mirador-twin/internal/utils"
)

const editorPayload = `{
  "version": "42",
  "nodes": [{"id": "web", "type": "frontend"}, {"id": "db", "type": "database"}],
  "edges": [{"source": "db", "target": "web", "type": "database"}]
}`

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func TestEditorClientCachesGraph(t *testing.T) {
	hits := 0
	cacheStub := newStubCache()
	client := NewEditorClient("https://editor.example.com/base", "/api/v1/architecture/graph", "shop", time.Second, cacheStub, time.Minute, nil)
	client.httpClient = newTestClient(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		hits++
		if req.URL.Path != "/base/api/v1/architecture/graph" {
			t.Fatalf("unexpected path: %s", req.URL.Path)
		}
		if req.URL.Query().Get("project") != "shop" {
			t.Fatalf("expected project query, got %s", req.URL.RawQuery)
		}
		return jsonResponse(http.StatusOK, editorPayload), nil
	}))

	ctx := context.Background()
	graph, err := client.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graph.Nodes) != 2 || len(graph.Edges) != 1 {
		t.Fatalf("unexpected graph: %+v", graph)
	}
	if cacheStub.ttls["mirador-twin:graph:shop"] != time.Minute {
		t.Fatalf("expected graph cached with ttl, got %v", cacheStub.ttls)
	}

	cached, err := client.LoadGraph(ctx)
	if err != nil {
		t.Fatalf("unexpected cached error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("cache miss triggered network call; hits=%d", hits)
	}
	if cached.Nodes[1].ID != "db" {
		t.Fatalf("unexpected cached payload: %+v", cached)
	}

	if err := client.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := client.LoadGraph(ctx); err != nil {
		t.Fatalf("reload after invalidate: %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected refetch after invalidate; hits=%d", hits)
	}
}

func TestEditorClientUpstreamError(t *testing.T) {
	client := NewEditorClient("https://editor.example.com", "/graph", "", time.Second, nil, 0, nil)
	client.httpClient = newTestClient(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, "{}"), nil
	}))

	_, err := client.LoadGraph(context.Background())
	if err == nil {
		t.Fatalf("expected error for non-200 response")
	}
	if utils.OpOf(err) != "graph.editor" {
		t.Fatalf("expected graph.editor op, got %q", utils.OpOf(err))
	}
}

func TestEditorClientRejectsDanglingEdges(t *testing.T) {
	client := NewEditorClient("https://editor.example.com", "/graph", "", time.Second, nil, 0, nil)
	client.httpClient = newTestClient(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"ghost"}]}`), nil
	}))

	_, err := client.LoadGraph(context.Background())
	if !errors.Is(err, models.ErrUnknownNode) {
		t.Fatalf("expected unknown node error, got %v", err)
	}
}

func TestEditorClientEmptyGraph(t *testing.T) {
	client := NewEditorClient("https://editor.example.com", "/graph", "", time.Second, nil, 0, nil)
	client.httpClient = newTestClient(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"nodes":[],"edges":[]}`), nil
	}))

	if _, err := client.LoadGraph(context.Background()); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestEditorClientRequiresBaseURL(t *testing.T) {
	client := NewEditorClient("", "/graph", "", time.Second, nil, 0, nil)
	if _, err := client.LoadGraph(context.Background()); err == nil {
		t.Fatalf("expected error without base URL")
	}
}
