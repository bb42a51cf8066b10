package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/miradorstack/mirador-twin/internal/cache"
	"github.com/miradorstack/mirador-twin/internal/models"
	"github.com/miradorstack/mirador-twin/internal/utils"
)

// EditorClient pulls the architecture graph from the editor's export endpoint.
type EditorClient struct {
	baseURL    string
	graphPath  string
	project    string
	httpClient *http.Client
	cache      cache.Provider
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewEditorClient constructs a client targeting the configured editor instance.
// A nil cache disables caching.
func NewEditorClient(baseURL, graphPath, project string, timeout time.Duration, provider cache.Provider, ttl time.Duration, logger *slog.Logger) *EditorClient {
	if provider == nil {
		provider = cache.NoopProvider{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EditorClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		graphPath:  graphPath,
		project:    project,
		httpClient: &http.Client{Timeout: timeout},
		cache:      provider,
		cacheTTL:   ttl,
		logger:     logger,
	}
}

type editorGraphResponse struct {
	Version string        `json:"version"`
	Nodes   []models.Node `json:"nodes"`
	Edges   []models.Edge `json:"edges"`
}

// LoadGraph fetches the graph, serving from cache when a fresh copy exists.
func (c *EditorClient) LoadGraph(ctx context.Context) (models.Graph, error) {
	if c == nil {
		return models.Graph{}, errors.New("editor client not initialised")
	}
	if c.baseURL == "" {
		return models.Graph{}, errors.New("editor base URL not configured")
	}

	key := c.cacheKey()
	if data, err := c.cache.Get(ctx, key); err == nil {
		var cached models.Graph
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("discarding undecodable cached graph", slog.String("key", key))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("graph cache lookup failed", slog.Any("error", err))
	}

	var response editorGraphResponse
	if err := c.getJSON(ctx, c.graphURL(), &response); err != nil {
		return models.Graph{}, utils.NewAppError("graph.editor", "fetch graph", err)
	}
	graph, err := checkGraph(models.Graph{Nodes: response.Nodes, Edges: response.Edges})
	if err != nil {
		return models.Graph{}, utils.NewAppError("graph.editor", "editor returned unusable graph", err)
	}

	if c.cacheTTL > 0 {
		if data, err := json.Marshal(graph); err == nil {
			if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
				c.logger.Warn("graph cache store failed", slog.Any("error", err))
			}
		}
	}
	c.logger.Debug("graph fetched from editor",
		slog.String("version", response.Version),
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)),
	)
	return graph, nil
}

// Invalidate drops the cached graph so the next load hits the editor.
func (c *EditorClient) Invalidate(ctx context.Context) error {
	return c.cache.Del(ctx, c.cacheKey())
}

func (c *EditorClient) cacheKey() string {
	project := c.project
	if project == "" {
		project = "default"
	}
	return "mirador-twin:graph:" + project
}

func (c *EditorClient) graphURL() string {
	endpoint := c.resolvePath(c.graphPath)
	if endpoint == "" || c.project == "" {
		return endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	q.Set("project", c.project)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *EditorClient) resolvePath(p string) string {
	if c.baseURL == "" {
		return ""
	}
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return c.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (c *EditorClient) getJSON(ctx context.Context, endpoint string, out any) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("editor returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
