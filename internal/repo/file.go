package repo

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/mirador-twin/internal/models"
	"github.com/miradorstack/mirador-twin/internal/utils"
)

// FileSource reads a graph from a YAML or JSON document on disk.
type FileSource struct {
	path string
}

// NewFileSource constructs a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads from.
func (s *FileSource) Path() string { return s.path }

// LoadGraph parses and validates the file. JSON is valid YAML, so one decoder
// serves both formats.
func (s *FileSource) LoadGraph(ctx context.Context) (models.Graph, error) {
	if err := ctx.Err(); err != nil {
		return models.Graph{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.Graph{}, utils.NewAppError("graph.file", fmt.Sprintf("read %s", s.path), err)
	}
	return DecodeGraph(data)
}

// DecodeGraph parses a YAML or JSON graph document and validates it.
func DecodeGraph(data []byte) (models.Graph, error) {
	var g models.Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return models.Graph{}, utils.NewAppError("graph.decode", "parse graph document", err)
	}
	return checkGraph(g)
}
