package engine

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/mirador-twin/internal/models"
)

// Policy resolves defaults the graph leaves implicit: edge criticality by edge
// type and SLA targets by node type.
type Policy struct {
	EdgeDefaults map[string]models.Criticality `yaml:"edgeDefaults"`
	SLARules     []SLARule                     `yaml:"sla"`
}

// SLARule assigns targets to every node matching its selector.
type SLARule struct {
	ID      string            `yaml:"id"`
	Match   SLAMatch          `yaml:"match"`
	Targets models.SLATargets `yaml:"targets"`
}

// SLAMatch defines optional attributes for rule matching.
type SLAMatch struct {
	NodeType string `yaml:"type"`
	IDPrefix string `yaml:"id_prefix"`
}

var builtinEdgeDefaults = map[string]models.Criticality{
	"database":   models.CriticalityCritical,
	"auth":       models.CriticalityCritical,
	"storage":    models.CriticalityHigh,
	"queue":      models.CriticalityHigh,
	"api":        models.CriticalityHigh,
	"service":    models.CriticalityHigh,
	"cache":      models.CriticalityMedium,
	"search":     models.CriticalityMedium,
	"cdn":        models.CriticalityLow,
	"monitoring": models.CriticalityLow,
	"logging":    models.CriticalityLow,
}

// DefaultPolicy returns the built-in edge-type mapping and no SLA rules.
func DefaultPolicy() *Policy {
	defaults := make(map[string]models.Criticality, len(builtinEdgeDefaults))
	for k, v := range builtinEdgeDefaults {
		defaults[k] = v
	}
	return &Policy{EdgeDefaults: defaults}
}

// LoadPolicy reads a policy pack from path, layering it over the built-in
// defaults. A missing or empty path yields DefaultPolicy.
func LoadPolicy(path string, logger *slog.Logger) (*Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("policy pack not found, using defaults", slog.String("path", path))
			return policy, nil
		}
		return nil, err
	}

	var file Policy
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	for edgeType, crit := range file.EdgeDefaults {
		if !crit.Valid() {
			logger.Warn("ignoring invalid edge default", slog.String("type", edgeType), slog.String("criticality", string(crit)))
			continue
		}
		policy.EdgeDefaults[strings.ToLower(edgeType)] = crit
	}
	policy.SLARules = file.SLARules
	return policy, nil
}

// CriticalityFor resolves an edge's criticality: explicit value, then the
// default for its type, then medium.
func (p *Policy) CriticalityFor(edge models.Edge) models.Criticality {
	if edge.Criticality.Valid() {
		return edge.Criticality
	}
	if p != nil && edge.Type != "" {
		if crit, ok := p.EdgeDefaults[strings.ToLower(edge.Type)]; ok {
			return crit
		}
	}
	return models.CriticalityMedium
}

// SLAFor returns the targets for node: its own targets, then the first
// matching rule, then fallback.
func (p *Policy) SLAFor(node models.Node, fallback models.SLATargets) models.SLATargets {
	if node.SLA != nil {
		return *node.SLA
	}
	if p == nil {
		return fallback
	}
	for _, rule := range p.SLARules {
		if rule.Match.NodeType != "" && !strings.EqualFold(rule.Match.NodeType, node.Type) {
			continue
		}
		if rule.Match.IDPrefix != "" && !strings.HasPrefix(node.ID, rule.Match.IDPrefix) {
			continue
		}
		return rule.Targets
	}
	return fallback
}
