package models

import (
	"errors"
	"fmt"
)

// ErrUnknownNode signals that an operation referenced a node outside the graph.
var ErrUnknownNode = errors.New("unknown node")

// Criticality weights a dependency edge and controls cascade severity.
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
)

// Valid reports whether c is one of the four known tiers.
func (c Criticality) Valid() bool {
	switch c {
	case CriticalityCritical, CriticalityHigh, CriticalityMedium, CriticalityLow:
		return true
	}
	return false
}

// Node is a single architectural component supplied by the external editor.
type Node struct {
	ID   string      `json:"id" yaml:"id" validate:"required"`
	Type string      `json:"type" yaml:"type"`
	Name string      `json:"name,omitempty" yaml:"name,omitempty"`
	SLA  *SLATargets `json:"sla,omitempty" yaml:"sla,omitempty"`
}

// Edge is a directed dependency: a failure of Source flows to Target.
type Edge struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Source      string      `json:"source" yaml:"source" validate:"required"`
	Target      string      `json:"target" yaml:"target" validate:"required"`
	Criticality Criticality `json:"criticality,omitempty" yaml:"criticality,omitempty" validate:"omitempty,oneof=critical high medium low"`
	Type        string      `json:"type,omitempty" yaml:"type,omitempty"`
}

// Key returns the edge identifier, deriving one from the endpoints when unset.
func (e Edge) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("%s->%s", e.Source, e.Target)
}

// Graph is the read-only dependency graph a simulation run is initialised from.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" yaml:"edges" validate:"dive"`
}
