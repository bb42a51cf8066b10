package models

import "time"

// BlastRadius summarises the severe fail-forward footprint of an epicenter.
type BlastRadius struct {
	Epicenter           string        `json:"epicenter"`
	Radius              int           `json:"radius"`
	AffectedNodes       []string      `json:"affectedNodes"`
	AffectedConnections []string      `json:"affectedConnections"`
	CriticalPath        []string      `json:"criticalPath"`
	EstimatedDowntime   time.Duration `json:"estimatedDowntime"`
	ServicesImpacted    int           `json:"servicesImpacted"`
}

// Contains reports whether id is among the affected nodes.
func (b BlastRadius) Contains(id string) bool {
	for _, n := range b.AffectedNodes {
		if n == id {
			return true
		}
	}
	return false
}
