// Package dataset allocates cloud dataset identifiers for converted nodes.
//
// An Allocator is created per document conversion so that sequence numbers
// never leak between documents converted concurrently.
package dataset

import (
	"github.com/viant/wfcloud/model/rule"
	"strconv"
	"strings"
)

// Allocation represents an allocated dataset
type Allocation struct {
	ID  string
	URI string
	// Catalog is set when the dataset comes from the catalog
	Catalog bool
}

// Allocator assigns dataset ids to converted nodes
type Allocator struct {
	base     int64
	step     int64
	strategy string
	catalog  []*rule.Dataset
	count    int64
}

// Allocate returns dataset for a converted node
func (a *Allocator) Allocate(toolID int, fileName string) *Allocation {
	if dataset := a.lookup(fileName); dataset != nil {
		return &Allocation{ID: dataset.ID, URI: dataset.URI, Catalog: true}
	}
	var id int64
	switch a.strategy {
	case rule.StrategyToolID:
		id = a.base + int64(toolID)
	default:
		id = a.base + a.count*a.step
		a.count++
	}
	return &Allocation{ID: strconv.FormatInt(id, 10)}
}

// lookup matches catalog entries by name (case-insensitive), then by stem containment
func (a *Allocator) lookup(fileName string) *rule.Dataset {
	if fileName == "" || len(a.catalog) == 0 {
		return nil
	}
	for _, candidate := range a.catalog {
		if strings.EqualFold(candidate.Name, fileName) {
			return candidate
		}
	}
	lowerName := strings.ToLower(fileName)
	for _, candidate := range a.catalog {
		stem := strings.ToLower(candidate.Name)
		if index := strings.LastIndexByte(stem, '.'); index > 0 {
			stem = stem[:index]
		}
		if stem != "" && strings.Contains(lowerName, stem) {
			return candidate
		}
	}
	return nil
}

// New creates an allocator for dataset settings, base overrides settings base when non zero
func New(settings *rule.Datasets, base int64) *Allocator {
	ret := &Allocator{step: 1, strategy: rule.StrategySequence}
	if settings != nil {
		ret.base = settings.Base
		if settings.Step > 0 {
			ret.step = settings.Step
		}
		if settings.Strategy != "" {
			ret.strategy = settings.Strategy
		}
		ret.catalog = settings.Catalog
	}
	if base != 0 {
		ret.base = base
	}
	return ret
}
