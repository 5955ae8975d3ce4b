// Package classify maps extracted concepts onto brain regions.
package classify

import (
	"strings"

	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/regions"
)

// Classifier assigns a region to a concept. It is deterministic for a fixed catalog.
type Classifier struct {
	catalog *regions.Catalog
}

// New creates a classifier over the given catalog.
func New(catalog *regions.Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify resolves a category (or group) label and the concept id to a region.
//
// An exact region id match wins. Otherwise regions are scanned in declaration
// order and the first one with a keyword contained in the label or the concept
// id is chosen. When nothing matches the catalog default is returned.
func (c *Classifier) Classify(label, conceptID string) domain.RegionID {
	norm := strings.ToLower(strings.TrimSpace(label))
	id := strings.ToLower(strings.TrimSpace(conceptID))

	if r, ok := c.catalog.Lookup(domain.RegionID(norm)); ok {
		return r.ID
	}

	for _, r := range c.catalog.All() {
		for _, k := range r.Keywords {
			if strings.Contains(norm, k) || strings.Contains(id, k) {
				return r.ID
			}
		}
	}

	return c.catalog.Default().ID
}

// ClassifyNode classifies an extracted node, preferring its category over its group.
func (c *Classifier) ClassifyNode(n domain.ExtractedNode) domain.RegionID {
	return c.Classify(Label(n), n.ID)
}

// Label returns the classification label of an extracted node: the category
// when present, the group otherwise.
func Label(n domain.ExtractedNode) string {
	if strings.TrimSpace(n.Category) != "" {
		return n.Category
	}
	return n.Group
}
