package regions

import (
	"fmt"
	"strings"

	"github.com/aretw0/cortex/pkg/domain"
)

// MaxRegions bounds the size of a catalog.
const MaxRegions = 10

// Catalog is a read-only registry of regions keyed by id.
// Safe for concurrent use since it is never mutated after New.
type Catalog struct {
	ordered   []domain.Region
	index     map[domain.RegionID]int
	defaultID domain.RegionID
}

// New validates the definitions and builds a catalog.
// Region ids and keywords are normalized to lowercase; declaration order is kept.
func New(defs []domain.Region, defaultID domain.RegionID) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no regions defined", domain.ErrInvalidCatalog)
	}
	if len(defs) > MaxRegions {
		return nil, fmt.Errorf("%w: %d regions exceed the limit of %d", domain.ErrInvalidCatalog, len(defs), MaxRegions)
	}

	c := &Catalog{
		ordered: make([]domain.Region, 0, len(defs)),
		index:   make(map[domain.RegionID]int, len(defs)),
	}

	for i, def := range defs {
		id := domain.NormalizeRegionID(string(def.ID))
		if id == "" {
			return nil, fmt.Errorf("%w: region #%d has no id", domain.ErrInvalidCatalog, i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("%w: duplicate region %q", domain.ErrInvalidCatalog, id)
		}

		keywords := make([]string, 0, len(def.Keywords))
		for _, k := range def.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}

		region := def
		region.ID = id
		region.Keywords = keywords
		if region.Label == "" {
			region.Label = string(id)
		}

		c.index[id] = len(c.ordered)
		c.ordered = append(c.ordered, region)
	}

	def := domain.NormalizeRegionID(string(defaultID))
	if _, ok := c.index[def]; !ok {
		return nil, fmt.Errorf("%w: default %w %q", domain.ErrInvalidCatalog, domain.ErrUnknownRegion, def)
	}
	c.defaultID = def

	return c, nil
}

// Lookup returns the region with the given id (case-insensitive).
func (c *Catalog) Lookup(id domain.RegionID) (domain.Region, bool) {
	i, ok := c.index[domain.NormalizeRegionID(string(id))]
	if !ok {
		return domain.Region{}, false
	}
	return copyRegion(c.ordered[i]), true
}

// All returns every region in declaration order.
func (c *Catalog) All() []domain.Region {
	out := make([]domain.Region, len(c.ordered))
	for i, r := range c.ordered {
		out[i] = copyRegion(r)
	}
	return out
}

// Default returns the fallback region used when nothing else matches.
func (c *Catalog) Default() domain.Region {
	return copyRegion(c.ordered[c.index[c.defaultID]])
}

// Len returns the number of regions.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

func copyRegion(r domain.Region) domain.Region {
	kw := make([]string, len(r.Keywords))
	copy(kw, r.Keywords)
	r.Keywords = kw
	return r
}
