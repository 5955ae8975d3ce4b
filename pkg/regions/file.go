package regions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/cortex/pkg/domain"
	"gopkg.in/yaml.v3"
)

// regionDef is the on-file shape of a region. Anchors are written as [x, y, z].
type regionDef struct {
	ID       string    `yaml:"id" json:"id"`
	Label    string    `yaml:"label" json:"label"`
	Anchor   []float64 `yaml:"anchor" json:"anchor"`
	Color    string    `yaml:"color" json:"color"`
	Keywords []string  `yaml:"keywords" json:"keywords"`
}

// File represents the structure of a regions.yaml file.
type File struct {
	Default string      `yaml:"default" json:"default"`
	Regions []regionDef `yaml:"regions" json:"regions"`
}

// LoadFile reads a region file (YAML or JSON, by extension) and builds a catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}

	var f File
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse regions json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse regions yaml: %w", err)
		}
	}

	return f.Catalog()
}

// Catalog converts the file definitions into a validated catalog.
// An empty default falls back to "memory".
func (f File) Catalog() (*Catalog, error) {
	defs := make([]domain.Region, 0, len(f.Regions))
	for _, r := range f.Regions {
		if len(r.Anchor) != 3 {
			return nil, fmt.Errorf("%w: region %q anchor must have 3 coordinates, got %d",
				domain.ErrInvalidCatalog, r.ID, len(r.Anchor))
		}
		defs = append(defs, domain.Region{
			ID:       domain.RegionID(r.ID),
			Label:    r.Label,
			Anchor:   domain.Vec3{X: r.Anchor[0], Y: r.Anchor[1], Z: r.Anchor[2]},
			Color:    r.Color,
			Keywords: r.Keywords,
		})
	}

	def := domain.RegionID(f.Default)
	if def == "" {
		def = domain.RegionMemory
	}
	return New(defs, def)
}
