// Package zones holds the immutable in-memory view of the parking zone
// reference data used by the prediction engine.
package zones

import (
	"fmt"
	"sort"

	"github.com/you/parkcast/models"
)

// Catalog is a read-only set of zones indexed by id.
// It is safe for concurrent use once built.
type Catalog struct {
	ordered []models.Zone
	byID    map[int]int
}

// NewCatalog builds a catalog from zones, ordered by id.
// Zones failing validation or sharing an id are rejected.
func NewCatalog(zones []models.Zone) (*Catalog, error) {
	ordered := make([]models.Zone, len(zones))
	copy(ordered, zones)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	byID := make(map[int]int, len(ordered))
	for i := range ordered {
		z := &ordered[i]
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("invalid zone %d (%q): %w", z.ID, z.Name, err)
		}
		if c, ok := models.ParseCategory(string(z.Category)); ok {
			z.Category = c
		}
		if _, dup := byID[z.ID]; dup {
			return nil, fmt.Errorf("duplicate zone id %d", z.ID)
		}
		byID[z.ID] = i
	}

	return &Catalog{ordered: ordered, byID: byID}, nil
}

// Zone returns the zone with the given id
func (c *Catalog) Zone(id int) (models.Zone, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Zone{}, false
	}
	return c.ordered[i], true
}

// All returns every zone in catalog order. The slice is a copy.
func (c *Catalog) All() []models.Zone {
	out := make([]models.Zone, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of zones
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// Capacity returns the zone capacity, or models.DefaultCapacity for unknown zones
func (c *Catalog) Capacity(id int) int {
	if z, ok := c.Zone(id); ok && z.Capacity > 0 {
		return z.Capacity
	}
	return models.DefaultCapacity
}

// ModelZoneID maps a zone id into the model's own identifier space
func (c *Catalog) ModelZoneID(id int) (string, bool) {
	z, ok := c.Zone(id)
	if !ok || z.ModelZoneID == nil || *z.ModelZoneID == "" {
		return "", false
	}
	return *z.ModelZoneID, true
}

// ModelZoneIDs returns every mapped model zone id keyed by zone id
func (c *Catalog) ModelZoneIDs() map[int]string {
	out := make(map[int]string)
	for _, z := range c.ordered {
		if z.ModelZoneID != nil && *z.ModelZoneID != "" {
			out[z.ID] = *z.ModelZoneID
		}
	}
	return out
}
