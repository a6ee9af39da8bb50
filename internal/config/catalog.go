package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/you/parkcast/models"
)

// defaultCatalogYAML is the zone catalog shipped with the binary.
//
//go:embed zones.yaml
var defaultCatalogYAML []byte

// ZoneSpec is one zone entry of the catalog file
type ZoneSpec struct {
	ID          int     `yaml:"id"`
	Name        string  `yaml:"name"`
	Lat         float64 `yaml:"lat"`
	Lng         float64 `yaml:"lng"`
	Category    string  `yaml:"category"`
	Capacity    int     `yaml:"capacity"`
	Description string  `yaml:"description"`
	ModelZoneID string  `yaml:"model_zone_id"`
}

// Catalog is the parsed zone catalog file
type Catalog struct {
	Zones            []ZoneSpec     `yaml:"zones"`
	EventZoneAliases map[string]int `yaml:"event_zone_aliases"`
}

// LoadCatalog reads the catalog at path, or the embedded default when path is empty
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read zone catalog: %w", err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML and validates every zone
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse zone catalog: %w", err)
	}
	if len(c.Zones) == 0 {
		return nil, fmt.Errorf("zone catalog has no zones")
	}

	for _, z := range c.ModelZones() {
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("zone %d: %w", z.ID, err)
		}
	}
	for alias, zoneID := range c.EventZoneAliases {
		if !c.hasZone(zoneID) {
			return nil, fmt.Errorf("event alias %s points at unknown zone %d", alias, zoneID)
		}
	}
	return &c, nil
}

// ModelZones converts catalog entries into zone models
func (c *Catalog) ModelZones() []models.Zone {
	out := make([]models.Zone, 0, len(c.Zones))
	for _, s := range c.Zones {
		category, ok := models.ParseCategory(s.Category)
		if !ok {
			category = models.Category(s.Category)
		}
		z := models.Zone{
			ID:        s.ID,
			Name:      s.Name,
			Latitude:  s.Lat,
			Longitude: s.Lng,
			Category:  category,
			Capacity:  s.Capacity,
		}
		if s.Description != "" {
			desc := s.Description
			z.Description = &desc
		}
		if s.ModelZoneID != "" {
			mid := s.ModelZoneID
			z.ModelZoneID = &mid
		}
		out = append(out, z)
	}
	return out
}

func (c *Catalog) hasZone(id int) bool {
	for _, z := range c.Zones {
		if z.ID == id {
			return true
		}
	}
	return false
}
