package models

import (
	"errors"
	"strings"

	"github.com/you/parkcast/internal/geo"
)

// Category is the land-use tag of a parking zone
type Category string

const (
	CategoryBusinessDistrict Category = "business_district"
	CategoryShopping         Category = "shopping"
	CategoryResidential      Category = "residential"
	CategoryEducational      Category = "educational"
	CategoryStadium          Category = "stadium"
	CategoryMixed            Category = "mixed"
)

// DefaultCapacity is used when a zone is unknown or carries no capacity
const DefaultCapacity = 20

// AllCategories returns every supported zone category
func AllCategories() []Category {
	return []Category{
		CategoryBusinessDistrict,
		CategoryShopping,
		CategoryResidential,
		CategoryEducational,
		CategoryStadium,
		CategoryMixed,
	}
}

// categoryAliases accepts the labels used by the model pipeline and older seed files
var categoryAliases = map[string]Category{
	"business":          CategoryBusinessDistrict,
	"business_district": CategoryBusinessDistrict,
	"commercial":        CategoryBusinessDistrict,
	"shopping":          CategoryShopping,
	"residential":       CategoryResidential,
	"educational":       CategoryEducational,
	"university":        CategoryEducational,
	"stadium":           CategoryStadium,
	"event":             CategoryStadium,
	"mixed":             CategoryMixed,
}

// ParseCategory resolves a category label, case-insensitively.
// Returns false for labels outside the closed set.
func ParseCategory(label string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	c, ok := categoryAliases[key]
	return c, ok
}

// Zone is a fixed, named parking area. Zones are reference data: they are
// seeded once and never mutated by the prediction engine.
type Zone struct {
	ID          int      `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Latitude    float64  `db:"latitude" json:"lat"`
	Longitude   float64  `db:"longitude" json:"lng"`
	Category    Category `db:"category" json:"category"`
	Capacity    int      `db:"capacity" json:"capacity"`
	Description *string  `db:"description" json:"description,omitempty"`

	// Identifier of the zone in the trained model's own id space (e.g. "BF_001").
	// Nil means the model does not cover this zone.
	ModelZoneID *string `db:"model_zone_id" json:"-"`
}

// Location returns the zone's coordinates as a geo point
func (z *Zone) Location() geo.Point {
	return geo.Point{Lat: z.Latitude, Lng: z.Longitude}
}

// Validate checks if the Zone has usable reference data
func (z *Zone) Validate() error {
	if z.ID <= 0 {
		return errors.New("id must be positive")
	}
	if strings.TrimSpace(z.Name) == "" {
		return errors.New("name is required")
	}
	if !geo.IsValidCoordinate(z.Location()) {
		return errors.New("coordinates out of range: latitude must be within [-90, 90], longitude within [-180, 180]")
	}
	if _, ok := ParseCategory(string(z.Category)); !ok {
		return errors.New("unknown category: " + string(z.Category))
	}
	if z.Capacity <= 0 {
		return errors.New("capacity must be positive")
	}
	return nil
}
