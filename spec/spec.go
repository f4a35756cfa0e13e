package spec

import (
	"log"
	"strings"

	"github.com/carpricer/site/cache"
	"github.com/carpricer/site/db"
)

// FeatureColumns is the exact column order the price model was trained
// against. Feature vectors must be assembled in this order.
var FeatureColumns = []string{
	"fuel_type",
	"engine_displacement",
	"no_cylinder",
	"seating_capacity",
	"transmission_type",
	"fuel_tank_capacity",
	"body_type",
	"max_torque_nm",
	"max_torque_rpm",
	"max_power_bhp",
	"max_power_rp",
}

// NumFeatures is the dimensionality of the model input
const NumFeatures = 11

// Row is one specification entry in the catalog. Categorical fields carry
// the numeric codes the model was trained on, not raw text.
type Row struct {
	ID    int    `db:"id"`
	Brand string `db:"brand"`
	Model string `db:"model"`

	FuelType           float64 `db:"fuel_type"`
	EngineDisplacement float64 `db:"engine_displacement"`
	NoCylinder         float64 `db:"no_cylinder"`
	SeatingCapacity    float64 `db:"seating_capacity"`
	TransmissionType   float64 `db:"transmission_type"`
	FuelTankCapacity   float64 `db:"fuel_tank_capacity"`
	BodyType           float64 `db:"body_type"`
	MaxTorqueNm        float64 `db:"max_torque_nm"`
	MaxTorqueRpm       float64 `db:"max_torque_rpm"`
	MaxPowerBhp        float64 `db:"max_power_bhp"`
	MaxPowerRp         float64 `db:"max_power_rp"`
}

// FeatureVector returns the row's features in the FeatureColumns order.
func (r Row) FeatureVector() []float64 {
	return []float64{
		r.FuelType,
		r.EngineDisplacement,
		r.NoCylinder,
		r.SeatingCapacity,
		r.TransmissionType,
		r.FuelTankCapacity,
		r.BodyType,
		r.MaxTorqueNm,
		r.MaxTorqueRpm,
		r.MaxPowerBhp,
		r.MaxPowerRp,
	}
}

// Catalog is the read-only specification table, loaded once at startup.
type Catalog struct {
	rows   []Row
	lookup *cache.Cache[[]Row]
}

// NewCatalog builds a catalog from rows already in insertion order.
func NewCatalog(rows []Row) (*Catalog, error) {
	lookup, err := cache.New(func(value []Row) int64 {
		return int64(len(value)+1) * 120
	}, "Specification Lookup Cache")
	if err != nil {
		return nil, err
	}
	return &Catalog{rows: rows, lookup: lookup}, nil
}

// LoadCatalog reads the Specification table into memory
func LoadCatalog() (*Catalog, error) {
	query := "SELECT id, brand, model, fuel_type, engine_displacement, no_cylinder, seating_capacity, transmission_type, fuel_tank_capacity, body_type, max_torque_nm, max_torque_rpm, max_power_bhp, max_power_rp FROM Specification ORDER BY id"
	var rows []Row
	if err := db.Select(&rows, query); err != nil {
		return nil, err
	}

	log.Printf("[spec] Loaded %d specification rows", len(rows))
	return NewCatalog(rows)
}

// FindByBrand returns all rows whose brand matches the query,
// case-insensitively and ignoring surrounding whitespace, in catalog order.
// An empty result means the brand is unknown; it is not an error.
func (c *Catalog) FindByBrand(brand string) []Row {
	key := strings.ToLower(strings.TrimSpace(brand))

	if cached, found := c.lookup.Get(key); found {
		return cached
	}

	var matches []Row
	for _, row := range c.rows {
		if strings.ToLower(row.Brand) == key {
			matches = append(matches, row)
		}
	}

	c.lookup.Set(key, matches, int64(len(matches)+1)*120)
	return matches
}

// Len returns the number of rows in the catalog
func (c *Catalog) Len() int {
	return len(c.rows)
}

// Stats returns lookup cache statistics for monitoring
func (c *Catalog) Stats() map[string]interface{} {
	return c.lookup.Stats()
}
