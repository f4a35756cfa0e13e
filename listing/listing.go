package listing

import (
	"log"
	"math"

	"github.com/carpricer/site/db"
)

// Row is one observed listing. Brand, model, price and the power figures
// are kept for matching but stripped from display output.
type Row struct {
	ID    int     `db:"id"`
	Brand string  `db:"brand"`
	Model string  `db:"model"`
	Price float64 `db:"price"`

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

	// Descriptive attributes, passed through to the caller unmodified.
	MileageKm        float64 `db:"mileage_km"`
	RegistrationYear int     `db:"registration_year"`
	Location         string  `db:"location"`
	OwnerCount       int     `db:"owner_count"`
}

// DisplayAttributes returns the listing's presentable fields. Price, the
// power figures, model and brand are excluded: they either duplicate the
// query, leak the match metric, or are model-internal features.
func (r Row) DisplayAttributes() map[string]interface{} {
	return map[string]interface{}{
		"fuel_type":           r.FuelType,
		"engine_displacement": r.EngineDisplacement,
		"no_cylinder":         r.NoCylinder,
		"seating_capacity":    r.SeatingCapacity,
		"transmission_type":   r.TransmissionType,
		"fuel_tank_capacity":  r.FuelTankCapacity,
		"body_type":           r.BodyType,
		"max_torque_nm":       r.MaxTorqueNm,
		"max_torque_rpm":      r.MaxTorqueRpm,
		"mileage_km":          r.MileageKm,
		"registration_year":   r.RegistrationYear,
		"location":            r.Location,
		"owner_count":         r.OwnerCount,
	}
}

// Catalog is the read-only listing table, loaded once at startup.
type Catalog struct {
	rows []Row
}

// NewCatalog builds a catalog from rows already in insertion order.
func NewCatalog(rows []Row) *Catalog {
	return &Catalog{rows: rows}
}

// LoadCatalog reads the Listing table into memory
func LoadCatalog() (*Catalog, error) {
	query := "SELECT id, brand, model, price, fuel_type, engine_displacement, no_cylinder, seating_capacity, transmission_type, fuel_tank_capacity, body_type, max_torque_nm, max_torque_rpm, max_power_bhp, max_power_rp, mileage_km, registration_year, location, owner_count FROM Listing ORDER BY id"
	var rows []Row
	if err := db.Select(&rows, query); err != nil {
		return nil, err
	}

	log.Printf("[listing] Loaded %d listings", len(rows))
	return NewCatalog(rows), nil
}

// NearestWithinTolerance returns the listing whose price is closest to
// target, provided the absolute distance is at most tolerance. Distances
// are computed into locals on every call; stored rows are never touched.
// Ties keep the first row in catalog order.
func (c *Catalog) NearestWithinTolerance(target, tolerance float64) (Row, bool) {
	var best Row
	bestDist := math.Inf(1)
	found := false

	for _, row := range c.rows {
		dist := math.Abs(row.Price - target)
		if dist > tolerance {
			continue
		}
		if dist < bestDist {
			best = row
			bestDist = dist
			found = true
		}
	}

	return best, found
}

// Len returns the number of rows in the catalog
func (c *Catalog) Len() int {
	return len(c.rows)
}
