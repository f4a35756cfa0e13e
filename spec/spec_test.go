package spec

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/carpricer/site/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []Row {
	return []Row{
		{ID: 1, Brand: "Toyota", Model: "Corolla", FuelType: 1, EngineDisplacement: 1800, NoCylinder: 4, SeatingCapacity: 5},
		{ID: 2, Brand: "Toyota", Model: "Fortuner", FuelType: 2, EngineDisplacement: 2800, NoCylinder: 4, SeatingCapacity: 7},
		{ID: 3, Brand: "Honda", Model: "City", FuelType: 1, EngineDisplacement: 1500, NoCylinder: 4, SeatingCapacity: 5},
	}
}

func TestFindByBrand(t *testing.T) {
	catalog, err := NewCatalog(testRows())
	require.NoError(t, err)

	matches := catalog.FindByBrand("Toyota")
	require.Len(t, matches, 2)
	assert.Equal(t, "Corolla", matches[0].Model)
	assert.Equal(t, "Fortuner", matches[1].Model)
}

func TestFindByBrandCaseInsensitive(t *testing.T) {
	catalog, err := NewCatalog(testRows())
	require.NoError(t, err)

	assert.Len(t, catalog.FindByBrand("TOYOTA"), 2)
	assert.Len(t, catalog.FindByBrand("toyota"), 2)
	assert.Len(t, catalog.FindByBrand("tOyOtA"), 2)
}

func TestFindByBrandTrimsWhitespace(t *testing.T) {
	catalog, err := NewCatalog(testRows())
	require.NoError(t, err)

	matches := catalog.FindByBrand("  Honda \t")
	require.Len(t, matches, 1)
	assert.Equal(t, "City", matches[0].Model)
}

func TestFindByBrandUnknown(t *testing.T) {
	catalog, err := NewCatalog(testRows())
	require.NoError(t, err)

	assert.Empty(t, catalog.FindByBrand("Ferrari"))
}

func TestFindByBrandPreservesInsertionOrder(t *testing.T) {
	rows := []Row{
		{ID: 1, Brand: "Tata", Model: "Nexon"},
		{ID: 2, Brand: "Tata", Model: "Harrier"},
		{ID: 3, Brand: "Tata", Model: "Altroz"},
	}
	catalog, err := NewCatalog(rows)
	require.NoError(t, err)

	matches := catalog.FindByBrand("tata")
	require.Len(t, matches, 3)
	assert.Equal(t, "Nexon", matches[0].Model)
	assert.Equal(t, "Harrier", matches[1].Model)
	assert.Equal(t, "Altroz", matches[2].Model)
}

func TestFeatureVectorOrder(t *testing.T) {
	row := Row{
		FuelType:           1,
		EngineDisplacement: 2,
		NoCylinder:         3,
		SeatingCapacity:    4,
		TransmissionType:   5,
		FuelTankCapacity:   6,
		BodyType:           7,
		MaxTorqueNm:        8,
		MaxTorqueRpm:       9,
		MaxPowerBhp:        10,
		MaxPowerRp:         11,
	}

	vector := row.FeatureVector()
	require.Len(t, vector, NumFeatures)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, vector)
}

func TestLoadCatalog(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db.SetForTesting(mockDB)

	rows := sqlmock.NewRows([]string{
		"id", "brand", "model", "fuel_type", "engine_displacement",
		"no_cylinder", "seating_capacity", "transmission_type",
		"fuel_tank_capacity", "body_type", "max_torque_nm",
		"max_torque_rpm", "max_power_bhp", "max_power_rp",
	}).
		AddRow(1, "Toyota", "Corolla", 1.0, 1800.0, 4.0, 5.0, 1.0, 50.0, 2.0, 170.0, 4000.0, 138.0, 6000.0).
		AddRow(2, "Honda", "City", 1.0, 1500.0, 4.0, 5.0, 0.0, 40.0, 2.0, 145.0, 4300.0, 119.0, 6600.0)

	mock.ExpectQuery("SELECT (.+) FROM Specification ORDER BY id").
		WillReturnRows(rows)

	catalog, err := LoadCatalog()

	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())
	assert.Len(t, catalog.FindByBrand("toyota"), 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
