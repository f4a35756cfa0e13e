package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/carpricer/site/spec"
	_ "github.com/mattn/go-sqlite3"
)

// Imports the specification and listing CSV exports into the sqlite
// catalog database. Rows are inserted in file order; the matcher's
// tie-breaking depends on that order being preserved.

const schema = `
CREATE TABLE IF NOT EXISTS Specification (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	brand TEXT NOT NULL,
	model TEXT NOT NULL,
	fuel_type REAL NOT NULL,
	engine_displacement REAL NOT NULL,
	no_cylinder REAL NOT NULL,
	seating_capacity REAL NOT NULL,
	transmission_type REAL NOT NULL,
	fuel_tank_capacity REAL NOT NULL,
	body_type REAL NOT NULL,
	max_torque_nm REAL NOT NULL,
	max_torque_rpm REAL NOT NULL,
	max_power_bhp REAL NOT NULL,
	max_power_rp REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS Listing (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	brand TEXT NOT NULL,
	model TEXT NOT NULL,
	price REAL NOT NULL CHECK (price > 0),
	fuel_type REAL NOT NULL,
	engine_displacement REAL NOT NULL,
	no_cylinder REAL NOT NULL,
	seating_capacity REAL NOT NULL,
	transmission_type REAL NOT NULL,
	fuel_tank_capacity REAL NOT NULL,
	body_type REAL NOT NULL,
	max_torque_nm REAL NOT NULL,
	max_torque_rpm REAL NOT NULL,
	max_power_bhp REAL NOT NULL,
	max_power_rp REAL NOT NULL,
	mileage_km REAL NOT NULL DEFAULT 0,
	registration_year INTEGER NOT NULL DEFAULT 0,
	location TEXT NOT NULL DEFAULT '',
	owner_count INTEGER NOT NULL DEFAULT 0
);
`

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <catalog.db> <model.csv> <user.csv>\n", os.Args[0])
		os.Exit(1)
	}
	dbFile := os.Args[1]
	specFile := os.Args[2]
	listingFile := os.Args[3]

	db, err := sql.Open("sqlite3", dbFile)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	n, err := importCSV(db, specFile, "Specification",
		append([]string{"brand", "model"}, spec.FeatureColumns...))
	if err != nil {
		log.Fatalf("Failed to import specifications: %v", err)
	}
	log.Printf("Imported %d specification rows", n)

	listingCols := append([]string{"brand", "model", "price"}, spec.FeatureColumns...)
	listingCols = append(listingCols, "mileage_km", "registration_year", "location", "owner_count")
	n, err = importCSV(db, listingFile, "Listing", listingCols)
	if err != nil {
		log.Fatalf("Failed to import listings: %v", err)
	}
	log.Printf("Imported %d listings", n)
}

// importCSV bulk-inserts a CSV file into table, mapping columns by header
// name. Columns missing from the file fall back to their schema defaults.
func importCSV(db *sql.DB, path, table string, cols []string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var present []string
	for _, col := range cols {
		if _, ok := index[col]; ok {
			present = append(present, col)
		}
	}
	if len(present) == 0 {
		return 0, fmt.Errorf("no known columns in %s", path)
	}

	placeholders := make([]string, len(present))
	for i := range present {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(present, ", "), strings.Join(placeholders, ", "))

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("row %d: %w", count+1, err)
		}
		args := make([]interface{}, len(present))
		for i, col := range present {
			val := record[index[col]]
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				args[i] = n
			} else {
				args[i] = val
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("row %d: %w", count+1, err)
		}
		count++
	}

	return count, tx.Commit()
}
