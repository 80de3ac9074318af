package database

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"fleetpanda-backend/internal/models"
)

// testDB connects to the database named by TEST_DATABASE_URL, runs
// migrations, and truncates all tables so each test starts clean.
// Skips when no test database is configured.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skipf("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := Connect(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db))

	_, err = db.Exec(`TRUNCATE fcm_tokens, gps_logs, vehicle_current_position,
		orders, shifts, allocations, inventory, users,
		drivers, vehicles, hubs, terminals, products CASCADE`)
	require.NoError(t, err)

	return db
}

func createTestDriver(t *testing.T, db *sqlx.DB, name string) *models.Driver {
	t.Helper()
	now := time.Now().Unix()
	driver := &models.Driver{
		ID:            uuid.New().String(),
		Name:          name,
		LicenseNumber: "LIC-" + uuid.New().String()[:8],
		Status:        models.DriverAvailable,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := db.Exec(
		`INSERT INTO drivers (id, name, license_number, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		driver.ID, driver.Name, driver.LicenseNumber, driver.Status, driver.CreatedAt, driver.UpdatedAt,
	)
	require.NoError(t, err)
	return driver
}

func createTestVehicle(t *testing.T, db *sqlx.DB, status models.VehicleStatus) *models.Vehicle {
	t.Helper()
	now := time.Now().Unix()
	vehicle := &models.Vehicle{
		ID:           uuid.New().String(),
		LicensePlate: "BA-" + uuid.New().String()[:8],
		Capacity:     12000,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := db.Exec(
		`INSERT INTO vehicles (id, license_plate, capacity, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		vehicle.ID, vehicle.LicensePlate, vehicle.Capacity, vehicle.Status, vehicle.CreatedAt, vehicle.UpdatedAt,
	)
	require.NoError(t, err)
	return vehicle
}

func createTestHub(t *testing.T, db *sqlx.DB, name string) *models.Hub {
	t.Helper()
	hub := &models.Hub{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   "Test Depot Road",
		Latitude:  27.7,
		Longitude: 85.3,
		CreatedAt: time.Now().Unix(),
	}
	_, err := db.Exec(
		`INSERT INTO hubs (id, name, address, latitude, longitude, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		hub.ID, hub.Name, hub.Address, hub.Latitude, hub.Longitude, hub.CreatedAt,
	)
	require.NoError(t, err)
	return hub
}

func createTestTerminal(t *testing.T, db *sqlx.DB, name string) *models.Terminal {
	t.Helper()
	terminal := &models.Terminal{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   "Test Station Road",
		Latitude:  27.68,
		Longitude: 85.32,
		CreatedAt: time.Now().Unix(),
	}
	_, err := db.Exec(
		`INSERT INTO terminals (id, name, address, latitude, longitude, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		terminal.ID, terminal.Name, terminal.Address, terminal.Latitude, terminal.Longitude, terminal.CreatedAt,
	)
	require.NoError(t, err)
	return terminal
}

func createTestProduct(t *testing.T, db *sqlx.DB, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      "fuel",
		CreatedAt: time.Now().Unix(),
	}
	_, err := db.Exec(
		`INSERT INTO products (id, name, type, created_at) VALUES ($1, $2, $3, $4)`,
		product.ID, product.Name, product.Type, product.CreatedAt,
	)
	require.NoError(t, err)
	return product
}

// startTestShift builds the full chain a shift needs: driver, vehicle,
// today's allocation, then the shift itself.
func startTestShift(t *testing.T, db *sqlx.DB) *models.Shift {
	t.Helper()
	driver := createTestDriver(t, db, "Shift Driver")
	vehicle := createTestVehicle(t, db, models.VehicleAvailable)
	_, err := CreateAllocation(db, driver.ID, vehicle.ID, Today())
	require.NoError(t, err)
	shift, err := StartShift(db, driver.ID)
	require.NoError(t, err)
	return shift
}

func inventoryQuantity(t *testing.T, db *sqlx.DB, locationID, productID string) float64 {
	t.Helper()
	var qty float64
	err := db.Get(&qty,
		`SELECT quantity FROM inventory WHERE location_id = $1 AND product_id = $2`,
		locationID, productID,
	)
	require.NoError(t, err)
	return qty
}
