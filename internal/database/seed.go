package database

import (
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedUsers creates the default dispatcher and driver accounts.
// Driver accounts are linked to the seeded fleet drivers by email
// convention in SeedFleet.
func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding users...")

	users := []struct {
		Email    string
		Password string
		Name     string
		Role     string
	}{
		{"dispatch@fleetpanda.io", "dispatch123", "Dispatch Manager", "admin"},
		{"ramesh@fleetpanda.io", "driver123", "Ramesh Kumar", "driver"},
		{"sita@fleetpanda.io", "driver123", "Sita Sharma", "driver"},
	}

	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = db.Exec(
			`INSERT INTO users (id, email, password, name, role) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), u.Email, string(hashed), u.Name, u.Role,
		)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Seeded %d users", len(users))
	return nil
}

// SeedFleet creates demo catalog and fleet reference data plus opening
// hub stock so orders can be completed out of the box
func SeedFleet(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM hubs"); err != nil {
		return err
	}
	if count > 0 {
		log.Println("✓ Fleet already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding catalog and fleet...")

	hubID := uuid.New().String()
	if _, err := db.Exec(
		`INSERT INTO hubs (id, name, address, latitude, longitude)
		 VALUES ($1, 'Central Fuel Depot', '1200 Harbor Way, Oakland', 37.7983, -122.2786)`,
		hubID,
	); err != nil {
		return err
	}

	terminals := []struct {
		Name    string
		Address string
		Lat     float64
		Lng     float64
	}{
		{"North Terminal", "455 Industrial Pkwy, Richmond", 37.9357, -122.3477},
		{"South Terminal", "88 Bayshore Blvd, San Francisco", 37.7094, -122.4051},
		{"East Terminal", "2301 Monument Blvd, Concord", 37.9722, -122.0016},
	}
	for _, t := range terminals {
		if _, err := db.Exec(
			`INSERT INTO terminals (id, name, address, latitude, longitude) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), t.Name, t.Address, t.Lat, t.Lng,
		); err != nil {
			return err
		}
	}

	products := []struct {
		Name string
		Type string
	}{
		{"Diesel", "diesel"},
		{"Regular Unleaded", "gasoline"},
		{"Premium Unleaded", "gasoline"},
	}
	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		id := uuid.New().String()
		productIDs = append(productIDs, id)
		if _, err := db.Exec(
			`INSERT INTO products (id, name, type) VALUES ($1, $2, $3)`,
			id, p.Name, p.Type,
		); err != nil {
			return err
		}
	}

	// Opening stock at the depot
	for _, productID := range productIDs {
		if _, err := db.Exec(
			`INSERT INTO inventory (id, location_id, location_type, product_id, quantity)
			 VALUES ($1, $2, 'hub', $3, 50000)`,
			uuid.New().String(), hubID, productID,
		); err != nil {
			return err
		}
	}

	drivers := []struct {
		Name    string
		License string
		Email   string
	}{
		{"Ramesh Kumar", "CDL-558214", "ramesh@fleetpanda.io"},
		{"Sita Sharma", "CDL-771043", "sita@fleetpanda.io"},
	}
	for _, d := range drivers {
		driverID := uuid.New().String()
		if _, err := db.Exec(
			`INSERT INTO drivers (id, name, license_number) VALUES ($1, $2, $3)`,
			driverID, d.Name, d.License,
		); err != nil {
			return err
		}
		// Link the driver's API account to the fleet entity
		if _, err := db.Exec(
			`UPDATE users SET driver_id = $1 WHERE email = $2 AND role = 'driver'`,
			driverID, d.Email,
		); err != nil {
			return err
		}
	}

	vehicles := []struct {
		Plate    string
		Capacity float64
	}{
		{"7KTX482", 11500},
		{"8LZD019", 9000},
		{"6PQR773", 11500},
	}
	for _, v := range vehicles {
		if _, err := db.Exec(
			`INSERT INTO vehicles (id, license_plate, capacity) VALUES ($1, $2, $3)`,
			uuid.New().String(), v.Plate, v.Capacity,
		); err != nil {
			return err
		}
	}

	log.Println("✓ Seeded catalog, fleet and opening inventory")
	return nil
}
