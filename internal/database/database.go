package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔄 Step 1: Attempting sqlx.Connect()...")
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT sqlx.Connect()")
		log.Printf("   Error: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("✅ Step 1 Complete: sqlx.Connect() succeeded")

	log.Println("🔄 Step 2: Testing connection with Ping()...")
	if err := db.Ping(); err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT Ping()")
		log.Printf("   Error: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("✅ Step 2 Complete: Ping() succeeded")

	return db, nil
}

// Migrate applies the schema. Constraints carry the invariants the API
// promises: allocation uniqueness per date, one active shift per
// driver, non-negative inventory. Application code relies on them
// instead of check-then-write sequences.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table (API accounts; driver accounts link to fleet drivers)
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('driver', 'admin')),
			driver_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create hubs table
		`CREATE TABLE IF NOT EXISTS hubs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create terminals table
		`CREATE TABLE IF NOT EXISTS terminals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create products table
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create drivers table
		`CREATE TABLE IF NOT EXISTS drivers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			license_number TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'available'
				CHECK(status IN ('available', 'on_shift', 'inactive')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create vehicles table
		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			license_plate TEXT NOT NULL UNIQUE,
			capacity DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'available'
				CHECK(status IN ('available', 'assigned', 'on_shift', 'maintenance')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create allocations table.
		// The two unique constraints ARE the double-booking guard: two
		// concurrent inserts for the same driver/date or vehicle/date
		// produce exactly one success and one unique_violation,
		// whatever the request interleaving.
		`CREATE TABLE IF NOT EXISTS allocations (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			vehicle_id TEXT NOT NULL,
			date TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (driver_id) REFERENCES drivers(id) ON DELETE CASCADE,
			FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE,
			CONSTRAINT allocations_driver_date_key UNIQUE (driver_id, date),
			CONSTRAINT allocations_vehicle_date_key UNIQUE (vehicle_id, date)
		)`,

		// Create shifts table
		`CREATE TABLE IF NOT EXISTS shifts (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			vehicle_id TEXT NOT NULL,
			allocation_id TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('active', 'ended')),
			start_time BIGINT NOT NULL,
			end_time BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (driver_id) REFERENCES drivers(id) ON DELETE CASCADE,
			FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE,
			FOREIGN KEY (allocation_id) REFERENCES allocations(id) ON DELETE CASCADE
		)`,

		// One active shift per driver, enforced under concurrency: the
		// second of two racing shift starts hits this index
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_active_per_driver
			ON shifts(driver_id) WHERE status = 'active'`,

		// Create orders table
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			shift_id TEXT NOT NULL,
			terminal_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			source_hub_id TEXT NOT NULL,
			quantity DOUBLE PRECISION NOT NULL CHECK(quantity > 0),
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK(status IN ('pending', 'in_transit', 'completed', 'failed')),
			fail_reason TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (shift_id) REFERENCES shifts(id) ON DELETE CASCADE,
			FOREIGN KEY (terminal_id) REFERENCES terminals(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
			FOREIGN KEY (source_hub_id) REFERENCES hubs(id) ON DELETE CASCADE,
			CHECK ((status = 'failed') = (fail_reason IS NOT NULL))
		)`,

		// Create inventory table
		`CREATE TABLE IF NOT EXISTS inventory (
			id TEXT PRIMARY KEY,
			location_id TEXT NOT NULL,
			location_type TEXT NOT NULL CHECK(location_type IN ('hub', 'terminal')),
			product_id TEXT NOT NULL,
			quantity DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK(quantity >= 0),
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
			CONSTRAINT inventory_location_product_key
				UNIQUE (location_id, location_type, product_id)
		)`,

		// Create gps_logs table (append-only history)
		`CREATE TABLE IF NOT EXISTS gps_logs (
			id BIGSERIAL PRIMARY KEY,
			vehicle_id TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			timestamp BIGINT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE
		)`,

		// Create vehicle_current_position table (stores only the
		// latest sample per vehicle, exactly 1 row each, updated via
		// UPSERT). Out-of-order samples land in gps_logs but never
		// regress this projection: the upsert only wins when newer.
		`CREATE TABLE IF NOT EXISTS vehicle_current_position (
			vehicle_id TEXT PRIMARY KEY,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			timestamp BIGINT NOT NULL,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (vehicle_id) REFERENCES vehicles(id) ON DELETE CASCADE
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_allocations_date ON allocations(date)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_driver_id ON shifts(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_status ON shifts(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_shift_id ON orders(shift_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_inventory_product ON inventory(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_gps_logs_vehicle_id ON gps_logs(vehicle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_gps_logs_timestamp ON gps_logs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
