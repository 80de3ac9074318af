package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

// DateFormat is the calendar-date layout used for allocations
const DateFormat = "2006-01-02"

// Today returns the current allocation date in UTC
func Today() string {
	return time.Now().UTC().Format(DateFormat)
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && string(pqErr.Constraint) == constraint
	}
	return false
}

// CreateAllocation binds a driver to a vehicle for one date. The
// existence/status checks are advisory; the real double-booking guard
// is the pair of unique constraints, so two racing requests for the
// same driver or vehicle and date resolve to one success and one
// CONFLICT without any application-level lock.
func CreateAllocation(db *sqlx.DB, driverID, vehicleID, date string) (*models.Allocation, error) {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return nil, apperrors.Validation("date must be YYYY-MM-DD, got %q", date)
	}

	var driver models.Driver
	if err := db.Get(&driver, `SELECT * FROM drivers WHERE id = $1`, driverID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("driver %s not found", driverID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	var vehicle models.Vehicle
	if err := db.Get(&vehicle, `SELECT * FROM vehicles WHERE id = $1`, vehicleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("vehicle %s not found", vehicleID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	if vehicle.Status == models.VehicleMaintenance {
		return nil, apperrors.InvalidState("vehicle %s is in maintenance", vehicle.LicensePlate)
	}

	allocation := &models.Allocation{
		ID:        uuid.New().String(),
		DriverID:  driverID,
		VehicleID: vehicleID,
		Date:      date,
		CreatedAt: time.Now().Unix(),
	}

	_, err := db.Exec(
		`INSERT INTO allocations (id, driver_id, vehicle_id, date, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		allocation.ID, allocation.DriverID, allocation.VehicleID,
		allocation.Date, allocation.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "allocations_driver_date_key") {
			return nil, apperrors.Conflict("driver %s already has an allocation for %s", driverID, date)
		}
		if isUniqueViolation(err, "allocations_vehicle_date_key") {
			return nil, apperrors.Conflict("vehicle %s is already allocated for %s", vehicleID, date)
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	// Same-day allocation reserves the vehicle for the driver ahead of
	// the shift. Future-dated allocations leave statuses alone.
	if date == Today() && vehicle.Status == models.VehicleAvailable {
		db.Exec(
			`UPDATE vehicles SET status = 'assigned', updated_at = $1 WHERE id = $2 AND status = 'available'`,
			time.Now().Unix(), vehicleID,
		)
	}

	return allocation, nil
}

// ListAllocations returns allocations joined with driver/vehicle
// names, optionally filtered by date
func ListAllocations(db *sqlx.DB, date string) ([]models.AllocationDetail, error) {
	query := `SELECT a.id, a.driver_id, a.vehicle_id, a.date, a.created_at,
	                 d.name AS driver_name, v.license_plate
	          FROM allocations a
	          JOIN drivers d ON a.driver_id = d.id
	          JOIN vehicles v ON a.vehicle_id = v.id`
	args := []interface{}{}
	if date != "" {
		query += ` WHERE a.date = $1`
		args = append(args, date)
	}
	query += ` ORDER BY a.date DESC, a.created_at DESC`

	allocations := []models.AllocationDetail{}
	if err := db.Select(&allocations, query, args...); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return allocations, nil
}

// GetAllocationForDriver looks up a driver's allocation for a date
func GetAllocationForDriver(db *sqlx.DB, driverID, date string) (*models.Allocation, error) {
	var allocation models.Allocation
	err := db.Get(&allocation,
		`SELECT * FROM allocations WHERE driver_id = $1 AND date = $2`,
		driverID, date,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NoAllocation("driver %s has no allocation for %s", driverID, date)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &allocation, nil
}
