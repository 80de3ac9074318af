package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

// StartShift opens a shift against the driver's allocation for today.
// The shift insert and the driver/vehicle status writes are one
// transaction; the partial unique index on active shifts makes the
// idempotency guard hold under concurrent starts: the loser's insert
// fails and the whole transaction rolls back, so exactly one shift row
// ever exists.
func StartShift(db *sqlx.DB, driverID string) (*models.Shift, error) {
	allocation, err := GetAllocationForDriver(db, driverID, Today())
	if err != nil {
		return nil, err
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	shift := &models.Shift{
		ID:           uuid.New().String(),
		DriverID:     allocation.DriverID,
		VehicleID:    allocation.VehicleID,
		AllocationID: allocation.ID,
		Status:       models.ShiftStatusActive,
		StartTime:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.Exec(
		`INSERT INTO shifts (id, driver_id, vehicle_id, allocation_id, status, start_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'active', $5, $6, $7)`,
		shift.ID, shift.DriverID, shift.VehicleID, shift.AllocationID,
		shift.StartTime, shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "idx_shifts_one_active_per_driver") {
			return nil, apperrors.AlreadyActive("driver %s already has an active shift", driverID)
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	// The shift transaction is the sole writer of the on_shift status
	if _, err := tx.Exec(
		`UPDATE drivers SET status = 'on_shift', updated_at = $1 WHERE id = $2`,
		now, shift.DriverID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if _, err := tx.Exec(
		`UPDATE vehicles SET status = 'on_shift', updated_at = $1 WHERE id = $2`,
		now, shift.VehicleID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return shift, nil
}

// EndShift closes an active shift and reverts driver/vehicle status to
// available. Orders still open stay open: undelivered work is
// reassigned through a new allocation/shift or explicitly failed, it
// is never silently discarded here. Ended is terminal.
func EndShift(db *sqlx.DB, shiftID string) (*models.Shift, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	defer tx.Rollback()

	var shift models.Shift
	err = tx.Get(&shift, `SELECT * FROM shifts WHERE id = $1 FOR UPDATE`, shiftID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("shift %s not found", shiftID)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	if shift.Status != models.ShiftStatusActive {
		return nil, apperrors.NotActive("shift %s is not active", shiftID)
	}

	now := time.Now().Unix()
	if _, err := tx.Exec(
		`UPDATE shifts SET status = 'ended', end_time = $1, updated_at = $1 WHERE id = $2`,
		now, shiftID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if _, err := tx.Exec(
		`UPDATE drivers SET status = 'available', updated_at = $1 WHERE id = $2`,
		now, shift.DriverID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if _, err := tx.Exec(
		`UPDATE vehicles SET status = 'available', updated_at = $1 WHERE id = $2`,
		now, shift.VehicleID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	shift.Status = models.ShiftStatusEnded
	shift.EndTime = &now
	shift.UpdatedAt = now
	return &shift, nil
}

// GetActiveShift returns the driver's active shift, or nil without
// error when there is none
func GetActiveShift(db *sqlx.DB, driverID string) (*models.Shift, error) {
	var shift models.Shift
	err := db.Get(&shift,
		`SELECT * FROM shifts WHERE driver_id = $1 AND status = 'active'`,
		driverID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &shift, nil
}

// ListShifts returns all shifts joined with driver/vehicle fields,
// newest first
func ListShifts(db *sqlx.DB) ([]models.ShiftDetail, error) {
	shifts := []models.ShiftDetail{}
	err := db.Select(&shifts,
		`SELECT s.id, s.driver_id, s.vehicle_id, s.allocation_id, s.status,
		        s.start_time, s.end_time, s.created_at, s.updated_at,
		        d.name AS driver_name, v.license_plate
		 FROM shifts s
		 JOIN drivers d ON s.driver_id = d.id
		 JOIN vehicles v ON s.vehicle_id = v.id
		 ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return shifts, nil
}
