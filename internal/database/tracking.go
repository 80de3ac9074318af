package database

import (
	"time"

	"github.com/jmoiron/sqlx"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

// RecordPosition appends a GPS sample and refreshes the latest-position
// projection. The projection update is a compare-and-swap by timestamp
// expressed in SQL: the upsert's WHERE clause makes older or duplicate
// samples no-ops, so retries from a flaky device and out-of-order
// delivery never move a vehicle backwards. Different vehicles hit
// different rows and never contend.
func RecordPosition(db *sqlx.DB, vehicleID string, lat, lng float64, timestamp int64) (*models.GPSSample, error) {
	if err := models.ValidateGPSSample(lat, lng, timestamp, time.Now()); err != nil {
		return nil, err
	}

	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM vehicles WHERE id = $1)`, vehicleID); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !exists {
		return nil, apperrors.NotFound("vehicle %s not found", vehicleID)
	}

	sample := &models.GPSSample{
		VehicleID: vehicleID,
		Latitude:  lat,
		Longitude: lng,
		Timestamp: timestamp,
		CreatedAt: time.Now().Unix(),
	}

	err := db.QueryRow(
		`INSERT INTO gps_logs (vehicle_id, latitude, longitude, timestamp, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		vehicleID, lat, lng, timestamp, sample.CreatedAt,
	).Scan(&sample.ID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	_, err = db.Exec(
		`INSERT INTO vehicle_current_position (vehicle_id, latitude, longitude, timestamp, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (vehicle_id)
		 DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			timestamp = EXCLUDED.timestamp,
			updated_at = EXCLUDED.updated_at
		 WHERE vehicle_current_position.timestamp < EXCLUDED.timestamp`,
		vehicleID, lat, lng, timestamp, sample.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	return sample, nil
}

// FleetSnapshot returns the latest known position of every vehicle
// that has ever reported, joined with its registry fields. Plain
// point-in-time read, no blocking.
func FleetSnapshot(db *sqlx.DB) ([]models.FleetSnapshotEntry, error) {
	entries := []models.FleetSnapshotEntry{}
	err := db.Select(&entries,
		`SELECT p.vehicle_id, v.license_plate, v.status,
		        p.latitude, p.longitude, p.timestamp
		 FROM vehicle_current_position p
		 JOIN vehicles v ON p.vehicle_id = v.id
		 ORDER BY v.license_plate`,
	)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return entries, nil
}
