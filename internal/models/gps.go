package models

import (
	"time"

	"fleetpanda-backend/internal/apperrors"
)

// clockSkewTolerance is how far into the future a device timestamp may
// be before it is rejected as invalid
const clockSkewTolerance = 60 * time.Second

// GPSSample is one position report from a driver device. Append-only;
// the latest-position projection is maintained separately.
type GPSSample struct {
	ID        int64   `json:"id" db:"id"`
	VehicleID string  `json:"vehicle_id" db:"vehicle_id"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Timestamp int64   `json:"timestamp" db:"timestamp"`  // device clock
	CreatedAt int64   `json:"created_at" db:"created_at"` // server clock
}

// VehiclePosition is the latest known position of one vehicle,
// exactly one row per vehicle that has ever reported
type VehiclePosition struct {
	VehicleID string  `json:"vehicle_id" db:"vehicle_id"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Timestamp int64   `json:"timestamp" db:"timestamp"`
	UpdatedAt int64   `json:"updated_at" db:"updated_at"`
}

// FleetSnapshotEntry joins the position projection with vehicle fields
// for the dashboard map
type FleetSnapshotEntry struct {
	VehicleID    string        `json:"vehicle_id" db:"vehicle_id"`
	LicensePlate string        `json:"license_plate" db:"license_plate"`
	Status       VehicleStatus `json:"status" db:"status"`
	Latitude     float64       `json:"latitude" db:"latitude"`
	Longitude    float64       `json:"longitude" db:"longitude"`
	Timestamp    int64         `json:"timestamp" db:"timestamp"`
}

// ValidateGPSSample checks coordinate ranges and clock skew.
// now is injected so tests don't race the wall clock.
func ValidateGPSSample(lat, lng float64, timestamp int64, now time.Time) error {
	if lat < -90 || lat > 90 {
		return apperrors.Validation("latitude %f out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return apperrors.Validation("longitude %f out of range [-180, 180]", lng)
	}
	if timestamp <= 0 {
		return apperrors.Validation("timestamp is required")
	}
	if timestamp > now.Add(clockSkewTolerance).Unix() {
		return apperrors.Validation("timestamp %d is in the future", timestamp)
	}
	return nil
}
