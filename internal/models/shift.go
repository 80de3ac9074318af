package models

import "time"

// ShiftStatus represents the current status of a shift
type ShiftStatus string

const (
	ShiftStatusActive ShiftStatus = "active"
	ShiftStatusEnded  ShiftStatus = "ended" // terminal, never reopened
)

// Shift is a driver's working session against a daily allocation.
// A partial unique index on (driver_id) WHERE status = 'active'
// guarantees at most one active shift per driver at any instant.
type Shift struct {
	ID           string      `json:"id" db:"id"`
	DriverID     string      `json:"driver_id" db:"driver_id"`
	VehicleID    string      `json:"vehicle_id" db:"vehicle_id"`
	AllocationID string      `json:"allocation_id" db:"allocation_id"`
	Status       ShiftStatus `json:"status" db:"status"`
	StartTime    int64       `json:"start_time" db:"start_time"`
	EndTime      *int64      `json:"end_time" db:"end_time"`
	CreatedAt    int64       `json:"created_at" db:"created_at"`
	UpdatedAt    int64       `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the shift can still accept work
func (s *Shift) IsActive() bool {
	return s.Status == ShiftStatusActive
}

// Duration returns how long the shift has run (or ran, if ended)
func (s *Shift) Duration() time.Duration {
	if s.StartTime == 0 {
		return 0
	}
	end := time.Now().Unix()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	d := end - s.StartTime
	if d < 0 {
		d = 0
	}
	return time.Duration(d) * time.Second
}

// ShiftDetail is a shift joined with driver/vehicle fields for the
// dispatcher list view
type ShiftDetail struct {
	Shift
	DriverName   string `json:"driver_name" db:"driver_name"`
	LicensePlate string `json:"license_plate" db:"license_plate"`
}
