package models

// Allocation binds one driver to one vehicle for one calendar date.
// Immutable once created; the allocations table carries unique indexes
// on (driver_id, date) and (vehicle_id, date) so overlapping inserts
// lose at the store, not in application code.
type Allocation struct {
	ID        string `json:"id" db:"id"`
	DriverID  string `json:"driver_id" db:"driver_id"`
	VehicleID string `json:"vehicle_id" db:"vehicle_id"`
	Date      string `json:"date" db:"date"` // YYYY-MM-DD
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// AllocationDetail is an allocation joined with driver/vehicle names
// for the dashboard list view
type AllocationDetail struct {
	Allocation
	DriverName   string `json:"driver_name" db:"driver_name"`
	LicensePlate string `json:"license_plate" db:"license_plate"`
}
