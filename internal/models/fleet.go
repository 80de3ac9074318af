package models

// DriverStatus represents a driver's availability state.
// on_shift is derived from shift state and only ever written by the
// shift transaction, never set directly through the fleet endpoints.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverOnShift   DriverStatus = "on_shift"
	DriverInactive  DriverStatus = "inactive"
)

// Driver is a fleet driver
type Driver struct {
	ID            string       `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	LicenseNumber string       `json:"license_number" db:"license_number"`
	Status        DriverStatus `json:"status" db:"status"`
	CreatedAt     int64        `json:"created_at" db:"created_at"`
	UpdatedAt     int64        `json:"updated_at" db:"updated_at"`
}

// VehicleStatus represents a vehicle's availability state
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleAssigned    VehicleStatus = "assigned"
	VehicleOnShift     VehicleStatus = "on_shift"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Vehicle is a fuel tanker
type Vehicle struct {
	ID           string        `json:"id" db:"id"`
	LicensePlate string        `json:"license_plate" db:"license_plate"`
	Capacity     float64       `json:"capacity" db:"capacity"`
	Status       VehicleStatus `json:"status" db:"status"`
	CreatedAt    int64         `json:"created_at" db:"created_at"`
	UpdatedAt    int64         `json:"updated_at" db:"updated_at"`
}
