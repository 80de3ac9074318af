package models

// User is an API account: dispatchers/admins on the dashboard, drivers
// on the mobile client. Distinct from Driver, which is the fleet
// entity that shifts and allocations reference.
type User struct {
	ID        string  `json:"id" db:"id"`
	Email     string  `json:"email" db:"email"`
	Password  string  `json:"-" db:"password"` // bcrypt hash, never serialized
	Name      string  `json:"name" db:"name"`
	Role      string  `json:"role" db:"role"` // "driver" or "admin"
	DriverID  *string `json:"driver_id" db:"driver_id"` // set for driver accounts
	CreatedAt int64   `json:"created_at" db:"created_at"`
	UpdatedAt int64   `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	DriverID  *string `json:"driver_id,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		DriverID:  u.DriverID,
		CreatedAt: u.CreatedAt,
	}
}

// FCMToken is a push-notification token registered by a device
type FCMToken struct {
	ID         int    `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	Token      string `json:"token" db:"token"`
	DeviceType string `json:"device_type" db:"device_type"` // "ios" or "android"
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	UpdatedAt  int64  `json:"updated_at" db:"updated_at"`
}
