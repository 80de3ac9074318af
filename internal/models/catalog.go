package models

// Hub is a source/storage location for product inventory
type Hub struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Address   string  `json:"address" db:"address"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
}

// Terminal is a delivery destination location
type Terminal struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Address   string  `json:"address" db:"address"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
}

// Product is a fuel product type (diesel, petrol, ...)
type Product struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Type      string `json:"type" db:"type"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// LocationType discriminates inventory locations
type LocationType string

const (
	LocationHub      LocationType = "hub"
	LocationTerminal LocationType = "terminal"
)

// InventoryRecord is the quantity of one product at one location.
// Quantity never goes negative; the schema enforces it.
type InventoryRecord struct {
	ID           string       `json:"id" db:"id"`
	LocationID   string       `json:"location_id" db:"location_id"`
	LocationType LocationType `json:"location_type" db:"location_type"`
	ProductID    string       `json:"product_id" db:"product_id"`
	Quantity     float64      `json:"quantity" db:"quantity"`
	UpdatedAt    int64        `json:"updated_at" db:"updated_at"`
}
