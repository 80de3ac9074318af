package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"fleetpanda-backend/internal/models"
	"fleetpanda-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateDriverRequest struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
}

// CreateDriver registers a fleet driver
func CreateDriver(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/drivers")

		var req CreateDriverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" || req.LicenseNumber == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name and license_number are required")
			return
		}

		now := time.Now().Unix()
		driver := models.Driver{
			ID:            uuid.New().String(),
			Name:          req.Name,
			LicenseNumber: req.LicenseNumber,
			Status:        models.DriverAvailable,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		query := `
			INSERT INTO drivers (id, name, license_number, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := db.Exec(query, driver.ID, driver.Name, driver.LicenseNumber, driver.Status, driver.CreatedAt, driver.UpdatedAt); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create driver")
			return
		}

		log.Printf("✅ Driver created: %s (%s)", driver.Name, driver.ID)
		utils.RespondData(w, http.StatusCreated, driver)
	}
}

// GetDrivers lists all drivers, optionally filtered by ?status=
func GetDrivers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")

		drivers := []models.Driver{}
		var err error
		if status != "" {
			err = db.Select(&drivers, "SELECT * FROM drivers WHERE status = $1 ORDER BY name", status)
		} else {
			err = db.Select(&drivers, "SELECT * FROM drivers ORDER BY name")
		}
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch drivers")
			return
		}

		utils.RespondData(w, http.StatusOK, drivers)
	}
}

type CreateVehicleRequest struct {
	LicensePlate string  `json:"license_plate"`
	Capacity     float64 `json:"capacity"`
}

// CreateVehicle registers a fuel tanker
func CreateVehicle(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/vehicles")

		var req CreateVehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.LicensePlate == "" {
			utils.RespondError(w, http.StatusBadRequest, "license_plate is required")
			return
		}
		if req.Capacity <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "capacity must be positive")
			return
		}

		now := time.Now().Unix()
		vehicle := models.Vehicle{
			ID:           uuid.New().String(),
			LicensePlate: req.LicensePlate,
			Capacity:     req.Capacity,
			Status:       models.VehicleAvailable,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		query := `
			INSERT INTO vehicles (id, license_plate, capacity, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := db.Exec(query, vehicle.ID, vehicle.LicensePlate, vehicle.Capacity, vehicle.Status, vehicle.CreatedAt, vehicle.UpdatedAt); err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create vehicle")
			return
		}

		log.Printf("✅ Vehicle created: %s (%s)", vehicle.LicensePlate, vehicle.ID)
		utils.RespondData(w, http.StatusCreated, vehicle)
	}
}

// GetVehicles lists all vehicles, optionally filtered by ?status=
func GetVehicles(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")

		vehicles := []models.Vehicle{}
		var err error
		if status != "" {
			err = db.Select(&vehicles, "SELECT * FROM vehicles WHERE status = $1 ORDER BY license_plate", status)
		} else {
			err = db.Select(&vehicles, "SELECT * FROM vehicles ORDER BY license_plate")
		}
		if err != nil {
			log.Printf("❌ Database error: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
			return
		}

		utils.RespondData(w, http.StatusOK, vehicles)
	}
}

type UpdateVehicleStatusRequest struct {
	Status string `json:"status"`
}

// UpdateVehicleStatus moves a vehicle in or out of maintenance.
// on_shift is owned by the shift transaction and cannot be set here.
func UpdateVehicleStatus(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID := chi.URLParam(r, "id")

		var req UpdateVehicleStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Status != string(models.VehicleAvailable) && req.Status != string(models.VehicleMaintenance) {
			utils.RespondError(w, http.StatusBadRequest, "status must be 'available' or 'maintenance'")
			return
		}

		var vehicle models.Vehicle
		err := db.Get(&vehicle,
			`UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3 AND status != 'on_shift' RETURNING *`,
			req.Status, time.Now().Unix(), vehicleID,
		)
		if err != nil {
			log.Printf("❌ Failed to update vehicle %s: %v", vehicleID, err)
			utils.RespondError(w, http.StatusConflict, "Vehicle not found or currently on shift")
			return
		}

		log.Printf("✅ Vehicle %s status set to %s", vehicle.LicensePlate, vehicle.Status)
		utils.RespondData(w, http.StatusOK, vehicle)
	}
}
