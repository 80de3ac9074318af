package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fleetpanda-backend/internal/database"
	"fleetpanda-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type CreateAllocationRequest struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
	Date      string `json:"date"` // YYYY-MM-DD, defaults to today
}

// CreateAllocation pairs a driver with a vehicle for one date.
// Double-booking either side of the pair for the same date is a 409.
func CreateAllocation(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/allocations")

		var req CreateAllocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.DriverID == "" || req.VehicleID == "" {
			utils.RespondError(w, http.StatusBadRequest, "driver_id and vehicle_id are required")
			return
		}

		date := req.Date
		if date == "" {
			date = database.Today()
		}

		allocation, err := database.CreateAllocation(db, req.DriverID, req.VehicleID, date)
		if err != nil {
			log.Printf("❌ Failed to create allocation: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("✅ Allocation created: driver %s + vehicle %s on %s", allocation.DriverID, allocation.VehicleID, allocation.Date)
		utils.RespondData(w, http.StatusCreated, allocation)
	}
}

// GetAllocations lists allocations for a date (?date=YYYY-MM-DD,
// defaults to today)
func GetAllocations(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = database.Today()
		}

		allocations, err := database.ListAllocations(db, date)
		if err != nil {
			log.Printf("❌ Failed to fetch allocations: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		utils.RespondData(w, http.StatusOK, allocations)
	}
}
