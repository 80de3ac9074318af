package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fleetpanda-backend/internal/database"
	"fleetpanda-backend/internal/websocket"
	"fleetpanda-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type GPSUpdateRequest struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// RecordGPS ingests a position sample over HTTP. The driver app
// prefers the WebSocket path and falls back to this endpoint when the
// socket is down.
func RecordGPS(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GPSUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.VehicleID == "" {
			utils.RespondError(w, http.StatusBadRequest, "vehicle_id is required")
			return
		}

		sample, err := database.RecordPosition(db, req.VehicleID, req.Latitude, req.Longitude, req.Timestamp)
		if err != nil {
			log.Printf("❌ Failed to record position for vehicle %s: %v", req.VehicleID, err)
			utils.RespondAppError(w, err)
			return
		}

		hub.BroadcastToRole("admin", map[string]interface{}{
			"type": "vehicle_position_update",
			"data": map[string]interface{}{
				"vehicle_id": sample.VehicleID,
				"latitude":   sample.Latitude,
				"longitude":  sample.Longitude,
				"timestamp":  sample.Timestamp,
			},
		})

		utils.RespondData(w, http.StatusCreated, sample)
	}
}

// GetFleetStatus returns the latest known position of every vehicle
// that has ever reported, for the dashboard map
func GetFleetStatus(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := database.FleetSnapshot(db)
		if err != nil {
			log.Printf("❌ Failed to fetch fleet snapshot: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		utils.RespondData(w, http.StatusOK, snapshot)
	}
}
