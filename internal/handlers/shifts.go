package handlers

import (
	"log"
	"net/http"

	"fleetpanda-backend/internal/database"
	"fleetpanda-backend/internal/services"
	"fleetpanda-backend/internal/websocket"
	"fleetpanda-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// StartShift starts a shift for the driver against today's allocation
func StartShift(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/driver/%s/shift/start", driverID)

		shift, err := database.StartShift(db, driverID)
		if err != nil {
			log.Printf("❌ Failed to start shift for driver %s: %v", driverID, err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("✅ Shift started: %s (driver %s, vehicle %s)", shift.ID, shift.DriverID, shift.VehicleID)

		// Dashboard listens for shift changes to refresh the live view
		hub.BroadcastToRole("admin", map[string]interface{}{
			"type": "driver_shift_change",
			"data": map[string]interface{}{
				"shift_id":  shift.ID,
				"driver_id": shift.DriverID,
				"status":    shift.Status,
			},
		})

		utils.RespondData(w, http.StatusCreated, shift)
	}
}

// EndShift ends an active shift. Open orders stay open: they remain
// actionable and are not cancelled by the shift ending.
func EndShift(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shiftID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/driver/shift/%s/end", shiftID)

		shift, err := database.EndShift(db, shiftID)
		if err != nil {
			log.Printf("❌ Failed to end shift %s: %v", shiftID, err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("✅ Shift ended: %s (duration %s)", shift.ID, shift.Duration())

		hub.BroadcastToRole("admin", map[string]interface{}{
			"type": "driver_shift_change",
			"data": map[string]interface{}{
				"shift_id":  shift.ID,
				"driver_id": shift.DriverID,
				"status":    shift.Status,
			},
		})

		utils.RespondData(w, http.StatusOK, shift)
	}
}

// GetActiveShift returns the driver's active shift, or null data when
// the driver is off shift
func GetActiveShift(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID := chi.URLParam(r, "id")

		shift, err := database.GetActiveShift(db, driverID)
		if err != nil {
			log.Printf("❌ Failed to fetch active shift for driver %s: %v", driverID, err)
			utils.RespondAppError(w, err)
			return
		}

		utils.RespondData(w, http.StatusOK, shift)
	}
}

// GetShifts lists all shifts for the dispatcher dashboard
func GetShifts(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shifts, err := database.ListShifts(db)
		if err != nil {
			log.Printf("❌ Failed to fetch shifts: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		utils.RespondData(w, http.StatusOK, shifts)
	}
}

// ForceEndShift lets dispatch end a driver's shift remotely. The
// driver gets a push notification and a WebSocket message so the app
// can drop back to the idle screen.
func ForceEndShift(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shiftID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/admin/shifts/%s/force-end", shiftID)

		// Resolve driver's user account before the shift goes terminal
		driverUser, userErr := database.GetShiftDriverUser(db, shiftID)

		shift, err := database.EndShift(db, shiftID)
		if err != nil {
			log.Printf("❌ Failed to force-end shift %s: %v", shiftID, err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("✅ Shift force-ended by dispatch: %s (driver %s)", shift.ID, shift.DriverID)

		hub.BroadcastToRole("admin", map[string]interface{}{
			"type": "driver_shift_change",
			"data": map[string]interface{}{
				"shift_id":  shift.ID,
				"driver_id": shift.DriverID,
				"status":    shift.Status,
			},
		})

		if userErr == nil && driverUser != nil {
			hub.BroadcastToUser(driverUser.ID, map[string]interface{}{
				"type": "shift_force_ended",
				"data": map[string]interface{}{
					"shift_id": shift.ID,
				},
			})

			if fcm != nil {
				for _, token := range userFCMTokens(db, driverUser.ID) {
					if err := fcm.SendShiftForceEndedNotification(token, shift.ID); err != nil {
						log.Printf("⚠️ FCM send failed: %v", err)
					}
				}
			}
		}

		utils.RespondData(w, http.StatusOK, shift)
	}
}
