package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fleetpanda-backend/internal/database"
	"fleetpanda-backend/internal/models"
	"fleetpanda-backend/internal/services"
	"fleetpanda-backend/internal/websocket"
	"fleetpanda-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// CreateOrder creates a delivery order against an active shift and
// notifies the assigned driver
func CreateOrder(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Println("📥 REQUEST: POST /api/admin/orders")

		var params database.CreateOrderParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if params.ShiftID == "" || params.TerminalID == "" || params.ProductID == "" {
			utils.RespondError(w, http.StatusBadRequest, "shift_id, terminal_id, and product_id are required")
			return
		}

		order, err := database.CreateOrder(db, params)
		if err != nil {
			log.Printf("❌ Failed to create order: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("✅ Order created: %s (%.0f of %s to %s)", order.ID, order.Quantity, order.ProductID, order.TerminalID)

		notifyDriverOrderAssigned(db, hub, fcm, order)
		broadcastOrderUpdate(hub, order)

		utils.RespondData(w, http.StatusCreated, order)
	}
}

// GetOrders lists all orders for the dispatcher dashboard
func GetOrders(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := database.ListOrders(db)
		if err != nil {
			log.Printf("❌ Failed to fetch orders: %v", err)
			utils.RespondAppError(w, err)
			return
		}

		utils.RespondData(w, http.StatusOK, orders)
	}
}

// GetShiftOrders lists all orders attached to one shift
func GetShiftOrders(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shiftID := chi.URLParam(r, "id")

		orders, err := database.ListShiftOrders(db, shiftID)
		if err != nil {
			log.Printf("❌ Failed to fetch orders for shift %s: %v", shiftID, err)
			utils.RespondAppError(w, err)
			return
		}

		utils.RespondData(w, http.StatusOK, orders)
	}
}

// StartOrderTransit marks an order as picked up and in transit
func StartOrderTransit(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/driver/orders/%s/start", orderID)

		order, err := database.StartTransit(db, orderID)
		if err != nil {
			log.Printf("❌ Failed to start transit for order %s: %v", orderID, err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("🚚 Order in transit: %s", order.ID)
		broadcastOrderUpdate(hub, order)
		utils.RespondData(w, http.StatusOK, order)
	}
}

// CompleteOrder marks an order delivered. The status change and the
// hub-to-terminal inventory transfer commit in one transaction; if the
// source hub is short the order stays open and stock is untouched.
func CompleteOrder(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/driver/orders/%s/complete", orderID)

		order, err := database.CompleteOrder(db, orderID)
		if err != nil {
			log.Printf("❌ Failed to complete order %s: %v", orderID, err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("✅ Order completed: %s (%.0f of %s delivered to %s)", order.ID, order.Quantity, order.ProductID, order.TerminalID)
		broadcastOrderUpdate(hub, order)
		utils.RespondData(w, http.StatusOK, order)
	}
}

// FailOrder marks an order failed with a reason (?reason=). No
// inventory moves on failure.
func FailOrder(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")
		reason := r.URL.Query().Get("reason")
		log.Printf("📥 REQUEST: POST /api/driver/orders/%s/fail", orderID)

		order, err := database.FailOrder(db, orderID, reason)
		if err != nil {
			log.Printf("❌ Failed to fail order %s: %v", orderID, err)
			utils.RespondAppError(w, err)
			return
		}

		log.Printf("⚠️ Order failed: %s (%s)", order.ID, reason)
		broadcastOrderUpdate(hub, order)
		utils.RespondData(w, http.StatusOK, order)
	}
}

// broadcastOrderUpdate pushes an order change to all connected admins
func broadcastOrderUpdate(hub *websocket.Hub, order *models.Order) {
	hub.BroadcastToRole("admin", map[string]interface{}{
		"type": "order_update",
		"data": map[string]interface{}{
			"order_id": order.ID,
			"shift_id": order.ShiftID,
			"status":   order.Status,
		},
	})
}

// notifyDriverOrderAssigned pushes the new order to the driver's app
// over WebSocket and FCM. Best effort: the order exists regardless.
func notifyDriverOrderAssigned(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService, order *models.Order) {
	driverUser, err := database.GetShiftDriverUser(db, order.ShiftID)
	if err != nil || driverUser == nil {
		log.Printf("⚠️ No user account for shift %s driver, skipping notification", order.ShiftID)
		return
	}

	hub.BroadcastToUser(driverUser.ID, map[string]interface{}{
		"type": "order_assigned",
		"data": map[string]interface{}{
			"order_id": order.ID,
			"shift_id": order.ShiftID,
		},
	})

	if fcm == nil {
		return
	}

	var terminalName, productName string
	db.Get(&terminalName, "SELECT name FROM terminals WHERE id = $1", order.TerminalID)
	db.Get(&productName, "SELECT name FROM products WHERE id = $1", order.ProductID)

	for _, token := range userFCMTokens(db, driverUser.ID) {
		if err := fcm.SendOrderAssignedNotification(token, order.ID, terminalName, productName, order.Quantity); err != nil {
			log.Printf("⚠️ FCM send failed: %v", err)
		}
	}
}
