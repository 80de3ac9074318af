package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

// CreateOrderParams is the dispatcher's order request. SourceHubID is
// optional; when empty the hub holding the most stock of the product
// is chosen.
type CreateOrderParams struct {
	ShiftID     string  `json:"shift_id"`
	TerminalID  string  `json:"terminal_id"`
	ProductID   string  `json:"product_id"`
	SourceHubID string  `json:"source_hub_id"`
	Quantity    float64 `json:"quantity"`
}

// CreateOrder creates a pending delivery order against an active shift
func CreateOrder(db *sqlx.DB, params CreateOrderParams) (*models.Order, error) {
	if params.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be positive, got %f", params.Quantity)
	}

	var shift models.Shift
	err := db.Get(&shift, `SELECT * FROM shifts WHERE id = $1`, params.ShiftID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("shift %s not found", params.ShiftID)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !shift.IsActive() {
		return nil, apperrors.NotActive("shift %s is not active", params.ShiftID)
	}

	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM terminals WHERE id = $1)`, params.TerminalID); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !exists {
		return nil, apperrors.NotFound("terminal %s not found", params.TerminalID)
	}
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, params.ProductID); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if !exists {
		return nil, apperrors.NotFound("product %s not found", params.ProductID)
	}

	sourceHubID := params.SourceHubID
	if sourceHubID == "" {
		// Default origin: the hub with the largest stock of the product
		err := db.Get(&sourceHubID,
			`SELECT location_id FROM inventory
			 WHERE location_type = 'hub' AND product_id = $1
			 ORDER BY quantity DESC LIMIT 1`,
			params.ProductID,
		)
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("no hub carries product %s", params.ProductID)
		}
		if err != nil {
			return nil, apperrors.StoreUnavailable(err)
		}
	} else {
		if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM hubs WHERE id = $1)`, sourceHubID); err != nil {
			return nil, apperrors.StoreUnavailable(err)
		}
		if !exists {
			return nil, apperrors.NotFound("hub %s not found", sourceHubID)
		}
	}

	now := time.Now().Unix()
	order := &models.Order{
		ID:          uuid.New().String(),
		ShiftID:     params.ShiftID,
		TerminalID:  params.TerminalID,
		ProductID:   params.ProductID,
		SourceHubID: sourceHubID,
		Quantity:    params.Quantity,
		Status:      models.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = db.Exec(
		`INSERT INTO orders (id, shift_id, terminal_id, product_id, source_hub_id, quantity, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $8)`,
		order.ID, order.ShiftID, order.TerminalID, order.ProductID,
		order.SourceHubID, order.Quantity, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return order, nil
}

// lockOrder reads an order FOR UPDATE so concurrent transitions on the
// same order serialize on the row lock
func lockOrder(tx *sqlx.Tx, orderID string) (*models.Order, error) {
	var order models.Order
	err := tx.Get(&order, `SELECT * FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("order %s not found", orderID)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &order, nil
}

// StartTransit marks a pending order as on the road. Optional for the
// driver client; complete/fail remain legal straight from pending.
func StartTransit(db *sqlx.DB, orderID string) (*models.Order, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	defer tx.Rollback()

	order, err := lockOrder(tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := models.GuardTransition(order.Status, models.OrderInTransit); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if _, err := tx.Exec(
		`UPDATE orders SET status = 'in_transit', updated_at = $1 WHERE id = $2`,
		now, orderID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	order.Status = models.OrderInTransit
	order.UpdatedAt = now
	return order, nil
}

// CompleteOrder finishes a delivery: the status change and the
// hub→terminal inventory transfer commit or roll back together. On
// insufficient stock the order stays exactly as it was.
func CompleteOrder(db *sqlx.DB, orderID string) (*models.Order, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	defer tx.Rollback()

	order, err := lockOrder(tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := models.GuardTransition(order.Status, models.OrderCompleted); err != nil {
		return nil, err
	}

	if err := transferInventoryTx(tx, order.SourceHubID, order.TerminalID, order.ProductID, order.Quantity); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if _, err := tx.Exec(
		`UPDATE orders SET status = 'completed', updated_at = $1 WHERE id = $2`,
		now, orderID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	order.Status = models.OrderCompleted
	order.UpdatedAt = now
	return order, nil
}

// FailOrder records a failed delivery with its reason. No inventory
// effect: the product never left the hub.
func FailOrder(db *sqlx.DB, orderID, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation("failure reason is required")
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	defer tx.Rollback()

	order, err := lockOrder(tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := models.GuardTransition(order.Status, models.OrderFailed); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if _, err := tx.Exec(
		`UPDATE orders SET status = 'failed', fail_reason = $1, updated_at = $2 WHERE id = $3`,
		reason, now, orderID,
	); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	order.Status = models.OrderFailed
	order.FailReason = &reason
	order.UpdatedAt = now
	return order, nil
}

// ListOrders returns all orders joined with terminal/product names,
// newest first
func ListOrders(db *sqlx.DB) ([]models.OrderDetail, error) {
	return selectOrderDetails(db, "", nil)
}

// ListShiftOrders returns the orders belonging to one shift
func ListShiftOrders(db *sqlx.DB, shiftID string) ([]models.OrderDetail, error) {
	return selectOrderDetails(db, ` WHERE o.shift_id = $1`, []interface{}{shiftID})
}

func selectOrderDetails(db *sqlx.DB, where string, args []interface{}) ([]models.OrderDetail, error) {
	query := `SELECT o.id, o.shift_id, o.terminal_id, o.product_id, o.source_hub_id,
	                 o.quantity, o.status, o.fail_reason, o.created_at, o.updated_at,
	                 t.name AS terminal_name, p.name AS product_name
	          FROM orders o
	          JOIN terminals t ON o.terminal_id = t.id
	          JOIN products p ON o.product_id = p.id` + where + ` ORDER BY o.created_at DESC`

	orders := []models.OrderDetail{}
	if err := db.Select(&orders, query, args...); err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return orders, nil
}

// GetShiftDriverUser resolves the user account of the driver working a
// shift, for push notifications
func GetShiftDriverUser(db *sqlx.DB, shiftID string) (*models.User, error) {
	var user models.User
	err := db.Get(&user,
		`SELECT u.* FROM users u
		 JOIN shifts s ON u.driver_id = s.driver_id
		 WHERE s.id = $1 AND u.role = 'driver'`,
		shiftID,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("no driver account for shift %s", shiftID)
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &user, nil
}
