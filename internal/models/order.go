package models

import "fleetpanda-backend/internal/apperrors"

// OrderStatus represents the delivery order state
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderInTransit OrderStatus = "in_transit"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
)

// Order is a single delivery task: a product quantity from a source
// hub to a destination terminal, carried out within one shift.
// Orders outlive their shift in storage (history); ending a shift does
// not cancel them.
type Order struct {
	ID          string      `json:"id" db:"id"`
	ShiftID     string      `json:"shift_id" db:"shift_id"`
	TerminalID  string      `json:"terminal_id" db:"terminal_id"`
	ProductID   string      `json:"product_id" db:"product_id"`
	SourceHubID string      `json:"source_hub_id" db:"source_hub_id"`
	Quantity    float64     `json:"quantity" db:"quantity"`
	Status      OrderStatus `json:"status" db:"status"`
	FailReason  *string     `json:"fail_reason" db:"fail_reason"`
	CreatedAt   int64       `json:"created_at" db:"created_at"`
	UpdatedAt   int64       `json:"updated_at" db:"updated_at"`
}

// orderTransitions is the authoritative state machine definition.
// pending and in_transit are both "open": complete and fail are legal
// from either, so a driver with flaky connectivity can finish an order
// without ever having marked it in transit.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderInTransit, OrderCompleted, OrderFailed},
	OrderInTransit: {OrderCompleted, OrderFailed},
	OrderCompleted: {},
	OrderFailed:    {},
}

// IsTerminal reports whether the status permits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderFailed
}

// IsOpen reports whether the order still accepts complete/fail actions
func (s OrderStatus) IsOpen() bool {
	return s == OrderPending || s == OrderInTransit
}

// CanTransition reports whether from -> to is an allowed status change
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GuardTransition returns the taxonomy error for an illegal transition,
// or nil when the change is allowed
func GuardTransition(from, to OrderStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	if from.IsTerminal() {
		return apperrors.TerminalState("order is already %s", from)
	}
	return apperrors.Validation("invalid order transition: %s -> %s", from, to)
}

// OrderDetail is an order joined with terminal/product names for the
// dashboard and driver list views
type OrderDetail struct {
	Order
	TerminalName string `json:"terminal_name" db:"terminal_name"`
	ProductName  string `json:"product_name" db:"product_name"`
}
