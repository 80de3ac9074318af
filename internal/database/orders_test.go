package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

type orderFixture struct {
	shift    *models.Shift
	hub      *models.Hub
	terminal *models.Terminal
	product  *models.Product
}

func setupOrderFixture(t *testing.T, db *sqlx.DB, hubStock float64) orderFixture {
	t.Helper()
	f := orderFixture{
		shift:    startTestShift(t, db),
		hub:      createTestHub(t, db, "Central Depot"),
		terminal: createTestTerminal(t, db, "North Station"),
		product:  createTestProduct(t, db, "Diesel"),
	}
	if hubStock > 0 {
		_, err := AdjustInventory(db, f.hub.ID, models.LocationHub, f.product.ID, hubStock)
		require.NoError(t, err)
	}
	return f
}

func TestCreateOrder(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 10000)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID:    f.shift.ID,
		TerminalID: f.terminal.ID,
		ProductID:  f.product.ID,
		Quantity:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 500.0, order.Quantity)
	// Source hub defaulted to the best-stocked hub
	assert.Equal(t, f.hub.ID, order.SourceHubID)
	assert.Nil(t, order.FailReason)
}

func TestCreateOrderPicksBestStockedHub(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 1000)

	richer := createTestHub(t, db, "East Depot")
	_, err := AdjustInventory(db, richer.ID, models.LocationHub, f.product.ID, 9000)
	require.NoError(t, err)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID:    f.shift.ID,
		TerminalID: f.terminal.ID,
		ProductID:  f.product.ID,
		Quantity:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, richer.ID, order.SourceHubID)

	// Explicit hub overrides the default
	order, err = CreateOrder(db, CreateOrderParams{
		ShiftID:     f.shift.ID,
		TerminalID:  f.terminal.ID,
		ProductID:   f.product.ID,
		SourceHubID: f.hub.ID,
		Quantity:    500,
	})
	require.NoError(t, err)
	assert.Equal(t, f.hub.ID, order.SourceHubID)
}

func TestCreateOrderGuards(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 10000)

	cases := []struct {
		name   string
		params CreateOrderParams
		kind   apperrors.Kind
	}{
		{"zero quantity", CreateOrderParams{ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 0}, apperrors.KindValidation},
		{"negative quantity", CreateOrderParams{ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: -10}, apperrors.KindValidation},
		{"unknown shift", CreateOrderParams{ShiftID: "nope", TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 100}, apperrors.KindNotFound},
		{"unknown terminal", CreateOrderParams{ShiftID: f.shift.ID, TerminalID: "nope", ProductID: f.product.ID, Quantity: 100}, apperrors.KindNotFound},
		{"unknown product", CreateOrderParams{ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: "nope", Quantity: 100}, apperrors.KindNotFound},
		{"unknown source hub", CreateOrderParams{ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, SourceHubID: "nope", Quantity: 100}, apperrors.KindNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateOrder(db, tc.params)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.kind, appErr.Kind)
		})
	}

	// Orders need an active shift
	_, err := EndShift(db, f.shift.ID)
	require.NoError(t, err)
	_, err = CreateOrder(db, CreateOrderParams{
		ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 100,
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotActive, appErr.Kind)
}

func TestCompleteOrderMovesInventory(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 10000)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 500,
	})
	require.NoError(t, err)

	inTransit, err := StartTransit(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderInTransit, inTransit.Status)

	completed, err := CompleteOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, completed.Status)

	assert.Equal(t, 9500.0, inventoryQuantity(t, db, f.hub.ID, f.product.ID))
	assert.Equal(t, 500.0, inventoryQuantity(t, db, f.terminal.ID, f.product.ID))
}

func TestCompleteOrderStraightFromPending(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 10000)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 500,
	})
	require.NoError(t, err)

	// The in_transit step is optional
	completed, err := CompleteOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, completed.Status)
}

func TestCompleteOrderInsufficientStock(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 400)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 500,
	})
	require.NoError(t, err)

	_, err = CompleteOrder(db, order.ID)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindInsufficientInventory, appErr.Kind)

	// Order stays open, stock untouched
	var status string
	require.NoError(t, db.Get(&status, "SELECT status FROM orders WHERE id = $1", order.ID))
	assert.Equal(t, "pending", status)
	assert.Equal(t, 400.0, inventoryQuantity(t, db, f.hub.ID, f.product.ID))

	// Resupply and the same order completes
	_, err = AdjustInventory(db, f.hub.ID, models.LocationHub, f.product.ID, 100)
	require.NoError(t, err)
	completed, err := CompleteOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, completed.Status)
	assert.Equal(t, 0.0, inventoryQuantity(t, db, f.hub.ID, f.product.ID))
}

func TestFailOrder(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 10000)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 500,
	})
	require.NoError(t, err)

	// Reason is mandatory
	_, err = FailOrder(db, order.ID, "   ")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)

	failed, err := FailOrder(db, order.ID, "terminal closed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderFailed, failed.Status)
	require.NotNil(t, failed.FailReason)
	assert.Equal(t, "terminal closed", *failed.FailReason)

	// No inventory moved
	assert.Equal(t, 10000.0, inventoryQuantity(t, db, f.hub.ID, f.product.ID))
}

func TestTerminalOrdersRejectTransitions(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 10000)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 500,
	})
	require.NoError(t, err)
	_, err = CompleteOrder(db, order.ID)
	require.NoError(t, err)

	for name, fn := range map[string]func() error{
		"complete again": func() error { _, err := CompleteOrder(db, order.ID); return err },
		"fail":           func() error { _, err := FailOrder(db, order.ID, "too late"); return err },
		"start transit":  func() error { _, err := StartTransit(db, order.ID); return err },
	} {
		t.Run(name, func(t *testing.T) {
			err := fn()
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindTerminalState, appErr.Kind)
		})
	}

	// Completing twice moved inventory exactly once
	assert.Equal(t, 9500.0, inventoryQuantity(t, db, f.hub.ID, f.product.ID))
}

func TestListShiftOrders(t *testing.T) {
	db := testDB(t)
	f := setupOrderFixture(t, db, 10000)

	for i := 0; i < 3; i++ {
		_, err := CreateOrder(db, CreateOrderParams{
			ShiftID: f.shift.ID, TerminalID: f.terminal.ID, ProductID: f.product.ID, Quantity: 100,
		})
		require.NoError(t, err)
	}

	orders, err := ListShiftOrders(db, f.shift.ID)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "North Station", orders[0].TerminalName)
	assert.Equal(t, "Diesel", orders[0].ProductName)

	none, err := ListShiftOrders(db, "no-such-shift")
	require.NoError(t, err)
	assert.Empty(t, none)
}
