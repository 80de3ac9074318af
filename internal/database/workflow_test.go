package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

// One full delivery day: allocate, start the shift, run an order to
// completion with the inventory transfer, report positions, end the
// shift.
func TestDeliveryDayWorkflow(t *testing.T) {
	db := testDB(t)

	hub := createTestHub(t, db, "Central Fuel Depot")
	terminal := createTestTerminal(t, db, "Airport Station")
	diesel := createTestProduct(t, db, "Diesel")
	_, err := AdjustInventory(db, hub.ID, models.LocationHub, diesel.ID, 50000)
	require.NoError(t, err)

	driver := createTestDriver(t, db, "Ramesh")
	vehicle := createTestVehicle(t, db, models.VehicleAvailable)

	allocation, err := CreateAllocation(db, driver.ID, vehicle.ID, Today())
	require.NoError(t, err)

	// Today's allocation reserves the vehicle
	var vehicleStatus string
	require.NoError(t, db.Get(&vehicleStatus, "SELECT status FROM vehicles WHERE id = $1", vehicle.ID))
	assert.Equal(t, "assigned", vehicleStatus)

	shift, err := StartShift(db, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, allocation.ID, shift.AllocationID)

	order, err := CreateOrder(db, CreateOrderParams{
		ShiftID:    shift.ID,
		TerminalID: terminal.ID,
		ProductID:  diesel.ID,
		Quantity:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, hub.ID, order.SourceHubID)

	_, err = RecordPosition(db, vehicle.ID, 27.7172, 85.3240, time.Now().Unix())
	require.NoError(t, err)

	_, err = StartTransit(db, order.ID)
	require.NoError(t, err)

	completed, err := CompleteOrder(db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, completed.Status)

	// Conservation: 500 left the hub, 500 arrived at the terminal
	assert.Equal(t, 49500.0, inventoryQuantity(t, db, hub.ID, diesel.ID))
	assert.Equal(t, 500.0, inventoryQuantity(t, db, terminal.ID, diesel.ID))

	ended, err := EndShift(db, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftStatusEnded, ended.Status)

	// The day is over: no active shift, fleet released
	active, err := GetActiveShift(db, driver.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = CreateOrder(db, CreateOrderParams{
		ShiftID: shift.ID, TerminalID: terminal.ID, ProductID: diesel.ID, Quantity: 100,
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotActive, appErr.Kind)
}
