package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

func TestAdjustInventory(t *testing.T) {
	db := testDB(t)

	hub := createTestHub(t, db, "Central Depot")
	product := createTestProduct(t, db, "Diesel")

	record, err := AdjustInventory(db, hub.ID, models.LocationHub, product.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, record.Quantity)

	// Second adjustment tops up the same record
	record, err = AdjustInventory(db, hub.ID, models.LocationHub, product.ID, 2500)
	require.NoError(t, err)
	assert.Equal(t, 7500.0, record.Quantity)

	var count int
	require.NoError(t, db.Get(&count,
		"SELECT COUNT(*) FROM inventory WHERE location_id = $1 AND product_id = $2",
		hub.ID, product.ID))
	assert.Equal(t, 1, count)
}

func TestAdjustInventoryValidation(t *testing.T) {
	db := testDB(t)

	hub := createTestHub(t, db, "Central Depot")
	product := createTestProduct(t, db, "Diesel")

	_, err := AdjustInventory(db, hub.ID, models.LocationHub, product.ID, -1)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)

	_, err = AdjustInventory(db, hub.ID, models.LocationType("warehouse"), product.ID, 100)
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
}

func TestTransfer(t *testing.T) {
	db := testDB(t)

	hub := createTestHub(t, db, "Central Depot")
	terminal := createTestTerminal(t, db, "North Station")
	product := createTestProduct(t, db, "Diesel")
	_, err := AdjustInventory(db, hub.ID, models.LocationHub, product.ID, 1000)
	require.NoError(t, err)

	// First transfer creates the terminal record
	require.NoError(t, Transfer(db, hub.ID, terminal.ID, product.ID, 300))
	assert.Equal(t, 700.0, inventoryQuantity(t, db, hub.ID, product.ID))
	assert.Equal(t, 300.0, inventoryQuantity(t, db, terminal.ID, product.ID))

	// Second transfer accumulates
	require.NoError(t, Transfer(db, hub.ID, terminal.ID, product.ID, 700))
	assert.Equal(t, 0.0, inventoryQuantity(t, db, hub.ID, product.ID))
	assert.Equal(t, 1000.0, inventoryQuantity(t, db, terminal.ID, product.ID))
}

func TestTransferInsufficientStock(t *testing.T) {
	db := testDB(t)

	hub := createTestHub(t, db, "Central Depot")
	terminal := createTestTerminal(t, db, "North Station")
	product := createTestProduct(t, db, "Diesel")
	_, err := AdjustInventory(db, hub.ID, models.LocationHub, product.ID, 100)
	require.NoError(t, err)

	err = Transfer(db, hub.ID, terminal.ID, product.ID, 101)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindInsufficientInventory, appErr.Kind)

	// Nothing moved
	assert.Equal(t, 100.0, inventoryQuantity(t, db, hub.ID, product.ID))
	var count int
	require.NoError(t, db.Get(&count,
		"SELECT COUNT(*) FROM inventory WHERE location_id = $1", terminal.ID))
	assert.Equal(t, 0, count)

	// A hub with no record at all is just as short
	empty := createTestHub(t, db, "Empty Depot")
	err = Transfer(db, empty.ID, terminal.ID, product.ID, 1)
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindInsufficientInventory, appErr.Kind)
}

func TestTransferValidation(t *testing.T) {
	db := testDB(t)

	hub := createTestHub(t, db, "Central Depot")
	terminal := createTestTerminal(t, db, "North Station")
	product := createTestProduct(t, db, "Diesel")

	for _, qty := range []float64{0, -5} {
		err := Transfer(db, hub.ID, terminal.ID, product.ID, qty)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	}
}

func TestListInventory(t *testing.T) {
	db := testDB(t)

	hub := createTestHub(t, db, "Central Depot")
	terminal := createTestTerminal(t, db, "North Station")
	diesel := createTestProduct(t, db, "Diesel")
	petrol := createTestProduct(t, db, "Petrol")

	_, err := AdjustInventory(db, hub.ID, models.LocationHub, diesel.ID, 1000)
	require.NoError(t, err)
	_, err = AdjustInventory(db, hub.ID, models.LocationHub, petrol.ID, 2000)
	require.NoError(t, err)
	_, err = AdjustInventory(db, terminal.ID, models.LocationTerminal, diesel.ID, 300)
	require.NoError(t, err)

	all, err := ListInventory(db, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	hubs, err := ListInventory(db, "hub", "")
	require.NoError(t, err)
	assert.Len(t, hubs, 2)

	dieselOnly, err := ListInventory(db, "", diesel.ID)
	require.NoError(t, err)
	assert.Len(t, dieselOnly, 2)

	hubDiesel, err := ListInventory(db, "hub", diesel.ID)
	require.NoError(t, err)
	require.Len(t, hubDiesel, 1)
	assert.Equal(t, 1000.0, hubDiesel[0].Quantity)
}
