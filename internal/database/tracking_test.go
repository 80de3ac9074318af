package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetpanda-backend/internal/apperrors"
	"fleetpanda-backend/internal/models"
)

func TestRecordPosition(t *testing.T) {
	db := testDB(t)

	vehicle := createTestVehicle(t, db, models.VehicleOnShift)
	ts := time.Now().Unix()

	sample, err := RecordPosition(db, vehicle.ID, 27.7172, 85.3240, ts)
	require.NoError(t, err)
	assert.NotZero(t, sample.ID)
	assert.Equal(t, vehicle.ID, sample.VehicleID)

	// Appended to the log and reflected in the projection
	var logCount int
	require.NoError(t, db.Get(&logCount, "SELECT COUNT(*) FROM gps_logs WHERE vehicle_id = $1", vehicle.ID))
	assert.Equal(t, 1, logCount)

	var pos models.VehiclePosition
	require.NoError(t, db.Get(&pos, "SELECT * FROM vehicle_current_position WHERE vehicle_id = $1", vehicle.ID))
	assert.Equal(t, 27.7172, pos.Latitude)
	assert.Equal(t, ts, pos.Timestamp)
}

func TestRecordPositionGuards(t *testing.T) {
	db := testDB(t)

	vehicle := createTestVehicle(t, db, models.VehicleOnShift)
	ts := time.Now().Unix()

	_, err := RecordPosition(db, "no-such-vehicle", 27.7, 85.3, ts)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)

	cases := []struct {
		name     string
		lat, lng float64
		ts       int64
	}{
		{"latitude out of range", 91, 85.3, ts},
		{"longitude out of range", 27.7, 181, ts},
		{"zero timestamp", 27.7, 85.3, 0},
		{"far future timestamp", 27.7, 85.3, time.Now().Add(time.Hour).Unix()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecordPosition(db, vehicle.ID, tc.lat, tc.lng, tc.ts)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)
		})
	}

	// Rejected samples leave no trace in the log
	var logCount int
	require.NoError(t, db.Get(&logCount, "SELECT COUNT(*) FROM gps_logs WHERE vehicle_id = $1", vehicle.ID))
	assert.Equal(t, 0, logCount)
}

// Out-of-order samples append to the log but never move the
// projection backwards.
func TestRecordPositionOutOfOrder(t *testing.T) {
	db := testDB(t)

	vehicle := createTestVehicle(t, db, models.VehicleOnShift)
	newer := time.Now().Unix()
	older := newer - 300

	_, err := RecordPosition(db, vehicle.ID, 27.70, 85.30, newer)
	require.NoError(t, err)
	_, err = RecordPosition(db, vehicle.ID, 27.60, 85.20, older)
	require.NoError(t, err)

	var logCount int
	require.NoError(t, db.Get(&logCount, "SELECT COUNT(*) FROM gps_logs WHERE vehicle_id = $1", vehicle.ID))
	assert.Equal(t, 2, logCount)

	var pos models.VehiclePosition
	require.NoError(t, db.Get(&pos, "SELECT * FROM vehicle_current_position WHERE vehicle_id = $1", vehicle.ID))
	assert.Equal(t, newer, pos.Timestamp)
	assert.Equal(t, 27.70, pos.Latitude)

	// A duplicate timestamp is a no-op too
	_, err = RecordPosition(db, vehicle.ID, 27.99, 85.99, newer)
	require.NoError(t, err)
	require.NoError(t, db.Get(&pos, "SELECT * FROM vehicle_current_position WHERE vehicle_id = $1", vehicle.ID))
	assert.Equal(t, 27.70, pos.Latitude)
}

func TestFleetSnapshot(t *testing.T) {
	db := testDB(t)

	snapshot, err := FleetSnapshot(db)
	require.NoError(t, err)
	assert.Empty(t, snapshot)

	reporting := createTestVehicle(t, db, models.VehicleOnShift)
	silent := createTestVehicle(t, db, models.VehicleAvailable)
	_ = silent

	ts := time.Now().Unix()
	_, err = RecordPosition(db, reporting.ID, 27.7172, 85.3240, ts)
	require.NoError(t, err)

	// Only vehicles that have reported appear
	snapshot, err = FleetSnapshot(db)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, reporting.ID, snapshot[0].VehicleID)
	assert.Equal(t, reporting.LicensePlate, snapshot[0].LicensePlate)
	assert.Equal(t, models.VehicleOnShift, snapshot[0].Status)
	assert.Equal(t, ts, snapshot[0].Timestamp)
}
