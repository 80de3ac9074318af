package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInvalidState, http.StatusConflict},
		{KindNotActive, http.StatusConflict},
		{KindAlreadyActive, http.StatusConflict},
		{KindNoAllocation, http.StatusConflict},
		{KindTerminalState, http.StatusConflict},
		{KindInsufficientInventory, http.StatusConflict},
		{KindStoreUnavailable, http.StatusServiceUnavailable},
		{Kind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.kind), "kind %s", tt.kind)
	}
}

func TestAs(t *testing.T) {
	err := NotFound("driver %s not found", "d-1")

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.Equal(t, "driver d-1 not found", appErr.Message)

	// Survives wrapping
	wrapped := fmt.Errorf("loading driver: %w", err)
	appErr, ok = As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, appErr.Kind)

	_, ok = As(fmt.Errorf("plain error"))
	assert.False(t, ok)

	_, ok = As(nil)
	assert.False(t, ok)
}

func TestErrorString(t *testing.T) {
	err := InsufficientInventory("hub %s short on %s", "h-1", "diesel")
	assert.Equal(t, "INSUFFICIENT_INVENTORY: hub h-1 short on diesel", err.Error())
}
