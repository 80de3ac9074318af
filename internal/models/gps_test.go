package models

import (
	"testing"
	"time"

	"fleetpanda-backend/internal/apperrors"
)

func TestValidateGPSSample(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		lat, lng  float64
		timestamp int64
		wantErr   bool
	}{
		{"valid sample", 27.7172, 85.3240, now.Unix(), false},
		{"lat at north pole", 90, 0, now.Unix(), false},
		{"lat at south pole", -90, 0, now.Unix(), false},
		{"lng at antimeridian", 0, 180, now.Unix(), false},
		{"lng at negative antimeridian", 0, -180, now.Unix(), false},
		{"lat too high", 90.01, 0, now.Unix(), true},
		{"lat too low", -90.01, 0, now.Unix(), true},
		{"lng too high", 0, 180.01, now.Unix(), true},
		{"lng too low", 0, -180.01, now.Unix(), true},
		{"zero timestamp", 0, 0, 0, true},
		{"negative timestamp", 0, 0, -1, true},
		{"timestamp within skew tolerance", 0, 0, now.Add(30 * time.Second).Unix(), false},
		{"timestamp at skew boundary", 0, 0, now.Add(60 * time.Second).Unix(), false},
		{"timestamp beyond skew tolerance", 0, 0, now.Add(61 * time.Second).Unix(), true},
		{"old timestamp accepted", 0, 0, now.Add(-24 * time.Hour).Unix(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGPSSample(tt.lat, tt.lng, tt.timestamp, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGPSSample(%v, %v, %d) error = %v, wantErr %v",
					tt.lat, tt.lng, tt.timestamp, err, tt.wantErr)
			}
			if err != nil {
				appErr, ok := apperrors.As(err)
				if !ok {
					t.Fatalf("expected AppError, got %T", err)
				}
				if appErr.Kind != apperrors.KindValidation {
					t.Errorf("expected kind %s, got %s", apperrors.KindValidation, appErr.Kind)
				}
			}
		})
	}
}
