package kernel_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr string
	}{
		{name: "berlin", lat: 52.52, lng: 13.405},
		{name: "south pole antimeridian", lat: -90, lng: 180},
		{name: "latitude too high", lat: 90.5, lng: 0, wantErr: "latitude"},
		{name: "longitude too low", lat: 0, lng: -180.1, wantErr: "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := kernel.NewGeoPoint(tt.lat, tt.lng)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, errs.ErrValueIsOutOfRange))
				return
			}
			require.NoError(t, err)
			assert.NoError(t, p.Validate())
			assert.InDelta(t, tt.lat, p.Lat(), 1e-9)
			assert.InDelta(t, tt.lng, p.Lng(), 1e-9)
		})
	}
}

func TestNewGeoPoint_ReportsBothAxes(t *testing.T) {
	_, err := kernel.NewGeoPoint(100, 200)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "longitude")
}

func TestGeoPoint_ZeroValue(t *testing.T) {
	var p kernel.GeoPoint
	assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, p.Validate())
}
