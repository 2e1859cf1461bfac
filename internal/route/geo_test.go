package route

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantM                  float64
		tolM                   float64
	}{
		{"same point", 47.0, 8.0, 47.0, 8.0, 0, 1e-9},
		{"one degree of latitude", 0, 0, 1, 0, 111194.9, 1},
		{"one degree of longitude at the equator", 0, 0, 0, 1, 111194.9, 1},
		{"one degree of longitude at 60N", 60, 10, 60, 11, 55597.1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantM) > tt.tolM {
				t.Errorf("Haversine() = %.1f m, want %.1f ± %.1f", got, tt.wantM, tt.tolM)
			}
		})
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantDeg                float64
	}{
		{"due north", 47.0, 8.0, 47.1, 8.0, 0},
		{"due east at the equator", 0, 0, 0, 0.001, 90},
		{"due south", 47.1, 8.0, 47.0, 8.0, 180},
		{"due west at the equator", 0, 0.001, 0, 0, 270},
		{"northeast at the equator", 0, 0, 0.001, 0.001, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantDeg) > 0.05 {
				t.Errorf("Bearing() = %.3f°, want %.3f°", got, tt.wantDeg)
			}
		})
	}
}
