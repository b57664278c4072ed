package geo

import (
	"math"
	"testing"
)

func TestDistanceZeroForIdenticalCoordinates(t *testing.T) {
	if d := Distance(10.762622, 106.660172, 10.762622, 106.660172); d != 0 {
		t.Errorf("expected 0 for identical coordinates, got %f", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{10.762622, 106.660172, 21.028511, 105.804817}, // HCMC <-> Hanoi
		{40.712776, -74.005974, 51.507351, -0.127758},  // NYC <-> London
		{-33.868820, 151.209290, 35.689487, 139.691711},
		{0, 0, 0, 180},
	}

	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{"HCMC to Hanoi", 10.762622, 106.660172, 21.028511, 105.804817, 1145, 15},
		{"NYC to London", 40.712776, -74.005974, 51.507351, -0.127758, 5570, 30},
		{"one degree of latitude", 0, 0, 1, 0, 111.19, 0.5},
	}

	for _, tt := range tests {
		got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
		if math.Abs(got-tt.wantKm) > tt.tolerance {
			t.Errorf("%s: got %.1f km, want %.1f ± %.1f", tt.name, got, tt.wantKm, tt.tolerance)
		}
	}
}
