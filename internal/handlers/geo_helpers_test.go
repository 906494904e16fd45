package handlers

import "testing"

func TestHaversineKm(t *testing.T) {
	// Bengaluru to Mysuru, roughly 128 km as the crow flies.
	d := haversineKm(12.9716, 77.5946, 12.2958, 76.6394)
	if d < 120 || d > 135 {
		t.Errorf("expected roughly 128 km, got %.2f", d)
	}

	if d := haversineKm(12.9716, 77.5946, 12.9716, 77.5946); d != 0 {
		t.Errorf("expected zero distance for identical points, got %.6f", d)
	}

	// Symmetry.
	ab := haversineKm(12.9716, 77.5946, 19.0760, 72.8777)
	ba := haversineKm(19.0760, 72.8777, 12.9716, 77.5946)
	if diff := ab - ba; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected symmetric distance, got %.9f vs %.9f", ab, ba)
	}
}
