package embedding

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	got := normalizeVector([]float32{3, 4})
	want := []float32{0.6, 0.8}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("normalizeVector()[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestNormalizeVectorZeroVector(t *testing.T) {
	got := normalizeVector([]float32{0, 0, 0})
	for i, v := range got {
		if v != 0 {
			t.Errorf("normalizeVector()[%d] = %f, want 0", i, v)
		}
	}
}

func TestNormalizeVectorUnitMagnitude(t *testing.T) {
	got := normalizeVector([]float32{0.2, -1.5, 3.7, 0.01})
	var mag float64
	for _, v := range got {
		mag += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(mag)-1) > 1e-6 {
		t.Errorf("normalized magnitude = %f, want 1", math.Sqrt(mag))
	}
}
