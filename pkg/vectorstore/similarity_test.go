package vectorstore

import (
	"math"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"identical", 0, 1},
		{"unit distance", 1, 0.5},
		{"squared distance four", 4, 1.0 / 3.0},
		{"negative clamped", -2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.distance); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%v) = %v, want %v", tt.distance, got, tt.want)
			}
		})
	}
}

func TestScoreMonotonicallyDecreasing(t *testing.T) {
	prev := Score(0)
	for d := 1.0; d <= 64; d *= 2 {
		got := Score(d)
		if got >= prev {
			t.Fatalf("Score(%v) = %v, not below Score of smaller distance %v", d, got, prev)
		}
		prev = got
	}
}

func TestScoreAgainstDefaultThreshold(t *testing.T) {
	// Distances near the default threshold boundary. 1/(1+sqrt(d)) = 0.17
	// at d ~ 23.84, so anything closer passes and anything farther fails.
	if got := Score(20); got < DefaultScoreThreshold {
		t.Errorf("Score(20) = %v, expected at or above threshold %v", got, DefaultScoreThreshold)
	}
	if got := Score(30); got >= DefaultScoreThreshold {
		t.Errorf("Score(30) = %v, expected below threshold %v", got, DefaultScoreThreshold)
	}
}
