package vectorstore

import "math"

// DefaultScoreThreshold is the relevance floor applied to snippet scores
// before they are offered to the writing pipeline.
const DefaultScoreThreshold = 0.17

// Score converts a squared L2 distance into a similarity in (0, 1].
// Identical vectors score 1 and the score decays as distance grows.
func Score(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return 1 / (1 + math.Sqrt(distance))
}
