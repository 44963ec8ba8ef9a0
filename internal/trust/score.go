// Package trust derives a per-session confidence score from accumulated
// conversation outcomes. The score is advisory: it rides along on every turn
// response and never gates the pipeline itself.
package trust

import "github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/memory"

const (
	baseScore      = 1.0
	errorPenalty   = 0.15
	blockedPenalty = 0.10
	successBonus   = 0.02
	blockedCeiling = 0.5
)

// Score maps session stats to a trust value in [0,1]. Sessions whose latest
// input was blocked are capped at 0.5 regardless of history.
func Score(stats memory.Stats, lastTurnBlocked bool) float64 {
	score := baseScore
	score -= float64(stats.ErrorCount) * errorPenalty
	score -= float64(stats.BlockedInputs) * blockedPenalty
	score += float64(stats.SuccessfulTurns) * successBonus

	if score > 1 {
		score = 1
	}
	if lastTurnBlocked && score > blockedCeiling {
		score = blockedCeiling
	}
	if score < 0 {
		score = 0
	}
	return score
}
