package trust

import (
	"testing"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/memory"
)

func TestScoreBounds(t *testing.T) {
	if got := Score(memory.Stats{}, false); got != 1.0 {
		t.Fatalf("fresh session score = %v, want 1.0", got)
	}
	if got := Score(memory.Stats{ErrorCount: 50}, false); got != 0 {
		t.Fatalf("heavily errored score = %v, want floor 0", got)
	}
	if got := Score(memory.Stats{SuccessfulTurns: 100}, false); got != 1.0 {
		t.Fatalf("score = %v, want ceiling 1.0", got)
	}
}

func TestScoreBlockedTurnCapped(t *testing.T) {
	if got := Score(memory.Stats{SuccessfulTurns: 10}, true); got != 0.5 {
		t.Fatalf("blocked turn score = %v, want 0.5 cap", got)
	}
}

func TestScorePenalizesErrorsAndBlocks(t *testing.T) {
	healthy := Score(memory.Stats{SuccessfulTurns: 3}, false)
	degraded := Score(memory.Stats{SuccessfulTurns: 3, ErrorCount: 2, BlockedInputs: 1}, false)
	if degraded >= healthy {
		t.Fatalf("degraded score %v not below healthy %v", degraded, healthy)
	}
}
