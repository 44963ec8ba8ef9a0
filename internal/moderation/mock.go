package moderation

import (
	"context"
	"strings"
)

// MockCapability provides deterministic local verdicts when no moderation
// backend is configured. It flags a small set of blatant-harm markers so local
// runs still exercise both branches of the pipeline.
type MockCapability struct {
	// Err, when set, is returned on every call. Used to drive fallback paths.
	Err error
}

func NewMockCapability() *MockCapability { return &MockCapability{} }

var mockHarmMarkers = []string{"harm people", "kill", "weapon", "attack someone"}

func (m *MockCapability) Moderate(ctx context.Context, text string) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}
	if m.Err != nil {
		return Result{}, m.Err
	}

	lower := strings.ToLower(text)
	for _, marker := range mockHarmMarkers {
		if strings.Contains(lower, marker) {
			return Result{
				Flagged:        true,
				Categories:     map[string]bool{"violence": true},
				CategoryScores: map[string]float64{"violence": 0.92},
			}, nil
		}
	}
	return Result{Categories: map[string]bool{}, CategoryScores: map[string]float64{}}, nil
}
