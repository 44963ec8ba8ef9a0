package agent

import (
	"context"
	"strings"
)

// MockAdapter provides deterministic local replies when no generation backend
// is configured. It answers intent requests by keyword and extraction requests
// with a plain clarifying reply (no EXTRACTED_JSON section), which leaves the
// requirements document untouched.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

var (
	mockGreetingWords = []string{"hello", "hi", "hey", "good morning", "good evening", "how are you"}
	mockTravelWords   = []string{"travel", "trip", "visit", "go", "plan", "book", "vacation", "holiday"}
)

func (a *MockAdapter) Complete(ctx context.Context, req Request) (Response, error) {
	select {
	case <-ctx.Done():
		return Response{}, ctx.Err()
	default:
	}

	lower := strings.ToLower(req.UserInput)
	switch req.Kind {
	case KindIntent:
		for _, w := range mockGreetingWords {
			if strings.Contains(lower, w) {
				return Response{Text: "greeting"}, nil
			}
		}
		for _, w := range mockTravelWords {
			if strings.Contains(lower, w) {
				return Response{Text: "planning"}, nil
			}
		}
		return Response{Text: "other"}, nil
	case KindGreeting:
		return Response{Text: "Hello! I'm your sustainable travel planner. Where would you like to go for your next trip?"}, nil
	default:
		return Response{Text: "RESPONSE: I'd love to help plan that. Could you share your destination, dates, budget and preferred pace?"}, nil
	}
}
