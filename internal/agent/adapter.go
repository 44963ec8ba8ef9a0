package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Request kinds understood by the capability. The prompt carries the full
// instruction text; Kind and UserInput exist so local adapters can answer
// deterministically without parsing prompts.
const (
	KindIntent     = "intent"
	KindGreeting   = "greeting"
	KindExtraction = "extraction"
)

// Request is the normalized request sent to the text-generation capability.
type Request struct {
	Kind      string `json:"kind"`
	SessionID string `json:"session_id"`
	UserInput string `json:"user_input"`
	Prompt    string `json:"prompt"`
}

// Response is the capability's free-text output. For extraction requests it is
// expected, not guaranteed, to follow the tagged-section convention.
type Response struct {
	Text string `json:"text"`
}

// Adapter bridges the planning engine with the text-generation capability.
type Adapter interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Config controls adapter construction.
type Config struct {
	Mode    string
	HTTPURL string
}

// NewAdapter picks an adapter: explicit http/mock, or auto (http when a URL is
// configured, mock otherwise).
func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPAdapter(cfg.HTTPURL), nil
		}
		return NewMockAdapter(), nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("agent HTTP url is required for http mode")
		}
		return NewHTTPAdapter(cfg.HTTPURL), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported agent adapter mode %q", cfg.Mode)
	}
}
