package memory

import (
	"context"
	"errors"
	"time"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/requirements"
)

// Turn is one entry of a session's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Stats accumulates per-session outcome counters feeding the trust score.
type Stats struct {
	ErrorCount         int `json:"error_count"`
	ResponsesGenerated int `json:"responses_generated"`
	SuccessfulTurns    int `json:"successful_turns"`
	BlockedInputs      int `json:"blocked_inputs"`
}

// Record is the full durable state of one session.
type Record struct {
	SessionID           string                `json:"session_id"`
	ConversationHistory []Turn                `json:"conversation_history"`
	Requirements        requirements.Document `json:"requirements"`
	Phase               requirements.Phase    `json:"phase"`
	Stats               Stats                 `json:"stats"`
	LastUpdated         time.Time             `json:"last_updated"`
}

// ErrNotFound reports a durable-store miss. Callers treat it as "use the
// default template", never as a failure.
var ErrNotFound = errors.New("session not found")

// DurableStore is the slow tier: the source of truth across process restarts.
type DurableStore interface {
	Load(ctx context.Context, sessionID string) (Record, error)
	Save(ctx context.Context, record Record) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}
