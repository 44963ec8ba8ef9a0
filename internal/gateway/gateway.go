package gateway

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/guard"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/memory"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/observability"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/planner"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/requirements"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/trust"
)

// Conversation states reported to clients after each turn.
const (
	StateGreetingProcessed      = "greeting_processed"
	StateCollectingRequirements = "collecting_requirements"
	StateRequirementsComplete   = "requirements_complete"
	StateInputBlocked           = "input_blocked"
)

// IntentBlocked labels turns that never reached intent classification.
const IntentBlocked = "blocked"

const blockedReply = "I can only help with travel planning. Please ask about destinations, accommodations, or travel advice."

// PlanResult is the gateway's answer for one user turn.
type PlanResult struct {
	Success           bool    `json:"success"`
	Response          string  `json:"response"`
	SessionID         string  `json:"session_id"`
	Intent            string  `json:"intent"`
	ConversationState string  `json:"conversation_state"`
	TrustScore        float64 `json:"trust_score"`
}

// Gateway runs the full turn pipeline: input validation, intent
// classification, requirements gathering, output validation, trust scoring.
type Gateway struct {
	pipeline *guard.Pipeline
	engine   *planner.Engine
	store    *memory.Store
	template requirements.Document
	metrics  *observability.Metrics
	stages   *observability.StageWindow
}

func New(pipeline *guard.Pipeline, engine *planner.Engine, store *memory.Store, metrics *observability.Metrics, stages *observability.StageWindow) *Gateway {
	return &Gateway{
		pipeline: pipeline,
		engine:   engine,
		store:    store,
		template: requirements.NewTemplate(),
		metrics:  metrics,
		stages:   stages,
	}
}

// ProcessTurn advances one session by one validated conversational turn.
// A missing session id allocates a fresh session. The whole turn holds the
// per-session lock so concurrent requests for the same session serialize.
func (g *Gateway) ProcessTurn(ctx context.Context, sessionID, userInput string) PlanResult {
	start := time.Now()
	defer func() {
		g.stages.Observe("turn_total", time.Since(start))
		if g.metrics != nil {
			g.metrics.ObserveTurnLatency(time.Since(start))
		}
	}()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
		g.countSessionEvent("created")
	}

	unlock := g.store.LockSession(sessionID)
	defer unlock()

	in := g.timedStage("validate_input", func() guard.Result {
		return g.pipeline.ValidateInput(ctx, userInput)
	})
	g.countValidation("input", in)
	if !in.IsSafe {
		log.Printf("input blocked session=%s reason=%s hash=%s", sessionID, in.BlockedReason, guard.ContentHash(userInput))
		return g.blockTurn(ctx, sessionID)
	}

	stageStart := time.Now()
	intent := g.engine.ClassifyIntent(ctx, userInput)
	g.stages.Observe("classify_intent", time.Since(stageStart))
	if g.metrics != nil {
		g.metrics.TurnIntents.WithLabelValues(intent).Inc()
	}

	stageStart = time.Now()
	turn := g.engine.GatherRequirements(ctx, userInput, intent, sessionID)
	g.stages.Observe("gather_requirements", time.Since(stageStart))

	out := g.timedStage("validate_output", func() guard.Result {
		return g.pipeline.ValidateOutput(ctx, turn.Response)
	})
	g.countValidation("output", out)

	rec := g.store.Get(ctx, sessionID, g.template)
	rec.Stats.ResponsesGenerated++
	if out.IsSafe {
		rec.Stats.SuccessfulTurns++
	} else {
		rec.Stats.ErrorCount++
	}
	rec = g.store.Put(ctx, rec)
	g.syncGauges()

	return PlanResult{
		Success:           true,
		Response:          out.FilteredResponse,
		SessionID:         sessionID,
		Intent:            intent,
		ConversationState: conversationState(intent, turn.Phase),
		TrustScore:        trust.Score(rec.Stats, false),
	}
}

// blockTurn records the refused input and answers with the canned redirect.
// The session still advances its blocked counter so trust decays over time.
func (g *Gateway) blockTurn(ctx context.Context, sessionID string) PlanResult {
	rec := g.store.Get(ctx, sessionID, g.template)
	rec.Stats.BlockedInputs++
	rec = g.store.Put(ctx, rec)
	g.syncGauges()

	return PlanResult{
		Success:           false,
		Response:          blockedReply,
		SessionID:         sessionID,
		Intent:            IntentBlocked,
		ConversationState: StateInputBlocked,
		TrustScore:        trust.Score(rec.Stats, true),
	}
}

// ValidateInput exposes the security pipeline for the standalone
// validation endpoint.
func (g *Gateway) ValidateInput(ctx context.Context, text string) guard.Result {
	res := g.pipeline.ValidateInput(ctx, text)
	g.countValidation("input", res)
	return res
}

// ValidateOutput exposes the output screen for the standalone
// validation endpoint.
func (g *Gateway) ValidateOutput(ctx context.Context, text string) guard.Result {
	res := g.pipeline.ValidateOutput(ctx, text)
	g.countValidation("output", res)
	return res
}

// SessionInfo returns the current session record without mutating it.
func (g *Gateway) SessionInfo(ctx context.Context, sessionID string) (memory.Record, float64) {
	rec := g.store.Get(ctx, sessionID, g.template)
	return rec, trust.Score(rec.Stats, false)
}

// EndSession drops the session from the cache and the durable store.
func (g *Gateway) EndSession(ctx context.Context, sessionID string) {
	g.store.Delete(ctx, sessionID)
	g.countSessionEvent("deleted")
	g.syncGauges()
}

func (g *Gateway) timedStage(stage string, fn func() guard.Result) guard.Result {
	start := time.Now()
	res := fn()
	g.stages.Observe(stage, time.Since(start))
	return res
}

func (g *Gateway) countValidation(stage string, res guard.Result) {
	if g.metrics == nil {
		return
	}
	outcome := "passed"
	if !res.IsSafe {
		outcome = "blocked"
	}
	g.metrics.ValidationChecks.WithLabelValues(stage, outcome).Inc()
	if !res.GuardrailActive {
		g.metrics.FallbackActivations.WithLabelValues("guardrails").Inc()
	}
}

func (g *Gateway) countSessionEvent(event string) {
	if g.metrics != nil {
		g.metrics.SessionEvents.WithLabelValues(event).Inc()
	}
}

func (g *Gateway) syncGauges() {
	if g.metrics != nil {
		g.metrics.CachedSessions.Set(float64(g.store.CachedCount()))
	}
}

// conversationState derives the reported state from the session phase, so a
// session that already reached complete keeps reporting it on later turns.
func conversationState(intent string, phase requirements.Phase) string {
	switch {
	case phase == requirements.PhaseComplete:
		return StateRequirementsComplete
	case intent == planner.IntentGreeting:
		return StateGreetingProcessed
	default:
		return StateCollectingRequirements
	}
}
