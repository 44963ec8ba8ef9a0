package planner

import (
	"context"
	"strings"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/agent"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/memory"
	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/requirements"
)

// Intent labels assigned to each user turn.
const (
	IntentGreeting = "greeting"
	IntentPlanning = "planning"
	IntentOther    = "other"
)

// Canned replies used when the generation capability is unavailable or the
// turn cannot advance requirements gathering.
const (
	fallbackGreetingReply   = "Hello! I'm here to help you plan sustainable travel. Where would you like to go?"
	fallbackPlanningReply   = "I'd be happy to help you plan your sustainable travel! Could you tell me where you'd like to go and when?"
	defaultPlanningReply    = "Let me help you plan your trip!"
	redirectWithProgress    = "I'd love to chat, but let's focus on planning your trip first. What other travel details can you share with me?"
	redirectWithoutProgress = "I'm here to help you plan sustainable travel. Where would you like to go for your next trip?"
	completionClosing       = "Excellent! I have all the information needed for your sustainable travel planning."
)

// TurnResult is the engine's answer for one conversational turn.
type TurnResult struct {
	Response              string                `json:"response"`
	Intent                string                `json:"intent"`
	RequirementsExtracted bool                  `json:"requirements_extracted"`
	Requirements          requirements.Document `json:"requirements_data"`
	Phase                 requirements.Phase    `json:"phase"`
}

// Engine owns the conversation phase state machine. It reads and writes
// session state through the tiered store and treats the generation capability
// as an untrusted text source.
type Engine struct {
	store    *memory.Store
	adapter  agent.Adapter
	template requirements.Document
}

func NewEngine(store *memory.Store, adapter agent.Adapter) *Engine {
	return &Engine{
		store:    store,
		adapter:  adapter,
		template: requirements.NewTemplate(),
	}
}

// ClassifyIntent labels a user turn as greeting, planning or other. Capability
// failure degrades to keyword classification rather than failing the turn.
func (e *Engine) ClassifyIntent(ctx context.Context, userInput string) string {
	res, err := e.adapter.Complete(ctx, agent.Request{
		Kind:      agent.KindIntent,
		UserInput: userInput,
		Prompt:    buildIntentPrompt(userInput),
	})
	if err != nil {
		return classifyIntentFallback(userInput)
	}

	label := strings.ToLower(strings.TrimSpace(res.Text))
	switch {
	case strings.Contains(label, IntentGreeting):
		return IntentGreeting
	case strings.Contains(label, IntentOther):
		return IntentOther
	default:
		return IntentPlanning
	}
}

var (
	greetingWords = []string{"hello", "hi", "hey", "good morning", "good evening", "how are you"}
	travelWords   = []string{"travel", "trip", "visit", "go", "plan", "book", "vacation", "holiday"}
)

func classifyIntentFallback(userInput string) string {
	lower := strings.ToLower(userInput)
	for _, w := range greetingWords {
		if strings.Contains(lower, w) {
			return IntentGreeting
		}
	}
	for _, w := range travelWords {
		if strings.Contains(lower, w) {
			return IntentPlanning
		}
	}
	return IntentOther
}

// GatherRequirements advances the session for one validated user turn.
func (e *Engine) GatherRequirements(ctx context.Context, userInput, intent, sessionID string) TurnResult {
	switch intent {
	case IntentGreeting:
		return e.handleGreeting(ctx, userInput, sessionID)
	case IntentOther:
		return e.handleOther(ctx, sessionID)
	default:
		return e.handlePlanning(ctx, userInput, sessionID)
	}
}

func (e *Engine) handleGreeting(ctx context.Context, userInput, sessionID string) TurnResult {
	rec := e.store.Get(ctx, sessionID, e.template)

	reply := fallbackGreetingReply
	res, err := e.adapter.Complete(ctx, agent.Request{
		Kind:      agent.KindGreeting,
		SessionID: sessionID,
		UserInput: userInput,
		Prompt:    buildGreetingPrompt(userInput),
	})
	if err == nil && strings.TrimSpace(res.Text) != "" {
		reply = strings.TrimSpace(res.Text)
	}

	// A greeting keeps the session in the initial phase; a completed session
	// is never reopened by small talk.
	if rec.Phase != requirements.PhaseComplete {
		rec.Phase = requirements.PhaseInitial
	}
	rec.ConversationHistory = append(rec.ConversationHistory,
		memory.Turn{Role: "user", Message: userInput},
		memory.Turn{Role: "agent", Message: reply},
	)
	rec = e.store.Put(ctx, rec)

	return TurnResult{
		Response:     reply,
		Intent:       IntentGreeting,
		Requirements: rec.Requirements,
		Phase:        rec.Phase,
	}
}

// handleOther answers off-topic turns with a fixed redirect. Requirements,
// phase and history are all left untouched.
func (e *Engine) handleOther(ctx context.Context, sessionID string) TurnResult {
	rec := e.store.Get(ctx, sessionID, e.template)

	reply := redirectWithoutProgress
	if rec.Requirements.HasAnyProgress() {
		reply = redirectWithProgress
	}
	return TurnResult{
		Response:     reply,
		Intent:       IntentOther,
		Requirements: rec.Requirements,
		Phase:        rec.Phase,
	}
}

func (e *Engine) handlePlanning(ctx context.Context, userInput, sessionID string) TurnResult {
	rec := e.store.Get(ctx, sessionID, e.template)

	res, err := e.adapter.Complete(ctx, agent.Request{
		Kind:      agent.KindExtraction,
		SessionID: sessionID,
		UserInput: userInput,
		Prompt:    buildExtractionPrompt(userInput, rec),
	})
	if err != nil {
		// Capability unavailable: generic clarifying reply, no state change.
		return TurnResult{
			Response:     fallbackPlanningReply,
			Intent:       IntentPlanning,
			Requirements: rec.Requirements,
			Phase:        rec.Phase,
		}
	}

	parsed, parseErr := requirements.ParseExtraction(res.Text)

	doc := rec.Requirements
	if parsed.HasDocument {
		// The capability returns a full replacement document; it is
		// authoritative for this turn only because it decoded cleanly.
		doc = parsed.Document
	}

	reply := parsed.Reply
	if reply == "" {
		reply = defaultPlanningReply
	}

	phase := rec.Phase
	if parseErr == nil {
		phase = nextPhase(rec.Phase, parsed)
	}
	complete := doc.Complete()
	if complete {
		phase = requirements.PhaseComplete
		reply += "\n\n" + completionClosing
	}

	rec.Requirements = doc
	rec.Phase = phase
	rec.ConversationHistory = append(rec.ConversationHistory,
		memory.Turn{Role: "user", Message: userInput},
		memory.Turn{Role: "agent", Message: reply},
	)
	rec = e.store.Put(ctx, rec)

	extracted := parsed.HasDocument && complete
	return TurnResult{
		Response:              reply,
		Intent:                IntentPlanning,
		RequirementsExtracted: extracted,
		Requirements:          rec.Requirements,
		Phase:                 rec.Phase,
	}
}

// nextPhase applies the capability's proposed transition under two rules:
// complete is sticky, and a failed extraction never forces the phase forward.
func nextPhase(current requirements.Phase, parsed requirements.Extraction) requirements.Phase {
	if current == requirements.PhaseComplete {
		return requirements.PhaseComplete
	}
	if parsed.HasPhase && parsed.NextPhase != requirements.PhaseComplete {
		// PhaseComplete is only ever entered through the completion check.
		return parsed.NextPhase
	}
	if parsed.HasDocument && current == requirements.PhaseInitial {
		return requirements.PhaseCollecting
	}
	return current
}
