package guard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/moderation"
)

// Pipeline composes the moderation classifier and the domain gate into one
// input verdict and a separate output verdict.
//
// Policy: fail open. Every branch that depends on the external capability has a
// deterministic local fallback, so a moderation outage degrades the checks
// instead of blocking the product.
type Pipeline struct {
	classifier *moderation.Classifier
	gate       *Gate
	enabled    bool
	timeout    time.Duration
}

// NewPipeline wires the validation pipeline. classifier may be nil when the
// moderation capability is administratively disabled; the pipeline then routes
// every check through the local fallback validators.
func NewPipeline(classifier *moderation.Classifier, gate *Gate, enabled bool, timeout time.Duration) *Pipeline {
	if gate == nil {
		gate = NewGate()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Pipeline{
		classifier: classifier,
		gate:       gate,
		enabled:    enabled && classifier != nil,
		timeout:    timeout,
	}
}

// Enabled reports whether the external moderation path is active.
func (p *Pipeline) Enabled() bool { return p.enabled }

// ValidateInput screens caller text before it reaches the planning engine.
func (p *Pipeline) ValidateInput(ctx context.Context, text string) Result {
	if !p.enabled {
		return FallbackValidateInput(text)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// Classifier and gate are joined, not chained, so added latency is bounded
	// by the slower of the two.
	type classifyOut struct {
		verdict moderation.Verdict
		err     error
	}
	classifyCh := make(chan classifyOut, 1)
	go func() {
		v, err := p.classifier.Classify(ctx, text)
		classifyCh <- classifyOut{verdict: v, err: err}
	}()

	gateCh := make(chan gateOut, 1)
	go func() {
		in, reason := p.gate.CheckDomain(text)
		gateCh <- gateOut{inDomain: in, reason: reason}
	}()

	classified := <-classifyCh
	gated := <-gateCh

	if classified.err != nil {
		// Capability unavailable: recover locally, never surface the error.
		return FallbackValidateInput(text)
	}

	return combineInput(classified.verdict, gated)
}

type gateOut struct {
	inDomain bool
	reason   string
}

func combineInput(v moderation.Verdict, g gateOut) Result {
	res := Result{
		IsSafe:          v.IsSafe && g.inDomain,
		RiskScore:       v.RiskScore,
		ThreatsFound:    len(v.ViolationCategories),
		GuardrailActive: true,
		PrivacySafe:     true,
	}
	if !g.inDomain {
		if res.RiskScore < 0.7 {
			res.RiskScore = 0.7
		}
		res.ThreatsFound++
	}
	switch {
	case !v.IsSafe:
		res.BlockedReason = ReasonPolicyViolation
		if len(v.ViolationCategories) > 0 {
			res.BlockedReason += ": " + strings.Join(v.ViolationCategories, ", ")
		}
	case !g.inDomain:
		res.BlockedReason = ReasonOffTopic
		if g.reason != "" {
			res.BlockedReason += ": " + g.reason
		}
	}
	return res
}

// ValidateOutput screens a candidate assistant reply. There is no domain gate
// here; assistant text is assumed in-domain. A sensitive-data scan runs in
// addition to moderation.
func (p *Pipeline) ValidateOutput(ctx context.Context, text string) Result {
	if !p.enabled {
		return FallbackValidateOutput(text)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	verdict, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return FallbackValidateOutput(text)
	}

	privacySafe := !containsSensitiveData(text)
	res := Result{
		IsSafe:          verdict.IsSafe && privacySafe,
		RiskScore:       verdict.RiskScore,
		ThreatsFound:    len(verdict.ViolationCategories),
		GuardrailActive: true,
		PrivacySafe:     privacySafe,
	}
	if !privacySafe {
		res.ThreatsFound++
		if res.RiskScore < 0.8 {
			res.RiskScore = 0.8
		}
	}
	switch {
	case !verdict.IsSafe:
		res.BlockedReason = ReasonPolicyViolation
		if len(verdict.ViolationCategories) > 0 {
			res.BlockedReason += ": " + strings.Join(verdict.ViolationCategories, ", ")
		}
	case !privacySafe:
		res.BlockedReason = ReasonSensitiveData
	}
	if res.IsSafe {
		res.FilteredResponse = text
	} else {
		res.FilteredResponse = RedactionPlaceholder
	}
	return res
}

// ContentHash returns a short digest for content-integrity logging.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}
