package moderation

import (
	"context"
	"sort"
)

// Result is the raw verdict returned by the moderation capability.
type Result struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// Capability invokes an external moderation backend for a piece of text.
type Capability interface {
	Moderate(ctx context.Context, text string) (Result, error)
}

// Verdict is the normalized classification the security pipeline consumes.
type Verdict struct {
	IsSafe              bool
	RiskScore           float64
	ViolationCategories []string
}

// Classifier normalizes capability results into pipeline verdicts.
//
// It deliberately does not recover from capability failures: a timeout or
// transport error propagates so the pipeline can choose its own fallback.
type Classifier struct {
	capability Capability
}

func NewClassifier(capability Capability) *Classifier {
	return &Classifier{capability: capability}
}

// Classify runs the moderation capability and normalizes its verdict.
// RiskScore is the maximum severity among flagged categories, clamped to [0,1].
func (c *Classifier) Classify(ctx context.Context, text string) (Verdict, error) {
	res, err := c.capability.Moderate(ctx, text)
	if err != nil {
		return Verdict{}, err
	}

	v := Verdict{IsSafe: !res.Flagged}
	for name, flagged := range res.Categories {
		if !flagged {
			continue
		}
		v.ViolationCategories = append(v.ViolationCategories, name)
		if score := res.CategoryScores[name]; score > v.RiskScore {
			v.RiskScore = score
		}
	}
	sort.Strings(v.ViolationCategories)

	if v.RiskScore > 1 {
		v.RiskScore = 1
	}
	if v.RiskScore < 0 {
		v.RiskScore = 0
	}
	// A flagged result with no per-category score still carries real risk.
	if res.Flagged && v.RiskScore == 0 {
		v.RiskScore = 0.5
	}
	return v, nil
}
