package guard

import "strings"

// Deterministic validators used whenever the moderation capability is disabled
// or unreachable. No external calls, no shared state.

var injectionMarkers = []string{
	"ignore previous", "ignore all previous", "disregard previous",
	"system override", "forget instructions", "forget your instructions",
	"developer mode", "admin access", "bypass safety", "jailbreak",
	"reveal secrets", "you are now", "pretend you are",
}

var blatantOffTopicMarkers = []string{
	"politics", "election", "vote for",
	"medical advice", "legal advice", "financial advice",
	"write my homework", "do my homework", "homework",
	"programming",
}

// FallbackValidateInput scans lowercased text for injection and blatant
// off-topic markers. Injection wins when both families match.
func FallbackValidateInput(text string) Result {
	lower := strings.ToLower(text)

	injections := 0
	for _, marker := range injectionMarkers {
		if strings.Contains(lower, marker) {
			injections++
		}
	}
	offTopic := 0
	for _, marker := range blatantOffTopicMarkers {
		if strings.Contains(lower, marker) {
			offTopic++
		}
	}

	threats := injections + offTopic
	res := Result{
		IsSafe:       threats == 0,
		RiskScore:    min1(float64(threats) * 0.4),
		ThreatsFound: threats,
		PrivacySafe:  true,
	}
	switch {
	case injections > 0:
		res.BlockedReason = ReasonPotentialInjection
	case offTopic > 0:
		res.BlockedReason = ReasonOffTopic
	}
	return res
}

// FallbackValidateOutput scans assistant text for sensitive-data markers only.
func FallbackValidateOutput(text string) Result {
	if containsSensitiveData(text) {
		return Result{
			IsSafe:           false,
			RiskScore:        0.8,
			ThreatsFound:     1,
			BlockedReason:    ReasonSensitiveData,
			PrivacySafe:      false,
			FilteredResponse: RedactionPlaceholder,
		}
	}
	return Result{
		IsSafe:           true,
		RiskScore:        0.1,
		PrivacySafe:      true,
		FilteredResponse: text,
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
