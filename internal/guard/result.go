package guard

// Blocked-reason tags surfaced to callers. These are contract values, not
// user-facing copy.
const (
	ReasonPolicyViolation    = "policy_violation"
	ReasonOffTopic           = "off_topic"
	ReasonPotentialInjection = "potential_injection"
	ReasonSensitiveData      = "sensitive_data"
)

// Result is the outcome of one validation pass. It lives for a single turn and
// is never persisted.
type Result struct {
	IsSafe           bool    `json:"is_safe"`
	RiskScore        float64 `json:"risk_score"`
	ThreatsFound     int     `json:"threats_found"`
	BlockedReason    string  `json:"blocked_reason,omitempty"`
	GuardrailActive  bool    `json:"guardrail_active"`
	PrivacySafe      bool    `json:"privacy_safe"`
	FilteredResponse string  `json:"filtered_response,omitempty"`
}
