package guard

import "regexp"

// Sensitive-data markers scanned on the output path. Modeled as compiled
// patterns so multi-word markers tolerate spacing and casing variants.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpassword\b`),
	regexp.MustCompile(`(?i)\bcredit\s*card\b`),
	regexp.MustCompile(`(?i)\bssn\b`),
	regexp.MustCompile(`(?i)\bsocial\s+security\b`),
	regexp.MustCompile(`(?i)\bapi[_ -]?key\b`),
	regexp.MustCompile(`(?i)\bsecret\b`),
	regexp.MustCompile(`(?i)\btoken\b`),
	regexp.MustCompile(`\bsk-[A-Za-z0-9]{4,}`),
}

// RedactionPlaceholder replaces assistant text that leaked sensitive markers.
const RedactionPlaceholder = "I apologize, but I cannot provide that information. Let me help you with your travel planning instead."

func containsSensitiveData(text string) bool {
	for _, re := range sensitivePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
