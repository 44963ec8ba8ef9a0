package guard

import "strings"

// Gate judges whether text is travel-related using keyword heuristics only.
// Matching is deliberately naive: no stemming, no negation handling. "not
// interested in politics" still counts as a politics hit. Changing that is a
// product decision, not a bug fix.
type Gate struct {
	minWords int
}

const defaultMinWords = 5

func NewGate() *Gate {
	return &Gate{minWords: defaultMinWords}
}

var domainKeywords = []string{
	"travel", "trip", "visit", "vacation", "holiday", "destination",
	"flight", "hotel", "accommodation", "stay", "book", "booking",
	"itinerary", "tour", "sightseeing", "explore",
	"budget", "city", "country", "beach", "museum",
	"eco", "sustainable", "singapore",
}

var offTopicKeywords = []string{
	"politics", "political", "election", "government",
	"programming", "code", "software",
	"medical", "diagnosis", "prescription",
	"legal", "lawsuit", "lawyer",
	"stock", "invest", "crypto",
	"homework", "essay", "assignment",
}

// CheckDomain returns whether the text is in-domain and, when it is not, a
// short machine-readable reason.
//
// Decision order: short texts always pass, then any domain keyword passes,
// then any off-topic keyword rejects, and ambiguous text fails open.
func (g *Gate) CheckDomain(text string) (inDomain bool, reason string) {
	if len(strings.Fields(text)) < g.minWords {
		// Greetings and short replies must never be rejected for lacking
		// topical vocabulary.
		return true, ""
	}

	lower := strings.ToLower(text)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			return true, ""
		}
	}
	for _, kw := range offTopicKeywords {
		if strings.Contains(lower, kw) {
			return false, "matched off-topic keyword: " + kw
		}
	}
	return true, ""
}
