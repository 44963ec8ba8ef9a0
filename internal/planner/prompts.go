package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/memory"
)

// recentHistoryTurns bounds how much conversation context is replayed into the
// extraction prompt.
const recentHistoryTurns = 6

func buildIntentPrompt(userInput string) string {
	return fmt.Sprintf(
		"Classify the user's message as exactly one of: greeting, planning, other.\n"+
			"greeting = small talk or a salutation; planning = anything about organizing travel;\n"+
			"other = everything else.\n\nUser message: %s\n\nAnswer with the single label only.",
		userInput,
	)
}

func buildGreetingPrompt(userInput string) string {
	return fmt.Sprintf(
		"The user greeted you: %q. Reply warmly in one or two sentences and steer the\n"+
			"conversation toward planning a sustainable trip.",
		userInput,
	)
}

func buildExtractionPrompt(userInput string, rec memory.Record) string {
	currentJSON, err := json.MarshalIndent(rec.Requirements, "", "  ")
	if err != nil {
		currentJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are collecting travel requirements. Merge the user's message into the\n")
	b.WriteString("current requirements document and reply using exactly these tagged sections:\n\n")
	b.WriteString("EXTRACTED_JSON: <the full updated requirements document as one JSON object>\n")
	b.WriteString("RESPONSE: <your reply to the user>\n")
	b.WriteString("PHASE: <initial|collecting|complete>\n\n")

	if history := formatHistory(rec.ConversationHistory); history != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(history)
		b.WriteString("\n\n")
	}
	b.WriteString("Current requirements:\n")
	b.Write(currentJSON)
	b.WriteString("\n\nCurrent phase: ")
	b.WriteString(string(rec.Phase))
	b.WriteString("\n\nUser message: ")
	b.WriteString(userInput)
	return b.String()
}

func formatHistory(history []memory.Turn) string {
	if len(history) > recentHistoryTurns {
		history = history[len(history)-recentHistoryTurns:]
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, turn.Role+": "+turn.Message)
	}
	return strings.Join(lines, "\n")
}
