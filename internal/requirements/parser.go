package requirements

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedExtraction reports that an EXTRACTED_JSON section was present but
// did not decode into a valid requirements document.
var ErrMalformedExtraction = errors.New("extraction payload malformed")

// Extraction is the parsed form of the capability's free-text reply.
//
// The expected grammar is three optional tagged sections, in order:
//
//	EXTRACTED_JSON: { ...full replacement document... }
//	RESPONSE: assistant reply text
//	PHASE: initial|collecting|complete
//
// A section's content runs from its tag to the next known tag or end of input.
// Missing sections are not an error; a present but undecodable EXTRACTED_JSON
// section is, and in that case the caller must keep its prior document.
type Extraction struct {
	Document    Document
	HasDocument bool
	Reply       string
	NextPhase   Phase
	HasPhase    bool
}

var sectionTags = []string{"EXTRACTED_JSON:", "RESPONSE:", "PHASE:"}

// ParseExtraction parses the tagged-section convention out of raw capability
// output. The capability is untrusted: the only failure mode is returning
// ErrMalformedExtraction with HasDocument=false, never a partially-applied
// document.
func ParseExtraction(raw string) (Extraction, error) {
	var out Extraction

	sections := splitSections(raw)

	if reply, ok := sections["RESPONSE:"]; ok {
		out.Reply = strings.TrimSpace(reply)
	}
	if phase, ok := sections["PHASE:"]; ok {
		if p, valid := ParsePhase(firstWord(phase)); valid {
			out.NextPhase = p
			out.HasPhase = true
		}
	}

	body, ok := sections["EXTRACTED_JSON:"]
	if !ok {
		return out, nil
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return out, ErrMalformedExtraction
	}
	out.Document = doc
	out.HasDocument = true
	return out, nil
}

// splitSections slices raw into tag->content by scanning for known tags.
func splitSections(raw string) map[string]string {
	type mark struct {
		tag   string
		start int // index just past the tag
	}
	var marks []mark
	for _, tag := range sectionTags {
		idx := strings.Index(raw, tag)
		if idx < 0 {
			continue
		}
		marks = append(marks, mark{tag: tag, start: idx + len(tag)})
	}
	// Tags are searched in fixed order but may appear in any order in the text;
	// sort marks by position so content runs until the next tag that follows it.
	for i := 1; i < len(marks); i++ {
		for j := i; j > 0 && marks[j].start < marks[j-1].start; j-- {
			marks[j], marks[j-1] = marks[j-1], marks[j]
		}
	}

	out := make(map[string]string, len(marks))
	for i, m := range marks {
		end := len(raw)
		if i+1 < len(marks) {
			end = marks[i+1].start - len(marks[i+1].tag)
		}
		out[m.tag] = raw[m.start:end]
	}
	return out
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// decodeDocument requires a single JSON object carrying a "requirements" key.
// Anything else (truncated JSON, trailing garbage, a bare object with no
// requirements) counts as malformed.
func decodeDocument(body string) (Document, error) {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "{") {
		return Document{}, ErrMalformedExtraction
	}

	var probe struct {
		Requirements *json.RawMessage `json:"requirements"`
	}
	if err := json.Unmarshal([]byte(body), &probe); err != nil {
		return Document{}, err
	}
	if probe.Requirements == nil {
		return Document{}, ErrMalformedExtraction
	}

	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
