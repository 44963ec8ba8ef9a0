package requirements

import (
	"errors"
	"strings"
	"testing"
)

const fullPayload = `EXTRACTED_JSON: {"requirements": {"destination_city": "Singapore", "trip_dates": {"start_date": "2025-12-20", "end_date": "2025-12-25"}, "duration_days": 5, "budget_total_sgd": 2000, "pace": "relaxed", "optional": {"interests": ["food"], "uninterests": []}}}
RESPONSE: Great, Singapore in December sounds lovely!
PHASE: collecting`

func TestParseExtractionFullPayload(t *testing.T) {
	got, err := ParseExtraction(fullPayload)
	if err != nil {
		t.Fatalf("ParseExtraction() error = %v", err)
	}
	if !got.HasDocument {
		t.Fatalf("HasDocument = false, want true")
	}
	r := got.Document.Requirements
	if r.DestinationCity != "Singapore" || r.TripDates.StartDate != "2025-12-20" || r.DurationDays != 5 {
		t.Fatalf("unexpected document: %+v", r)
	}
	if !strings.Contains(got.Reply, "Singapore in December") {
		t.Fatalf("Reply = %q", got.Reply)
	}
	if !got.HasPhase || got.NextPhase != PhaseCollecting {
		t.Fatalf("NextPhase = %q hasPhase=%v, want collecting", got.NextPhase, got.HasPhase)
	}
}

func TestParseExtractionReplyOnly(t *testing.T) {
	got, err := ParseExtraction("RESPONSE: Where would you like to go?")
	if err != nil {
		t.Fatalf("ParseExtraction() error = %v", err)
	}
	if got.HasDocument {
		t.Fatalf("HasDocument = true, want false")
	}
	if got.Reply != "Where would you like to go?" {
		t.Fatalf("Reply = %q", got.Reply)
	}
}

func TestParseExtractionMalformedJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"truncated object", `EXTRACTED_JSON: {"requirements": {"destination_city": "Sin` + "\nRESPONSE: ok"},
		{"not an object", `EXTRACTED_JSON: [1,2,3]` + "\nRESPONSE: ok"},
		{"missing requirements key", `EXTRACTED_JSON: {"destination_city": "Singapore"}` + "\nRESPONSE: ok"},
		{"wrong field type", `EXTRACTED_JSON: {"requirements": {"duration_days": "five"}}` + "\nRESPONSE: ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseExtraction(tc.raw)
			if !errors.Is(err, ErrMalformedExtraction) {
				t.Fatalf("error = %v, want ErrMalformedExtraction", err)
			}
			if got.HasDocument {
				t.Fatalf("HasDocument = true, want false")
			}
			if got.Reply != "ok" {
				t.Fatalf("Reply = %q, want %q (reply must survive a bad document)", got.Reply, "ok")
			}
		})
	}
}

func TestParseExtractionInvalidPhaseIgnored(t *testing.T) {
	got, err := ParseExtraction("RESPONSE: hi\nPHASE: negotiating")
	if err != nil {
		t.Fatalf("ParseExtraction() error = %v", err)
	}
	if got.HasPhase {
		t.Fatalf("HasPhase = true, want false for unknown phase name")
	}
}

func TestDocumentComplete(t *testing.T) {
	doc := NewTemplate()
	if doc.Complete() {
		t.Fatalf("empty template reported complete")
	}

	r := &doc.Requirements
	r.DestinationCity = "Singapore"
	r.TripDates.StartDate = "2025-12-20"
	r.TripDates.EndDate = "2025-12-25"
	r.DurationDays = 5
	r.BudgetTotalSGD = 1500
	if doc.Complete() {
		t.Fatalf("five of six mandatory fields reported complete")
	}

	r.Pace = "relaxed"
	if !doc.Complete() {
		t.Fatalf("all six mandatory fields reported incomplete")
	}
}

func TestHasAnyProgress(t *testing.T) {
	doc := NewTemplate()
	if doc.HasAnyProgress() {
		t.Fatalf("empty template reported progress")
	}
	doc.Requirements.BudgetTotalSGD = 800
	if !doc.HasAnyProgress() {
		t.Fatalf("budget set but no progress reported")
	}
}
