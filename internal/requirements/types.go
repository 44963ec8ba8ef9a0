package requirements

// Phase tracks how far requirements gathering has progressed for a session.
type Phase string

const (
	PhaseInitial    Phase = "initial"
	PhaseCollecting Phase = "collecting"
	PhaseComplete   Phase = "complete"
)

// ParsePhase validates a phase name proposed by the extraction capability.
func ParsePhase(s string) (Phase, bool) {
	switch Phase(s) {
	case PhaseInitial, PhaseCollecting, PhaseComplete:
		return Phase(s), true
	default:
		return "", false
	}
}

// TripDates holds the requested travel window.
type TripDates struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// AccommodationLocation narrows where the traveller wants to stay.
type AccommodationLocation struct {
	Neighborhood string `json:"neighborhood"`
}

// Optional groups preferences that refine a plan but never block completion.
type Optional struct {
	EcoPreferences        string                `json:"eco_preferences"`
	DietaryPreferences    string                `json:"dietary_preferences"`
	Interests             []string              `json:"interests"`
	Uninterests           []string              `json:"uninterests"`
	AccessibilityNeeds    string                `json:"accessibility_needs"`
	AccommodationLocation AccommodationLocation `json:"accommodation_location"`
	GroupType             string                `json:"group_type"`
}

// Fields is the fixed requirements schema collected over the conversation.
type Fields struct {
	DestinationCity string    `json:"destination_city"`
	TripDates       TripDates `json:"trip_dates"`
	DurationDays    int       `json:"duration_days"`
	BudgetTotalSGD  float64   `json:"budget_total_sgd"`
	Pace            string    `json:"pace"`
	Optional        Optional  `json:"optional"`
}

// Document is the running requirements record attached to a session.
type Document struct {
	Requirements Fields `json:"requirements"`
}

// NewTemplate returns the default empty document assigned to new sessions.
func NewTemplate() Document {
	return Document{
		Requirements: Fields{
			Optional: Optional{
				Interests:   []string{},
				Uninterests: []string{},
			},
		},
	}
}

// Complete reports whether all six mandatory fields are present and non-empty.
// Optional preferences never participate in the check.
func (d Document) Complete() bool {
	r := d.Requirements
	return r.DestinationCity != "" &&
		r.TripDates.StartDate != "" &&
		r.TripDates.EndDate != "" &&
		r.DurationDays > 0 &&
		r.BudgetTotalSGD > 0 &&
		r.Pace != ""
}

// HasAnyProgress reports whether at least one headline field has been collected.
// Used to tailor off-topic redirects toward already-known details.
func (d Document) HasAnyProgress() bool {
	r := d.Requirements
	return r.DestinationCity != "" || r.TripDates.StartDate != "" || r.BudgetTotalSGD > 0
}
