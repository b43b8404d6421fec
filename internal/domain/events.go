package domain

import "time"

// EventKind identifies what happened during a run.
type EventKind string

const (
	EventRunStarted     EventKind = "run_started"
	EventRowSkipped     EventKind = "row_skipped"
	EventNoCredits      EventKind = "no_credits"
	EventCreditsFound   EventKind = "credits_found"
	EventDateClamped    EventKind = "date_clamped"
	EventMatchFound     EventKind = "match_found"
	EventStatusAssigned EventKind = "status_assigned"
	EventRunFinished    EventKind = "run_finished"
)

// Event is a structured observation emitted by the reconciliation core.
// Fields irrelevant to Kind are left zero.
type Event struct {
	Kind         EventKind
	RunID        string
	Identifier   string
	Err          error
	ExpectedDate time.Time
	PaymentDate  time.Time
	Status       Status
	Count        int
}
