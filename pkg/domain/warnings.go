package domain

import "fmt"

// WarningCode classifies a degraded condition recorded during generation.
type WarningCode string

const (
	WarnFilterRelaxed      WarningCode = "filter_relaxed"
	WarnFilterExhausted    WarningCode = "filter_exhausted"
	WarnClientDropped      WarningCode = "client_dropped"
	WarnInvalidExercise    WarningCode = "invalid_exercise"
	WarnSharedShortfall    WarningCode = "shared_shortfall"
	WarnNoSharedCandidates WarningCode = "no_shared_candidates"
	WarnEmptyCandidates    WarningCode = "empty_individual_candidates"
	WarnAssignmentGap      WarningCode = "assignment_gap"
	WarnUnplacedRequest    WarningCode = "unplaced_request"
	WarnCohesionShortfall  WarningCode = "cohesion_shortfall"
)

// Warning is a non-fatal finding attached to a Blueprint.
type Warning struct {
	Code     WarningCode `json:"code"`
	BlockID  string      `json:"block_id,omitempty"`
	ClientID string      `json:"client_id,omitempty"`
	Message  string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}
