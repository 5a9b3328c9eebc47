package domain

// ScoreBreakdown records how a client's score was composed.
// Penalties are stored as positive magnitudes and subtracted.
type ScoreBreakdown struct {
	Base                float64 `json:"base"`
	IncludeBoost        float64 `json:"include_boost"`
	MuscleTargetBonus   float64 `json:"muscle_target_bonus"`
	MuscleLessenPenalty float64 `json:"muscle_lessen_penalty"`
	IntensityAdjustment float64 `json:"intensity_adjustment"`
	Total               float64 `json:"total"` // before clamping
}

// ScoredExercise is an Exercise ranked for one client.
type ScoredExercise struct {
	Exercise
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"score_breakdown"`
}

// ClientScore is one client's view of a group candidate.
type ClientScore struct {
	ClientID        string  `json:"client_id"`
	IndividualScore float64 `json:"individual_score"`
	HasExercise     bool    `json:"has_exercise"`
}

// GroupScoredExercise is an exercise ranked for the whole group.
type GroupScoredExercise struct {
	Exercise
	ClientsSharing []string      `json:"clients_sharing"`
	ClientScores   []ClientScore `json:"client_scores"`
	AverageScore   float64       `json:"average_score"`
	CohesionBonus  float64       `json:"cohesion_bonus"`
	GroupScore     float64       `json:"group_score"`
}

// SharedBy reports whether the given client holds this candidate.
func (g GroupScoredExercise) SharedBy(clientID string) bool {
	for _, id := range g.ClientsSharing {
		if id == clientID {
			return true
		}
	}
	return false
}

// CohesionAnalysis summarizes how much of a block's pool the group has in common.
type CohesionAnalysis struct {
	FullGroup         int     `json:"full_group"` // candidates held by every client
	Majority          int     `json:"majority"`   // more than half, not everyone
	Minority          int     `json:"minority"`   // at least two, at most half
	AverageClientsPer float64 `json:"average_clients_per_exercise"`
	Score             float64 `json:"score"` // 0..1
}
