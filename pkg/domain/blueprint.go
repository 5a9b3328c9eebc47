package domain

// BlockSlots is the slot allocation of one block.
// Total counts group seats: MaxExercises for every client.
type BlockSlots struct {
	Total                 int            `json:"total"`
	TargetShared          int            `json:"target_shared"`
	ActualSharedAvailable int            `json:"actual_shared_available"`
	IndividualPerClient   int            `json:"individual_per_client"`
	PerClient             map[string]int `json:"per_client"`
	CohesionBoost         bool           `json:"cohesion_boost,omitempty"`
}

// Block is a template block together with its allocation for this run.
type Block struct {
	BlockDefinition
	Slots BlockSlots `json:"slots"`
}

// AssignmentReason explains why an exercise was placed.
type AssignmentReason string

const (
	ReasonTopScore      AssignmentReason = "top_score"
	ReasonClientRequest AssignmentReason = "client_request"
	ReasonMuscleTarget  AssignmentReason = "muscle_target"
)

// Assignment places one exercise for one client in a block.
type Assignment struct {
	ClientID     string           `json:"client_id"`
	ExerciseID   string           `json:"exercise_id"`
	ExerciseName string           `json:"exercise_name"`
	Reason       AssignmentReason `json:"reason"`
	Score        float64          `json:"score"`
}

// BlockPlan is the engine's output for one block.
type BlockPlan struct {
	Block                Block                       `json:"block"`
	SharedCandidates     []GroupScoredExercise       `json:"shared_candidates"`
	IndividualCandidates map[string][]ScoredExercise `json:"individual_candidates"`
	Assignments          []Assignment                `json:"assignments"`
	OpenSlots            map[string]int              `json:"open_slots,omitempty"`
	Cohesion             CohesionAnalysis            `json:"cohesion"`
}

// AssignmentsFor returns the assignments of one client in this block.
func (p BlockPlan) AssignmentsFor(clientID string) []Assignment {
	var out []Assignment
	for _, a := range p.Assignments {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out
}

// CohesionStatus reports a client's progress toward its shared-exercise target.
type CohesionStatus string

const (
	CohesionOnTrack   CohesionStatus = "on_track"
	CohesionSatisfied CohesionStatus = "satisfied"
	CohesionNeedsMore CohesionStatus = "needs_more"
)

// ClientCohesion is the cohesion tracker's final state for one client.
type ClientCohesion struct {
	ClientID      string         `json:"client_id"`
	CohesionRatio float64        `json:"cohesion_ratio"`
	TargetShared  int            `json:"target_shared"`
	CurrentShared int            `json:"current_shared"`
	Status        CohesionStatus `json:"status"`
}

// Shortfall is how many shared exercises the client still misses.
func (c ClientCohesion) Shortfall() int {
	if d := c.TargetShared - c.CurrentShared; d > 0 {
		return d
	}
	return 0
}

// Blueprint is the complete, serializable result of one generation run.
// It holds no live references and may be cached, logged or sent as is.
type Blueprint struct {
	SessionID          string              `json:"session_id"`
	BusinessID         string              `json:"business_id,omitempty"`
	TemplateType       string              `json:"template_type"`
	ClientIDs          []string            `json:"client_ids"`
	Blocks             []BlockPlan         `json:"blocks"`
	CohesionTracking   []ClientCohesion    `json:"cohesion_tracking"`
	UnplacedRequests   map[string][]string `json:"unplaced_requests,omitempty"`
	ValidationWarnings []Warning           `json:"validation_warnings"`
}

// Block returns the plan of the block with the given ID.
func (b *Blueprint) Block(id string) (BlockPlan, bool) {
	for _, p := range b.Blocks {
		if p.Block.ID == id {
			return p, true
		}
	}
	return BlockPlan{}, false
}

// AssignmentsFor returns every assignment of one client, in block order.
func (b *Blueprint) AssignmentsFor(clientID string) []Assignment {
	var out []Assignment
	for _, p := range b.Blocks {
		out = append(out, p.AssignmentsFor(clientID)...)
	}
	return out
}

// WarningsWith returns the warnings carrying the given code.
func (b *Blueprint) WarningsWith(code WarningCode) []Warning {
	var out []Warning
	for _, w := range b.ValidationWarnings {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}
