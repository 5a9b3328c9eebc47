package templates

import (
	"fmt"

	"github.com/aretw0/blueprint/pkg/domain"
)

// Built-in template types.
const (
	FullBodyBMF     = "full_body_bmf"
	FullBody        = "full_body"
	Workout         = "workout"
	CircuitTraining = "circuit_training"
)

// DefaultType is used when a session does not name a template.
const DefaultType = FullBodyBMF

var strengthPatterns = []string{"squat", "hinge", "horizontal_push", "vertical_push", "horizontal_pull", "vertical_pull"}

func fullBodyBMF() domain.Template {
	return domain.Template{
		Type:        FullBodyBMF,
		Name:        "Full Body BMF",
		Description: "Four sequential rounds with movement pattern filtering",
		Blocks: []domain.BlockDefinition{
			{
				ID:                    "Round1",
				Name:                  "Round 1",
				FunctionTags:          []string{"primary_strength", "secondary_strength"},
				MovementPatternFilter: []string{"squat", "hinge", "lunge"},
				MaxExercises:          1,
				CandidateCount:        1,
				SelectionStrategy:     domain.StrategyDeterministic,
			},
			{
				ID:                    "Round2",
				Name:                  "Round 2",
				MovementPatternFilter: []string{"vertical_pull", "horizontal_pull"},
				MaxExercises:          1,
				CandidateCount:        1,
				SelectionStrategy:     domain.StrategyDeterministic,
			},
			{
				ID:                "Round3",
				Name:              "Round 3",
				MaxExercises:      2,
				CandidateCount:    8,
				SharedRatio:       0.5,
				SelectionStrategy: domain.StrategyRequestDriven,
			},
			{
				ID:                "FinalRound",
				Name:              "Final Round",
				FunctionTags:      []string{"core", "capacity"},
				MaxExercises:      2,
				CandidateCount:    8,
				SharedRatio:       0.5,
				SelectionStrategy: domain.StrategyRequestDriven,
			},
		},
	}
}

func strengthBlocks() []domain.BlockDefinition {
	return []domain.BlockDefinition{
		{
			ID:                    "A",
			Name:                  "Block A - Primary Strength",
			FunctionTags:          []string{"primary_strength"},
			MovementPatternFilter: strengthPatterns,
			MaxExercises:          5,
			SelectionStrategy:     domain.StrategyDeterministic,
		},
		{
			ID:                    "B",
			Name:                  "Block B - Secondary Strength",
			FunctionTags:          []string{"secondary_strength"},
			MovementPatternFilter: append([]string{"lunge"}, strengthPatterns...),
			MaxExercises:          8,
			SharedRatio:           0.5,
			SelectionStrategy:     domain.StrategyRequestDriven,
		},
		{
			ID:                "C",
			Name:              "Block C - Accessory",
			FunctionTags:      []string{"accessory"},
			MaxExercises:      8,
			SharedRatio:       0.5,
			SelectionStrategy: domain.StrategyRequestDriven,
		},
		{
			ID:                "D",
			Name:              "Block D - Core & Capacity",
			FunctionTags:      []string{"core", "capacity"},
			MaxExercises:      6,
			SharedRatio:       0.5,
			SelectionStrategy: domain.StrategyRequestDriven,
		},
	}
}

func circuit() domain.Template {
	t := domain.Template{
		Type:        CircuitTraining,
		Name:        "Circuit Training",
		Description: "Six single-exercise rounds",
	}
	for i := 1; i <= 6; i++ {
		t.Blocks = append(t.Blocks, domain.BlockDefinition{
			ID:                fmt.Sprintf("Round%d", i),
			Name:              fmt.Sprintf("Round %d", i),
			FunctionTags:      []string{"primary_strength"},
			MaxExercises:      1,
			SharedRatio:       0.5,
			SelectionStrategy: domain.StrategyRequestDriven,
		})
	}
	return t
}

// Builtin returns fresh copies of the bundled templates.
func Builtin() []domain.Template {
	return []domain.Template{
		fullBodyBMF(),
		{Type: FullBody, Name: "Full Body Workout", Description: "Balanced full body workout", Blocks: strengthBlocks()},
		{Type: Workout, Name: "Standard Workout", Description: "Strength training with four blocks", Blocks: strengthBlocks()},
		circuit(),
	}
}
